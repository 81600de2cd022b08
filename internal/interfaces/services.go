package interfaces

import (
	"context"
	"errors"

	"github.com/yusuketakei/tickets/internal/models"
)

var (
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// ContractService is the ticket contract as seen from the dashboard.
// Read calls return raw tuples; decoding happens in internal/binary.
type ContractService interface {
	TokensOfOwner(ctx context.Context, owner string) ([]uint64, error)
	GetTicketInfoByID(ctx context.Context, ticketID uint64) (models.RawTuple, error)
	GetTransactionInfo(ctx context.Context, transactionID uint64) (models.RawTuple, error)

	// Transfer submits the transaction and returns its hash once the node
	// accepts it. It does not wait for the transaction to be mined.
	Transfer(ctx context.Context, call models.TransferCall) (string, error)
}

// UserResolver maps a dashboard user id to a profile.
// Unknown ids return ok == false and a nil error.
type UserResolver interface {
	Resolve(ctx context.Context, userID string) (profile models.UserProfile, ok bool, err error)
}
