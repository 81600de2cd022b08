package mock

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/yusuketakei/tickets/internal/binary"
	"github.com/yusuketakei/tickets/internal/interfaces"
	"github.com/yusuketakei/tickets/internal/models"
)

// ErrNotOwner is returned when the sender of a transfer does not hold the ticket
var ErrNotOwner = errors.New("sender does not own the ticket")

// Ticket is a ticket as the mock ledger stores it. IssuedAt is in the
// contract's own unit (milliseconds).
type Ticket struct {
	ID             uint64
	InternalID     uint64
	Category       string
	IPFSHashFirst  string
	IPFSHashSecond string
	Issuer         string
	IssuedAt       uint64
}

// MockContract is an in-memory ticket contract for standalone mode and tests
type MockContract struct {
	mu           sync.Mutex
	codec        *binary.Codec
	verbose      bool
	owners       map[string][]uint64
	tickets      map[uint64]models.RawTuple
	transactions map[uint64]models.RawTuple
	txCounter    uint64
	transferErr  error
}

func NewMockContract(codec *binary.Codec, verbose bool) *MockContract {
	return &MockContract{
		codec:        codec,
		verbose:      verbose,
		owners:       make(map[string][]uint64),
		tickets:      make(map[uint64]models.RawTuple),
		transactions: make(map[uint64]models.RawTuple),
	}
}

// AddTicket mints t to owner
func (m *MockContract) AddTicket(owner string, t Ticket) {
	m.SetRawTicket(t.ID, models.RawTuple{
		binary.UintToHex(t.ID),
		binary.UintToHex(t.InternalID),
		binary.TextToHex(t.Category),
		binary.TextToHex(t.IPFSHashFirst),
		binary.TextToHex(t.IPFSHashSecond),
		binary.AddressToHex(t.Issuer),
		binary.UintToHex(t.IssuedAt),
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	key := ownerKey(owner)
	m.owners[key] = append(m.owners[key], t.ID)
}

// SetRawTicket stores a tuple as is, including malformed ones
func (m *MockContract) SetRawTicket(id uint64, tuple models.RawTuple) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets[id] = tuple
}

// AddTransaction stores tx under its id
func (m *MockContract) AddTransaction(tx models.TransactionInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[tx.TransactionID] = models.RawTuple{
		binary.UintToHex(tx.TransactionID),
		binary.UintToHex(tx.TransactionStatus),
		binary.UintToHex(tx.TransactionType),
		binary.TextToHex(tx.FromAccountNo),
		binary.TextToHex(tx.ToAccountNo),
		binary.TextToHex(tx.FromAccountHolderName),
		binary.TextToHex(tx.ToAccountHolderName),
		binary.TextToHex(tx.FromCurrency),
		binary.TextToHex(tx.ToCurrency),
		m.codec.RateToHexBytes(tx.Rate),
		binary.UintToHex(tx.FromPrinc),
		binary.UintToHex(tx.ToPrinc),
		binary.UintToHex(uint64(tx.Timestamp)),
	}
}

// FailTransfers makes every following Transfer return err; nil restores normal behaviour
func (m *MockContract) FailTransfers(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transferErr = err
}

func (m *MockContract) TokensOfOwner(ctx context.Context, owner string) ([]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.owners[ownerKey(owner)]
	if m.verbose {
		log.Printf("[MOCK] Contract: tokensOfOwner(%s) -> %d tickets", owner, len(ids))
	}
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out, nil
}

func (m *MockContract) GetTicketInfoByID(ctx context.Context, ticketID uint64) (models.RawTuple, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tuple, ok := m.tickets[ticketID]
	if !ok {
		return nil, fmt.Errorf("ticket %d: %w", ticketID, interfaces.ErrTicketNotFound)
	}
	return append(models.RawTuple(nil), tuple...), nil
}

func (m *MockContract) GetTransactionInfo(ctx context.Context, transactionID uint64) (models.RawTuple, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tuple, ok := m.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("transaction %d: %w", transactionID, interfaces.ErrTransactionNotFound)
	}
	return append(models.RawTuple(nil), tuple...), nil
}

// Transfer moves the ticket from call.From to call.To. Like the contract, it
// refuses tickets the sender does not hold.
func (m *MockContract) Transfer(ctx context.Context, call models.TransferCall) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.transferErr != nil {
		return "", m.transferErr
	}
	if _, ok := m.tickets[call.TicketID]; !ok {
		return "", fmt.Errorf("ticket %d: %w", call.TicketID, interfaces.ErrTicketNotFound)
	}

	from := ownerKey(call.From)
	ids := m.owners[from]
	held := -1
	for i, id := range ids {
		if id == call.TicketID {
			held = i
			break
		}
	}
	if held < 0 {
		return "", fmt.Errorf("ticket %d from %s: %w", call.TicketID, call.From, ErrNotOwner)
	}
	m.owners[from] = append(ids[:held:held], ids[held+1:]...)

	to := ownerKey(call.To)
	m.owners[to] = append(m.owners[to], call.TicketID)

	m.txCounter++
	hash := binary.UintToHex(uint64(time.Now().UnixNano()) ^ m.txCounter)

	if m.verbose {
		log.Printf("[MOCK] Contract: transfer ticket %d to %s from %s (gas %d) -> %s",
			call.TicketID, call.To, call.From, call.Gas, hash)
	}
	return hash, nil
}

func ownerKey(address string) string {
	return strings.ToLower(address)
}
