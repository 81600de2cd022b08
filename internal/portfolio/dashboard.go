package portfolio

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/yusuketakei/tickets/internal/binary"
	"github.com/yusuketakei/tickets/internal/interfaces"
	"github.com/yusuketakei/tickets/internal/models"
	"github.com/yusuketakei/tickets/internal/rates"
	"github.com/yusuketakei/tickets/internal/transaction"
)

// Overview is everything the list page shows for one user
type Overview struct {
	User       models.UserProfile  `json:"user"`
	Found      bool                `json:"found"`
	Tickets    []models.TicketInfo `json:"tickets"`
	Categories *models.CategoryMap `json:"categories"`
}

// Dashboard ties the contract, the user directory and the rate file together
type Dashboard struct {
	contract interfaces.ContractService
	users    interfaces.UserResolver
	codec    *binary.Codec
	rates    *rates.Book
	transfer *TransferExecutor
	verbose  bool
}

// NewDashboard creates a dashboard over the given services
func NewDashboard(
	contract interfaces.ContractService,
	users interfaces.UserResolver,
	codec *binary.Codec,
	rateBook *rates.Book,
	transfer *TransferExecutor,
	verbose bool,
) *Dashboard {
	return &Dashboard{
		contract: contract,
		users:    users,
		codec:    codec,
		rates:    rateBook,
		transfer: transfer,
		verbose:  verbose,
	}
}

// ResolveUserID picks the query parameter, then the session value, then ""
func ResolveUserID(query, session string) string {
	if query != "" {
		return query
	}
	return session
}

// Overview resolves the user and lists their tickets by category.
// An unknown user yields an empty overview without touching the contract.
func (d *Dashboard) Overview(ctx context.Context, userID string) (*Overview, error) {
	profile, found, err := d.users.Resolve(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	overview := &Overview{
		User:       profile,
		Found:      found,
		Tickets:    make([]models.TicketInfo, 0),
		Categories: models.NewCategoryMap(),
	}
	if !found {
		if d.verbose {
			log.Printf("[DASHBOARD] Unknown user %q", userID)
		}
		return overview, nil
	}

	tickets, err := d.OwnedTickets(ctx, profile.Address)
	if err != nil {
		return nil, err
	}
	overview.Tickets = tickets
	overview.Categories = Aggregate(tickets)

	if d.verbose {
		log.Printf("[DASHBOARD] User %s holds %d tickets in %d categories",
			profile.UserID, len(tickets), overview.Categories.Len())
	}
	return overview, nil
}

// OwnedTickets fetches and decodes every ticket held by address, one
// contract round trip per id, in the order the contract lists them.
// The first failure aborts the listing; a partial list is never returned.
//
// Fetching ids concurrently or through a batch call would cut latency for
// large holdings, as long as the results are put back in contract order.
func (d *Dashboard) OwnedTickets(ctx context.Context, address string) ([]models.TicketInfo, error) {
	ids, err := d.contract.TokensOfOwner(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets of %s: %w", address, err)
	}

	tickets := make([]models.TicketInfo, 0, len(ids))
	for _, id := range ids {
		tuple, err := d.contract.GetTicketInfoByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch ticket %d: %w", id, err)
		}
		info, err := d.codec.DecodeTicket(tuple)
		if err != nil {
			return nil, fmt.Errorf("ticket %d: %w", id, err)
		}
		tickets = append(tickets, *info)
	}
	return tickets, nil
}

// Transaction fetches and decodes one transfer record
func (d *Dashboard) Transaction(ctx context.Context, transactionID uint64) (*models.TransactionInfo, error) {
	tuple, err := d.contract.GetTransactionInfo(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction %d: %w", transactionID, err)
	}
	tx, err := d.codec.DecodeTransaction(tuple)
	if err != nil {
		return nil, fmt.Errorf("transaction %d: %w", transactionID, err)
	}
	return tx, nil
}

// Transfer hands the instruction to the transfer executor
func (d *Dashboard) Transfer(ctx context.Context, instr models.TransferInstruction) (string, error) {
	return d.transfer.Execute(ctx, instr)
}

// RecentTransfers lists the transfers this process has attempted
func (d *Dashboard) RecentTransfers() []transaction.Record {
	return d.transfer.Recent()
}

// Rate looks a currency pair up in the rate file
func (d *Dashboard) Rate(fromCurrency, toCurrency string) (decimal.Decimal, bool, error) {
	return d.rates.Lookup(fromCurrency, toCurrency)
}

// Codec exposes the codec so callers can render rates the way the contract stores them
func (d *Dashboard) Codec() *binary.Codec {
	return d.codec
}
