package binary

import (
	"fmt"

	"github.com/yusuketakei/tickets/internal/models"
)

const (
	TicketFields      = 7
	TransactionFields = 13
)

// DecodeTicket builds a TicketInfo from a getTicketInfoById tuple.
// A single bad field fails the whole record.
func (c *Codec) DecodeTicket(tuple models.RawTuple) (*models.TicketInfo, error) {
	if len(tuple) != TicketFields {
		return nil, tupleLengthError(tuple, TicketFields)
	}

	var (
		info models.TicketInfo
		err  error
	)
	if info.TicketID, err = HexToUint(tuple[0]); err != nil {
		return nil, renamed("ticketId", err)
	}
	if info.TicketInternalID, err = HexToUint(tuple[1]); err != nil {
		return nil, renamed("ticketInternalId", err)
	}
	if info.TicketCategoryName, err = HexToText(tuple[2]); err != nil {
		return nil, renamed("ticketCategoryName", err)
	}
	if info.IPFSHashFirst, err = HexToText(tuple[3]); err != nil {
		return nil, renamed("ipfsHashFirst", err)
	}
	if info.IPFSHashSecond, err = HexToText(tuple[4]); err != nil {
		return nil, renamed("ipfsHashSecond", err)
	}
	if info.TicketIssuer, err = HexToAddress(tuple[5]); err != nil {
		return nil, renamed("ticketIssuer", err)
	}
	if info.IssueTime, err = HexToEpochSeconds(tuple[6]); err != nil {
		return nil, renamed("issueTime", err)
	}

	return &info, nil
}

// DecodeTransaction builds a TransactionInfo from a getTransactionInfo tuple
func (c *Codec) DecodeTransaction(tuple models.RawTuple) (*models.TransactionInfo, error) {
	if len(tuple) != TransactionFields {
		return nil, tupleLengthError(tuple, TransactionFields)
	}

	var (
		tx  models.TransactionInfo
		err error
	)

	uints := []struct {
		name string
		dst  *uint64
		idx  int
	}{
		{"transactionId", &tx.TransactionID, 0},
		{"transactionStatus", &tx.TransactionStatus, 1},
		{"transactionType", &tx.TransactionType, 2},
		{"fromPrinc", &tx.FromPrinc, 10},
		{"toPrinc", &tx.ToPrinc, 11},
	}
	for _, f := range uints {
		if *f.dst, err = HexToUint(tuple[f.idx]); err != nil {
			return nil, renamed(f.name, err)
		}
	}

	texts := []struct {
		name string
		dst  *string
		idx  int
	}{
		{"fromAccountNo", &tx.FromAccountNo, 3},
		{"toAccountNo", &tx.ToAccountNo, 4},
		{"fromAccountHolderName", &tx.FromAccountHolderName, 5},
		{"toAccountHolderName", &tx.ToAccountHolderName, 6},
		{"fromCurrency", &tx.FromCurrency, 7},
		{"toCurrency", &tx.ToCurrency, 8},
	}
	for _, f := range texts {
		if *f.dst, err = HexToText(tuple[f.idx]); err != nil {
			return nil, renamed(f.name, err)
		}
	}

	if tx.Rate, err = c.HexToRate(tuple[9]); err != nil {
		return nil, err
	}
	if tx.Timestamp, err = HexToEpochSeconds(tuple[12]); err != nil {
		return nil, renamed("timestamp", err)
	}

	return &tx, nil
}

func tupleLengthError(tuple models.RawTuple, want int) error {
	return &DecodeError{
		Field: "tuple",
		Input: fmt.Sprintf("%d fields", len(tuple)),
		Err:   fmt.Errorf("expected %d fields", want),
	}
}
