package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/yusuketakei/tickets/internal/binary"
	"github.com/yusuketakei/tickets/internal/interfaces"
	"github.com/yusuketakei/tickets/internal/models"
	"github.com/yusuketakei/tickets/internal/transaction"
)

var errInvalidAddress = errors.New("to address must be a 0x-prefixed 20 byte hex address")

// TransferError reports a transfer that was rejected before or by the contract
type TransferError struct {
	Op       string // "validate" or "submit"
	TicketID uint64
	Err      error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer of ticket %d failed (%s): %v", e.TicketID, e.Op, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// TransferExecutor submits ticket transfers from the configured sender
type TransferExecutor struct {
	contract interfaces.ContractService
	from     string
	gas      uint64
	journal  *transaction.Manager
	verbose  bool
}

// NewTransferExecutor creates an executor. journal may be nil.
func NewTransferExecutor(
	contract interfaces.ContractService,
	from string,
	gas uint64,
	journal *transaction.Manager,
	verbose bool,
) *TransferExecutor {
	return &TransferExecutor{
		contract: contract,
		from:     from,
		gas:      gas,
		journal:  journal,
		verbose:  verbose,
	}
}

// Execute validates instr and sends one transfer call. It returns once the
// node accepts or rejects the transaction. Nothing is retried.
func (e *TransferExecutor) Execute(ctx context.Context, instr models.TransferInstruction) (string, error) {
	if !binary.IsAddress(instr.ToAddress) {
		return "", &TransferError{Op: "validate", TicketID: instr.TicketID, Err: errInvalidAddress}
	}

	if e.verbose {
		log.Printf("[TRANSFER] Sending ticket %d to %s (account %s -> %s, %s %s)",
			instr.TicketID, instr.ToAddress, instr.FromAccountNo, instr.ToAccountNo,
			instr.FromPrinc, instr.FromCurrency)
	}

	hash, err := e.contract.Transfer(ctx, models.TransferCall{
		From:     e.from,
		Gas:      e.gas,
		To:       instr.ToAddress,
		TicketID: instr.TicketID,
	})
	if err != nil {
		if e.verbose {
			log.Printf("[TRANSFER] Ticket %d rejected: %v", instr.TicketID, err)
		}
		if e.journal != nil {
			e.journal.RecordFailed(instr, err)
		}
		return "", &TransferError{Op: "submit", TicketID: instr.TicketID, Err: err}
	}

	if e.verbose {
		log.Printf("[TRANSFER] Ticket %d submitted: %s", instr.TicketID, hash)
	}
	if e.journal != nil {
		e.journal.RecordSubmitted(hash, instr)
	}
	return hash, nil
}

// Recent returns the journaled transfers, newest first
func (e *TransferExecutor) Recent() []transaction.Record {
	if e.journal == nil {
		return nil
	}
	return e.journal.Recent()
}
