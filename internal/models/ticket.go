package models

import (
	"github.com/shopspring/decimal"
)

// RawTuple is one contract return value, one 0x-prefixed hex string per fixed-width field.
type RawTuple []string

// TicketInfo is a decoded getTicketInfoById tuple
type TicketInfo struct {
	TicketID           uint64 `json:"ticket_id"`
	TicketInternalID   uint64 `json:"ticket_internal_id"`
	TicketCategoryName string `json:"ticket_category_name"`
	IPFSHashFirst      string `json:"ipfs_hash_first"`
	IPFSHashSecond     string `json:"ipfs_hash_second"`
	TicketIssuer       string `json:"ticket_issuer"`
	IssueTime          int64  `json:"issue_time"`
}

// TransactionInfo is a decoded getTransactionInfo tuple
type TransactionInfo struct {
	TransactionID         uint64          `json:"transaction_id"`
	TransactionStatus     uint64          `json:"transaction_status"`
	TransactionType       uint64          `json:"transaction_type"`
	FromAccountNo         string          `json:"from_account_no"`
	ToAccountNo           string          `json:"to_account_no"`
	FromAccountHolderName string          `json:"from_account_holder_name"`
	ToAccountHolderName   string          `json:"to_account_holder_name"`
	FromCurrency          string          `json:"from_currency"`
	ToCurrency            string          `json:"to_currency"`
	Rate                  decimal.Decimal `json:"rate"`
	FromPrinc             uint64          `json:"from_princ"`
	ToPrinc               uint64          `json:"to_princ"`
	Timestamp             int64           `json:"timestamp"`
}

// UserProfile identifies a dashboard user and the address holding their tickets.
// The zero value means "no such user".
type UserProfile struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Address     string `json:"address"`
}

func (u UserProfile) IsZero() bool {
	return u == UserProfile{}
}

// TransferInstruction is what the transfer form submits
type TransferInstruction struct {
	FromAccountNo         string          `json:"from_account_no"`
	ToAccountNo           string          `json:"to_account_no"`
	FromAccountHolderName string          `json:"from_account_holder_name"`
	ToAccountHolderName   string          `json:"to_account_holder_name"`
	FromPrinc             string          `json:"from_princ"`
	FromCurrency          string          `json:"from_currency"`
	ToAddress             string          `json:"to_address"`
	TicketID              uint64          `json:"ticket_id"`
	TransactionType       uint64          `json:"transaction_type"`
	Rate                  decimal.Decimal `json:"rate"`
}

// TransferCall is the state-changing contract call sent for a transfer
type TransferCall struct {
	From     string
	Gas      uint64
	To       string
	TicketID uint64
}
