package portfolio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/yusuketakei/tickets/internal/binary"
	"github.com/yusuketakei/tickets/internal/directory"
	"github.com/yusuketakei/tickets/internal/models"
	"github.com/yusuketakei/tickets/internal/rates"
	"github.com/yusuketakei/tickets/internal/services/mock"
)

const (
	aliceAddress = "0x2ece2166f3232a49345bb99e8481121a448661f9"
	bobAddress   = "0xd39884029517d044d03c5e0889832b41c60e19d4"
	issuer       = "0x5a0b54d5dc17e0aadc383d2db43b0a0d3e029c4c"
)

// countingContract records how many times the contract was read
type countingContract struct {
	*mock.MockContract
	listCalls int
}

func (c *countingContract) TokensOfOwner(ctx context.Context, owner string) ([]uint64, error) {
	c.listCalls++
	return c.MockContract.TokensOfOwner(ctx, owner)
}

func newTestDashboard(t *testing.T) (*Dashboard, *countingContract) {
	t.Helper()

	codec := binary.NewCodec("_", 6)
	contract := &countingContract{MockContract: mock.NewMockContract(codec, false)}
	for i, category := range []string{"A", "B", "A"} {
		contract.AddTicket(aliceAddress, mock.Ticket{
			ID:         uint64(i + 1),
			InternalID: uint64(100 + i),
			Category:   category,
			Issuer:     issuer,
			IssuedAt:   1609459200123,
		})
	}

	ratePath := filepath.Join(t.TempDir(), "rate.json")
	if err := os.WriteFile(ratePath, []byte(`{"USDtoJPY": 110.25}`), 0o644); err != nil {
		t.Fatalf("Failed to write rate file: %v", err)
	}

	users := directory.NewStaticResolver([]models.UserProfile{
		{UserID: "1", DisplayName: "Alice", Address: aliceAddress},
		{UserID: "2", DisplayName: "Bob", Address: bobAddress},
	})
	transfer := NewTransferExecutor(contract, aliceAddress, 3000000, nil, false)
	return NewDashboard(contract, users, codec, rates.NewBook(ratePath), transfer, false), contract
}

func TestResolveUserID(t *testing.T) {
	tests := []struct {
		query, session, want string
	}{
		{"2", "1", "2"},
		{"", "1", "1"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := ResolveUserID(tt.query, tt.session); got != tt.want {
			t.Errorf("ResolveUserID(%q, %q) = %q, want %q", tt.query, tt.session, got, tt.want)
		}
	}
}

func TestOverview(t *testing.T) {
	d, _ := newTestDashboard(t)

	overview, err := d.Overview(context.Background(), "1")
	if err != nil {
		t.Fatalf("Overview error: %v", err)
	}
	if !overview.Found || overview.User.DisplayName != "Alice" {
		t.Fatalf("unexpected user: %+v (found %v)", overview.User, overview.Found)
	}
	if len(overview.Tickets) != 3 {
		t.Fatalf("expected 3 tickets, got %d", len(overview.Tickets))
	}
	for i, tk := range overview.Tickets {
		if tk.TicketID != uint64(i+1) {
			t.Errorf("ticket %d has id %d, contract order not kept", i, tk.TicketID)
		}
		if tk.TicketIssuer != issuer || tk.IssueTime != 1609459200000 {
			t.Errorf("ticket %d decoded as %+v", i, tk)
		}
	}
	if got := overview.Categories.Keys(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("category order = %v, want [A B]", got)
	}
}

func TestOverviewUnknownUser(t *testing.T) {
	d, contract := newTestDashboard(t)

	for _, id := range []string{"999", ""} {
		overview, err := d.Overview(context.Background(), id)
		if err != nil {
			t.Fatalf("Overview(%q) error: %v", id, err)
		}
		if overview.Found || !overview.User.IsZero() {
			t.Errorf("Overview(%q) found a user: %+v", id, overview.User)
		}
		if overview.Categories.Len() != 0 {
			t.Errorf("Overview(%q) has %d categories", id, overview.Categories.Len())
		}
	}
	if contract.listCalls != 0 {
		t.Errorf("contract was called %d times for unknown users", contract.listCalls)
	}
}

func TestOverviewAbortsOnMalformedTicket(t *testing.T) {
	d, contract := newTestDashboard(t)

	tuple, err := contract.GetTicketInfoByID(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetTicketInfoByID error: %v", err)
	}
	tuple[2] = "0xzz"
	contract.SetRawTicket(2, tuple)

	overview, err := d.Overview(context.Background(), "1")
	if overview != nil {
		t.Errorf("expected no overview, got %+v", overview)
	}
	var de *binary.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Overview error = %v, want *binary.DecodeError", err)
	}
}

func TestTransaction(t *testing.T) {
	d, contract := newTestDashboard(t)
	contract.AddTransaction(models.TransactionInfo{
		TransactionID: 5,
		FromCurrency:  "USD",
		ToCurrency:    "JPY",
		Timestamp:     1609459200123,
	})

	tx, err := d.Transaction(context.Background(), 5)
	if err != nil {
		t.Fatalf("Transaction error: %v", err)
	}
	if tx.TransactionID != 5 || tx.FromCurrency != "USD" || tx.Timestamp != 1609459200000 {
		t.Errorf("unexpected transaction: %+v", tx)
	}

	if _, err := d.Transaction(context.Background(), 6); err == nil {
		t.Error("expected an error for a missing transaction")
	}
}

func TestRate(t *testing.T) {
	d, _ := newTestDashboard(t)

	rate, ok, err := d.Rate("USD", "JPY")
	if err != nil || !ok {
		t.Fatalf("Rate(USD, JPY) = %s, %v, %v", rate, ok, err)
	}
	if rate.String() != "110.25" {
		t.Errorf("Rate = %s, want 110.25", rate)
	}

	_, ok, err = d.Rate("JPY", "EUR")
	if err != nil || ok {
		t.Errorf("Rate(JPY, EUR) ok = %v, err = %v; want false, nil", ok, err)
	}
}

func TestTransferMovesTicket(t *testing.T) {
	d, _ := newTestDashboard(t)
	ctx := context.Background()

	hash, err := d.Transfer(ctx, models.TransferInstruction{ToAddress: bobAddress, TicketID: 2})
	if err != nil {
		t.Fatalf("Transfer error: %v", err)
	}
	if hash == "" {
		t.Error("Transfer returned an empty hash")
	}

	bob, err := d.Overview(ctx, "2")
	if err != nil {
		t.Fatalf("Overview error: %v", err)
	}
	if len(bob.Tickets) != 1 || bob.Tickets[0].TicketID != 2 {
		t.Errorf("Bob holds %+v, want ticket 2", bob.Tickets)
	}

	alice, err := d.Overview(ctx, "1")
	if err != nil {
		t.Fatalf("Overview error: %v", err)
	}
	a, _ := alice.Categories.Get("A")
	if _, hasB := alice.Categories.Get("B"); hasB || a.OwnedCount != 2 {
		t.Errorf("Alice categories after transfer = %v", alice.Categories.Keys())
	}
}
