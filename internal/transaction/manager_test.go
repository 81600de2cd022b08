package transaction

import (
	"errors"
	"testing"
	"time"

	"github.com/yusuketakei/tickets/internal/models"
)

func TestRecentNewestFirst(t *testing.T) {
	m := NewManager(time.Hour, false)

	m.RecordSubmitted("0xaa", models.TransferInstruction{TicketID: 1, ToAddress: "0x1"})
	m.RecordFailed(models.TransferInstruction{TicketID: 2, ToAddress: "0x2"}, errors.New("execution reverted"))

	recent := m.Recent()
	if len(recent) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recent))
	}
	if recent[0].TicketID != 2 || recent[0].Status != StatusFailed || recent[0].Error != "execution reverted" {
		t.Errorf("unexpected newest record: %+v", recent[0])
	}
	if recent[1].Hash != "0xaa" || recent[1].Status != StatusSubmitted {
		t.Errorf("unexpected oldest record: %+v", recent[1])
	}
}

func TestCleanupExpired(t *testing.T) {
	now := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManager(5*time.Minute, false)
	m.now = func() time.Time { return now }

	m.RecordSubmitted("0xold", models.TransferInstruction{TicketID: 1})
	now = now.Add(4 * time.Minute)
	m.RecordSubmitted("0xnew", models.TransferInstruction{TicketID: 2})
	now = now.Add(2 * time.Minute)

	m.CleanupExpired()

	recent := m.Recent()
	if len(recent) != 1 || recent[0].Hash != "0xnew" {
		t.Errorf("records after cleanup = %+v", recent)
	}
}
