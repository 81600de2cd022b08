package transaction

import (
	"log"
	"sync"
	"time"

	"github.com/yusuketakei/tickets/internal/models"
)

// Status is the outcome of a transfer as far as this process knows it
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusFailed    Status = "failed"
)

// Record is one transfer attempt
type Record struct {
	Hash        string    `json:"hash,omitempty"`
	TicketID    uint64    `json:"ticket_id"`
	ToAddress   string    `json:"to_address"`
	Status      Status    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
	Error       string    `json:"error,omitempty"`
}

// Manager keeps recent transfer attempts so the dashboard can show them.
// Records older than the retention window are dropped by CleanupExpired.
type Manager struct {
	records   []*Record
	mutex     sync.RWMutex
	retention time.Duration
	verbose   bool
	now       func() time.Time
}

// NewManager creates a new transfer journal
func NewManager(retention time.Duration, verbose bool) *Manager {
	return &Manager{
		records:   make([]*Record, 0),
		retention: retention,
		verbose:   verbose,
		now:       time.Now,
	}
}

// RecordSubmitted notes a transfer the node accepted
func (m *Manager) RecordSubmitted(hash string, instr models.TransferInstruction) {
	m.add(&Record{
		Hash:      hash,
		TicketID:  instr.TicketID,
		ToAddress: instr.ToAddress,
		Status:    StatusSubmitted,
	})

	if m.verbose {
		log.Printf("[TRANSACTION] Ticket %d submitted: %s", instr.TicketID, hash)
	}
}

// RecordFailed notes a transfer that was rejected
func (m *Manager) RecordFailed(instr models.TransferInstruction, err error) {
	m.add(&Record{
		TicketID:  instr.TicketID,
		ToAddress: instr.ToAddress,
		Status:    StatusFailed,
		Error:     err.Error(),
	})

	if m.verbose {
		log.Printf("[TRANSACTION] Ticket %d failed: %v", instr.TicketID, err)
	}
}

func (m *Manager) add(r *Record) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	r.SubmittedAt = m.now()
	m.records = append(m.records, r)
}

// Recent returns the retained records, newest first
func (m *Manager) Recent() []Record {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	out := make([]Record, 0, len(m.records))
	for i := len(m.records) - 1; i >= 0; i-- {
		out = append(out, *m.records[i])
	}
	return out
}

// CleanupExpired removes records older than the retention window
func (m *Manager) CleanupExpired() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	cutoff := m.now().Add(-m.retention)

	kept := m.records[:0]
	for _, r := range m.records {
		if r.SubmittedAt.Before(cutoff) {
			if m.verbose {
				log.Printf("[TRANSACTION] Dropping record for ticket %d", r.TicketID)
			}
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
}
