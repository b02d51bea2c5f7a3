package market

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Kind classifies a journal entry.
type Kind string

const (
	KindTransfer Kind = "transfer"
	KindTrade    Kind = "trade"
	KindCraft    Kind = "craft"
)

// Entry is one audited exchange outcome.
//
// Subject is the item id (transfer), trade entry id (trade) or recipe id
// (craft). Amount is units moved, multiplier or crafts performed.
type Entry struct {
	Kind    Kind
	Source  string
	Target  string
	Subject string
	Amount  uint32
	Success bool
	Message string
	At      time.Time
}

// Journal records exchange outcomes. It is append-only; containers are
// never rebuilt from it.
type Journal interface {
	Record(ctx context.Context, e Entry) error
}

// MemoryJournal keeps entries in process memory.
type MemoryJournal struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryJournal creates an empty in-memory journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

// Record appends e.
func (j *MemoryJournal) Record(_ context.Context, e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return nil
}

// Entries returns a copy of the recorded entries in append order.
func (j *MemoryJournal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return slices.Clone(j.entries)
}

// Len returns the number of recorded entries.
func (j *MemoryJournal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}
