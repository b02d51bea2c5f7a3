package model

import "sync"

// Stockpile keeps exactly one stack per item. It backs shop stock: an
// Unlimited stack stays an infinite source, any other stack is stored as
// unbounded Overflow stock. Stacks are never dropped, even at 0.
type Stockpile struct {
	id    string
	state snapshot[stockTable]

	mu sync.RWMutex
}

type stockTable map[string]Stack

func (t stockTable) clone() stockTable {
	out := make(stockTable, len(t))
	for id, s := range t {
		out[id] = s.Clone()
	}
	return out
}

// NewStockpile creates an empty stockpile.
func NewStockpile(id string) *Stockpile {
	return &Stockpile{
		id:    id,
		state: newSnapshot(make(stockTable), stockTable.clone),
	}
}

// ID returns the stockpile identifier.
func (sp *Stockpile) ID() string {
	return sp.id
}

// Add opens the item's stack if it is new, otherwise adds into the existing
// stack.
func (sp *Stockpile) Add(stack Stack) (added, remaining uint32, err error) {
	if stack == nil {
		return 0, 0, ErrNilStack
	}
	amount := stack.Amount()
	if amount == 0 {
		return 0, 0, nil
	}

	sp.mu.Lock()
	defer sp.mu.Unlock()

	table := *sp.state.view()
	existing, ok := table[stack.Item().ID()]
	if !ok {
		table[stack.Item().ID()] = stockOf(stack)
		return amount, 0, nil
	}
	added, remaining = existing.Add(amount)
	return added, remaining, nil
}

func stockOf(stack Stack) Stack {
	if stack.Kind() == StackUnlimited {
		return stack.Clone()
	}
	return NewOverflowStack(stack.Item(), stack.Amount())
}

// Subtract removes from the item's stack; the stack stays even when emptied.
func (sp *Stockpile) Subtract(stack Stack) (subtracted, remaining uint32, err error) {
	if stack == nil {
		return 0, 0, ErrNilStack
	}
	amount := stack.Amount()
	if amount == 0 {
		return 0, 0, nil
	}

	sp.mu.Lock()
	defer sp.mu.Unlock()

	existing, ok := (*sp.state.view())[stack.Item().ID()]
	if !ok {
		return 0, amount, nil
	}
	subtracted, remaining = existing.Subtract(amount)
	return subtracted, remaining, nil
}

// GetCount returns the item's stack amount (Unbounded for Unlimited stock).
func (sp *Stockpile) GetCount(item Item) uint32 {
	sp.mu.RLock()
	defer sp.mu.RUnlock()

	s, ok := (*sp.state.view())[item.ID()]
	if !ok {
		return 0
	}
	return s.Amount()
}

// Stock returns a copy of the item's stack, or nil.
func (sp *Stockpile) Stock(item Item) Stack {
	sp.mu.RLock()
	defer sp.mu.RUnlock()

	s, ok := (*sp.state.view())[item.ID()]
	if !ok {
		return nil
	}
	return s.Clone()
}

// Items returns stocked items sorted by name, then ID.
func (sp *Stockpile) Items() []Item {
	sp.mu.RLock()
	defer sp.mu.RUnlock()

	table := *sp.state.view()
	items := make([]Item, 0, len(table))
	for _, s := range table {
		items = append(items, s.Item())
	}
	sortItems(items)
	return items
}

// BeginTransaction opens a snapshot span. No-op if one is already open.
func (sp *Stockpile) BeginTransaction() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.state.begin()
}

// Commit makes the working copy the committed state. No-op when idle.
func (sp *Stockpile) Commit() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.state.commit()
}

// Rollback discards the working copy. No-op when idle.
func (sp *Stockpile) Rollback() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.state.rollback()
}

// InTransaction reports whether a span is open.
func (sp *Stockpile) InTransaction() bool {
	sp.mu.RLock()
	defer sp.mu.RUnlock()
	return sp.state.active
}
