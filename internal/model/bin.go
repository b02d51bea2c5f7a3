package model

import (
	"cmp"
	"slices"
	"sync"
)

// Bin is a fixed-slot container: its stack set only changes on Reset.
// Add and Subtract distribute over the item's stacks fullest first and never
// create or drop stacks, so an emptied slot stays present with amount 0.
type Bin struct {
	id    string
	owner string
	state snapshot[[]Stack]

	mu sync.RWMutex
}

// NewBin creates a bin with one empty Capped slot per item.
func NewBin(id string, items ...Item) *Bin {
	return &Bin{
		id:    id,
		state: newSnapshot(emptySlots(items), cloneStacks),
	}
}

// NewOwnedBin creates a bin that belongs to the container with id owner.
func NewOwnedBin(owner, id string, items ...Item) *Bin {
	b := NewBin(id, items...)
	b.owner = owner
	return b
}

func emptySlots(items []Item) []Stack {
	slots := make([]Stack, len(items))
	for i, item := range items {
		slots[i] = NewCappedStack(item, 0)
	}
	return slots
}

// ID returns the bin identifier.
func (b *Bin) ID() string {
	return b.id
}

// Owner returns the owning container id, or "" for a standalone bin.
func (b *Bin) Owner() string {
	return b.owner
}

// Reset replaces every slot with a fresh empty Capped stack per item.
// Returns false (no-op) while a transaction is open.
func (b *Bin) Reset(items ...Item) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state.active {
		return false
	}
	b.state.replace(emptySlots(items))
	return true
}

// matching returns item's slots ordered by descending amount (stable).
// Caller holds b.mu.
func (b *Bin) matching(item Item) []Stack {
	var out []Stack
	for _, s := range *b.state.view() {
		if s.Item().Equal(item) {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(x, y Stack) int {
		return cmp.Compare(y.Amount(), x.Amount())
	})
	return out
}

// Put adds up to n units of item into its slots, fullest first.
// Returns how many units were placed.
func (b *Bin) Put(item Item, n uint64) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.put(item, n)
}

func (b *Bin) put(item Item, n uint64) uint64 {
	left := n
	for _, s := range b.matching(item) {
		for left > 0 {
			added, _ := s.Add(saturate(left))
			if added == 0 {
				break
			}
			left -= uint64(added)
		}
		if left == 0 {
			break
		}
	}
	return n - left
}

// Take removes up to n units of item from its slots, fullest first.
// Returns how many units were removed.
func (b *Bin) Take(item Item, n uint64) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.take(item, n)
}

func (b *Bin) take(item Item, n uint64) uint64 {
	left := n
	for _, s := range b.matching(item) {
		for left > 0 {
			subtracted, _ := s.Subtract(saturate(left))
			if subtracted == 0 {
				break
			}
			left -= uint64(subtracted)
		}
		if left == 0 {
			break
		}
	}
	return n - left
}

// Add implements Container.
func (b *Bin) Add(stack Stack) (added, remaining uint32, err error) {
	if stack == nil {
		return 0, 0, ErrNilStack
	}
	amount := stack.Amount()
	if amount == 0 {
		return 0, 0, nil
	}
	put := uint32(b.Put(stack.Item(), uint64(amount)))
	return put, amount - put, nil
}

// Subtract implements Container.
func (b *Bin) Subtract(stack Stack) (subtracted, remaining uint32, err error) {
	if stack == nil {
		return 0, 0, ErrNilStack
	}
	amount := stack.Amount()
	if amount == 0 {
		return 0, 0, nil
	}
	taken := uint32(b.Take(stack.Item(), uint64(amount)))
	return taken, amount - taken, nil
}

// GetCount returns the summed amount of item across its slots (saturating).
func (b *Bin) GetCount(item Item) uint32 {
	return saturate(b.Available(item))
}

// Available returns the summed amount of item across its slots.
func (b *Bin) Available(item Item) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return sumAmounts(b.matching(item))
}

// Headroom returns the summed free capacity of item's slots.
// The second result is false when the bin has no slot for item.
func (b *Bin) Headroom(item Item) (uint64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	slots := b.matching(item)
	if len(slots) == 0 {
		return 0, false
	}
	var free uint64
	for _, s := range slots {
		free += uint64(s.Capacity() - s.Amount())
	}
	return free, true
}

// Slots returns copies of all slots in slot order.
func (b *Bin) Slots() []Stack {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneStacks(*b.state.view())
}

// BeginTransaction opens a snapshot span. No-op if one is already open.
func (b *Bin) BeginTransaction() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state.begin()
}

// Commit makes the working copy the committed state. No-op when idle.
func (b *Bin) Commit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state.commit()
}

// Rollback discards the working copy. No-op when idle.
func (b *Bin) Rollback() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state.rollback()
}

// InTransaction reports whether a span is open.
func (b *Bin) InTransaction() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state.active
}
