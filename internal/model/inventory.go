package model

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
)

// Inventory хранит предметы стеками, растущими до лимита.
// Each item owns an ordered list of Capped stacks (oldest first). Add back-fills
// existing stacks before opening new ones; Subtract drains newest first and
// drops stacks that reach zero.
type Inventory struct {
	id        string
	maxStacks int

	state snapshot[stackTable]

	mu sync.RWMutex
}

// stackTable maps item ID to that item's stacks.
type stackTable map[string]*stackList

type stackList struct {
	item   Item
	stacks []Stack
}

func (t stackTable) clone() stackTable {
	out := make(stackTable, len(t))
	for id, list := range t {
		out[id] = &stackList{item: list.item, stacks: cloneStacks(list.stacks)}
	}
	return out
}

func (t stackTable) totalStacks() int {
	n := 0
	for _, list := range t {
		n += len(list.stacks)
	}
	return n
}

// MaxStacksPerAdd caps how many stacks a single Add may open, so an Unlimited
// carrier cannot expand into millions of stacks.
const MaxStacksPerAdd = 1 << 16

// InventoryOption configures inventory construction.
type InventoryOption func(*Inventory)

// WithMaxStacks limits the total number of stacks across all items.
// n <= 0 means unlimited.
func WithMaxStacks(n int) InventoryOption {
	return func(inv *Inventory) {
		if n > 0 {
			inv.maxStacks = n
		}
	}
}

// NewInventory создаёт пустой инвентарь.
func NewInventory(id string, opts ...InventoryOption) *Inventory {
	inv := &Inventory{
		id:        id,
		maxStacks: math.MaxInt,
		state:     newSnapshot(make(stackTable), stackTable.clone),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(inv)
		}
	}
	return inv
}

// ID returns the inventory identifier.
func (inv *Inventory) ID() string {
	return inv.id
}

// MaxStacks returns the stack limit (math.MaxInt when unlimited).
func (inv *Inventory) MaxStacks() int {
	return inv.maxStacks
}

// Add добавляет stack.Amount() единиц предмета.
//
// Existing stacks are topped off first; at most MaxStacksPerAdd new stacks
// are opened per call.
//
// Returns:
//   - added: units accepted
//   - remaining: units that did not fit (stack limit or per-call ceiling)
//   - error: ErrNilStack
func (inv *Inventory) Add(stack Stack) (added, remaining uint32, err error) {
	if stack == nil {
		return 0, 0, ErrNilStack
	}
	amount := stack.Amount()
	if amount == 0 {
		return 0, 0, nil
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	table := *inv.state.view()
	item := stack.Item()
	list, ok := table[item.ID()]
	if !ok {
		list = &stackList{item: item}
	}

	left := amount
	for _, existing := range list.stacks {
		_, left = existing.Add(left)
		if left == 0 {
			break
		}
	}

	total := table.totalStacks()
	for opened := 0; left > 0 && total < inv.maxStacks && opened < MaxStacksPerAdd; opened++ {
		fresh := NewCappedStack(item, left)
		list.stacks = append(list.stacks, fresh)
		left -= fresh.Amount()
		total++
	}

	if !ok && len(list.stacks) > 0 {
		table[item.ID()] = list
	}
	return amount - left, left, nil
}

// Subtract снимает stack.Amount() единиц, начиная с самых новых стеков.
// Stacks that reach zero are removed.
func (inv *Inventory) Subtract(stack Stack) (subtracted, remaining uint32, err error) {
	if stack == nil {
		return 0, 0, ErrNilStack
	}
	amount := stack.Amount()
	if amount == 0 {
		return 0, 0, nil
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	table := *inv.state.view()
	list, ok := table[stack.Item().ID()]
	if !ok {
		return 0, amount, nil
	}

	left := amount
	for i := len(list.stacks) - 1; i >= 0 && left > 0; i-- {
		_, left = list.stacks[i].Subtract(left)
		if list.stacks[i].Amount() == 0 {
			list.stacks = slices.Delete(list.stacks, i, i+1)
		}
	}
	if len(list.stacks) == 0 {
		delete(table, stack.Item().ID())
	}
	return amount - left, left, nil
}

// GetCount returns the total amount of item in the active view (saturating).
func (inv *Inventory) GetCount(item Item) uint32 {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	list, ok := (*inv.state.view())[item.ID()]
	if !ok {
		return 0
	}
	return saturate(sumAmounts(list.stacks))
}

// Contains returns true if the active view holds at least one stack of item.
func (inv *Inventory) Contains(item Item) bool {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	_, ok := (*inv.state.view())[item.ID()]
	return ok
}

// ItemTypes returns the number of distinct items held.
func (inv *Inventory) ItemTypes() int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return len(*inv.state.view())
}

// StackCount returns the number of stacks across all items.
func (inv *Inventory) StackCount() int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.state.view().totalStacks()
}

// Items returns held items sorted by name, then ID.
func (inv *Inventory) Items() []Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	table := *inv.state.view()
	items := make([]Item, 0, len(table))
	for _, list := range table {
		items = append(items, list.item)
	}
	sortItems(items)
	return items
}

// Stacks returns copies of item's stacks in list order (oldest first).
func (inv *Inventory) Stacks(item Item) []Stack {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	list, ok := (*inv.state.view())[item.ID()]
	if !ok {
		return nil
	}
	return cloneStacks(list.stacks)
}

// BeginTransaction opens a snapshot span. No-op if one is already open.
func (inv *Inventory) BeginTransaction() {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.state.begin()
}

// Commit makes the working copy the committed state. No-op when idle.
func (inv *Inventory) Commit() {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.state.commit()
}

// Rollback discards the working copy. No-op when idle.
func (inv *Inventory) Rollback() {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.state.rollback()
}

// InTransaction reports whether a span is open.
func (inv *Inventory) InTransaction() bool {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.state.active
}

func (inv *Inventory) String() string {
	var sb strings.Builder
	sb.WriteString("Inventory:\n")
	if inv.maxStacks == math.MaxInt {
		fmt.Fprintf(&sb, "- capacity: %d/unlimited\n", inv.StackCount())
	} else {
		fmt.Fprintf(&sb, "- capacity: %d/%d\n", inv.StackCount(), inv.maxStacks)
	}
	for _, item := range inv.Items() {
		fmt.Fprintf(&sb, "%s:\n- total: %d\n", item.Name(), inv.GetCount(item))
	}
	return sb.String()
}

func sortItems(items []Item) {
	slices.SortFunc(items, func(a, b Item) int {
		if c := strings.Compare(a.Name(), b.Name()); c != 0 {
			return c
		}
		return strings.Compare(a.ID(), b.ID())
	})
}
