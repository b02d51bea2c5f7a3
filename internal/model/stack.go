package model

import "fmt"

// StackKind tags the three stack variants.
type StackKind uint8

const (
	StackCapped    StackKind = iota // clamps at item capacity
	StackOverflow                   // grows up to the integer width, computation carrier
	StackUnlimited                  // infinite source/sink, never mutates
)

// String returns human-readable stack kind name.
func (k StackKind) String() string {
	switch k {
	case StackCapped:
		return "Capped"
	case StackOverflow:
		return "Overflow"
	case StackUnlimited:
		return "Unlimited"
	default:
		return "Unknown"
	}
}

// Stack is a mutable quantity holder bound to one Item.
//
// Add and Subtract never fail: whatever could not be applied is returned as
// remaining. Clone returns an independent deep copy (used by transaction snapshots).
type Stack interface {
	Item() Item
	Kind() StackKind
	Amount() uint32
	Capacity() uint32
	IsFull() bool

	Add(n uint32) (added, remaining uint32)
	Subtract(n uint32) (subtracted, remaining uint32)

	Clone() Stack
}

// CappedStack holds 0..item.Capacity() units.
type CappedStack struct {
	item   Item
	amount uint32
}

// NewCappedStack creates a stack; amount above the item capacity is clamped.
func NewCappedStack(item Item, amount uint32) *CappedStack {
	return &CappedStack{item: item, amount: min(amount, item.Capacity())}
}

func (s *CappedStack) Item() Item       { return s.item }
func (s *CappedStack) Kind() StackKind  { return StackCapped }
func (s *CappedStack) Amount() uint32   { return s.amount }
func (s *CappedStack) Capacity() uint32 { return s.item.Capacity() }
func (s *CappedStack) IsFull() bool     { return s.amount == s.item.Capacity() }

// Headroom returns how many units the stack can still accept.
func (s *CappedStack) Headroom() uint32 {
	return s.item.Capacity() - s.amount
}

func (s *CappedStack) Add(n uint32) (added, remaining uint32) {
	added = min(n, s.Headroom())
	s.amount += added
	return added, n - added
}

func (s *CappedStack) Subtract(n uint32) (subtracted, remaining uint32) {
	subtracted = min(n, s.amount)
	s.amount -= subtracted
	return subtracted, n - subtracted
}

func (s *CappedStack) Clone() Stack {
	return &CappedStack{item: s.item, amount: s.amount}
}

func (s *CappedStack) String() string {
	return fmt.Sprintf("%s: %d/%d", s.item.Name(), s.amount, s.item.Capacity())
}

// OverflowStack ignores item capacity; it only stops at the integer width.
type OverflowStack struct {
	item   Item
	amount uint32
}

// NewOverflowStack creates an unclamped carrier stack.
func NewOverflowStack(item Item, amount uint32) *OverflowStack {
	return &OverflowStack{item: item, amount: amount}
}

func (s *OverflowStack) Item() Item       { return s.item }
func (s *OverflowStack) Kind() StackKind  { return StackOverflow }
func (s *OverflowStack) Amount() uint32   { return s.amount }
func (s *OverflowStack) Capacity() uint32 { return Unbounded }
func (s *OverflowStack) IsFull() bool     { return false }

func (s *OverflowStack) Add(n uint32) (added, remaining uint32) {
	added = min(n, Unbounded-s.amount)
	s.amount += added
	return added, n - added
}

func (s *OverflowStack) Subtract(n uint32) (subtracted, remaining uint32) {
	subtracted = min(n, s.amount)
	s.amount -= subtracted
	return subtracted, n - subtracted
}

func (s *OverflowStack) Clone() Stack {
	return &OverflowStack{item: s.item, amount: s.amount}
}

func (s *OverflowStack) String() string {
	return fmt.Sprintf("%s: %d/%d", s.item.Name(), s.amount, uint32(Unbounded))
}

// UnlimitedStack is an infinite source and sink. It has no stored amount.
type UnlimitedStack struct {
	item Item
}

// NewUnlimitedStack creates an infinite stack for item.
func NewUnlimitedStack(item Item) *UnlimitedStack {
	return &UnlimitedStack{item: item}
}

func (s *UnlimitedStack) Item() Item       { return s.item }
func (s *UnlimitedStack) Kind() StackKind  { return StackUnlimited }
func (s *UnlimitedStack) Amount() uint32   { return Unbounded }
func (s *UnlimitedStack) Capacity() uint32 { return Unbounded }
func (s *UnlimitedStack) IsFull() bool     { return false }

func (s *UnlimitedStack) Add(n uint32) (added, remaining uint32) {
	return n, 0
}

func (s *UnlimitedStack) Subtract(n uint32) (subtracted, remaining uint32) {
	return n, 0
}

func (s *UnlimitedStack) Clone() Stack {
	return &UnlimitedStack{item: s.item}
}

func (s *UnlimitedStack) String() string {
	return fmt.Sprintf("%s: unlimited", s.item.Name())
}

// cloneStacks deep-copies a stack slice.
func cloneStacks(stacks []Stack) []Stack {
	if stacks == nil {
		return nil
	}
	out := make([]Stack, len(stacks))
	for i, s := range stacks {
		out[i] = s.Clone()
	}
	return out
}

// sumAmounts sums stack amounts without wrapping.
func sumAmounts(stacks []Stack) uint64 {
	var total uint64
	for _, s := range stacks {
		total += uint64(s.Amount())
	}
	return total
}

// saturate narrows a uint64 sum to uint32, clamping at Unbounded.
func saturate(v uint64) uint32 {
	if v > Unbounded {
		return Unbounded
	}
	return uint32(v)
}
