package model

import (
	"fmt"
	"math/bits"
	"strings"
)

// Portion is one (item, amount) line of a basket.
type Portion struct {
	Item   Item
	Amount uint32
}

// Basket is an ordered multi-item cost or reward.
type Basket []Portion

// Scale multiplies every amount by multiplier.
// Any overflow aborts the whole calculation: no partial basket is returned.
func (b Basket) Scale(multiplier uint32) (Basket, error) {
	scaled := make(Basket, len(b))
	for i, p := range b {
		hi, lo := bits.Mul32(p.Amount, multiplier)
		if hi != 0 {
			return nil, fmt.Errorf("scaling %d x %s by %d: %w", p.Amount, p.Item.ID(), multiplier, ErrArithmeticOverflow)
		}
		scaled[i] = Portion{Item: p.Item, Amount: lo}
	}
	return scaled, nil
}

// Carriers returns one Overflow carrier stack per portion, in basket order.
func (b Basket) Carriers() []Stack {
	stacks := make([]Stack, len(b))
	for i, p := range b {
		stacks[i] = NewOverflowStack(p.Item, p.Amount)
	}
	return stacks
}

// Items returns the distinct items referenced by the basket, in first-seen order.
func (b Basket) Items() []Item {
	seen := make(map[string]struct{}, len(b))
	items := make([]Item, 0, len(b))
	for _, p := range b {
		if _, ok := seen[p.Item.ID()]; ok {
			continue
		}
		seen[p.Item.ID()] = struct{}{}
		items = append(items, p.Item)
	}
	return items
}

// Clone returns an independent copy.
func (b Basket) Clone() Basket {
	if b == nil {
		return nil
	}
	out := make(Basket, len(b))
	copy(out, b)
	return out
}

func (b Basket) String() string {
	parts := make([]string, len(b))
	for i, p := range b {
		parts[i] = fmt.Sprintf("%dx %s", p.Amount, p.Item.Name())
	}
	return strings.Join(parts, ", ")
}
