package shop

import (
	"fmt"

	"github.com/udisondev/tradecraft/internal/model"
)

// TradeEntry is one catalog offer: Cost paid by the buyer for Reward.
// Amounts are per unit of multiplier.
type TradeEntry struct {
	id     string
	cost   model.Basket
	reward model.Basket
}

// NewTradeEntry creates an offer. Baskets are copied.
func NewTradeEntry(id string, cost, reward model.Basket) *TradeEntry {
	return &TradeEntry{
		id:     id,
		cost:   cost.Clone(),
		reward: reward.Clone(),
	}
}

// ID returns the entry identifier.
func (e *TradeEntry) ID() string { return e.id }

// BaseCost returns the cost for multiplier 1.
func (e *TradeEntry) BaseCost() model.Basket { return e.cost.Clone() }

// BaseReward returns the reward for multiplier 1.
func (e *TradeEntry) BaseReward() model.Basket { return e.reward.Clone() }

// Cost returns the cost scaled by multiplier.
// Fails with model.ErrArithmeticOverflow if any line overflows.
func (e *TradeEntry) Cost(multiplier uint32) (model.Basket, error) {
	scaled, err := e.cost.Scale(multiplier)
	if err != nil {
		return nil, fmt.Errorf("cost of %s: %w", e.id, err)
	}
	return scaled, nil
}

// Reward returns the reward scaled by multiplier.
func (e *TradeEntry) Reward(multiplier uint32) (model.Basket, error) {
	scaled, err := e.reward.Scale(multiplier)
	if err != nil {
		return nil, fmt.Errorf("reward of %s: %w", e.id, err)
	}
	return scaled, nil
}

func (e *TradeEntry) String() string {
	return fmt.Sprintf("%s: %s -> %s", e.id, e.cost, e.reward)
}
