package shop

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/tradecraft/internal/model"
)

func TestCatalog_AddRemove(t *testing.T) {
	c := NewCatalog()
	a := NewTradeEntry("a", nil, nil)
	b := NewTradeEntry("b", nil, nil)

	require.NoError(t, c.Add(a))
	require.NoError(t, c.Add(b))
	assert.ErrorIs(t, c.Add(NewTradeEntry("a", nil, nil)), ErrDuplicateTrade)
	assert.ErrorIs(t, c.Add(nil), ErrNilEntry)

	assert.Equal(t, []*TradeEntry{a, b}, c.Entries())
	assert.Same(t, b, c.Get("b"))
	assert.True(t, c.Contains(a))
	assert.False(t, c.Contains(NewTradeEntry("a", nil, nil)))

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	assert.Nil(t, c.Get("a"))
	assert.Equal(t, 1, c.Len())
}

func TestTradeEntry_Scale(t *testing.T) {
	entry := NewTradeEntry("e",
		model.Basket{{Item: wood, Amount: 50}, {Item: stone, Amount: 2}},
		model.Basket{{Item: stone, Amount: 10}})

	cost, err := entry.Cost(3)
	require.NoError(t, err)
	assert.Equal(t, model.Basket{{Item: wood, Amount: 150}, {Item: stone, Amount: 6}}, cost)

	reward, err := entry.Reward(3)
	require.NoError(t, err)
	assert.Equal(t, model.Basket{{Item: stone, Amount: 30}}, reward)

	// base baskets are untouched
	assert.Equal(t, uint32(50), entry.BaseCost()[0].Amount)

	_, err = entry.Cost(math.MaxUint32)
	assert.ErrorIs(t, err, model.ErrArithmeticOverflow)
	_, err = entry.Reward(math.MaxUint32)
	assert.ErrorIs(t, err, model.ErrArithmeticOverflow)
}

func TestTradeEntry_CopiesBaskets(t *testing.T) {
	cost := model.Basket{{Item: wood, Amount: 50}}
	entry := NewTradeEntry("e", cost, nil)
	cost[0].Amount = 1

	assert.Equal(t, uint32(50), entry.BaseCost()[0].Amount)
}
