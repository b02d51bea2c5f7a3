package exchange

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/tradecraft/internal/game/craft"
	"github.com/udisondev/tradecraft/internal/model"
)

// shortSource is an inventory whose Subtract only delivers half of the
// requested units for the listed items.
type shortSource struct {
	*model.Inventory
	short map[string]bool
}

func (s *shortSource) Subtract(stack model.Stack) (subtracted, remaining uint32, err error) {
	if stack == nil || !s.short[stack.Item().ID()] {
		return s.Inventory.Subtract(stack)
	}
	half := stack.Amount() / 2
	subtracted, remaining, err = s.Inventory.Subtract(model.NewOverflowStack(stack.Item(), half))
	return subtracted, remaining + stack.Amount() - half, err
}

func TestTransfer_SourceShortRollsBack(t *testing.T) {
	source := &shortSource{
		Inventory: inventoryWith(t, "source", nil, model.Portion{Item: wood, Amount: 80}),
		short:     map[string]bool{wood.ID(): true},
	}
	target := inventoryWith(t, "target", nil, model.Portion{Item: wood, Amount: 5})

	for _, exact := range []bool{true, false} {
		res, err := Transfer(source, target, model.NewCappedStack(wood, 80), exact)
		require.NoError(t, err)
		assert.Equal(t, TransferResult{Message: MsgSourceShort}, res)
		assert.Equal(t, uint32(80), source.GetCount(wood))
		assert.Equal(t, uint32(5), target.GetCount(wood))
		assert.False(t, source.InTransaction())
		assert.False(t, target.InTransaction())
	}
}

func TestDrain_UnlimitedStockIsBounded(t *testing.T) {
	stock := model.NewStockpile("quarry")
	stock.Add(model.NewUnlimitedStack(stone))
	player := model.NewInventory("player")

	res, err := Drain(stock, player, stone)
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)

	want := uint32(model.MaxStacksPerAdd) * stone.Capacity()
	assert.Equal(t, want, res.Moved)
	assert.Equal(t, want, player.GetCount(stone))
	assert.Equal(t, model.MaxStacksPerAdd, player.StackCount())
	assert.Equal(t, uint32(model.Unbounded), stock.GetCount(stone))
}

func TestDrainAll(t *testing.T) {
	source := inventoryWith(t, "source", nil,
		model.Portion{Item: stone, Amount: 30},
		model.Portion{Item: wood, Amount: 400})
	target := inventoryWith(t, "target", nil, model.Portion{Item: wood, Amount: 10})

	moved, err := DrainAll(source, target)
	require.NoError(t, err)
	assert.Equal(t, map[string]uint32{stone.ID(): 30, wood.ID(): 400}, moved)
	assert.Zero(t, source.ItemTypes())
	assert.Equal(t, uint32(410), target.GetCount(wood))
}

func TestDrainAll_StopsAtFirstFailure(t *testing.T) {
	source := &shortSource{
		Inventory: inventoryWith(t, "source", nil,
			model.Portion{Item: glass, Amount: 10},
			model.Portion{Item: stone, Amount: 30},
			model.Portion{Item: wood, Amount: 60}),
		short: map[string]bool{stone.ID(): true},
	}
	target := inventoryWith(t, "target", nil)

	moved, err := DrainAll(source, target)

	var refused *TransferError
	require.True(t, errors.As(err, &refused), "error = %v", err)
	assert.Equal(t, stone.ID(), refused.Item)
	assert.Equal(t, MsgSourceShort, refused.Message)
	assert.Equal(t, "drain stone.basic: "+MsgSourceShort, err.Error())

	// glass sorts first and moved; stone failed; wood was never tried
	assert.Equal(t, map[string]uint32{glass.ID(): 10}, moved)
	assert.Equal(t, uint32(10), target.GetCount(glass))
	assert.Equal(t, uint32(30), source.GetCount(stone))
	assert.Zero(t, target.GetCount(stone))
	assert.Equal(t, uint32(60), source.GetCount(wood))
	assert.Zero(t, target.GetCount(wood))
}

func TestDrainAll_FromCrafter(t *testing.T) {
	recipe, err := craft.NewRecipe("glass",
		model.Basket{{Item: stone, Amount: 10}},
		model.Basket{{Item: glass, Amount: 1}})
	require.NoError(t, err)
	c := craft.NewCrafter("bench")
	require.True(t, c.SetRecipe(recipe))
	c.Input().Put(stone, 45)
	require.True(t, c.Craft(model.Unbounded).Success)

	player := inventoryWith(t, "player", nil)
	moved, err := DrainAll(c, player)
	require.NoError(t, err)
	assert.Equal(t, map[string]uint32{glass.ID(): 4, stone.ID(): 5}, moved)
	assert.Empty(t, c.Items())
}

func TestDrainAll_NilArguments(t *testing.T) {
	_, err := DrainAll(nil, model.NewInventory("x"))
	assert.ErrorIs(t, err, ErrNilContainer)
	_, err = Drain(model.NewInventory("x"), nil, stone)
	assert.ErrorIs(t, err, ErrNilContainer)
}
