package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/tradecraft/internal/game/craft"
	"github.com/udisondev/tradecraft/internal/model"
)

var (
	stone = model.NewItem("stone.basic", "basic stone", 150)
	wood  = model.NewItem("wood.basic", "basic wood", 150)
	glass = model.NewItem("glass.basic", "basic glass", 150)
)

func inventoryWith(t *testing.T, id string, opts []model.InventoryOption, lines ...model.Portion) *model.Inventory {
	t.Helper()
	inv := model.NewInventory(id, opts...)
	for _, l := range lines {
		_, remaining, err := inv.Add(model.NewOverflowStack(l.Item, l.Amount))
		require.NoError(t, err)
		require.Zero(t, remaining, "seeding %s", l.Item.ID())
	}
	return inv
}

func TestTransfer_Exact(t *testing.T) {
	source := inventoryWith(t, "source", nil, model.Portion{Item: wood, Amount: 80})
	target := inventoryWith(t, "target", nil)

	res, err := Transfer(source, target, model.NewCappedStack(wood, 80), true)
	require.NoError(t, err)
	assert.Equal(t, TransferResult{Moved: 80, Success: true}, res)
	assert.Equal(t, uint32(0), source.GetCount(wood))
	assert.Equal(t, uint32(80), target.GetCount(wood))
	assert.False(t, source.InTransaction())
	assert.False(t, target.InTransaction())
}

func TestTransfer_ExactTargetRefuses(t *testing.T) {
	source := inventoryWith(t, "source", nil, model.Portion{Item: wood, Amount: 80})
	target := inventoryWith(t, "target",
		[]model.InventoryOption{model.WithMaxStacks(1)},
		model.Portion{Item: wood, Amount: 120}) // 30 free

	res, err := Transfer(source, target, model.NewCappedStack(wood, 80), true)
	require.NoError(t, err)
	assert.Equal(t, TransferResult{Message: MsgTargetRefused}, res)
	assert.Equal(t, uint32(80), source.GetCount(wood))
	assert.Equal(t, uint32(120), target.GetCount(wood))
	assert.False(t, source.InTransaction())
	assert.False(t, target.InTransaction())
}

func TestTransfer_NonExactMovesWhatFits(t *testing.T) {
	source := inventoryWith(t, "source", nil, model.Portion{Item: wood, Amount: 80})
	target := inventoryWith(t, "target",
		[]model.InventoryOption{model.WithMaxStacks(1)},
		model.Portion{Item: wood, Amount: 120})

	res, err := Transfer(source, target, model.NewCappedStack(wood, 80), false)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, uint32(30), res.Moved)
	assert.Equal(t, uint32(50), source.GetCount(wood))
	assert.Equal(t, uint32(150), target.GetCount(wood))
}

func TestTransfer_NonExactClampsToAvailable(t *testing.T) {
	source := inventoryWith(t, "source", nil, model.Portion{Item: stone, Amount: 50})
	target := inventoryWith(t, "target", nil)

	res, err := Transfer(source, target, model.NewCappedStack(stone, 150), false)
	require.NoError(t, err)
	assert.Equal(t, TransferResult{Moved: 50, Success: true}, res)
	assert.False(t, source.Contains(stone))
}

func TestTransfer_ExactNotEnoughAtSource(t *testing.T) {
	source := inventoryWith(t, "source", nil, model.Portion{Item: glass, Amount: 3})
	target := inventoryWith(t, "target", nil)

	res, err := Transfer(source, target, model.NewCappedStack(glass, 150), true)
	require.NoError(t, err)
	assert.Equal(t, TransferResult{Message: MsgNotEnoughAtSource}, res)
	assert.Equal(t, uint32(3), source.GetCount(glass))
	assert.Equal(t, uint32(0), target.GetCount(glass))
}

func TestTransfer_SameContainer(t *testing.T) {
	inv := inventoryWith(t, "self", nil, model.Portion{Item: wood, Amount: 10})

	res, err := Transfer(inv, inv, model.NewCappedStack(wood, 10), true)
	require.NoError(t, err)
	assert.Equal(t, TransferResult{Success: true}, res)
	assert.Equal(t, uint32(10), inv.GetCount(wood))
}

func TestTransfer_StateConflict(t *testing.T) {
	source := inventoryWith(t, "source", nil, model.Portion{Item: wood, Amount: 10})
	target := inventoryWith(t, "target", nil)

	source.BeginTransaction()
	res, err := Transfer(source, target, model.NewCappedStack(wood, 5), true)
	require.NoError(t, err)
	assert.Equal(t, MsgSourceInTransaction, res.Message)
	source.Rollback()

	target.BeginTransaction()
	res, err = Transfer(source, target, model.NewCappedStack(wood, 5), true)
	require.NoError(t, err)
	assert.Equal(t, MsgTargetInTransaction, res.Message)
	assert.True(t, target.InTransaction(), "caller's span must stay open")
	target.Rollback()

	assert.Equal(t, uint32(10), source.GetCount(wood))
	assert.Equal(t, uint32(0), target.GetCount(wood))
}

func TestTransfer_NilArguments(t *testing.T) {
	inv := model.NewInventory("x")

	_, err := Transfer(nil, inv, model.NewCappedStack(wood, 1), true)
	assert.ErrorIs(t, err, ErrNilContainer)
	_, err = Transfer(inv, nil, model.NewCappedStack(wood, 1), true)
	assert.ErrorIs(t, err, ErrNilContainer)
	_, err = Transfer(inv, model.NewInventory("y"), nil, true)
	assert.ErrorIs(t, err, model.ErrNilStack)
}

func TestTransfer_Conservation(t *testing.T) {
	t.Parallel()

	requests := []struct {
		amount uint32
		exact  bool
	}{
		{1, true}, {149, true}, {150, true}, {151, true}, {400, true}, {401, true},
		{1, false}, {300, false}, {1000, false},
	}

	for _, rq := range requests {
		source := inventoryWith(t, "source", nil, model.Portion{Item: stone, Amount: 400})
		target := inventoryWith(t, "target",
			[]model.InventoryOption{model.WithMaxStacks(3)},
			model.Portion{Item: stone, Amount: 70})

		srcBefore, dstBefore := source.GetCount(stone), target.GetCount(stone)
		res, err := Transfer(source, target, model.NewOverflowStack(stone, rq.amount), rq.exact)
		require.NoError(t, err)

		srcAfter, dstAfter := source.GetCount(stone), target.GetCount(stone)
		assert.Equal(t, srcBefore-srcAfter, dstAfter-dstBefore, "amount=%d exact=%v", rq.amount, rq.exact)
		if res.Success {
			assert.Equal(t, res.Moved, dstAfter-dstBefore)
		} else {
			assert.Zero(t, res.Moved)
			assert.Equal(t, srcBefore, srcAfter)
			assert.Equal(t, dstBefore, dstAfter)
		}
		if rq.exact && res.Success {
			assert.Equal(t, rq.amount, res.Moved)
		}
	}
}

func TestTransfer_FromUnlimitedStock(t *testing.T) {
	stock := model.NewStockpile("quarry")
	stock.Add(model.NewUnlimitedStack(stone))
	target := model.NewInventory("player")

	res, err := Transfer(stock, target, model.NewCappedStack(stone, 120), true)
	require.NoError(t, err)
	assert.Equal(t, uint32(120), res.Moved)
	assert.Equal(t, uint32(model.Unbounded), stock.GetCount(stone))
	assert.Equal(t, uint32(120), target.GetCount(stone))
}

func TestTransfer_IntoAndOutOfCrafter(t *testing.T) {
	recipe, err := craft.NewRecipe("glass",
		model.Basket{{Item: stone, Amount: 10}, {Item: wood, Amount: 50}},
		model.Basket{{Item: glass, Amount: 1}},
	)
	require.NoError(t, err)

	c := craft.NewCrafter("workbench")
	require.True(t, c.SetRecipe(recipe))
	player := inventoryWith(t, "player", nil,
		model.Portion{Item: stone, Amount: 50},
		model.Portion{Item: wood, Amount: 7250})

	res, err := Transfer(player, c, model.NewCappedStack(stone, 150), false)
	require.NoError(t, err)
	assert.Equal(t, uint32(50), res.Moved)

	res, err = Transfer(player, c, model.NewCappedStack(wood, 150), false)
	require.NoError(t, err)
	assert.Equal(t, uint32(150), res.Moved)
	assert.Equal(t, uint32(7100), player.GetCount(wood))

	crafted := c.Craft(model.Unbounded)
	require.True(t, crafted.Success)
	assert.Equal(t, uint32(3), crafted.Crafted)

	// exact withdrawal of more glass than exists fails without side effects
	res, err = Transfer(c, player, model.NewCappedStack(glass, 150), true)
	require.NoError(t, err)
	assert.Equal(t, MsgNotEnoughAtSource, res.Message)

	res, err = Drain(c, player, glass)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), res.Moved)
	assert.Equal(t, uint32(3), player.GetCount(glass))
	assert.Equal(t, uint32(0), c.GetCount(glass))
}
