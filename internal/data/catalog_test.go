package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/tradecraft/internal/game/craft"
	"github.com/udisondev/tradecraft/internal/model"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	stone, err := c.Item("stone.basic")
	require.NoError(t, err)
	assert.Equal(t, "basic stone", stone.Name())
	assert.Equal(t, uint32(150), stone.Capacity())
	assert.Len(t, c.Items(), 3)

	recipe, err := c.Recipe("glass")
	require.NoError(t, err)
	assert.Len(t, recipe.Inputs(), 2)
	assert.Equal(t, uint32(1), recipe.Outputs()[0].Amount)

	entry, err := c.Trade("stone-for-wood")
	require.NoError(t, err)
	assert.Equal(t, uint32(50), entry.BaseCost()[0].Amount)

	assert.Equal(t, []string{"quarry"}, c.Shops())
}

func TestNewShop_FreshInstances(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	stone, _ := c.Item("stone.basic")

	a, err := c.NewShop("quarry")
	require.NoError(t, err)
	b, err := c.NewShop("quarry")
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, uint32(model.Unbounded), a.GetCount(stone))
	assert.Equal(t, model.StackUnlimited, a.Stock().Stock(stone).Kind())
	require.NotNil(t, a.Catalog().Get("stone-for-wood"))

	_, err = c.NewShop("missing")
	assert.Error(t, err)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name: "recipe references unknown item",
			doc: `
items: [{id: a, name: A, capacity: 10}]
recipes:
  - id: r
    inputs: [{item: b, amount: 1}]
    outputs: [{item: a, amount: 1}]`,
			wantErr: ErrUnknownItem,
		},
		{
			name: "shop lists unknown trade",
			doc: `
items: [{id: a, name: A}]
shops: [{id: s, trades: [nope]}]`,
			wantErr: ErrUnknownTrade,
		},
		{
			name: "duplicate item",
			doc: `
items: [{id: a, name: A}, {id: a, name: B}]`,
			wantErr: ErrDuplicateID,
		},
		{
			name: "zero recipe input",
			doc: `
items: [{id: a, name: A}]
recipes:
  - id: r
    inputs: [{item: a, amount: 0}]
    outputs: [{item: a, amount: 1}]`,
			wantErr: craft.ErrZeroIngredient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	doc := `
items:
  - {id: iron, name: iron ore, capacity: 0}
shops:
  - id: mine
    stock: [{item: iron, amount: 500}]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	iron, err := c.Item("iron")
	require.NoError(t, err)
	assert.Equal(t, uint32(model.Unbounded), iron.Capacity())

	mine, err := c.NewShop("mine")
	require.NoError(t, err)
	assert.Equal(t, uint32(500), mine.GetCount(iron))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	def, err := Load("")
	require.NoError(t, err)
	assert.Len(t, def.Items(), 3)
}
