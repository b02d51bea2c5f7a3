// Package data loads item, recipe, trade and shop definitions.
//
// Definitions live in a YAML document; a default catalog is embedded in the
// binary. Lookups return fresh domain values (craft.Recipe, shop.TradeEntry,
// shop.Shop) built from the parsed definitions.
package data

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/tradecraft/internal/game/craft"
	"github.com/udisondev/tradecraft/internal/game/shop"
	"github.com/udisondev/tradecraft/internal/model"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

var (
	// ErrUnknownItem is returned when a definition references an undefined item.
	ErrUnknownItem = errors.New("unknown item")

	// ErrUnknownTrade is returned when a shop lists an undefined trade.
	ErrUnknownTrade = errors.New("unknown trade")

	// ErrDuplicateID is returned when two definitions of one kind share an id.
	ErrDuplicateID = errors.New("duplicate id")
)

type portionDef struct {
	Item   string `yaml:"item"`
	Amount uint32 `yaml:"amount"`
}

type itemDef struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Capacity uint32 `yaml:"capacity"` // 0 = unbounded
}

type recipeDef struct {
	ID      string       `yaml:"id"`
	Inputs  []portionDef `yaml:"inputs"`
	Outputs []portionDef `yaml:"outputs"`
}

type tradeDef struct {
	ID     string       `yaml:"id"`
	Cost   []portionDef `yaml:"cost"`
	Reward []portionDef `yaml:"reward"`
}

type shopDef struct {
	ID        string       `yaml:"id"`
	Unlimited []string     `yaml:"unlimited"`
	Stock     []portionDef `yaml:"stock"`
	Trades    []string     `yaml:"trades"`
}

type document struct {
	Items   []itemDef   `yaml:"items"`
	Recipes []recipeDef `yaml:"recipes"`
	Trades  []tradeDef  `yaml:"trades"`
	Shops   []shopDef   `yaml:"shops"`
}

// Catalog is a validated set of definitions. Read-only after construction.
type Catalog struct {
	items   map[string]model.Item
	order   []string
	recipes map[string]recipeDef
	trades  map[string]tradeDef
	shops   []shopDef
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded catalog: %w", err)
	}
	return c, nil
}

// Load reads a catalog from path. An empty path means the embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	c := &Catalog{
		items:   make(map[string]model.Item, len(doc.Items)),
		recipes: make(map[string]recipeDef, len(doc.Recipes)),
		trades:  make(map[string]tradeDef, len(doc.Trades)),
	}

	for _, def := range doc.Items {
		if _, dup := c.items[def.ID]; dup {
			return nil, fmt.Errorf("item %q: %w", def.ID, ErrDuplicateID)
		}
		c.items[def.ID] = model.NewItem(def.ID, def.Name, def.Capacity)
		c.order = append(c.order, def.ID)
	}

	for _, def := range doc.Recipes {
		if _, dup := c.recipes[def.ID]; dup {
			return nil, fmt.Errorf("recipe %q: %w", def.ID, ErrDuplicateID)
		}
		c.recipes[def.ID] = def
		// validate eagerly so lookups never fail on a loaded catalog
		if _, err := c.Recipe(def.ID); err != nil {
			return nil, err
		}
	}

	for _, def := range doc.Trades {
		if _, dup := c.trades[def.ID]; dup {
			return nil, fmt.Errorf("trade %q: %w", def.ID, ErrDuplicateID)
		}
		c.trades[def.ID] = def
		if _, err := c.Trade(def.ID); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool, len(doc.Shops))
	for _, def := range doc.Shops {
		if seen[def.ID] {
			return nil, fmt.Errorf("shop %q: %w", def.ID, ErrDuplicateID)
		}
		seen[def.ID] = true
		c.shops = append(c.shops, def)
		if _, err := c.NewShop(def.ID); err != nil {
			return nil, err
		}
	}

	slog.Debug("catalog parsed",
		"items", len(c.items),
		"recipes", len(c.recipes),
		"trades", len(c.trades),
		"shops", len(c.shops))

	return c, nil
}

// Item returns the item with id.
func (c *Catalog) Item(id string) (model.Item, error) {
	it, ok := c.items[id]
	if !ok {
		return model.Item{}, fmt.Errorf("item %q: %w", id, ErrUnknownItem)
	}
	return it, nil
}

// Items returns all items in definition order.
func (c *Catalog) Items() []model.Item {
	out := make([]model.Item, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

func (c *Catalog) basket(owner string, defs []portionDef) (model.Basket, error) {
	b := make(model.Basket, 0, len(defs))
	for _, p := range defs {
		it, err := c.Item(p.Item)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", owner, err)
		}
		b = append(b, model.Portion{Item: it, Amount: p.Amount})
	}
	return b, nil
}

// Recipe builds the recipe with id.
func (c *Catalog) Recipe(id string) (*craft.Recipe, error) {
	def, ok := c.recipes[id]
	if !ok {
		return nil, fmt.Errorf("recipe %q not found", id)
	}

	owner := "recipe " + id
	inputs, err := c.basket(owner, def.Inputs)
	if err != nil {
		return nil, err
	}
	outputs, err := c.basket(owner, def.Outputs)
	if err != nil {
		return nil, err
	}

	r, err := craft.NewRecipe(id, inputs, outputs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", owner, err)
	}
	return r, nil
}

// Trade builds the trade entry with id.
func (c *Catalog) Trade(id string) (*shop.TradeEntry, error) {
	def, ok := c.trades[id]
	if !ok {
		return nil, fmt.Errorf("trade %q: %w", id, ErrUnknownTrade)
	}

	owner := "trade " + id
	cost, err := c.basket(owner, def.Cost)
	if err != nil {
		return nil, err
	}
	reward, err := c.basket(owner, def.Reward)
	if err != nil {
		return nil, err
	}
	return shop.NewTradeEntry(id, cost, reward), nil
}

// Shops returns the ids of all defined shops in definition order.
func (c *Catalog) Shops() []string {
	ids := make([]string, len(c.shops))
	for i, s := range c.shops {
		ids[i] = s.ID
	}
	return ids
}

// NewShop builds a fresh shop with its initial stock and listed trades.
func (c *Catalog) NewShop(id string) (*shop.Shop, error) {
	var def *shopDef
	for i := range c.shops {
		if c.shops[i].ID == id {
			def = &c.shops[i]
			break
		}
	}
	if def == nil {
		return nil, fmt.Errorf("shop %q not found", id)
	}

	s := shop.NewShop(id)
	owner := "shop " + id

	for _, itemID := range def.Unlimited {
		it, err := c.Item(itemID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", owner, err)
		}
		if _, _, err := s.Add(model.NewUnlimitedStack(it)); err != nil {
			return nil, fmt.Errorf("%s: stocking %s: %w", owner, itemID, err)
		}
	}

	stock, err := c.basket(owner, def.Stock)
	if err != nil {
		return nil, err
	}
	for _, carrier := range stock.Carriers() {
		if _, _, err := s.Add(carrier); err != nil {
			return nil, fmt.Errorf("%s: stocking %s: %w", owner, carrier.Item().ID(), err)
		}
	}

	for _, tradeID := range def.Trades {
		entry, err := c.Trade(tradeID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", owner, err)
		}
		if err := s.AddTrade(entry); err != nil {
			return nil, fmt.Errorf("%s: %w", owner, err)
		}
	}
	return s, nil
}
