// Package craft implements recipe-bound batch crafting.
//
// A Crafter owns an input bin and an output bin sized for exactly one recipe.
// Crafting consumes inputs and produces outputs inside the crafter's own
// transaction span, so a failed production pass also undoes the consumption.
package craft

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/udisondev/tradecraft/internal/model"
)

// Failure messages reported in CraftResult.Message.
const (
	MsgNoRecipe      = "no active recipe"
	MsgNotEnough     = "not enough items to craft any"
	MsgInTransaction = "crafter in transaction"
	MsgInputShort    = "input bin could not supply ingredients"
	MsgOutputFull    = "output bin could not accept products"
)

// CraftResult represents the outcome of a craft attempt.
type CraftResult struct {
	Crafted uint32
	Success bool
	Message string
}

// Crafter manages two bins bound to one active recipe.
// It implements model.Container over both bins so transfers can feed it and
// drain it like any other container.
type Crafter struct {
	id     string
	input  *model.Bin
	output *model.Bin

	mu     sync.RWMutex
	recipe *Recipe
}

// NewCrafter creates a crafter with empty bins and no recipe.
func NewCrafter(id string) *Crafter {
	return &Crafter{
		id:     id,
		input:  model.NewOwnedBin(id, id+"/input"),
		output: model.NewOwnedBin(id, id+"/output"),
	}
}

// ID returns the crafter identifier.
func (c *Crafter) ID() string { return c.id }

// Input returns the input bin.
func (c *Crafter) Input() *model.Bin { return c.input }

// Output returns the output bin.
func (c *Crafter) Output() *model.Bin { return c.output }

// Recipe returns the active recipe, or nil.
func (c *Crafter) Recipe() *Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.recipe
}

// SetRecipe binds recipe and resets both bins to one empty slot per basket
// line. Items held for the previous recipe are dropped.
// Returns false (no-op) while a transaction is open.
func (c *Crafter) SetRecipe(recipe *Recipe) bool {
	if recipe == nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.InTransaction() {
		return false
	}
	if !c.input.Reset(basketItems(recipe.inputs)...) {
		return false
	}
	if !c.output.Reset(basketItems(recipe.outputs)...) {
		return false
	}
	c.recipe = recipe
	return true
}

func basketItems(b model.Basket) []model.Item {
	items := make([]model.Item, len(b))
	for i, p := range b {
		items[i] = p.Item
	}
	return items
}

// MaxCraftableAmount returns how many crafts the bins currently allow.
//
// Bound = min over distinct inputs of available/required and over distinct
// outputs of free capacity/produced, where an item listed on several lines
// counts with its summed amount. An input short of one craft, or an output
// with no slot, gives 0.
func (c *Crafter) MaxCraftableAmount() uint32 {
	recipe := c.Recipe()
	if recipe == nil {
		return 0
	}
	return c.maxCraftable(recipe)
}

// perItem sums basket amounts by item, in first-seen order.
func perItem(b model.Basket) ([]model.Item, map[string]uint64) {
	totals := make(map[string]uint64, len(b))
	for _, p := range b {
		totals[p.Item.ID()] += uint64(p.Amount)
	}
	return b.Items(), totals
}

func (c *Crafter) maxCraftable(recipe *Recipe) uint32 {
	bound := uint64(model.Unbounded)

	items, required := perItem(recipe.inputs)
	for _, item := range items {
		need := required[item.ID()]
		if need == 0 {
			continue
		}
		available := c.input.Available(item)
		if available < need {
			return 0
		}
		bound = min(bound, available/need)
	}

	items, produced := perItem(recipe.outputs)
	for _, item := range items {
		per := produced[item.ID()]
		if per == 0 {
			continue
		}
		free, ok := c.output.Headroom(item)
		if !ok {
			return 0
		}
		bound = min(bound, free/per)
		if bound == 0 {
			return 0
		}
	}

	return uint32(bound)
}

// Craft performs up to requested crafts.
//
// Business rules:
//  1. requested == 0 is a trivial success
//  2. a recipe must be bound and the crafter must not be mid-transaction
//  3. actual = min(requested, MaxCraftableAmount()); 0 fails
//  4. inputs drain fullest slots first, outputs top off fullest slots first
//  5. both passes run in one span: any shortfall rolls back everything
func (c *Crafter) Craft(requested uint32) CraftResult {
	if requested == 0 {
		return CraftResult{Success: true}
	}

	recipe := c.Recipe()
	if recipe == nil {
		return CraftResult{Message: MsgNoRecipe}
	}
	if c.InTransaction() {
		return CraftResult{Message: MsgInTransaction}
	}

	actual := min(requested, c.maxCraftable(recipe))
	if actual == 0 {
		return CraftResult{Message: MsgNotEnough}
	}

	res := c.produce(recipe, actual)
	if res.Success {
		slog.Debug("craft completed",
			"crafter", c.id,
			"recipe", recipe.id,
			"requested", requested,
			"crafted", actual)
	}
	return res
}

// produce consumes and creates n crafts' worth of items in one span.
func (c *Crafter) produce(recipe *Recipe, n uint32) CraftResult {
	c.BeginTransaction()

	for _, in := range recipe.inputs {
		want := uint64(in.Amount) * uint64(n)
		if got := c.input.Take(in.Item, want); got < want {
			c.Rollback()
			slog.Debug("craft rolled back",
				"crafter", c.id,
				"recipe", recipe.id,
				"item", in.Item.ID(),
				"want", want,
				"got", got)
			return CraftResult{Message: MsgInputShort}
		}
	}

	for _, out := range recipe.outputs {
		want := uint64(out.Amount) * uint64(n)
		if got := c.output.Put(out.Item, want); got < want {
			c.Rollback()
			slog.Debug("craft rolled back",
				"crafter", c.id,
				"recipe", recipe.id,
				"item", out.Item.ID(),
				"want", want,
				"got", got)
			return CraftResult{Message: MsgOutputFull}
		}
	}

	c.Commit()
	return CraftResult{Crafted: n, Success: true}
}

// Add puts units into the input bin first, then the output bin.
func (c *Crafter) Add(stack model.Stack) (added, remaining uint32, err error) {
	if stack == nil {
		return 0, 0, model.ErrNilStack
	}
	amount := uint64(stack.Amount())
	put := c.input.Put(stack.Item(), amount)
	put += c.output.Put(stack.Item(), amount-put)
	return uint32(put), uint32(amount - put), nil
}

// Subtract takes units from the output bin first, then the input bin.
func (c *Crafter) Subtract(stack model.Stack) (subtracted, remaining uint32, err error) {
	if stack == nil {
		return 0, 0, model.ErrNilStack
	}
	amount := uint64(stack.Amount())
	taken := c.output.Take(stack.Item(), amount)
	taken += c.input.Take(stack.Item(), amount-taken)
	return uint32(taken), uint32(amount - taken), nil
}

// GetCount sums item across both bins (saturating).
func (c *Crafter) GetCount(item model.Item) uint32 {
	total := c.input.Available(item) + c.output.Available(item)
	if total > model.Unbounded {
		return model.Unbounded
	}
	return uint32(total)
}

// Items returns the distinct items currently held, output bin first.
func (c *Crafter) Items() []model.Item {
	seen := make(map[string]struct{})
	var items []model.Item
	for _, bin := range []*model.Bin{c.output, c.input} {
		for _, s := range bin.Slots() {
			if s.Amount() == 0 {
				continue
			}
			if _, ok := seen[s.Item().ID()]; ok {
				continue
			}
			seen[s.Item().ID()] = struct{}{}
			items = append(items, s.Item())
		}
	}
	return items
}

// BeginTransaction opens a span on both bins.
func (c *Crafter) BeginTransaction() {
	c.input.BeginTransaction()
	c.output.BeginTransaction()
}

// Commit commits both bins.
func (c *Crafter) Commit() {
	c.input.Commit()
	c.output.Commit()
}

// Rollback rolls back both bins.
func (c *Crafter) Rollback() {
	c.input.Rollback()
	c.output.Rollback()
}

// InTransaction reports whether either bin has an open span.
func (c *Crafter) InTransaction() bool {
	return c.input.InTransaction() || c.output.InTransaction()
}

func (c *Crafter) String() string {
	var sb strings.Builder
	sb.WriteString("Crafter:\n- Recipe\n")

	recipe := c.Recipe()
	if recipe == nil {
		sb.WriteString("  - No recipe\n")
	} else {
		sb.WriteString("  - Input:\n")
		for _, in := range recipe.inputs {
			fmt.Fprintf(&sb, "    - %dx %s\n", in.Amount, in.Item.Name())
		}
		sb.WriteString("  - Output:\n")
		for _, out := range recipe.outputs {
			fmt.Fprintf(&sb, "    - %dx %s\n", out.Amount, out.Item.Name())
		}
	}

	sb.WriteString("- Inventory\n  - Input:\n")
	for _, s := range c.input.Slots() {
		fmt.Fprintf(&sb, "    - %s %d\n", s.Item().Name(), s.Amount())
	}
	sb.WriteString("  - Output:\n")
	for _, s := range c.output.Slots() {
		fmt.Fprintf(&sb, "    - %s %d\n", s.Item().Name(), s.Amount())
	}
	return sb.String()
}

var _ model.Container = (*Crafter)(nil)
