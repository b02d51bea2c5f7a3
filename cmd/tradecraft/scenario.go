package main

import (
	"context"
	"fmt"
	"io"

	"github.com/udisondev/tradecraft/internal/config"
	"github.com/udisondev/tradecraft/internal/data"
	"github.com/udisondev/tradecraft/internal/game/craft"
	"github.com/udisondev/tradecraft/internal/game/market"
	"github.com/udisondev/tradecraft/internal/model"
)

// scenarioTrades is how many units the scripted player buys.
const scenarioTrades = 50

func status(ok bool) string {
	if ok {
		return "succeeded"
	}
	return "failed"
}

func orNothing(msg string) string {
	if msg == "" {
		return "nothing"
	}
	return msg
}

func title(w io.Writer, s string) {
	fmt.Fprintf(w, "=== %s ===\n", s)
}

func newInventory(id string, cfg config.InventoryConfig) *model.Inventory {
	if cfg.MaxStacks > 0 {
		return model.NewInventory(id, model.WithMaxStacks(cfg.MaxStacks))
	}
	return model.NewInventory(id)
}

// runScenario walks one player through buy, feed, craft and collect,
// printing container state after every step.
func runScenario(ctx context.Context, w io.Writer, cfg config.Config, catalog *data.Catalog, desk *market.Desk) error {
	entry, err := catalog.Trade(cfg.Market.Trade)
	if err != nil {
		return err
	}
	recipe, err := catalog.Recipe(cfg.Market.Recipe)
	if err != nil {
		return err
	}
	cost := entry.BaseCost()
	if len(cost) == 0 {
		return fmt.Errorf("trade %s has no cost", entry.ID())
	}
	currency := cost[0].Item

	title(w, "Shop setup")
	quarry, err := catalog.NewShop(cfg.Market.Shop)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, quarry)

	title(w, "Inventory setup")
	player := newInventory("player", cfg.Inventory)
	if _, _, err := player.Add(model.NewOverflowStack(currency, cfg.Market.Funds)); err != nil {
		return err
	}
	fmt.Fprintln(w, player)

	title(w, "Trade")
	scaled, err := entry.Cost(scenarioTrades)
	if err != nil {
		return err
	}
	reward, err := entry.Reward(scenarioTrades)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Trade: %s -> %s\n\n", scaled, reward)
	tr, err := desk.Trade(ctx, player, quarry, entry.ID(), scenarioTrades)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Trade Status:\n- Status: %s\n- Message: %s\n\n", status(tr.Success), orNothing(tr.Message))
	fmt.Fprintln(w, quarry)
	fmt.Fprintln(w, player)

	title(w, "Crafter setup")
	crafter := craft.NewCrafter("workbench")
	if !crafter.SetRecipe(recipe) {
		return fmt.Errorf("binding recipe %s", recipe.ID())
	}
	fmt.Fprintln(w, crafter)

	title(w, "Transferring items to crafter")
	for _, in := range recipe.Inputs() {
		stack := model.NewCappedStack(in.Item, in.Item.Capacity())
		if err := loggedTransfer(ctx, w, desk, player, crafter, stack, false); err != nil {
			return err
		}
	}
	fmt.Fprintln(w, crafter)
	fmt.Fprintln(w, player)

	title(w, "Crafting")
	fmt.Fprintln(w, "Craft:")
	for _, out := range recipe.Outputs() {
		fmt.Fprintf(w, "- max %s\n", out.Item.Name())
	}
	fmt.Fprintln(w)
	cr, err := desk.Craft(ctx, crafter, model.Unbounded)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Craft Status:\n- Status: %s\n- Message: %s\n- Used:\n", status(cr.Success), orNothing(cr.Message))
	for _, in := range recipe.Inputs() {
		fmt.Fprintf(w, "  - %dx %s\n", uint64(in.Amount)*uint64(cr.Crafted), in.Item.Name())
	}
	fmt.Fprintln(w, "- Created:")
	for _, out := range recipe.Outputs() {
		fmt.Fprintf(w, "  - %dx %s\n", uint64(out.Amount)*uint64(cr.Crafted), out.Item.Name())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, crafter)

	title(w, "Transferring items from crafter")
	for _, out := range recipe.Outputs() {
		// exact full-stack withdrawal fails while the bin holds less
		stack := model.NewCappedStack(out.Item, out.Item.Capacity())
		if err := loggedTransfer(ctx, w, desk, crafter, player, stack, true); err != nil {
			return err
		}
	}
	held := crafter.Items()
	moved, err := desk.DrainAll(ctx, crafter, player)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Collect:")
	for _, item := range held {
		fmt.Fprintf(w, "- %d %s\n", moved[item.ID()], item.Name())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, crafter)
	fmt.Fprintln(w, player)
	return nil
}

func loggedTransfer(ctx context.Context, w io.Writer, desk *market.Desk, source, target model.Container, stack model.Stack, exact bool) error {
	name := stack.Item().Name()
	fmt.Fprintf(w, "Transfer: %d %s from `%s` to `%s`\n", stack.Amount(), name, source.ID(), target.ID())

	res, err := desk.Transfer(ctx, source, target, stack, exact)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Transfer Status:\n- Transferred: %d %s\n- Status: %s\n- Message: %s\n\n",
		res.Moved, name, status(res.Success), orNothing(res.Message))
	return nil
}
