package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/message"

	"github.com/udisondev/tradecraft/internal/config"
	"github.com/udisondev/tradecraft/internal/data"
	"github.com/udisondev/tradecraft/internal/game/craft"
	"github.com/udisondev/tradecraft/internal/game/market"
	"github.com/udisondev/tradecraft/internal/model"
)

// marketReport summarises one simulation run.
type marketReport struct {
	Buyers   int
	Rounds   int
	Elapsed  time.Duration
	Currency model.Item

	Issued   uint64 // currency handed to buyers
	Held     uint64 // currency held by buyers, crafters and the shop
	Consumed uint64 // currency burnt as a craft ingredient

	Trades    int64
	Crafted   int64
	Committed int64
	Rejected  int64
}

func (r marketReport) print(p *message.Printer, w io.Writer) {
	p.Fprintf(w, "=== Market ===\n")
	p.Fprintf(w, "buyers: %d, rounds: %d, elapsed: %v\n", r.Buyers, r.Rounds, r.Elapsed.Round(time.Millisecond))
	p.Fprintf(w, "trades: %d, crafted: %d\n", r.Trades, r.Crafted)
	p.Fprintf(w, "exchanges: %d committed, %d rejected\n", r.Committed, r.Rejected)
	p.Fprintf(w, "%s: %d issued = %d held + %d consumed\n", r.Currency.Name(), r.Issued, r.Held, r.Consumed)
}

// check verifies that no currency was created or lost.
func (r marketReport) check() error {
	if r.Issued != r.Held+r.Consumed {
		return fmt.Errorf("%s not conserved: issued %d, held %d, consumed %d",
			r.Currency.ID(), r.Issued, r.Held, r.Consumed)
	}
	return nil
}

type trader struct {
	inv     *model.Inventory
	crafter *craft.Crafter
}

// simulate runs cfg.Market.Buyers goroutines against one shop through desk.
//
// Each round a buyer:
//  1. buys from the shop
//  2. gifts part of the reward to its neighbour
//  3. feeds its crafter, crafts as much as possible and collects outputs
func simulate(ctx context.Context, cfg config.Config, catalog *data.Catalog, desk *market.Desk) (marketReport, error) {
	mc := cfg.Market

	entry, err := catalog.Trade(mc.Trade)
	if err != nil {
		return marketReport{}, err
	}
	recipe, err := catalog.Recipe(mc.Recipe)
	if err != nil {
		return marketReport{}, err
	}
	quarry, err := catalog.NewShop(mc.Shop)
	if err != nil {
		return marketReport{}, err
	}
	cost, rewards := entry.BaseCost(), entry.BaseReward()
	if len(cost) == 0 || len(rewards) == 0 {
		return marketReport{}, fmt.Errorf("trade %s needs a cost and a reward", entry.ID())
	}
	currency, good := cost[0].Item, rewards[0].Item

	traders := make([]trader, mc.Buyers)
	for i := range traders {
		id := fmt.Sprintf("buyer-%03d", i)
		inv := newInventory(id, cfg.Inventory)
		added, _, err := inv.Add(model.NewOverflowStack(currency, mc.Funds))
		if err != nil {
			return marketReport{}, err
		}
		if added != mc.Funds {
			return marketReport{}, fmt.Errorf("%s holds only %d of %d %s", id, added, mc.Funds, currency.ID())
		}
		c := craft.NewCrafter(id + "/bench")
		c.SetRecipe(recipe)
		traders[i] = trader{inv: inv, crafter: c}
	}

	var trades, crafted atomic.Int64
	started := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range traders {
		neighbour := traders[(i+1)%len(traders)].inv
		g.Go(func() error {
			for round := range mc.Rounds {
				tr, err := desk.Trade(gctx, t.inv, quarry, entry.ID(), mc.Multiplier)
				if err != nil {
					return err
				}
				if tr.Success {
					trades.Add(1)
				}

				gift := model.NewCappedStack(good, uint32(round%3))
				if _, err := desk.Transfer(gctx, t.inv, neighbour, gift, false); err != nil {
					return err
				}

				n, err := craftRound(gctx, desk, t, recipe)
				if err != nil {
					return err
				}
				crafted.Add(int64(n))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return marketReport{}, err
	}

	report := marketReport{
		Buyers:   mc.Buyers,
		Rounds:   mc.Rounds,
		Elapsed:  time.Since(started),
		Currency: currency,
		Issued:   uint64(mc.Buyers) * uint64(mc.Funds),
		Held:     uint64(quarry.GetCount(currency)),
		Trades:   trades.Load(),
		Crafted:  crafted.Load(),
	}
	for _, t := range traders {
		report.Held += uint64(t.inv.GetCount(currency)) + uint64(t.crafter.GetCount(currency))
	}
	for _, in := range recipe.Inputs() {
		if in.Item.Equal(currency) {
			report.Consumed += uint64(in.Amount) * uint64(report.Crafted)
		}
	}
	stats := desk.Stats()
	report.Committed, report.Rejected = stats.Committed, stats.Rejected

	slog.Info("market simulation finished",
		"buyers", report.Buyers,
		"rounds", report.Rounds,
		"trades", report.Trades,
		"crafted", report.Crafted,
		"elapsed", report.Elapsed)

	return report, nil
}

// craftRound moves one stack of every input into the trader's crafter,
// crafts the maximum and moves every output back.
func craftRound(ctx context.Context, desk *market.Desk, t trader, recipe *craft.Recipe) (uint32, error) {
	for _, in := range recipe.Inputs() {
		stack := model.NewCappedStack(in.Item, in.Item.Capacity())
		if _, err := desk.Transfer(ctx, t.inv, t.crafter, stack, false); err != nil {
			return 0, err
		}
	}

	res, err := desk.Craft(ctx, t.crafter, model.Unbounded)
	if err != nil {
		return 0, err
	}

	for _, out := range recipe.Outputs() {
		stack := model.NewOverflowStack(out.Item, t.crafter.Output().GetCount(out.Item))
		if _, err := desk.Transfer(ctx, t.crafter, t.inv, stack, false); err != nil {
			return 0, err
		}
	}
	return res.Crafted, nil
}
