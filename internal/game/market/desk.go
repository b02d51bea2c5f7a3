// Package market serializes exchanges for concurrent callers.
//
// Containers allow a single open transaction at a time and do not queue
// callers. Desk holds one lock per container id for the whole span of a
// transfer, trade or craft, acquiring two-party locks in ascending id order
// so opposite-direction exchanges cannot deadlock. Every outcome is appended
// to an optional Journal.
package market

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/tradecraft/internal/game/craft"
	"github.com/udisondev/tradecraft/internal/game/exchange"
	"github.com/udisondev/tradecraft/internal/game/shop"
	"github.com/udisondev/tradecraft/internal/model"
)

// Stats counts exchanges handled by a Desk.
type Stats struct {
	Committed int64
	Rejected  int64
}

// Desk runs exchanges under per-container locks.
// Safe for concurrent use.
type Desk struct {
	journal Journal

	mu    sync.Mutex
	locks map[string]chan struct{}

	committed atomic.Int64
	rejected  atomic.Int64

	now func() time.Time
}

// NewDesk creates a desk. journal may be nil.
func NewDesk(journal Journal) *Desk {
	return &Desk{
		journal: journal,
		locks:   make(map[string]chan struct{}),
		now:     time.Now,
	}
}

// Stats returns a snapshot of the desk counters.
func (d *Desk) Stats() Stats {
	return Stats{
		Committed: d.committed.Load(),
		Rejected:  d.rejected.Load(),
	}
}

func (d *Desk) slot(id string) chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch, ok := d.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		d.locks[id] = ch
	}
	return ch
}

// acquire locks ids in ascending order. Callers pass model.LockID values so a
// crafter and its bins share one lock. On ctx cancellation the locks taken
// so far are released and ctx.Err() is returned.
func (d *Desk) acquire(ctx context.Context, ids ...string) (release func(), err error) {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	held := make([]chan struct{}, 0, len(ids))
	release = func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, id := range ids {
		ch := d.slot(id)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-ctx.Done():
			release()
			return nil, fmt.Errorf("acquire %s: %w", id, ctx.Err())
		}
	}
	return release, nil
}

// Transfer runs exchange.Transfer with both containers locked.
func (d *Desk) Transfer(ctx context.Context, source, target model.Container, stack model.Stack, exact bool) (exchange.TransferResult, error) {
	if source == nil || target == nil {
		return exchange.TransferResult{}, exchange.ErrNilContainer
	}
	if stack == nil {
		return exchange.TransferResult{}, model.ErrNilStack
	}

	release, err := d.acquire(ctx, model.LockID(source), model.LockID(target))
	if err != nil {
		return exchange.TransferResult{}, err
	}
	res, err := exchange.Transfer(source, target, stack, exact)
	release()
	if err != nil {
		return exchange.TransferResult{}, err
	}

	d.record(ctx, Entry{
		Kind:    KindTransfer,
		Source:  source.ID(),
		Target:  target.ID(),
		Subject: stack.Item().ID(),
		Amount:  res.Moved,
		Success: res.Success,
		Message: res.Message,
	})
	return res, nil
}

// DrainAll runs exchange.DrainAll with both containers locked. It records one
// transfer entry per item moved and one for the refused item, if any.
func (d *Desk) DrainAll(ctx context.Context, source exchange.Stocked, target model.Container) (map[string]uint32, error) {
	if source == nil || target == nil {
		return nil, exchange.ErrNilContainer
	}

	release, err := d.acquire(ctx, model.LockID(source), model.LockID(target))
	if err != nil {
		return nil, err
	}
	items := source.Items()
	moved, err := exchange.DrainAll(source, target)
	release()

	for _, item := range items {
		n, ok := moved[item.ID()]
		if !ok {
			continue
		}
		d.record(ctx, Entry{
			Kind:    KindTransfer,
			Source:  source.ID(),
			Target:  target.ID(),
			Subject: item.ID(),
			Amount:  n,
			Success: true,
		})
	}
	var refused *exchange.TransferError
	if errors.As(err, &refused) {
		d.record(ctx, Entry{
			Kind:    KindTransfer,
			Source:  source.ID(),
			Target:  target.ID(),
			Subject: refused.Item,
			Message: refused.Message,
		})
	}
	return moved, err
}

// Trade runs s.TradeByID with buyer and shop locked.
func (d *Desk) Trade(ctx context.Context, buyer model.Container, s *shop.Shop, entryID string, multiplier uint32) (exchange.TradeResult, error) {
	if buyer == nil || s == nil {
		return exchange.TradeResult{}, exchange.ErrNilContainer
	}

	release, err := d.acquire(ctx, model.LockID(buyer), s.ID())
	if err != nil {
		return exchange.TradeResult{}, err
	}
	res, err := s.TradeByID(buyer, entryID, multiplier)
	release()
	if err != nil {
		return exchange.TradeResult{}, err
	}

	d.record(ctx, Entry{
		Kind:    KindTrade,
		Source:  s.ID(),
		Target:  buyer.ID(),
		Subject: entryID,
		Amount:  multiplier,
		Success: res.Success,
		Message: res.Message,
	})
	return res, nil
}

// Craft runs c.Craft with the crafter locked.
func (d *Desk) Craft(ctx context.Context, c *craft.Crafter, requested uint32) (craft.CraftResult, error) {
	if c == nil {
		return craft.CraftResult{}, exchange.ErrNilContainer
	}

	release, err := d.acquire(ctx, c.ID())
	if err != nil {
		return craft.CraftResult{}, err
	}
	res := c.Craft(requested)
	recipe := c.Recipe()
	release()

	var subject string
	if recipe != nil {
		subject = recipe.ID()
	}
	d.record(ctx, Entry{
		Kind:    KindCraft,
		Source:  c.ID(),
		Target:  c.ID(),
		Subject: subject,
		Amount:  res.Crafted,
		Success: res.Success,
		Message: res.Message,
	})
	return res, nil
}

// record counts the outcome and appends it to the journal.
// Journal failures are logged; the exchange itself stays committed.
func (d *Desk) record(ctx context.Context, e Entry) {
	if e.Success {
		d.committed.Add(1)
	} else {
		d.rejected.Add(1)
	}

	if d.journal == nil {
		return
	}
	e.At = d.now()
	if err := d.journal.Record(context.WithoutCancel(ctx), e); err != nil {
		slog.Warn("record journal entry",
			"kind", e.Kind,
			"source", e.Source,
			"target", e.Target,
			"subject", e.Subject,
			"error", err)
	}
}
