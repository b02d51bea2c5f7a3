// Package shop implements a trade catalog over a stockpile.
//
// A Shop sells catalog entries: the buyer pays the scaled cost basket into
// the shop stock and receives the scaled reward basket from it, atomically.
package shop

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/udisondev/tradecraft/internal/game/exchange"
	"github.com/udisondev/tradecraft/internal/model"
)

// Shop-level failure messages. Basket failures use the exchange messages.
const (
	MsgShopInTransaction = "shop in transaction"
	MsgTotalOverflows    = "trade total overflows"
)

// ErrNilBuyer is returned when Trade is called without a buyer.
var ErrNilBuyer = errors.New("buyer cannot be nil")

// Shop owns a stockpile and a catalog of offers.
// Shop is itself a model.Container backed by its stock, so it can be
// restocked and drained with exchange.Transfer.
type Shop struct {
	stock   *model.Stockpile
	catalog *Catalog
}

// NewShop creates a shop with empty stock and catalog.
// The stock's container id equals the shop id.
func NewShop(id string) *Shop {
	return &Shop{
		stock:   model.NewStockpile(id),
		catalog: NewCatalog(),
	}
}

// ID returns the shop identifier.
func (s *Shop) ID() string { return s.stock.ID() }

// Stock returns the backing stockpile.
func (s *Shop) Stock() *model.Stockpile { return s.stock }

// Catalog returns the offer catalog.
func (s *Shop) Catalog() *Catalog { return s.catalog }

// AddTrade lists entry.
func (s *Shop) AddTrade(entry *TradeEntry) error {
	return s.catalog.Add(entry)
}

// RemoveTrade unlists the entry with id.
func (s *Shop) RemoveTrade(id string) bool {
	return s.catalog.Remove(id)
}

// Trade sells multiplier units of entry to buyer.
//
// Flow:
//  1. entry must be listed here; buyer must not be this shop
//  2. neither party may be mid-transaction
//  3. cost and reward are scaled; overflow rejects before any mutation
//  4. exchange.TradeBaskets swaps the baskets atomically
func (s *Shop) Trade(buyer model.Container, entry *TradeEntry, multiplier uint32) (exchange.TradeResult, error) {
	if buyer == nil {
		return exchange.TradeResult{}, ErrNilBuyer
	}
	if entry == nil {
		return exchange.TradeResult{}, ErrNilEntry
	}

	if !s.catalog.Contains(entry) {
		return s.rejected(buyer, entry, fmt.Sprintf("trade (%s) not found", entry.ID())), nil
	}
	if buyer == model.Container(s) || buyer == model.Container(s.stock) {
		return s.rejected(buyer, entry, exchange.MsgSelfTrade), nil
	}
	if buyer.InTransaction() {
		return s.rejected(buyer, entry, exchange.MsgBuyerInTransaction), nil
	}
	if s.stock.InTransaction() {
		return s.rejected(buyer, entry, MsgShopInTransaction), nil
	}

	cost, err := entry.Cost(multiplier)
	if err != nil {
		return s.rejected(buyer, entry, MsgTotalOverflows), nil
	}
	reward, err := entry.Reward(multiplier)
	if err != nil {
		return s.rejected(buyer, entry, MsgTotalOverflows), nil
	}

	res, err := exchange.TradeBaskets(buyer, s.stock, cost, reward)
	if err != nil {
		return exchange.TradeResult{}, fmt.Errorf("trade %s: %w", entry.ID(), err)
	}
	if !res.Success {
		return s.rejected(buyer, entry, res.Message), nil
	}

	slog.Debug("shop trade completed",
		"shop", s.ID(),
		"buyer", buyer.ID(),
		"entry", entry.ID(),
		"multiplier", multiplier)
	return res, nil
}

// TradeByID looks entryID up in the catalog and calls Trade.
func (s *Shop) TradeByID(buyer model.Container, entryID string, multiplier uint32) (exchange.TradeResult, error) {
	entry := s.catalog.Get(entryID)
	if entry == nil {
		return exchange.TradeResult{Message: fmt.Sprintf("trade (%s) not found", entryID)}, nil
	}
	return s.Trade(buyer, entry, multiplier)
}

func (s *Shop) rejected(buyer model.Container, entry *TradeEntry, msg string) exchange.TradeResult {
	slog.Debug("shop trade rejected",
		"shop", s.ID(),
		"buyer", buyer.ID(),
		"entry", entry.ID(),
		"reason", msg)
	return exchange.TradeResult{Message: msg}
}

// Container over stock.

func (s *Shop) Add(stack model.Stack) (added, remaining uint32, err error) {
	return s.stock.Add(stack)
}

func (s *Shop) Subtract(stack model.Stack) (subtracted, remaining uint32, err error) {
	return s.stock.Subtract(stack)
}

func (s *Shop) GetCount(item model.Item) uint32 { return s.stock.GetCount(item) }
func (s *Shop) BeginTransaction()               { s.stock.BeginTransaction() }
func (s *Shop) Commit()                         { s.stock.Commit() }
func (s *Shop) Rollback()                       { s.stock.Rollback() }
func (s *Shop) InTransaction() bool             { return s.stock.InTransaction() }

func (s *Shop) String() string {
	var sb strings.Builder
	sb.WriteString("Shop:\n")

	entries := s.catalog.Entries()
	if len(entries) == 0 {
		sb.WriteString("- No trades available\n")
		return sb.String()
	}

	for _, e := range entries {
		fmt.Fprintf(&sb, "- Offer (%s)\n", e.id)
		sb.WriteString("  - Cost:\n")
		for _, p := range e.cost {
			fmt.Fprintf(&sb, "    - %dx %s\n", p.Amount, p.Item.Name())
		}
		sb.WriteString("  - Reward:\n")
		for _, p := range e.reward {
			fmt.Fprintf(&sb, "    - %dx %s\n", p.Amount, p.Item.Name())
		}
	}
	return sb.String()
}

var _ model.Container = (*Shop)(nil)
