package shop

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrDuplicateTrade is returned when an entry id is already listed.
	ErrDuplicateTrade = errors.New("duplicate trade entry")

	// ErrNilEntry is returned when adding a nil entry.
	ErrNilEntry = errors.New("trade entry cannot be nil")
)

// Catalog is an ordered list of trade entries keyed by id.
// Safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	entries []*TradeEntry
	byID    map[string]*TradeEntry
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byID: make(map[string]*TradeEntry)}
}

// Add appends entry to the catalog.
func (c *Catalog) Add(entry *TradeEntry) error {
	if entry == nil {
		return ErrNilEntry
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[entry.id]; exists {
		return fmt.Errorf("adding %q: %w", entry.id, ErrDuplicateTrade)
	}
	c.entries = append(c.entries, entry)
	c.byID[entry.id] = entry
	return nil
}

// Remove deletes the entry with id. Returns false if it was not listed.
func (c *Catalog) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[id]; !exists {
		return false
	}
	delete(c.byID, id)
	c.entries = slices.DeleteFunc(c.entries, func(e *TradeEntry) bool {
		return e.id == id
	})
	return true
}

// Get returns the entry with id, or nil.
func (c *Catalog) Get(id string) *TradeEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byID[id]
}

// Contains reports whether this exact entry is listed.
func (c *Catalog) Contains(entry *TradeEntry) bool {
	if entry == nil {
		return false
	}
	return c.Get(entry.id) == entry
}

// Entries returns listed entries in insertion order.
func (c *Catalog) Entries() []*TradeEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.entries)
}

// Len returns the number of listed entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
