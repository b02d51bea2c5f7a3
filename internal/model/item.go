package model

import (
	"fmt"
	"math"
)

// Unbounded is the capacity reported by items created with capacity 0 and by
// Overflow/Unlimited stacks.
const Unbounded = math.MaxUint32

// Item is an immutable resource definition.
// Two items are the same resource iff their IDs match; name and capacity are
// descriptive only, containers key their tables by ID.
type Item struct {
	id       string
	name     string
	capacity uint32
}

// NewItem создаёт item definition.
//
// Parameters:
//   - id: unique key (interned, compared by value)
//   - name: display name
//   - capacity: per-stack capacity, 0 = unbounded
func NewItem(id, name string, capacity uint32) Item {
	if capacity == 0 {
		capacity = Unbounded
	}
	return Item{id: id, name: name, capacity: capacity}
}

// ID returns the unique item key.
func (i Item) ID() string {
	return i.id
}

// Name returns the display name.
func (i Item) Name() string {
	return i.name
}

// Capacity returns the per-stack capacity (Unbounded for capacity 0 items).
func (i Item) Capacity() uint32 {
	return i.capacity
}

// Equal reports whether both values describe the same resource.
func (i Item) Equal(other Item) bool {
	return i.id == other.id
}

// IsZero returns true for the zero Item (no ID).
func (i Item) IsZero() bool {
	return i.id == ""
}

func (i Item) String() string {
	return fmt.Sprintf("%s (%s) - Max %d", i.name, i.id, i.capacity)
}
