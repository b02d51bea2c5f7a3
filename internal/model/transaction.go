package model

// Container is the transactional quantity contract shared by Inventory, Bin,
// Stockpile and the crafter.
//
// While InTransaction, Add/Subtract/GetCount act on a working copy that only
// replaces the committed state on Commit. A container supports one open span at
// a time; callers serialize spans on the same instance themselves.
type Container interface {
	ID() string

	Add(stack Stack) (added, remaining uint32, err error)
	Subtract(stack Stack) (subtracted, remaining uint32, err error)
	GetCount(item Item) uint32

	BeginTransaction()
	Commit()
	Rollback()
	InTransaction() bool
}

// Owned is implemented by containers that are part of a larger container and
// share its lock.
type Owned interface {
	Owner() string
}

// LockID returns the id that serializes spans on c: its owner's id when c is
// Owned, otherwise c.ID().
func LockID(c Container) string {
	if o, ok := c.(Owned); ok && o.Owner() != "" {
		return o.Owner()
	}
	return c.ID()
}

// snapshot is the Idle/InTransaction state machine over a state value T.
// Callers hold the owning container's lock.
type snapshot[T any] struct {
	committed T
	working   T
	active    bool
	clone     func(T) T
}

func newSnapshot[T any](initial T, clone func(T) T) snapshot[T] {
	return snapshot[T]{committed: initial, clone: clone}
}

// view returns the state that reads and writes currently target.
func (s *snapshot[T]) view() *T {
	if s.active {
		return &s.working
	}
	return &s.committed
}

func (s *snapshot[T]) begin() {
	if s.active {
		return
	}
	s.working = s.clone(s.committed)
	s.active = true
}

func (s *snapshot[T]) commit() {
	if !s.active {
		return
	}
	s.committed = s.working
	var zero T
	s.working = zero
	s.active = false
}

func (s *snapshot[T]) rollback() {
	if !s.active {
		return
	}
	var zero T
	s.working = zero
	s.active = false
}

// replace swaps the committed state. Only valid while idle.
func (s *snapshot[T]) replace(state T) {
	s.committed = state
}

var (
	_ Container = (*Inventory)(nil)
	_ Container = (*Bin)(nil)
	_ Container = (*Stockpile)(nil)
)
