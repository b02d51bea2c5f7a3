package exchange

import "github.com/udisondev/tradecraft/internal/model"

// span is an all-or-nothing transaction over several containers.
// rollback after commit is a no-op, so callers can always defer it.
type span struct {
	parties []model.Container
	closed  bool
}

func open(parties ...model.Container) *span {
	for _, p := range parties {
		p.BeginTransaction()
	}
	return &span{parties: parties}
}

func (s *span) commit() {
	if s.closed {
		return
	}
	for _, p := range s.parties {
		p.Commit()
	}
	s.closed = true
}

func (s *span) rollback() {
	if s.closed {
		return
	}
	for _, p := range s.parties {
		p.Rollback()
	}
	s.closed = true
}
