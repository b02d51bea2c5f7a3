package model

import "errors"

var (
	// ErrNilStack is returned when a container operation receives no stack.
	// It signals a programmer error, never a runtime shortfall.
	ErrNilStack = errors.New("stack cannot be nil")

	// ErrArithmeticOverflow is returned when scaling a basket overflows uint32.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
)
