// Package exchange coordinates atomic changes across two containers.
//
// Every routine opens a transaction on both parties, applies single-container
// Add/Subtract steps and either commits both or rolls back both. Shortfalls
// are reported through result structs; errors are returned only for missing
// arguments.
package exchange

import (
	"errors"

	"github.com/udisondev/tradecraft/internal/model"
)

// ErrNilContainer is returned when a party is missing.
var ErrNilContainer = errors.New("container cannot be nil")

// Transfer failure messages.
const (
	MsgSourceInTransaction = "source in transaction"
	MsgTargetInTransaction = "target in transaction"
	MsgNotEnoughAtSource   = "not enough items at source"
	MsgTargetRefused       = "target could not accept entire amount"
	MsgSourceShort         = "source failed to subtract"
)

// TransferResult represents the outcome of a transfer.
type TransferResult struct {
	Moved   uint32
	Success bool
	Message string
}

func transferFailed(msg string) TransferResult {
	return TransferResult{Message: msg}
}

// Transfer moves stack.Amount() units of stack.Item() from source to target.
//
// With exact, either the whole amount moves or nothing does. Without exact,
// the request is first clamped to what source holds and then to what target
// accepts. On success target gains exactly Moved units and source loses the
// same; on failure both parties are left untouched.
func Transfer(source, target model.Container, stack model.Stack, exact bool) (TransferResult, error) {
	if source == nil || target == nil {
		return TransferResult{}, ErrNilContainer
	}
	if stack == nil {
		return TransferResult{}, model.ErrNilStack
	}

	if source == target {
		return TransferResult{Success: true}, nil
	}
	if source.InTransaction() {
		return transferFailed(MsgSourceInTransaction), nil
	}
	if target.InTransaction() {
		return transferFailed(MsgTargetInTransaction), nil
	}

	item := stack.Item()
	available := source.GetCount(item)
	desired := stack.Amount()
	if !exact {
		desired = min(available, desired)
	}
	if available < desired {
		return transferFailed(MsgNotEnoughAtSource), nil
	}

	sp := open(source, target)
	defer sp.rollback()

	// Carrier is unclamped so target's own back-fill policy decides what fits.
	added, _, err := target.Add(model.NewOverflowStack(item, desired))
	if err != nil {
		return TransferResult{}, err
	}
	if exact && added != desired {
		return transferFailed(MsgTargetRefused), nil
	}

	subtracted, remaining, err := source.Subtract(model.NewOverflowStack(item, added))
	if err != nil {
		return TransferResult{}, err
	}
	if remaining != 0 {
		return transferFailed(MsgSourceShort), nil
	}

	sp.commit()
	return TransferResult{Moved: subtracted, Success: true}, nil
}
