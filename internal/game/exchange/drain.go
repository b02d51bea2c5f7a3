package exchange

import "github.com/udisondev/tradecraft/internal/model"

// Stocked is a container that can list the items it holds.
type Stocked interface {
	model.Container
	Items() []model.Item
}

// Drain moves as much of item from source to target as target accepts.
//
// An Unlimited source reports model.Unbounded, so draining shop stock asks
// target for that many units; an Inventory without a stack limit accepts at
// most its per-Add ceiling.
func Drain(source, target model.Container, item model.Item) (TransferResult, error) {
	if source == nil || target == nil {
		return TransferResult{}, ErrNilContainer
	}
	return Transfer(source, target, model.NewOverflowStack(item, source.GetCount(item)), false)
}

// DrainAll drains every item held by source into target, in source.Items()
// order. Returns the amount moved per item ID; it stops at the first failed
// transfer and reports it as *TransferError.
func DrainAll(source Stocked, target model.Container) (map[string]uint32, error) {
	if source == nil || target == nil {
		return nil, ErrNilContainer
	}

	moved := make(map[string]uint32)
	for _, item := range source.Items() {
		res, err := Drain(source, target, item)
		if err != nil {
			return moved, err
		}
		if !res.Success {
			return moved, &TransferError{Item: item.ID(), Message: res.Message}
		}
		if res.Moved > 0 {
			moved[item.ID()] = res.Moved
		}
	}
	return moved, nil
}

// TransferError reports a refused transfer inside a multi-item drain.
type TransferError struct {
	Item    string
	Message string
}

func (e *TransferError) Error() string {
	return "drain " + e.Item + ": " + e.Message
}
