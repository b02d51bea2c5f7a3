package craft

import (
	"errors"
	"fmt"

	"github.com/udisondev/tradecraft/internal/model"
)

// ErrZeroIngredient is returned for a recipe input with amount 0.
var ErrZeroIngredient = errors.New("recipe input amount must be > 0")

// Recipe is an immutable input/output stoichiometry.
type Recipe struct {
	id      string
	inputs  model.Basket
	outputs model.Basket
}

// NewRecipe validates and copies the baskets.
//
// Zero-amount outputs are allowed and ignored by the craft bound; zero-amount
// inputs are rejected.
func NewRecipe(id string, inputs, outputs model.Basket) (*Recipe, error) {
	for _, in := range inputs {
		if in.Amount == 0 {
			return nil, fmt.Errorf("recipe %q input %s: %w", id, in.Item.ID(), ErrZeroIngredient)
		}
	}
	return &Recipe{
		id:      id,
		inputs:  inputs.Clone(),
		outputs: outputs.Clone(),
	}, nil
}

// ID returns the recipe identifier.
func (r *Recipe) ID() string { return r.id }

// Inputs returns a copy of the consumed basket (per craft).
func (r *Recipe) Inputs() model.Basket { return r.inputs.Clone() }

// Outputs returns a copy of the produced basket (per craft).
func (r *Recipe) Outputs() model.Basket { return r.outputs.Clone() }

func (r *Recipe) String() string {
	return fmt.Sprintf("%s: %s -> %s", r.id, r.inputs, r.outputs)
}
