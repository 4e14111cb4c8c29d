// Package recipe defines the ingredients, the recipe templates that orders
// are made from, and the catalog a level draws its orders from.
package recipe

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownIngredient is returned for ingredient names or values the
	// kitchen does not know.
	ErrUnknownIngredient = errors.New("unknown ingredient")

	// ErrEmptyRecipe is returned for a recipe without ingredients.
	ErrEmptyRecipe = errors.New("recipe has no ingredients")

	// ErrNonPositiveBudget is returned for a recipe whose time budget is not
	// positive.
	ErrNonPositiveBudget = errors.New("recipe time budget must be positive")

	// ErrEmptyCatalog is returned when sampling from a catalog with no
	// recipes.
	ErrEmptyCatalog = errors.New("recipe catalog is empty")
)

// A Recipe is the template of an order: the ingredients the customer wants
// and how many seconds they are willing to wait.
type Recipe struct {
	Name        string
	Ingredients []Ingredient
	TimeBudget  float64
}

// Clone returns a deep copy of the recipe.
func (r Recipe) Clone() Recipe {
	r.Ingredients = slices.Clone(r.Ingredients)
	return r
}

// Validate checks that the recipe can be served.
func (r Recipe) Validate() error {
	var errs []error

	if len(r.Ingredients) == 0 {
		errs = append(errs, ErrEmptyRecipe)
	}

	for _, ing := range r.Ingredients {
		if !ing.Valid() {
			errs = append(errs, fmt.Errorf("%w: %d", ErrUnknownIngredient, uint8(ing)))
		}
	}

	if r.TimeBudget <= 0 {
		errs = append(errs, ErrNonPositiveBudget)
	}

	if len(errs) > 0 {
		return fmt.Errorf("recipe %q: %w", r.Name, errors.Join(errs...))
	}

	return nil
}
