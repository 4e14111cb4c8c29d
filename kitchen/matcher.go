package kitchen

import (
	"github.com/sarchlab/kitchen/order"
	"github.com/sarchlab/kitchen/recipe"
)

// A Matcher finds the order a plate was made for.
type Matcher struct {
	live *LiveSet
}

// NewMatcher creates a matcher over the live set.
func NewMatcher(live *LiveSet) *Matcher {
	return &Matcher{live: live}
}

// Match returns the earliest-arriving pending order that the plate satisfies,
// or nil. A plate satisfies an order when it has as many ingredients as the
// order requires and every ingredient type on it is one the order requires.
//
// Duplicates are only checked through the count, so a plate of
// {Lettuce, Lettuce} satisfies an order of {Lettuce, Tomato}.
func (m *Matcher) Match(ingredients []recipe.Ingredient) *order.Order {
	if len(ingredients) == 0 {
		return nil
	}

	for _, o := range m.live.Pending() {
		if o.NumRequiredIngredients() != len(ingredients) {
			continue
		}

		if len(typeDifference(ingredients, o.RequiredIngredients())) == 0 {
			return o
		}
	}

	return nil
}

// typeDifference returns the ingredient types in a that are not in b, each
// type once.
func typeDifference(a, b []recipe.Ingredient) []recipe.Ingredient {
	inB := make(map[recipe.Ingredient]struct{}, len(b))
	for _, ing := range b {
		inB[ing] = struct{}{}
	}

	seen := make(map[recipe.Ingredient]struct{}, len(a))
	diff := []recipe.Ingredient{}

	for _, ing := range a {
		if _, ok := inB[ing]; ok {
			continue
		}

		if _, ok := seen[ing]; ok {
			continue
		}

		seen[ing] = struct{}{}
		diff = append(diff, ing)
	}

	return diff
}
