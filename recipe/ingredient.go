package recipe

import (
	"fmt"
	"strings"
)

// Ingredient is a type of ingredient that can be put on a plate.
type Ingredient uint8

// The ingredients known to the kitchen. The zero value is not an ingredient.
const (
	NoIngredient Ingredient = iota
	Bun
	Patty
	Lettuce
	Tomato
	Cheese
	Onion
	Pickle
	Bacon
	numIngredients
)

var ingredientNames = [...]string{
	NoIngredient: "None",
	Bun:          "Bun",
	Patty:        "Patty",
	Lettuce:      "Lettuce",
	Tomato:       "Tomato",
	Cheese:       "Cheese",
	Onion:        "Onion",
	Pickle:       "Pickle",
	Bacon:        "Bacon",
}

// AllIngredients returns every valid ingredient.
func AllIngredients() []Ingredient {
	all := make([]Ingredient, 0, numIngredients-1)
	for i := Bun; i < numIngredients; i++ {
		all = append(all, i)
	}

	return all
}

// Valid tells if i is a known ingredient.
func (i Ingredient) Valid() bool {
	return i > NoIngredient && i < numIngredients
}

func (i Ingredient) String() string {
	if i >= numIngredients {
		return fmt.Sprintf("Ingredient(%d)", uint8(i))
	}

	return ingredientNames[i]
}

// MarshalText encodes the ingredient by name.
func (i Ingredient) MarshalText() ([]byte, error) {
	if !i.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownIngredient, uint8(i))
	}

	return []byte(i.String()), nil
}

// UnmarshalText decodes an ingredient name.
func (i *Ingredient) UnmarshalText(text []byte) error {
	parsed, err := ParseIngredient(string(text))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}

// ParseIngredient finds an ingredient by name, ignoring case and surrounding
// spaces.
func ParseIngredient(name string) (Ingredient, error) {
	trimmed := strings.TrimSpace(name)
	for i := Bun; i < numIngredients; i++ {
		if strings.EqualFold(ingredientNames[i], trimmed) {
			return i, nil
		}
	}

	return NoIngredient, fmt.Errorf("%w: %q", ErrUnknownIngredient, name)
}

// ParseIngredients parses a list of ingredient names.
func ParseIngredients(names []string) ([]Ingredient, error) {
	out := make([]Ingredient, 0, len(names))
	for _, n := range names {
		ing, err := ParseIngredient(n)
		if err != nil {
			return nil, err
		}

		out = append(out, ing)
	}

	return out, nil
}
