package recipe

import (
	"errors"
	"math/rand"
)

// A Catalog is a read-only, indexable sequence of recipes.
type Catalog interface {
	Len() int
	At(i int) Recipe
}

// List is a Catalog backed by a slice.
type List []Recipe

// NewList validates the recipes and returns them as a catalog. The recipes are
// copied, so the caller may reuse its slices.
func NewList(recipes ...Recipe) (List, error) {
	if len(recipes) == 0 {
		return nil, ErrEmptyCatalog
	}

	var errs []error

	l := make(List, 0, len(recipes))
	for _, r := range recipes {
		if err := r.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}

		l = append(l, r.Clone())
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return l, nil
}

// Len returns the number of recipes.
func (l List) Len() int {
	return len(l)
}

// At returns the i-th recipe.
func (l List) At(i int) Recipe {
	return l[i]
}

// A Sampler draws recipes uniformly at random from a catalog. Samplers with
// the same seed draw the same sequence.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler seeded with seed.
func NewSampler(seed int64) *Sampler {
	return NewSamplerWithSource(rand.NewSource(seed))
}

// NewSamplerWithSource creates a sampler that draws from src.
func NewSamplerWithSource(src rand.Source) *Sampler {
	return &Sampler{rng: rand.New(src)}
}

// Sample picks a recipe and returns an independent copy of it.
func (s *Sampler) Sample(c Catalog) (Recipe, error) {
	if c == nil || c.Len() == 0 {
		return Recipe{}, ErrEmptyCatalog
	}

	return c.At(s.rng.Intn(c.Len())).Clone(), nil
}
