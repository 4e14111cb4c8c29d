package kitchen

import (
	"errors"
	"fmt"

	"github.com/sarchlab/kitchen/recipe"
	"github.com/sarchlab/kitchen/sim/timing"
)

var (
	// ErrEmptyCatalog is returned when a level has no recipe to draw from.
	ErrEmptyCatalog = recipe.ErrEmptyCatalog

	// ErrNonPositiveInterval is returned when the time between drops is not
	// positive.
	ErrNonPositiveInterval = errors.New("interval between drops must be positive")

	// ErrNonPositiveCap is returned when the concurrent order cap is not
	// positive.
	ErrNonPositiveCap = errors.New("max concurrent orders must be positive")
)

// LevelConfig is what a level tells the kitchen.
type LevelConfig struct {
	// IntervalBetweenDrops is the number of seconds between spawn attempts.
	IntervalBetweenDrops timing.VTimeInSec

	// MaxConcurrentOrders caps the number of live orders.
	MaxConcurrentOrders int

	// Catalog holds the recipes orders are drawn from.
	Catalog recipe.Catalog
}

// Validate returns every configuration problem of the level, joined.
func (c LevelConfig) Validate() error {
	var errs []error

	if c.IntervalBetweenDrops <= 0 {
		errs = append(errs, fmt.Errorf("%w, got %v", ErrNonPositiveInterval, c.IntervalBetweenDrops))
	}

	if c.MaxConcurrentOrders <= 0 {
		errs = append(errs, fmt.Errorf("%w, got %d", ErrNonPositiveCap, c.MaxConcurrentOrders))
	}

	if c.Catalog == nil || c.Catalog.Len() == 0 {
		errs = append(errs, ErrEmptyCatalog)
		return errors.Join(errs...)
	}

	for i := range c.Catalog.Len() {
		if err := c.Catalog.At(i).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("catalog entry %d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}
