package simulation

import (
	"fmt"
	"math/rand"
	"slices"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/sarchlab/kitchen/kitchen"
	"github.com/sarchlab/kitchen/recipe"
	"github.com/sarchlab/kitchen/sim/timing"
)

// A Chef is a bot player. Once every interval it plates the recipe of the
// oldest pending order. Like the spawner, it acts after the orders that expire
// at the same time. With probability Skill the plate is right; otherwise
// one ingredient is swapped for one the recipe does not use.
type Chef struct {
	ticks   *timing.TickScheduler
	kitchen *kitchen.Coordinator
	skill   float64
	rng     *rand.Rand
	logger  *zap.Logger

	plates atomic.Int64
	misses atomic.Int64
}

// NewChef creates a chef that works in the given kitchen. Skill is clamped to
// [0, 1].
func NewChef(
	engine timing.Engine,
	k *kitchen.Coordinator,
	interval timing.VTimeInSec,
	skill float64,
	seed int64,
	logger *zap.Logger,
) *Chef {
	c := &Chef{
		kitchen: k,
		skill:   min(max(skill, 0), 1),
		rng:     rand.New(rand.NewSource(seed)),
		logger:  logger,
	}
	c.ticks = timing.NewTickScheduler(c, engine, interval)
	c.ticks.Secondary = true

	return c
}

// Start makes the chef serve one plate per interval, starting one interval
// from now.
func (c *Chef) Start() {
	c.ticks.Start()
}

// Stop makes the chef leave the kitchen.
func (c *Chef) Stop() {
	c.ticks.Stop()
}

// Plates returns how many plates the chef served.
func (c *Chef) Plates() int {
	return int(c.plates.Load())
}

// Misses returns how many served plates matched no order.
func (c *Chef) Misses() int {
	return int(c.misses.Load())
}

// Handle processes the chef's tick events.
func (c *Chef) Handle(e timing.Event) error {
	tick, ok := e.(timing.TickEvent)
	if !ok {
		return fmt.Errorf("chef cannot handle event of type %T", e)
	}

	if !c.ticks.Accept(tick) {
		return nil
	}

	c.cook()

	return nil
}

func (c *Chef) cook() {
	pending := c.kitchen.LiveOrders()
	if len(pending) == 0 {
		return
	}

	target := pending[0]
	plate := target.RequiredIngredients()
	c.rng.Shuffle(len(plate), func(i, j int) { plate[i], plate[j] = plate[j], plate[i] })

	if c.rng.Float64() >= c.skill {
		plate = c.spoil(plate)
	}

	c.plates.Add(1)

	delivery, ok := c.kitchen.SubmitPlate(plate)
	if !ok {
		c.misses.Add(1)
		c.logger.Debug("plate matched no order",
			zap.Float64("now", c.ticks.Now()),
			zap.Stringers("plate", plate))

		return
	}

	c.logger.Debug("plate served",
		zap.Float64("now", c.ticks.Now()),
		zap.String("order", delivery.Order.ID()),
		zap.Int("tip", delivery.Tip))
}

// spoil swaps one ingredient for one the plate does not contain.
func (c *Chef) spoil(plate []recipe.Ingredient) []recipe.Ingredient {
	var unused []recipe.Ingredient

	for _, ing := range recipe.AllIngredients() {
		if !slices.Contains(plate, ing) {
			unused = append(unused, ing)
		}
	}

	if len(unused) == 0 || len(plate) == 0 {
		return plate
	}

	plate[c.rng.Intn(len(plate))] = unused[c.rng.Intn(len(unused))]

	return plate
}
