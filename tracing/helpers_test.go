package tracing

import (
	. "github.com/onsi/gomega"

	"github.com/sarchlab/kitchen/kitchen"
	"github.com/sarchlab/kitchen/recipe"
	"github.com/sarchlab/kitchen/sim/timing"
)

var salad = recipe.Recipe{
	Name:        "Salad",
	Ingredients: []recipe.Ingredient{recipe.Lettuce, recipe.Tomato},
	TimeBudget:  10,
}

func newKitchen(engine timing.Engine) *kitchen.Coordinator {
	return kitchen.MakeBuilder().
		WithEngine(engine).
		WithSink(kitchen.SinkFuncs{}).
		Build("Kitchen")
}

// playShift opens the kitchen with one salad at a time, serves the first
// salad at t=2 (tip 6), lets the second expire at t=13, and stops right
// after the third spawns.
func playShift(engine *timing.SerialEngine, c *kitchen.Coordinator) {
	catalog, err := recipe.NewList(salad)
	Expect(err).NotTo(HaveOccurred())

	Expect(c.Init(kitchen.LevelConfig{
		IntervalBetweenDrops: 1,
		MaxConcurrentOrders:  1,
		Catalog:              catalog,
	})).To(Succeed())

	Expect(engine.RunUntil(2)).To(Succeed())

	_, ok := c.SubmitPlate([]recipe.Ingredient{recipe.Tomato, recipe.Lettuce})
	Expect(ok).To(BeTrue())

	Expect(engine.RunUntil(13)).To(Succeed())
}
