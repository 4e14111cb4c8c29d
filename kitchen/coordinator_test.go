package kitchen

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/kitchen/order"
	"github.com/sarchlab/kitchen/recipe"
	"github.com/sarchlab/kitchen/sim/hooking"
	"github.com/sarchlab/kitchen/sim/timing"
)

var _ = Describe("Coordinator", func() {
	var (
		mockCtrl  *gomock.Controller
		engine    *timing.SerialEngine
		sink      *recordingSink
		regrouper *MockRegrouper
		c         *Coordinator
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = timing.NewSerialEngine()
		sink = &recordingSink{}
		regrouper = NewMockRegrouper(mockCtrl)
		c = MakeBuilder().
			WithEngine(engine).
			WithSink(sink).
			WithRegrouper(regrouper).
			Build("Kitchen")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	instancesAreAccountedFor := func() {
		Expect(c.NumLiveOrders() + c.Pool().Available()).
			To(Equal(c.Pool().Created()))
	}

	Context("when the configuration is invalid", func() {
		It("should reject every problem at once", func() {
			err := c.Init(LevelConfig{})

			Expect(err).To(MatchError(ErrEmptyCatalog))
			Expect(err).To(MatchError(ErrNonPositiveInterval))
			Expect(err).To(MatchError(ErrNonPositiveCap))
			Expect(c.Spawner().State()).To(Equal(SpawnerInactive))
		})

		It("should reject a recipe with a negative time budget", func() {
			cfg := level(1, 1, salad())
			cfg.Catalog = recipe.List{{
				Name:        "Burnt",
				Ingredients: []recipe.Ingredient{recipe.Bun},
				TimeBudget:  -5,
			}}

			Expect(c.Init(cfg)).To(MatchError(recipe.ErrNonPositiveBudget))
			Expect(engine.RunUntil(2)).To(Succeed())
			Expect(sink.spawned).To(BeEmpty())
		})

		It("should reject a recipe without ingredients", func() {
			cfg := level(1, 1, salad())
			cfg.Catalog = recipe.List{{Name: "Air", TimeBudget: 5}}

			Expect(c.Init(cfg)).To(MatchError(recipe.ErrEmptyRecipe))
			Expect(engine.RunUntil(2)).To(Succeed())
			Expect(sink.spawned).To(BeEmpty())
		})

		It("should not spawn", func() {
			cfg := level(1, 1, salad())
			cfg.MaxConcurrentOrders = -1

			Expect(c.Init(cfg)).To(MatchError(ErrNonPositiveCap))
			Expect(engine.RunUntil(5)).To(Succeed())
			Expect(sink.spawned).To(BeEmpty())
		})
	})

	It("should deliver a matching plate with a tip", func() {
		strictSink := NewMockSink(mockCtrl)
		c = MakeBuilder().
			WithEngine(engine).
			WithSink(strictSink).
			WithRegrouper(regrouper).
			Build("Kitchen")

		var spawned *order.Order
		strictSink.EXPECT().OrderSpawned(gomock.Any()).Do(func(o *order.Order) {
			spawned = o
		})

		Expect(c.Init(level(1, 1, salad()))).To(Succeed())
		Expect(engine.RunUntil(2)).To(Succeed())
		Expect(spawned).NotTo(BeNil())
		Expect(spawned.ArrivalTime()).To(Equal(1.0))

		delivered := strictSink.EXPECT().OrderDelivered(spawned, 6)
		regrouper.EXPECT().RequestRegroup().After(delivered)

		d, ok := c.SubmitPlate(
			[]recipe.Ingredient{recipe.Tomato, recipe.Lettuce})

		Expect(ok).To(BeTrue())
		Expect(d.Order).To(BeIdenticalTo(spawned))
		Expect(d.Tip).To(Equal(6))
		Expect(c.NumLiveOrders()).To(BeZero())
		Expect(c.Pool().Available()).To(Equal(1))
		instancesAreAccountedFor()
	})

	It("should not deliver when the ingredient count differs", func() {
		Expect(c.Init(level(1, 1, salad()))).To(Succeed())
		Expect(engine.RunUntil(2)).To(Succeed())

		_, ok := c.SubmitPlate([]recipe.Ingredient{recipe.Lettuce})

		Expect(ok).To(BeFalse())
		Expect(sink.delivered).To(BeEmpty())
		Expect(c.NumLiveOrders()).To(Equal(1))
	})

	It("should ignore empty plates", func() {
		Expect(c.Init(level(1, 1, salad()))).To(Succeed())
		Expect(engine.RunUntil(2)).To(Succeed())

		_, ok := c.SubmitPlate(nil)
		Expect(ok).To(BeFalse())

		_, ok = c.SubmitPlate([]recipe.Ingredient{})
		Expect(ok).To(BeFalse())

		Expect(c.NumLiveOrders()).To(Equal(1))
	})

	It("should deliver the earliest of two identical orders, and only one", func() {
		regrouper.EXPECT().RequestRegroup()

		Expect(c.Init(level(1, 2, salad()))).To(Succeed())
		Expect(engine.RunUntil(2.5)).To(Succeed())

		orders := c.LiveOrders()
		Expect(orders).To(HaveLen(2))
		first, second := orders[0], orders[1]
		Expect(first.ArrivalTime()).To(Equal(1.0))
		Expect(second.ArrivalTime()).To(Equal(2.0))

		d, ok := c.SubmitPlate(
			[]recipe.Ingredient{recipe.Lettuce, recipe.Tomato})

		Expect(ok).To(BeTrue())
		Expect(d.Order).To(BeIdenticalTo(first))
		Expect(c.LiveOrders()).To(ConsistOf(second))
		Expect(sink.delivered).To(HaveLen(1))
		instancesAreAccountedFor()
	})

	It("should pick the order the plate matches", func() {
		regrouper.EXPECT().RequestRegroup()
		sampler := NewMockRecipeSampler(mockCtrl)
		gomock.InOrder(
			sampler.EXPECT().Sample(gomock.Any()).Return(salad(), nil),
			sampler.EXPECT().Sample(gomock.Any()).Return(burger(), nil),
		)
		c = MakeBuilder().
			WithEngine(engine).
			WithSink(sink).
			WithRegrouper(regrouper).
			WithSampler(sampler).
			Build("Kitchen")

		Expect(c.Init(level(1, 2, salad(), burger()))).To(Succeed())
		Expect(engine.RunUntil(2)).To(Succeed())

		d, ok := c.SubmitPlate([]recipe.Ingredient{
			recipe.Cheese, recipe.Bun, recipe.Patty,
		})

		Expect(ok).To(BeTrue())
		Expect(d.Order.RecipeName()).To(Equal("Burger"))
		Expect(d.Tip).To(Equal(6))
	})

	It("should never exceed the cap", func() {
		engine.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			if ctx.Pos == timing.HookPosAfterEvent {
				Expect(c.NumLiveOrders()).To(BeNumerically("<=", 3))
				instancesAreAccountedFor()
			}
		}))

		Expect(c.Init(level(0.5, 3, salad(), burger()))).To(Succeed())
		Expect(engine.RunUntil(60)).To(Succeed())

		Expect(sink.spawned).NotTo(BeEmpty())
		Expect(sink.expired).NotTo(BeEmpty())
	})

	It("should forward an expiration and recycle the order", func() {
		short := salad()
		short.TimeBudget = 3

		Expect(c.Init(level(1, 1, short))).To(Succeed())
		Expect(engine.RunUntil(4)).To(Succeed())

		Expect(sink.expired).To(HaveLen(1))
		Expect(sink.expired[0].orderID).To(Equal("order-1"))
		Expect(sink.spawned).To(HaveLen(2))
		Expect(sink.spawned[1].orderID).To(Equal("order-1"))
		Expect(c.Pool().Created()).To(Equal(1))

		recycled := c.LiveOrders()[0]
		Expect(recycled.NumSubscriptions()).To(Equal(1))
		Expect(recycled.ArrivalTime()).To(Equal(4.0))
	})

	It("should spawn in the slot an order frees at the same time", func() {
		quick := salad()
		quick.TimeBudget = 1

		Expect(c.Init(level(1, 1, quick))).To(Succeed())
		Expect(engine.RunUntil(2)).To(Succeed())

		Expect(sink.expired).To(HaveLen(1))
		Expect(sink.spawned).To(HaveLen(2))
		Expect(c.LiveOrders()[0].ArrivalTime()).To(Equal(2.0))
	})

	It("should report the final state of finished orders", func() {
		regrouper.EXPECT().RequestRegroup()

		var states []order.State
		c = MakeBuilder().
			WithEngine(engine).
			WithSink(SinkFuncs{
				Expired: func(o *order.Order) {
					states = append(states, o.State())
				},
				Delivered: func(o *order.Order, _ int) {
					states = append(states, o.State())
				},
			}).
			WithRegrouper(regrouper).
			Build("Kitchen")

		short := salad()
		short.TimeBudget = 3

		Expect(c.Init(level(1, 1, short))).To(Succeed())
		Expect(engine.RunUntil(4.5)).To(Succeed())

		_, ok := c.SubmitPlate(
			[]recipe.Ingredient{recipe.Lettuce, recipe.Tomato})
		Expect(ok).To(BeTrue())

		Expect(states).To(Equal([]order.State{order.Expired, order.Delivered}))
		Expect(c.Pool().Available()).To(Equal(1))
		instancesAreAccountedFor()
	})

	It("should handle a delivery made directly on the order", func() {
		regrouper.EXPECT().RequestRegroup()

		Expect(c.Init(level(1, 1, salad()))).To(Succeed())
		Expect(engine.RunUntil(4)).To(Succeed())

		o := c.LiveOrders()[0]
		Expect(o.MarkDelivered()).To(BeTrue())

		Expect(sink.delivered).To(HaveLen(1))
		Expect(sink.delivered[0].tip).To(Equal(4))
		Expect(c.NumLiveOrders()).To(BeZero())
		instancesAreAccountedFor()
	})

	It("should accept a plate with a repeated ingredient of the recipe", func() {
		regrouper.EXPECT().RequestRegroup()

		Expect(c.Init(level(1, 1, salad()))).To(Succeed())
		Expect(engine.RunUntil(1)).To(Succeed())

		_, ok := c.SubmitPlate(
			[]recipe.Ingredient{recipe.Lettuce, recipe.Lettuce})

		Expect(ok).To(BeTrue())
	})

	It("should raise hooks with the tip", func() {
		regrouper.EXPECT().RequestRegroup()

		positions := []string{}
		tips := []any{}
		c.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			positions = append(positions, ctx.Pos.Name)
			tips = append(tips, ctx.Detail)
		}))

		Expect(c.Init(level(1, 1, salad()))).To(Succeed())
		Expect(engine.RunUntil(4)).To(Succeed())
		c.SubmitPlate([]recipe.Ingredient{recipe.Lettuce, recipe.Tomato})

		Expect(positions).To(Equal([]string{"OrderSpawned", "OrderDelivered"}))
		Expect(tips).To(Equal([]any{nil, 4}))
	})

	Context("pausing", func() {
		BeforeEach(func() {
			Expect(c.Init(level(1, 5, salad()))).To(Succeed())
			Expect(engine.RunUntil(2)).To(Succeed())
		})

		It("should keep the live set and stop spawning", func() {
			c.Spawner().Pause()
			c.Spawner().Pause()

			Expect(c.Spawner().State()).To(Equal(SpawnerPaused))
			Expect(engine.RunUntil(5)).To(Succeed())
			Expect(c.NumLiveOrders()).To(Equal(2))
			Expect(sink.spawned).To(HaveLen(2))
		})

		It("should spawn again after resume", func() {
			c.Spawner().Pause()
			Expect(engine.RunUntil(5)).To(Succeed())

			c.Spawner().Resume()
			Expect(engine.RunUntil(6)).To(Succeed())

			Expect(c.Spawner().State()).To(Equal(SpawnerActive))
			Expect(sink.spawned).To(HaveLen(3))
		})

		It("should ignore resume when active", func() {
			c.Spawner().Resume()
			Expect(engine.RunUntil(3)).To(Succeed())

			Expect(sink.spawned).To(HaveLen(3))
		})

		It("should let orders expire while paused", func() {
			c.Spawner().Pause()
			Expect(engine.RunUntil(12)).To(Succeed())

			Expect(sink.expired).To(HaveLen(2))
			Expect(c.NumLiveOrders()).To(BeZero())
		})
	})

	Context("stopping", func() {
		BeforeEach(func() {
			Expect(c.Init(level(1, 2, salad()))).To(Succeed())
			Expect(engine.RunUntil(2.5)).To(Succeed())
		})

		It("should clear the live set and stop spawning", func() {
			c.StopAndClear()

			Expect(c.NumLiveOrders()).To(BeZero())
			Expect(c.Spawner().State()).To(Equal(SpawnerStopped))

			Expect(engine.RunUntil(30)).To(Succeed())
			Expect(sink.spawned).To(HaveLen(2))
			Expect(sink.expired).To(BeEmpty())
		})

		It("should restart from a clean state", func() {
			c.StopAndClear()
			Expect(c.Init(level(1, 2, salad()))).To(Succeed())

			Expect(c.NumLiveOrders()).To(BeZero())

			Expect(engine.RunUntil(3.5)).To(Succeed())
			Expect(c.NumLiveOrders()).To(Equal(1))
			Expect(c.LiveOrders()[0].ArrivalTime()).To(Equal(3.5))
		})
	})
})
