package order

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/kitchen/recipe"
	"github.com/sarchlab/kitchen/sim/timing"
)

func salad() recipe.Recipe {
	return recipe.Recipe{
		Name:        "Salad",
		Ingredients: []recipe.Ingredient{recipe.Lettuce, recipe.Tomato},
		TimeBudget:  10,
	}
}

var _ = Describe("Order", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *timing.SerialEngine
		listener *MockListener
		o        *Order
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = timing.NewSerialEngine()
		listener = NewMockListener(mockCtrl)
		o = New("order-1", engine)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should start idle", func() {
		Expect(o.State()).To(Equal(Idle))
		Expect(o.ID()).To(Equal("order-1"))
	})

	It("should count down from the recipe budget", func() {
		Expect(engine.RunUntil(2)).To(Succeed())
		o.Setup(salad())

		Expect(o.State()).To(Equal(Active))
		Expect(o.ArrivalTime()).To(Equal(2.0))
		Expect(o.InitialRemainingTime()).To(Equal(10.0))
		Expect(o.RecipeName()).To(Equal("Salad"))
		Expect(o.RequiredIngredients()).To(
			Equal([]recipe.Ingredient{recipe.Lettuce, recipe.Tomato}))

		Expect(engine.RunUntil(5)).To(Succeed())
		Expect(o.RemainingTime()).To(Equal(7.0))
	})

	It("should not share the recipe slice", func() {
		r := salad()
		o.Setup(r)

		r.Ingredients[0] = recipe.Bacon
		o.RequiredIngredients()[1] = recipe.Bacon

		Expect(o.RequiredIngredients()).To(
			Equal([]recipe.Ingredient{recipe.Lettuce, recipe.Tomato}))
	})

	It("should expire when the countdown reaches zero", func() {
		o.Subscribe(listener)
		o.Setup(salad())

		listener.EXPECT().OrderExpired(o).Do(func(*Order) {
			Expect(engine.Now()).To(Equal(10.0))
		})

		Expect(engine.Run()).To(Succeed())
		Expect(o.State()).To(Equal(Expired))
		Expect(o.RemainingTime()).To(BeZero())
	})

	It("should notify delivery and freeze the countdown", func() {
		o.Subscribe(listener)
		o.Setup(salad())
		Expect(engine.RunUntil(4)).To(Succeed())

		listener.EXPECT().OrderDelivered(o)

		Expect(o.MarkDelivered()).To(BeTrue())
		Expect(o.IsDelivered()).To(BeTrue())

		Expect(engine.Run()).To(Succeed())
		Expect(o.State()).To(Equal(Delivered))
		Expect(o.RemainingTime()).To(Equal(6.0))
	})

	It("should not deliver twice", func() {
		o.Subscribe(listener)
		o.Setup(salad())

		listener.EXPECT().OrderDelivered(o).Times(1)

		Expect(o.MarkDelivered()).To(BeTrue())
		Expect(o.MarkDelivered()).To(BeFalse())
	})

	It("should not deliver an idle order", func() {
		Expect(o.MarkDelivered()).To(BeFalse())
	})

	It("should stop notifying after cancel", func() {
		sub := o.Subscribe(listener)
		o.Setup(salad())

		sub.Cancel()
		sub.Cancel()

		Expect(sub.Active()).To(BeFalse())
		Expect(o.NumSubscriptions()).To(BeZero())
		Expect(engine.Run()).To(Succeed())
		Expect(o.State()).To(Equal(Expired))
	})

	It("should skip a listener cancelled by an earlier listener", func() {
		second := NewMockListener(mockCtrl)
		var secondSub *Subscription

		first := NewMockListener(mockCtrl)
		first.EXPECT().OrderExpired(o).Do(func(*Order) { secondSub.Cancel() })

		o.Subscribe(first)
		secondSub = o.Subscribe(second)
		o.Setup(salad())

		Expect(engine.Run()).To(Succeed())
	})

	It("should ignore the expiration of an earlier activation", func() {
		o.Setup(salad())
		Expect(engine.RunUntil(4)).To(Succeed())
		o.MarkDelivered()

		o.Setup(salad())
		o.Subscribe(listener)

		listener.EXPECT().OrderExpired(o).Do(func(*Order) {
			Expect(engine.Now()).To(Equal(14.0))
		})

		Expect(engine.Run()).To(Succeed())
		Expect(o.Activation()).To(Equal(uint64(2)))
	})

	It("should refuse foreign events", func() {
		err := o.Handle(timing.MakeTickEvent(o, 0))
		Expect(err).To(HaveOccurred())
	})
})
