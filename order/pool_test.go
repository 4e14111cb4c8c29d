package order

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/kitchen/sim/timing"
)

var _ = Describe("Pool", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *timing.SerialEngine
		pool     *Pool
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = timing.NewSerialEngine()
		pool = NewPool(engine)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should create orders when empty", func() {
		o1 := pool.Acquire()
		o2 := pool.Acquire()

		Expect(o1).NotTo(BeIdenticalTo(o2))
		Expect(o1.ID()).To(Equal("order-1"))
		Expect(o2.ID()).To(Equal("order-2"))
		Expect(pool.Created()).To(Equal(2))
		Expect(pool.Available()).To(BeZero())
	})

	It("should reuse released orders", func() {
		o := pool.Acquire()
		o.Setup(salad())
		o.MarkDelivered()

		pool.Release(o)
		Expect(pool.Available()).To(Equal(1))

		again := pool.Acquire()
		Expect(again).To(BeIdenticalTo(o))
		Expect(again.State()).To(Equal(Idle))
		Expect(pool.Available()).To(BeZero())
		Expect(pool.Created()).To(Equal(1))
	})

	It("should not hold an order twice", func() {
		o := pool.Acquire()

		pool.Release(o)
		pool.Release(o)
		pool.Release(nil)

		Expect(pool.Available()).To(Equal(1))
	})

	It("should drop stale subscriptions on release", func() {
		listener := NewMockListener(mockCtrl)

		o := pool.Acquire()
		sub := o.Subscribe(listener)
		o.Setup(salad())

		pool.Release(o)

		Expect(sub.Active()).To(BeFalse())
		Expect(o.NumSubscriptions()).To(BeZero())

		recycled := pool.Acquire()
		recycled.Setup(salad())

		Expect(engine.Run()).To(Succeed())
		Expect(recycled.State()).To(Equal(Expired))
	})

	It("should void the pending expiration of a released order", func() {
		o := pool.Acquire()
		o.Setup(salad())

		pool.Release(o)

		Expect(engine.Run()).To(Succeed())
		Expect(o.State()).To(Equal(Idle))
	})
})
