// Package kitchen runs the orders of a cooking level: it puts new orders out
// at a fixed interval, matches the plates the player serves against the
// oldest pending orders, pays tips, and recycles finished orders.
package kitchen

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sarchlab/kitchen/order"
	"github.com/sarchlab/kitchen/recipe"
	"github.com/sarchlab/kitchen/sim/hooking"
	"github.com/sarchlab/kitchen/sim/timing"
)

// HookPosOrderSpawned marks an order joining the live set.
var HookPosOrderSpawned = &hooking.HookPos{Name: "OrderSpawned"}

// HookPosOrderDelivered marks a delivery. The hook detail is the tip.
var HookPosOrderDelivered = &hooking.HookPos{Name: "OrderDelivered"}

// HookPosOrderExpired marks an order running out of time.
var HookPosOrderExpired = &hooking.HookPos{Name: "OrderExpired"}

// A Delivery is the result of a plate that matched an order.
type Delivery struct {
	Order *order.Order
	Tip   int
}

// Coordinator owns the live orders and the order pool of a kitchen. All of
// its methods must be called from the goroutine that runs the engine.
type Coordinator struct {
	*hooking.HookableBase

	name   string
	engine timing.Engine

	pool    *order.Pool
	live    *LiveSet
	spawner *Spawner
	matcher *Matcher
	tips    order.TipPolicy

	sink      Sink
	regrouper Regrouper
	watcher   *orderWatcher
	subs      map[*order.Order]*order.Subscription

	logger *zap.Logger
}

// Name returns the name of the coordinator.
func (c *Coordinator) Name() string {
	return c.name
}

// Init validates the level and starts spawning from an empty live set.
func (c *Coordinator) Init(cfg LevelConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("init %s: %w", c.name, err)
	}

	c.detachAll()

	if err := c.spawner.Start(cfg); err != nil {
		return fmt.Errorf("init %s: %w", c.name, err)
	}

	c.logger.Info("kitchen open",
		zap.String("kitchen", c.name),
		zap.Float64("now", c.engine.Now()),
	)

	return nil
}

// StopAndClear stops spawning and forgets every live order. The dropped
// orders stop notifying the coordinator.
func (c *Coordinator) StopAndClear() {
	dropped := c.live.Len()

	c.detachAll()
	c.spawner.Stop()

	c.logger.Info("kitchen closed",
		zap.String("kitchen", c.name),
		zap.Float64("now", c.engine.Now()),
		zap.Int("dropped_orders", dropped),
	)
}

// SubmitPlate serves a plate. If it matches a pending order, the earliest such
// order is delivered and returned with its tip. At most one order is
// delivered per plate. An empty plate does nothing.
func (c *Coordinator) SubmitPlate(ingredients []recipe.Ingredient) (Delivery, bool) {
	o := c.matcher.Match(ingredients)
	if o == nil {
		return Delivery{}, false
	}

	tip := c.tips.For(o)

	if sub, ok := c.subs[o]; ok {
		sub.Cancel()
	}

	o.MarkDelivered()
	c.completeDelivery(o, tip)

	return Delivery{Order: o, Tip: tip}, true
}

// Spawner returns the spawner, which can be paused and resumed.
func (c *Coordinator) Spawner() *Spawner {
	return c.spawner
}

// Pool returns the order pool.
func (c *Coordinator) Pool() *order.Pool {
	return c.pool
}

// LiveOrders returns the pending orders, earliest arrival first.
func (c *Coordinator) LiveOrders() []*order.Order {
	return c.live.Pending()
}

// NumLiveOrders returns the size of the live set.
func (c *Coordinator) NumLiveOrders() int {
	return c.live.Len()
}

func (c *Coordinator) orderSpawned(o *order.Order) {
	c.subs[o] = o.Subscribe(c.watcher)

	c.logger.Debug("order spawned",
		zap.String("order", o.ID()),
		zap.String("recipe", o.RecipeName()),
		zap.Float64("now", c.engine.Now()),
	)

	c.sink.OrderSpawned(o)
	c.InvokeHook(hooking.HookCtx{Domain: c, Pos: HookPosOrderSpawned, Item: o})
}

// completeDelivery runs the bookkeeping of a delivered order, whichever path
// delivered it.
func (c *Coordinator) completeDelivery(o *order.Order, tip int) {
	c.detach(o)

	c.logger.Debug("order delivered",
		zap.String("order", o.ID()),
		zap.Int("tip", tip),
		zap.Float64("now", c.engine.Now()),
	)

	c.sink.OrderDelivered(o, tip)
	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    HookPosOrderDelivered,
		Item:   o,
		Detail: tip,
	})

	c.pool.Release(o)

	if c.regrouper != nil {
		c.regrouper.RequestRegroup()
	}
}

func (c *Coordinator) orderExpired(o *order.Order) {
	c.detach(o)

	c.logger.Debug("order expired",
		zap.String("order", o.ID()),
		zap.Float64("now", c.engine.Now()),
	)

	c.sink.OrderExpired(o)
	c.InvokeHook(hooking.HookCtx{Domain: c, Pos: HookPosOrderExpired, Item: o})

	c.pool.Release(o)
}

// detach takes a finished order out of the live set. The caller releases it
// to the pool once the order has been reported.
func (c *Coordinator) detach(o *order.Order) {
	if sub, ok := c.subs[o]; ok {
		sub.Cancel()
		delete(c.subs, o)
	}

	c.live.Remove(o)
}

func (c *Coordinator) detachAll() {
	for o, sub := range c.subs {
		sub.Cancel()
		delete(c.subs, o)
	}
}

// orderWatcher listens to the orders of one coordinator.
type orderWatcher struct {
	c *Coordinator
}

func (w *orderWatcher) OrderDelivered(o *order.Order) {
	w.c.completeDelivery(o, w.c.tips.For(o))
}

func (w *orderWatcher) OrderExpired(o *order.Order) {
	w.c.orderExpired(o)
}
