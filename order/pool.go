package order

import (
	"github.com/sarchlab/kitchen/sim/id"
	"github.com/sarchlab/kitchen/sim/timing"
)

// A Pool recycles order records. It never evicts, so it grows to the largest
// number of orders that were ever out at the same time.
type Pool struct {
	engine  timing.Engine
	ids     id.IDGenerator
	free    []*Order
	created int
}

// NewPool creates an empty pool whose orders keep time with engine.
func NewPool(engine timing.Engine) *Pool {
	return &Pool{
		engine: engine,
		ids:    id.NewIDGeneratorWithPrefix("order-"),
	}
}

// Acquire returns a released order if there is one, or a new order otherwise.
// The order is idle until it is set up.
func (p *Pool) Acquire() *Order {
	n := len(p.free)
	if n == 0 {
		p.created++
		return New(p.ids.Generate(), p.engine)
	}

	o := p.free[n-1]
	p.free[n-1] = nil
	p.free = p.free[:n-1]
	o.pooled = false

	return o
}

// Release puts an order back for reuse. Any subscription still attached to
// the order is cancelled, and a pending expiration is voided. Releasing an
// order that is already in the pool does nothing.
func (p *Pool) Release(o *Order) {
	if o == nil || o.pooled {
		return
	}

	o.reset()
	o.pooled = true
	p.free = append(p.free, o)
}

// Available returns the number of orders ready to be acquired.
func (p *Pool) Available() int {
	return len(p.free)
}

// Created returns the number of orders the pool has ever constructed.
func (p *Pool) Created() int {
	return p.created
}
