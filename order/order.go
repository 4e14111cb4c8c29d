// Package order provides the order record that the kitchen hands out to
// customers, its countdown, the pool that recycles records, and the tip
// policy.
package order

import (
	"fmt"
	"math"
	"slices"

	"github.com/sarchlab/kitchen/recipe"
	"github.com/sarchlab/kitchen/sim/timing"
)

// State is the lifecycle stage of an order.
type State int

// The states of an order. An Idle order sits in a pool.
const (
	Idle State = iota
	Active
	Delivered
	Expired
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Active:
		return "Active"
	case Delivered:
		return "Delivered"
	case Expired:
		return "Expired"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// An Order is one customer request. It owns its countdown: once set up, it
// schedules its own expiration on the engine and tells its subscribers when
// it expires or gets delivered.
type Order struct {
	id     string
	engine timing.Engine

	state      State
	activation uint64
	recipe     recipe.Recipe

	arrivalTime          timing.VTimeInSec
	initialRemainingTime timing.VTimeInSec
	frozenRemainingTime  timing.VTimeInSec

	subscriptions []*Subscription
	pooled        bool
}

// New creates an idle order that keeps time with engine.
func New(id string, engine timing.Engine) *Order {
	return &Order{id: id, engine: engine}
}

type expireEvent struct {
	timing.EventBase

	activation uint64
}

// Setup activates the order with a copy of r. The arrival time is now and the
// countdown starts from the recipe's time budget.
func (o *Order) Setup(r recipe.Recipe) {
	o.activation++
	o.state = Active
	o.recipe = r.Clone()
	o.arrivalTime = o.engine.Now()
	o.initialRemainingTime = r.TimeBudget
	o.frozenRemainingTime = 0

	evt := expireEvent{
		EventBase:  timing.MakeEventBase(o.arrivalTime+r.TimeBudget, o),
		activation: o.activation,
	}
	o.engine.Schedule(evt)
}

// Handle processes the expiration event of the order. Expirations of earlier
// activations, or of an order that is no longer active, are ignored.
func (o *Order) Handle(e timing.Event) error {
	evt, ok := e.(expireEvent)
	if !ok {
		return fmt.Errorf("order %s cannot handle event of type %T", o.id, e)
	}

	if evt.activation != o.activation || o.state != Active {
		return nil
	}

	o.frozenRemainingTime = 0
	o.state = Expired

	for _, s := range o.liveSubscriptions() {
		if s.active {
			s.listener.OrderExpired(o)
		}
	}

	return nil
}

// MarkDelivered completes the order. It returns false if the order is not
// active.
func (o *Order) MarkDelivered() bool {
	if o.state != Active {
		return false
	}

	o.frozenRemainingTime = o.RemainingTime()
	o.state = Delivered

	for _, s := range o.liveSubscriptions() {
		if s.active {
			s.listener.OrderDelivered(o)
		}
	}

	return true
}

// ID returns the identifier of the order record. Recycled records keep their
// ID; use Activation to tell activations apart.
func (o *Order) ID() string {
	return o.id
}

// State returns the lifecycle stage of the order.
func (o *Order) State() State {
	return o.state
}

// IsDelivered tells if the order has been delivered.
func (o *Order) IsDelivered() bool {
	return o.state == Delivered
}

// Activation counts how many times the record has been set up.
func (o *Order) Activation() uint64 {
	return o.activation
}

// RecipeName returns the name of the recipe the order was set up with.
func (o *Order) RecipeName() string {
	return o.recipe.Name
}

// RequiredIngredients returns a copy of the ingredients the order requires.
func (o *Order) RequiredIngredients() []recipe.Ingredient {
	return slices.Clone(o.recipe.Ingredients)
}

// NumRequiredIngredients returns the number of ingredients the order
// requires.
func (o *Order) NumRequiredIngredients() int {
	return len(o.recipe.Ingredients)
}

// ArrivalTime returns when the order became active.
func (o *Order) ArrivalTime() timing.VTimeInSec {
	return o.arrivalTime
}

// InitialRemainingTime returns the countdown the order started with.
func (o *Order) InitialRemainingTime() timing.VTimeInSec {
	return o.initialRemainingTime
}

// RemainingTime returns how many seconds are left before the order expires.
// After delivery or expiration it stays at the value it had then.
func (o *Order) RemainingTime() timing.VTimeInSec {
	if o.state != Active {
		return o.frozenRemainingTime
	}

	elapsed := o.engine.Now() - o.arrivalTime

	return math.Max(0, o.initialRemainingTime-elapsed)
}

// reset detaches every subscriber and returns the order to the idle state.
// The recipe and times of the last activation stay readable until the next
// Setup.
func (o *Order) reset() {
	for _, s := range slices.Clone(o.subscriptions) {
		s.Cancel()
	}

	if o.state == Active {
		o.frozenRemainingTime = o.RemainingTime()
	}

	o.activation++
	o.state = Idle
}
