package order

import "slices"

// A Listener is told about the terminal transitions of an order.
type Listener interface {
	OrderDelivered(o *Order)
	OrderExpired(o *Order)
}

// A Subscription is the revocable registration of a Listener on one order.
type Subscription struct {
	order    *Order
	listener Listener
	active   bool
}

// Subscribe registers l on the order. The returned subscription stays valid
// until it is cancelled or the order is released to a pool.
func (o *Order) Subscribe(l Listener) *Subscription {
	s := &Subscription{order: o, listener: l, active: true}
	o.subscriptions = append(o.subscriptions, s)

	return s
}

// NumSubscriptions returns the number of active subscriptions on the order.
func (o *Order) NumSubscriptions() int {
	return len(o.subscriptions)
}

func (o *Order) liveSubscriptions() []*Subscription {
	return slices.Clone(o.subscriptions)
}

// Cancel detaches the listener. Cancelling twice does nothing.
func (s *Subscription) Cancel() {
	if !s.active {
		return
	}

	s.active = false
	s.order.subscriptions = slices.DeleteFunc(
		s.order.subscriptions,
		func(other *Subscription) bool { return other == s },
	)
}

// Active tells if the subscription still delivers notifications.
func (s *Subscription) Active() bool {
	return s.active
}

// Order returns the order the subscription is attached to.
func (s *Subscription) Order() *Order {
	return s.order
}
