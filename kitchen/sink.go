package kitchen

import "github.com/sarchlab/kitchen/order"

// A Sink receives the notifications of a coordinator. Calls happen
// synchronously, inside the operation that caused them.
//
// Orders passed to OrderExpired and OrderDelivered have left the live set but
// still report their final state. They return to the pool when the call
// returns; read them during the call and do not keep them.
type Sink interface {
	OrderSpawned(o *order.Order)
	OrderExpired(o *order.Order)
	OrderDelivered(o *order.Order, tip int)
}

// SinkFuncs is a Sink built from optional functions.
type SinkFuncs struct {
	Spawned   func(o *order.Order)
	Expired   func(o *order.Order)
	Delivered func(o *order.Order, tip int)
}

// OrderSpawned calls Spawned if set.
func (f SinkFuncs) OrderSpawned(o *order.Order) {
	if f.Spawned != nil {
		f.Spawned(o)
	}
}

// OrderExpired calls Expired if set.
func (f SinkFuncs) OrderExpired(o *order.Order) {
	if f.Expired != nil {
		f.Expired(o)
	}
}

// OrderDelivered calls Delivered if set.
func (f SinkFuncs) OrderDelivered(o *order.Order, tip int) {
	if f.Delivered != nil {
		f.Delivered(o, tip)
	}
}

// MultiSink forwards every notification to each of its sinks in order.
type MultiSink []Sink

// OrderSpawned forwards to every sink.
func (m MultiSink) OrderSpawned(o *order.Order) {
	for _, s := range m {
		s.OrderSpawned(o)
	}
}

// OrderExpired forwards to every sink.
func (m MultiSink) OrderExpired(o *order.Order) {
	for _, s := range m {
		s.OrderExpired(o)
	}
}

// OrderDelivered forwards to every sink.
func (m MultiSink) OrderDelivered(o *order.Order, tip int) {
	for _, s := range m {
		s.OrderDelivered(o, tip)
	}
}

// A Regrouper lays the order panel out again after a delivery.
type Regrouper interface {
	RequestRegroup()
}

// RegrouperFunc adapts a function into a Regrouper.
type RegrouperFunc func()

// RequestRegroup calls f().
func (f RegrouperFunc) RequestRegroup() {
	f()
}
