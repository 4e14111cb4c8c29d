package kitchen

import (
	"cmp"
	"slices"

	"github.com/sarchlab/kitchen/order"
)

// LiveSet holds the orders that are currently out.
type LiveSet struct {
	orders []*order.Order
}

// NewLiveSet creates an empty live set.
func NewLiveSet() *LiveSet {
	return &LiveSet{}
}

// Add inserts an order. Adding an order twice does nothing.
func (s *LiveSet) Add(o *order.Order) {
	if s.Contains(o) {
		return
	}

	s.orders = append(s.orders, o)
}

// Remove deletes an order and reports whether it was there.
func (s *LiveSet) Remove(o *order.Order) bool {
	i := slices.Index(s.orders, o)
	if i < 0 {
		return false
	}

	s.orders = slices.Delete(s.orders, i, i+1)

	return true
}

// Contains tells if the order is live.
func (s *LiveSet) Contains(o *order.Order) bool {
	return slices.Contains(s.orders, o)
}

// Len returns the number of live orders.
func (s *LiveSet) Len() int {
	return len(s.orders)
}

// Clear empties the set and returns the orders it held.
func (s *LiveSet) Clear() []*order.Order {
	cleared := s.orders
	s.orders = nil

	return cleared
}

// Pending returns the undelivered orders, earliest arrival first. Orders that
// arrived at the same time keep their insertion order.
func (s *LiveSet) Pending() []*order.Order {
	pending := make([]*order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if !o.IsDelivered() {
			pending = append(pending, o)
		}
	}

	slices.SortStableFunc(pending, func(a, b *order.Order) int {
		return cmp.Compare(a.ArrivalTime(), b.ArrivalTime())
	})

	return pending
}
