package tracing

import (
	"sync"

	"github.com/sarchlab/kitchen/order"
)

// A Score sums up how a kitchen did.
type Score struct {
	Spawned   int `json:"spawned"`
	Delivered int `json:"delivered"`
	Expired   int `json:"expired"`
	Tips      int `json:"tips"`
}

// AverageTip returns the mean tip per delivery.
func (s Score) AverageTip() float64 {
	if s.Delivered == 0 {
		return 0
	}

	return float64(s.Tips) / float64(s.Delivered)
}

// DeliveryRate returns the share of finished orders that were delivered.
func (s Score) DeliveryRate() float64 {
	finished := s.Delivered + s.Expired
	if finished == 0 {
		return 0
	}

	return float64(s.Delivered) / float64(finished)
}

// ScoreTracker counts order events. It can be read from other goroutines
// while the simulation runs.
type ScoreTracker struct {
	lock  sync.Mutex
	score Score
}

// NewScoreTracker creates a ScoreTracker.
func NewScoreTracker() *ScoreTracker {
	return &ScoreTracker{}
}

// OrderSpawned counts a new order.
func (t *ScoreTracker) OrderSpawned(_ string, _ *order.Order) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.score.Spawned++
}

// OrderDelivered counts a delivery and adds its tip.
func (t *ScoreTracker) OrderDelivered(_ string, _ *order.Order, tip int) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.score.Delivered++
	t.score.Tips += tip
}

// OrderExpired counts a lost order.
func (t *ScoreTracker) OrderExpired(_ string, _ *order.Order) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.score.Expired++
}

// Summary returns the counts so far.
func (t *ScoreTracker) Summary() Score {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.score
}
