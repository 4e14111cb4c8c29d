package tracing

import (
	"go.uber.org/zap"

	"github.com/sarchlab/kitchen/order"
	"github.com/sarchlab/kitchen/sim/timing"
)

// OrderLogger writes one log line per order event.
type OrderLogger struct {
	timeTeller timing.TimeTeller
	logger     *zap.Logger
}

// NewOrderLogger creates an OrderLogger.
func NewOrderLogger(timeTeller timing.TimeTeller, logger *zap.Logger) *OrderLogger {
	return &OrderLogger{timeTeller: timeTeller, logger: logger}
}

func (l *OrderLogger) fields(kitchen string, o *order.Order) []zap.Field {
	return []zap.Field{
		zap.Float64("now", l.timeTeller.Now()),
		zap.String("kitchen", kitchen),
		zap.String("order", o.ID()),
		zap.String("recipe", o.RecipeName()),
	}
}

// OrderSpawned logs a new order.
func (l *OrderLogger) OrderSpawned(kitchen string, o *order.Order) {
	l.logger.Info("new order",
		append(l.fields(kitchen, o),
			zap.Float64("time_budget", o.InitialRemainingTime()))...)
}

// OrderDelivered logs a delivery and its tip.
func (l *OrderLogger) OrderDelivered(kitchen string, o *order.Order, tip int) {
	l.logger.Info("order served",
		append(l.fields(kitchen, o),
			zap.Float64("remaining", o.RemainingTime()),
			zap.Int("tip", tip))...)
}

// OrderExpired logs an order that ran out of time.
func (l *OrderLogger) OrderExpired(kitchen string, o *order.Order) {
	l.logger.Info("order lost", l.fields(kitchen, o)...)
}
