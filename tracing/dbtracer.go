package tracing

import (
	"go.uber.org/zap"

	"github.com/sarchlab/kitchen/datarecording"
	"github.com/sarchlab/kitchen/order"
	"github.com/sarchlab/kitchen/sim/timing"
)

// OrderEventTable is the table the DBTracer writes into.
const OrderEventTable = "order_events"

// OrderEvent is one row of the order event table.
type OrderEvent struct {
	Kitchen   string
	Event     string
	OrderID   string
	Recipe    string
	Time      float64
	Arrival   float64
	Remaining float64
	Ratio     float64
	Tip       int
}

// DBTracer stores order events through a recorder.
type DBTracer struct {
	timeTeller timing.TimeTeller
	backend    datarecording.Recorder
	logger     *zap.Logger
}

// NewDBTracer creates a DBTracer and the table it writes into.
func NewDBTracer(
	timeTeller timing.TimeTeller,
	backend datarecording.Recorder,
	logger *zap.Logger,
) (*DBTracer, error) {
	if err := backend.CreateTable(OrderEventTable, OrderEvent{}); err != nil {
		return nil, err
	}

	return &DBTracer{
		timeTeller: timeTeller,
		backend:    backend,
		logger:     logger,
	}, nil
}

func (t *DBTracer) write(event, kitchen string, o *order.Order, tip int) {
	row := OrderEvent{
		Kitchen:   kitchen,
		Event:     event,
		OrderID:   o.ID(),
		Recipe:    o.RecipeName(),
		Time:      t.timeTeller.Now(),
		Arrival:   o.ArrivalTime(),
		Remaining: o.RemainingTime(),
		Ratio:     order.RemainingRatio(o),
		Tip:       tip,
	}

	if err := t.backend.Insert(OrderEventTable, row); err != nil {
		t.logger.Error("cannot record order event",
			zap.String("event", event),
			zap.String("order", o.ID()),
			zap.Error(err))
	}
}

// OrderSpawned records a spawn.
func (t *DBTracer) OrderSpawned(kitchen string, o *order.Order) {
	t.write("spawned", kitchen, o, 0)
}

// OrderDelivered records a delivery.
func (t *DBTracer) OrderDelivered(kitchen string, o *order.Order, tip int) {
	t.write("delivered", kitchen, o, tip)
}

// OrderExpired records an expiration.
func (t *DBTracer) OrderExpired(kitchen string, o *order.Order) {
	t.write("expired", kitchen, o, 0)
}

// Flush writes the buffered events.
func (t *DBTracer) Flush() error {
	return t.backend.Flush()
}
