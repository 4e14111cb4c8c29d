package timing

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/sarchlab/kitchen/sim/hooking"
)

// EventLogger is an hook that logs every event before it is handled.
type EventLogger struct {
	logger *zap.Logger
}

// NewEventLogger returns a new EventLogger which will write in to the logger
func NewEventLogger(logger *zap.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Func writes the event information into the logger
func (h *EventLogger) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	h.logger.Debug("event",
		zap.Float64("time", evt.Time()),
		zap.String("type", reflect.TypeOf(evt).String()),
		zap.Bool("secondary", evt.IsSecondary()),
	)
}
