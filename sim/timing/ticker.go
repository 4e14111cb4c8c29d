package timing

import (
	"log"
	"sync"
)

// TickEvent is the event a TickScheduler sends to its handler once every
// period.
type TickEvent struct {
	EventBase

	epoch uint64
}

// MakeTickEvent creates a new TickEvent
func MakeTickEvent(handler Handler, time VTimeInSec) TickEvent {
	return TickEvent{EventBase: MakeEventBase(time, handler)}
}

// MakeSecondaryTickEvent creates a TickEvent that runs after every primary
// event of the same time.
func MakeSecondaryTickEvent(handler Handler, time VTimeInSec) TickEvent {
	tick := MakeTickEvent(handler, time)
	tick.secondary = true

	return tick
}

// Epoch returns the scheduler epoch the tick belongs to.
func (e TickEvent) Epoch() uint64 {
	return e.epoch
}

// TickScheduler schedules tick events at a fixed period.
//
// Every Start opens a new epoch and every Stop closes it. A tick that is
// already queued when its epoch closes is rejected by Accept when it fires, so
// stopping always takes effect before the next tick.
//
// A Secondary scheduler sends secondary ticks, which see the effects of every
// primary event of the same time.
type TickScheduler struct {
	lock      sync.Mutex
	handler   Handler
	Engine    Engine
	Period    VTimeInSec
	Secondary bool

	epoch        uint64
	running      bool
	nextTickTime VTimeInSec
}

// NewTickScheduler creates a scheduler for tick events.
func NewTickScheduler(
	handler Handler,
	engine Engine,
	period VTimeInSec,
) *TickScheduler {
	if period <= 0 {
		log.Panicf("tick period must be positive, got %f", period)
	}

	return &TickScheduler{
		handler:      handler,
		Engine:       engine,
		Period:       period,
		nextTickTime: -1,
	}
}

// Start schedules the first tick one period from now. Starting a running
// scheduler does nothing.
func (t *TickScheduler) Start() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.running {
		return
	}

	t.running = true
	t.epoch++
	t.scheduleNext()
}

// Stop cancels the pending tick. Stopping a stopped scheduler does nothing.
func (t *TickScheduler) Stop() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.running {
		return
	}

	t.running = false
	t.epoch++
	t.nextTickTime = -1
}

// SetPeriod changes the period. It takes effect from the next Start.
func (t *TickScheduler) SetPeriod(period VTimeInSec) {
	if period <= 0 {
		log.Panicf("tick period must be positive, got %f", period)
	}

	t.lock.Lock()
	t.Period = period
	t.lock.Unlock()
}

// IsRunning tells if the scheduler will deliver more ticks.
func (t *TickScheduler) IsRunning() bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.running
}

// NextTickTime returns the time of the pending tick, or -1 if there is none.
func (t *TickScheduler) NextTickTime() VTimeInSec {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.nextTickTime
}

// Accept checks a tick event that reached the handler. It returns false for a
// tick of a closed epoch. For a current tick it schedules the following one
// before returning true, so a Stop issued while handling the tick cancels it.
func (t *TickScheduler) Accept(evt TickEvent) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.running || evt.epoch != t.epoch {
		return false
	}

	t.scheduleNext()

	return true
}

func (t *TickScheduler) scheduleNext() {
	t.nextTickTime = t.Engine.Now() + t.Period

	var tick TickEvent
	if t.Secondary {
		tick = MakeSecondaryTickEvent(t.handler, t.nextTickTime)
	} else {
		tick = MakeTickEvent(t.handler, t.nextTickTime)
	}

	tick.epoch = t.epoch

	t.Engine.Schedule(tick)
}

// Now returns the current time of the engine.
func (t *TickScheduler) Now() VTimeInSec {
	return t.Engine.Now()
}
