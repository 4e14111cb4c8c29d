package simulation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sarchlab/kitchen/datarecording"
	"github.com/sarchlab/kitchen/kitchen"
	"github.com/sarchlab/kitchen/monitoring"
	"github.com/sarchlab/kitchen/sim/id"
	"github.com/sarchlab/kitchen/sim/timing"
	"github.com/sarchlab/kitchen/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	seed int64
	sink kitchen.Sink

	recordOn   bool
	recordPath string

	monitorOn   bool
	monitorPort int

	chefOn       bool
	chefInterval float64
	chefSkill    float64

	logEvents bool
	logOrders bool
	logger    *zap.Logger
}

// MakeBuilder creates a builder of a simulation without recording,
// monitoring, or chef.
func MakeBuilder() Builder {
	return Builder{
		seed:   1,
		logger: zap.NewNop(),
	}
}

// WithSeed sets the seed of the recipe sampler and the chef.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// WithSink sets an extra receiver of the kitchen's notifications.
func (b Builder) WithSink(sink kitchen.Sink) Builder {
	b.sink = sink
	return b
}

// WithRecording stores the order events into path + ".sqlite3". An empty
// path picks a name from the session ID.
func (b Builder) WithRecording(path string) Builder {
	b.recordOn = true
	b.recordPath = path

	return b
}

// WithMonitor serves the simulation over HTTP. Port 0 picks a free port.
func (b Builder) WithMonitor(port int) Builder {
	b.monitorOn = true
	b.monitorPort = port

	return b
}

// WithChef adds a bot chef that serves one plate per interval.
func (b Builder) WithChef(interval, skill float64) Builder {
	b.chefOn = true
	b.chefInterval = interval
	b.chefSkill = skill

	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(logger *zap.Logger) Builder {
	b.logger = logger
	return b
}

// WithEventLogging logs every engine event at debug level.
func (b Builder) WithEventLogging() Builder {
	b.logEvents = true
	return b
}

// WithOrderLogging logs every order event.
func (b Builder) WithOrderLogging() Builder {
	b.logOrders = true
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.chefOn && b.chefInterval <= 0 {
		panic("chef interval must be positive")
	}

	if b.logger == nil {
		panic("logger is not set")
	}
}

// Build builds the simulation. The kitchen is named name.
func (b Builder) Build(name string) (*Simulation, error) {
	b.parametersMustBeValid()

	s := &Simulation{
		id:     id.NewSessionIDGenerator().Generate(),
		engine: timing.NewSerialEngine(),
		score:  tracing.NewScoreTracker(),
		logger: b.logger,
	}

	if b.logEvents {
		s.engine.AcceptHook(timing.NewEventLogger(b.logger.Named("engine")))
	}

	sinks := kitchen.MultiSink{}
	if b.sink != nil {
		sinks = append(sinks, b.sink)
	}

	s.kitchen = kitchen.MakeBuilder().
		WithEngine(s.engine).
		WithSink(sinks).
		WithSeed(b.seed).
		WithLogger(b.logger).
		Build(name)

	tracing.CollectTrace(s.kitchen, s.score)

	if b.logOrders {
		tracing.CollectTrace(s.kitchen,
			tracing.NewOrderLogger(s.engine, b.logger.Named("orders")))
	}

	if b.chefOn {
		s.chef = NewChef(s.engine, s.kitchen,
			b.chefInterval, b.chefSkill, b.seed, b.logger.Named("chef"))
	}

	if err := b.buildRecorder(s); err != nil {
		return nil, err
	}

	if err := b.buildMonitor(s); err != nil {
		return nil, err
	}

	return s, nil
}

func (b Builder) buildRecorder(s *Simulation) error {
	if !b.recordOn {
		return nil
	}

	path := b.recordPath
	if path == "" {
		path = "kitchen_run_" + s.id
	}

	recorder, err := datarecording.Open(path, datarecording.WithLogger(b.logger))
	if err != nil {
		return fmt.Errorf("build simulation: %w", err)
	}

	tracer, err := tracing.NewDBTracer(s.engine, recorder, b.logger)
	if err != nil {
		return fmt.Errorf("build simulation: %w", err)
	}

	tracing.CollectTrace(s.kitchen, tracer)
	s.recorder = recorder

	return nil
}

func (b Builder) buildMonitor(s *Simulation) error {
	if !b.monitorOn {
		return nil
	}

	m := monitoring.NewMonitor().
		WithLogger(b.logger.Named("monitor")).
		WithPortNumber(b.monitorPort)
	m.RegisterEngine(s.engine)
	m.RegisterKitchen(s.kitchen)
	m.RegisterScoreTracker(s.score)

	url, err := m.StartServer()
	if err != nil {
		if s.recorder != nil {
			_ = s.recorder.Close()
		}

		return fmt.Errorf("build simulation: %w", err)
	}

	s.monitor = m
	s.monitorURL = url

	return nil
}
