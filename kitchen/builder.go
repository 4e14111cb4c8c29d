package kitchen

import (
	"go.uber.org/zap"

	"github.com/sarchlab/kitchen/order"
	"github.com/sarchlab/kitchen/recipe"
	"github.com/sarchlab/kitchen/sim/hooking"
	"github.com/sarchlab/kitchen/sim/timing"
)

// Builder can build coordinators.
type Builder struct {
	engine    timing.Engine
	sink      Sink
	regrouper Regrouper
	sampler   RecipeSampler
	seed      int64
	tips      order.TipPolicy
	logger    *zap.Logger
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		seed:   1,
		tips:   order.DefaultTipPolicy,
		logger: zap.NewNop(),
	}
}

// WithEngine sets the engine that keeps time for the kitchen.
func (b Builder) WithEngine(engine timing.Engine) Builder {
	b.engine = engine
	return b
}

// WithSink sets where the coordinator sends its notifications.
func (b Builder) WithSink(sink Sink) Builder {
	b.sink = sink
	return b
}

// WithRegrouper sets the layout collaborator to poke after deliveries.
func (b Builder) WithRegrouper(r Regrouper) Builder {
	b.regrouper = r
	return b
}

// WithSeed seeds the default recipe sampler.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// WithSampler replaces the default recipe sampler. The seed is ignored then.
func (b Builder) WithSampler(s RecipeSampler) Builder {
	b.sampler = s
	return b
}

// WithTipPolicy sets the tip tiers.
func (b Builder) WithTipPolicy(p order.TipPolicy) Builder {
	b.tips = p
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(logger *zap.Logger) Builder {
	b.logger = logger
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.engine == nil {
		panic("kitchen: engine is not set")
	}

	if b.sink == nil {
		panic("kitchen: sink is not set")
	}
}

// Build creates a coordinator. It does not spawn until Init is called.
func (b Builder) Build(name string) *Coordinator {
	b.parametersMustBeValid()

	sampler := b.sampler
	if sampler == nil {
		sampler = recipe.NewSampler(b.seed)
	}

	logger := b.logger.Named(name)

	c := &Coordinator{
		HookableBase: hooking.NewHookableBase(),
		name:         name,
		engine:       b.engine,
		pool:         order.NewPool(b.engine),
		live:         NewLiveSet(),
		tips:         b.tips,
		sink:         b.sink,
		regrouper:    b.regrouper,
		subs:         make(map[*order.Order]*order.Subscription),
		logger:       logger,
	}
	c.watcher = &orderWatcher{c: c}
	c.matcher = NewMatcher(c.live)
	c.spawner = NewSpawner(
		b.engine, c.pool, sampler, c.live, c.orderSpawned, logger)

	return c
}
