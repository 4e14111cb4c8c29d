package kitchen

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sarchlab/kitchen/order"
	"github.com/sarchlab/kitchen/recipe"
	"github.com/sarchlab/kitchen/sim/timing"
)

// SpawnerState is the state of a Spawner.
type SpawnerState int

// The states of a spawner. A paused spawner keeps its live orders; a stopped
// one has dropped them.
const (
	SpawnerInactive SpawnerState = iota
	SpawnerActive
	SpawnerPaused
	SpawnerStopped
)

func (s SpawnerState) String() string {
	switch s {
	case SpawnerInactive:
		return "Inactive"
	case SpawnerActive:
		return "Active"
	case SpawnerPaused:
		return "Paused"
	case SpawnerStopped:
		return "Stopped"
	default:
		return fmt.Sprintf("SpawnerState(%d)", int(s))
	}
}

// An OrderSource hands out order records. It may return nil when it cannot
// provide one.
type OrderSource interface {
	Acquire() *order.Order
}

// A RecipeSampler draws a recipe from a catalog.
type RecipeSampler interface {
	Sample(c recipe.Catalog) (recipe.Recipe, error)
}

// A Spawner puts a new order out once every interval, as long as the live set
// is below the cap. Its ticks are secondary, so an order expiring at the time
// of a tick has already left the live set when the cap is checked.
type Spawner struct {
	ticks *timing.TickScheduler

	state               SpawnerState
	source              OrderSource
	sampler             RecipeSampler
	live                *LiveSet
	catalog             recipe.Catalog
	maxConcurrentOrders int

	onSpawn func(o *order.Order)
	logger  *zap.Logger
}

// NewSpawner creates an inactive spawner. onSpawn is called with every order
// the spawner puts out, after it joined the live set.
func NewSpawner(
	engine timing.Engine,
	source OrderSource,
	sampler RecipeSampler,
	live *LiveSet,
	onSpawn func(o *order.Order),
	logger *zap.Logger,
) *Spawner {
	s := &Spawner{
		source:  source,
		sampler: sampler,
		live:    live,
		onSpawn: onSpawn,
		logger:  logger,
	}
	s.ticks = timing.NewTickScheduler(s, engine, 1)
	s.ticks.Secondary = true

	return s
}

// Start takes the level, empties the live set, and starts ticking. The first
// spawn attempt happens one interval after start.
func (s *Spawner) Start(cfg LevelConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.ticks.Stop()
	s.live.Clear()

	s.catalog = cfg.Catalog
	s.maxConcurrentOrders = cfg.MaxConcurrentOrders
	s.ticks.SetPeriod(cfg.IntervalBetweenDrops)

	s.state = SpawnerActive
	s.ticks.Start()

	s.logger.Debug("spawner started",
		zap.Float64("interval", cfg.IntervalBetweenDrops),
		zap.Int("max_concurrent_orders", cfg.MaxConcurrentOrders),
		zap.Int("recipes", cfg.Catalog.Len()),
	)

	return nil
}

// Pause stops ticking but keeps the live set. Pausing a spawner that is not
// active does nothing.
func (s *Spawner) Pause() {
	if s.state != SpawnerActive {
		return
	}

	s.ticks.Stop()
	s.state = SpawnerPaused
	s.logger.Debug("spawner paused", zap.Float64("now", s.ticks.Now()))
}

// Resume restarts ticking after a pause. It does nothing unless the spawner
// is paused.
func (s *Spawner) Resume() {
	if s.state != SpawnerPaused {
		return
	}

	s.state = SpawnerActive
	s.ticks.Start()
	s.logger.Debug("spawner resumed", zap.Float64("now", s.ticks.Now()))
}

// Stop stops ticking and empties the live set. The orders that were live are
// not returned to any pool and must not be used again.
func (s *Spawner) Stop() {
	s.ticks.Stop()
	dropped := s.live.Clear()
	s.state = SpawnerStopped

	s.logger.Debug("spawner stopped", zap.Int("dropped_orders", len(dropped)))
}

// State returns the state of the spawner.
func (s *Spawner) State() SpawnerState {
	return s.state
}

// NextSpawnTime returns the time of the next spawn attempt, or -1 if the
// spawner is not ticking.
func (s *Spawner) NextSpawnTime() timing.VTimeInSec {
	return s.ticks.NextTickTime()
}

// Handle processes the spawner's tick events.
func (s *Spawner) Handle(e timing.Event) error {
	tick, ok := e.(timing.TickEvent)
	if !ok {
		return fmt.Errorf("spawner cannot handle event of type %T", e)
	}

	if !s.ticks.Accept(tick) {
		return nil
	}

	s.spawn()

	return nil
}

func (s *Spawner) spawn() *order.Order {
	if s.live.Len() >= s.maxConcurrentOrders {
		return nil
	}

	r, err := s.sampler.Sample(s.catalog)
	if err != nil {
		s.logger.Warn("spawn skipped, cannot sample a recipe",
			zap.Float64("now", s.ticks.Now()), zap.Error(err))
		return nil
	}

	if err := r.Validate(); err != nil {
		s.logger.Warn("spawn skipped, sampled recipe is invalid",
			zap.Float64("now", s.ticks.Now()),
			zap.String("recipe", r.Name),
			zap.Error(err))
		return nil
	}

	o := s.source.Acquire()
	if o == nil {
		s.logger.Warn("spawn skipped, no order record available",
			zap.Float64("now", s.ticks.Now()))
		return nil
	}

	o.Setup(r)
	s.live.Add(o)

	if s.onSpawn != nil {
		s.onSpawn(o)
	}

	return o
}
