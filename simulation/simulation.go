// Package simulation assembles a kitchen simulation: the engine, the kitchen,
// its tracers, and the optional recorder and monitor.
package simulation

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/sarchlab/kitchen/datarecording"
	"github.com/sarchlab/kitchen/kitchen"
	"github.com/sarchlab/kitchen/monitoring"
	"github.com/sarchlab/kitchen/recipe"
	"github.com/sarchlab/kitchen/sim/timing"
	"github.com/sarchlab/kitchen/tracing"
)

// A Simulation is a kitchen running on its own engine.
type Simulation struct {
	id string

	engine  *timing.SerialEngine
	kitchen *kitchen.Coordinator
	score   *tracing.ScoreTracker
	chef    *Chef

	recorder datarecording.Recorder

	monitor    *monitoring.Monitor
	monitorURL string

	logger *zap.Logger
}

// ID returns the session ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Engine returns the engine of the simulation.
func (s *Simulation) Engine() *timing.SerialEngine {
	return s.engine
}

// Kitchen returns the coordinator of the simulation.
func (s *Simulation) Kitchen() *kitchen.Coordinator {
	return s.kitchen
}

// Chef returns the bot chef, or nil if the simulation has none.
func (s *Simulation) Chef() *Chef {
	return s.chef
}

// Score returns the score so far.
func (s *Simulation) Score() tracing.Score {
	return s.score.Summary()
}

// Recorder returns the recorder, or nil if recording is off.
func (s *Simulation) Recorder() datarecording.Recorder {
	return s.recorder
}

// Monitor returns the monitor, or nil if monitoring is off.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns the dashboard URL, or "" if monitoring is off.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// Open starts the level, and the chef if there is one.
func (s *Simulation) Open(cfg kitchen.LevelConfig) error {
	if err := s.kitchen.Init(cfg); err != nil {
		return err
	}

	if s.chef != nil {
		s.chef.Start()
	}

	return nil
}

// RunUntil advances the simulation to t.
func (s *Simulation) RunUntil(t timing.VTimeInSec) error {
	return s.engine.RunUntil(t)
}

// Serve submits a plate to the kitchen.
func (s *Simulation) Serve(plate []recipe.Ingredient) (kitchen.Delivery, bool) {
	return s.kitchen.SubmitPlate(plate)
}

// Terminate stops the monitor before it closes the kitchen, so no request
// sees the live set being cleared. Then it writes the recorded events.
func (s *Simulation) Terminate(ctx context.Context) error {
	if s.chef != nil {
		s.chef.Stop()
	}

	var errs []error

	if s.monitor != nil {
		errs = append(errs, s.monitor.Shutdown(ctx))
	}

	s.kitchen.StopAndClear()

	if s.recorder != nil {
		errs = append(errs, s.recorder.Close())
	}

	score := s.score.Summary()
	s.logger.Info("simulation terminated",
		zap.String("session", s.id),
		zap.Float64("now", s.engine.Now()),
		zap.Int("delivered", score.Delivered),
		zap.Int("expired", score.Expired),
		zap.Int("tips", score.Tips),
	)

	return errors.Join(errs...)
}
