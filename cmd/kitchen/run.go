package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sarchlab/kitchen/config"
	"github.com/sarchlab/kitchen/simulation"
	"github.com/sarchlab/kitchen/sim/timing"
)

type runOptions struct {
	root *rootOptions

	levelPath    string
	duration     float64
	seed         int64
	chefInterval float64
	chefSkill    float64
	record       bool
	recordPath   string
	monitor      bool
	monitorPort  int
	openBrowser  bool
	pace         float64
	hold         bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{root: root}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a level with a bot chef and print the score.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.levelPath, "level", "l", "", "level file")
	f.Float64Var(&opts.duration, "duration", 120, "virtual seconds to run")
	f.Int64Var(&opts.seed, "seed", 0, "random seed, 0 uses the level's seed")
	f.Float64Var(&opts.chefInterval, "chef-interval", 2,
		"seconds between the chef's plates, 0 for no chef")
	f.Float64Var(&opts.chefSkill, "chef-skill", 0.8,
		"probability that the chef plates correctly")
	f.BoolVar(&opts.record, "record", false, "record order events to SQLite")
	f.StringVar(&opts.recordPath, "record-path", "",
		"database path without extension, empty for a session name")
	f.BoolVar(&opts.monitor, "monitor", false, "serve the monitor dashboard")
	f.IntVar(&opts.monitorPort, "monitor-port", 0, "monitor port, 0 for any")
	f.BoolVar(&opts.openBrowser, "open-browser", false,
		"open the dashboard in a browser")
	f.Float64Var(&opts.pace, "pace", 0,
		"virtual seconds per wall second, 0 to run as fast as possible")
	f.BoolVar(&opts.hold, "hold", false,
		"keep the monitor up after the run until interrupted")
	_ = cmd.MarkFlagRequired("level")

	return cmd
}

func (o *runOptions) builder(logger *zap.Logger, seed int64) simulation.Builder {
	b := simulation.MakeBuilder().
		WithLogger(logger).
		WithSeed(seed).
		WithOrderLogging()

	if o.chefInterval > 0 {
		b = b.WithChef(o.chefInterval, o.chefSkill)
	}

	if o.record {
		b = b.WithRecording(o.recordPath)
	}

	if o.monitor || o.openBrowser {
		b = b.WithMonitor(o.monitorPort)
	}

	if logger.Core().Enabled(zap.DebugLevel) {
		b = b.WithEventLogging()
	}

	return b
}

func (o *runOptions) run(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := o.root.newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	level, err := config.LoadLevel(o.levelPath)
	if err != nil {
		return err
	}

	seed := o.seed
	if seed == 0 {
		seed = level.Seed
	}

	if seed == 0 {
		seed = 1
	}

	s, err := o.builder(logger, seed).Build("Kitchen")
	if err != nil {
		return err
	}

	if s.MonitorURL() != "" {
		fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", s.MonitorURL())

		if o.openBrowser {
			if err := s.Monitor().OpenInBrowser(s.MonitorURL()); err != nil {
				logger.Warn("cannot open browser", zap.Error(err))
			}
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if err := s.Open(level.LevelConfig); err != nil {
		return err
	}

	runErr := o.advance(ctx, s)

	if o.hold && s.MonitorURL() != "" && runErr == nil {
		fmt.Fprintln(os.Stderr, "Run finished, press Ctrl-C to leave")
		<-ctx.Done()
	}

	if err := s.Terminate(context.Background()); err != nil {
		logger.Error("cannot terminate cleanly", zap.Error(err))
	}

	if runErr != nil {
		return runErr
	}

	printScore(out, s)

	return nil
}

// advance moves the simulation to the end of the run, in slices of virtual
// time when it is paced.
func (o *runOptions) advance(ctx context.Context, s *simulation.Simulation) error {
	if o.pace <= 0 {
		return s.RunUntil(o.duration)
	}

	const slice timing.VTimeInSec = 0.1

	wait := time.Duration(float64(slice) / o.pace * float64(time.Second))
	ticker := time.NewTicker(wait)
	defer ticker.Stop()

	for t := slice; t < o.duration+slice; t += slice {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if err := s.RunUntil(min(t, o.duration)); err != nil {
			return err
		}
	}

	return nil
}

func printScore(out io.Writer, s *simulation.Simulation) {
	score := s.Score()

	fmt.Fprintf(out, "time:          %.1fs\n", s.Engine().Now())
	fmt.Fprintf(out, "orders:        %d\n", score.Spawned)
	fmt.Fprintf(out, "delivered:     %d\n", score.Delivered)
	fmt.Fprintf(out, "expired:       %d\n", score.Expired)
	fmt.Fprintf(out, "tips:          %d\n", score.Tips)
	fmt.Fprintf(out, "average tip:   %.2f\n", score.AverageTip())
	fmt.Fprintf(out, "delivery rate: %.0f%%\n", score.DeliveryRate()*100)

	if chef := s.Chef(); chef != nil {
		fmt.Fprintf(out, "plates:        %d (%d missed)\n", chef.Plates(), chef.Misses())
	}

	if s.Recorder() != nil {
		fmt.Fprintf(out, "recorded:      session %s\n", s.ID())
	}
}
