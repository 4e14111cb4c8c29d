// Package monitoring serves a running kitchen simulation over HTTP, so that
// it can be watched and steered while it runs.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
	"go.uber.org/zap"

	"github.com/sarchlab/kitchen/kitchen"
	"github.com/sarchlab/kitchen/monitoring/web"
	"github.com/sarchlab/kitchen/order"
	"github.com/sarchlab/kitchen/recipe"
	"github.com/sarchlab/kitchen/sim/timing"
	"github.com/sarchlab/kitchen/tracing"
)

// Monitor exposes the engine, the kitchen, and its score over HTTP.
type Monitor struct {
	engine  timing.Engine
	kitchen *kitchen.Coordinator
	score   *tracing.ScoreTracker

	portNumber      int
	profileDuration time.Duration
	logger          *zap.Logger

	engineLock sync.Mutex
	userPaused bool

	server *http.Server
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		profileDuration: time.Second,
		logger:          zap.NewNop(),
	}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// refused and a random port is used instead.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		m.logger.Warn("monitor port not allowed, using a random port",
			zap.Int("port", portNumber))

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithLogger sets the logger of the monitor.
func (m *Monitor) WithLogger(logger *zap.Logger) *Monitor {
	m.logger = logger
	return m
}

// WithProfileDuration sets how long /api/profile samples the CPU.
func (m *Monitor) WithProfileDuration(d time.Duration) *Monitor {
	m.profileDuration = d
	return m
}

// RegisterEngine registers the engine that runs the simulation.
func (m *Monitor) RegisterEngine(e timing.Engine) {
	m.engine = e
}

// RegisterKitchen registers the coordinator to watch.
func (m *Monitor) RegisterKitchen(c *kitchen.Coordinator) {
	m.kitchen = c
}

// RegisterScoreTracker registers the tracker /api/score reports.
func (m *Monitor) RegisterScoreTracker(t *tracing.ScoreTracker) {
	m.score = t
}

// Router returns the handler of the monitor.
func (m *Monitor) Router() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/pause", m.pauseEngine).Methods(http.MethodPost)
	api.HandleFunc("/continue", m.continueEngine).Methods(http.MethodPost)
	api.HandleFunc("/now", m.now).Methods(http.MethodGet)
	api.HandleFunc("/orders", m.listOrders).Methods(http.MethodGet)
	api.HandleFunc("/score", m.reportScore).Methods(http.MethodGet)
	api.HandleFunc("/spawner/pause", m.pauseSpawner).Methods(http.MethodPost)
	api.HandleFunc("/spawner/resume", m.resumeSpawner).Methods(http.MethodPost)
	api.HandleFunc("/coordinator", m.dumpCoordinator).Methods(http.MethodGet)
	api.HandleFunc("/resource", m.listResources).Methods(http.MethodGet)
	api.HandleFunc("/profile", m.collectProfile).Methods(http.MethodGet)

	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts serving in the background and returns the URL of the
// dashboard.
func (m *Monitor) StartServer() (string, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		return "", fmt.Errorf("start monitor: %w", err)
	}

	url := fmt.Sprintf("http://localhost:%d", listener.Addr().(*net.TCPAddr).Port)
	m.server = &http.Server{
		Handler:           m.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("monitor stopped", zap.Error(err))
		}
	}()

	m.logger.Info("monitoring simulation", zap.String("url", url))

	return url, nil
}

// OpenInBrowser opens the dashboard in the default browser.
func (m *Monitor) OpenInBrowser(url string) error {
	browser.Stdout = os.Stderr

	return browser.OpenURL(url)
}

// Shutdown stops the server and lets a paused engine go on.
func (m *Monitor) Shutdown(ctx context.Context) error {
	m.engineLock.Lock()
	if m.userPaused {
		m.engine.Continue()
		m.userPaused = false
	}
	m.engineLock.Unlock()

	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

// withEngineHeld runs f while no event is being handled.
func (m *Monitor) withEngineHeld(f func()) {
	m.engineLock.Lock()
	defer m.engineLock.Unlock()

	if !m.userPaused {
		m.engine.Pause()
		defer m.engine.Continue()
	}

	f()
}

func (m *Monitor) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		m.logger.Warn("cannot write response", zap.Error(err))
	}
}

func (m *Monitor) fail(w http.ResponseWriter, status int, err error) {
	m.logger.Warn("monitor request failed", zap.Error(err))
	http.Error(w, err.Error(), status)
}

func (m *Monitor) kitchenOr404(w http.ResponseWriter) bool {
	if m.kitchen == nil {
		m.fail(w, http.StatusNotFound, errors.New("no kitchen registered"))
		return false
	}

	return true
}

type pausedRsp struct {
	Paused bool `json:"paused"`
}

func (m *Monitor) pauseEngine(w http.ResponseWriter, _ *http.Request) {
	m.engineLock.Lock()
	if !m.userPaused {
		m.engine.Pause()
		m.userPaused = true
	}
	m.engineLock.Unlock()

	m.writeJSON(w, pausedRsp{Paused: true})
}

func (m *Monitor) continueEngine(w http.ResponseWriter, _ *http.Request) {
	m.engineLock.Lock()
	if m.userPaused {
		m.engine.Continue()
		m.userPaused = false
	}
	m.engineLock.Unlock()

	m.writeJSON(w, pausedRsp{Paused: false})
}

type nowRsp struct {
	Now float64 `json:"now"`
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	m.writeJSON(w, nowRsp{Now: m.engine.Now()})
}

type orderRsp struct {
	ID          string              `json:"id"`
	Recipe      string              `json:"recipe"`
	Ingredients []recipe.Ingredient `json:"ingredients"`
	Arrival     float64             `json:"arrival"`
	Remaining   float64             `json:"remaining"`
	Ratio       float64             `json:"ratio"`
}

type ordersRsp struct {
	Kitchen      string     `json:"kitchen"`
	Now          float64    `json:"now"`
	SpawnerState string     `json:"spawner_state"`
	NextSpawn    float64    `json:"next_spawn"`
	Orders       []orderRsp `json:"orders"`
}

func (m *Monitor) listOrders(w http.ResponseWriter, _ *http.Request) {
	if !m.kitchenOr404(w) {
		return
	}

	var rsp ordersRsp

	m.withEngineHeld(func() {
		spawner := m.kitchen.Spawner()

		rsp = ordersRsp{
			Kitchen:      m.kitchen.Name(),
			Now:          m.engine.Now(),
			SpawnerState: spawner.State().String(),
			NextSpawn:    spawner.NextSpawnTime(),
			Orders:       []orderRsp{},
		}

		for _, o := range m.kitchen.LiveOrders() {
			rsp.Orders = append(rsp.Orders, orderRsp{
				ID:          o.ID(),
				Recipe:      o.RecipeName(),
				Ingredients: o.RequiredIngredients(),
				Arrival:     o.ArrivalTime(),
				Remaining:   o.RemainingTime(),
				Ratio:       order.RemainingRatio(o),
			})
		}
	})

	m.writeJSON(w, rsp)
}

type scoreRsp struct {
	tracing.Score

	AverageTip   float64 `json:"average_tip"`
	DeliveryRate float64 `json:"delivery_rate"`
}

func (m *Monitor) reportScore(w http.ResponseWriter, _ *http.Request) {
	if m.score == nil {
		m.fail(w, http.StatusNotFound, errors.New("no score tracker registered"))
		return
	}

	s := m.score.Summary()
	m.writeJSON(w, scoreRsp{
		Score:        s,
		AverageTip:   s.AverageTip(),
		DeliveryRate: s.DeliveryRate(),
	})
}

type spawnerRsp struct {
	State string `json:"state"`
}

func (m *Monitor) pauseSpawner(w http.ResponseWriter, _ *http.Request) {
	m.steerSpawner(w, (*kitchen.Spawner).Pause)
}

func (m *Monitor) resumeSpawner(w http.ResponseWriter, _ *http.Request) {
	m.steerSpawner(w, (*kitchen.Spawner).Resume)
}

func (m *Monitor) steerSpawner(w http.ResponseWriter, action func(*kitchen.Spawner)) {
	if !m.kitchenOr404(w) {
		return
	}

	var state kitchen.SpawnerState

	m.withEngineHeld(func() {
		action(m.kitchen.Spawner())
		state = m.kitchen.Spawner().State()
	})

	m.writeJSON(w, spawnerRsp{State: state.String()})
}

func (m *Monitor) dumpCoordinator(w http.ResponseWriter, _ *http.Request) {
	if !m.kitchenOr404(w) {
		return
	}

	buf := bytes.NewBuffer(nil)

	var err error

	m.withEngineHeld(func() {
		serializer := goseth.NewSerializer()
		serializer.SetRoot(m.kitchen)
		serializer.SetMaxDepth(1)
		err = serializer.Serialize(buf)
	})

	if err != nil {
		m.fail(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		m.fail(w, http.StatusInternalServerError, err)
		return
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		m.fail(w, http.StatusInternalServerError, err)
		return
	}

	memory, err := p.MemoryInfo()
	if err != nil {
		m.fail(w, http.StatusInternalServerError, err)
		return
	}

	m.writeJSON(w, resourceRsp{CPUPercent: cpuPercent, MemorySize: memory.RSS})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		m.fail(w, http.StatusConflict, err)
		return
	}

	time.Sleep(m.profileDuration)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		m.fail(w, http.StatusInternalServerError, err)
		return
	}

	m.writeJSON(w, prof)
}
