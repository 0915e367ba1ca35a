// Package app wires the simulation to its collaborators: progression, the
// mission scout and the spectator feed. Frontends drive it through Flow.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"polychase/internal/progress"
	"polychase/internal/scout"
	"polychase/internal/sim"
)

// Store is the progression collaborator.
type Store interface {
	Stats(ctx context.Context) (progress.Stats, error)
	RecordRun(ctx context.Context, out sim.RunOutcome, mission string) (progress.Stats, error)
	Buy(ctx context.Context, id progress.ItemID) (progress.Stats, error)
}

// Locator is the mission naming collaborator. It never fails.
type Locator interface {
	Locate(ctx context.Context, query string) scout.Location
}

// Publisher receives one snapshot per tick.
type Publisher interface {
	Publish(s sim.Snapshot)
}

type Options struct {
	Seed          uint64 // zero draws a fresh seed per run
	EvictDistance float64
	Feed          Publisher
	Logger        *slog.Logger
}

// Mission is everything a run needs before it starts.
type Mission struct {
	Query    string
	Location scout.Location
	Stats    progress.Stats
}

// Result is the hand-off after a run ends.
type Result struct {
	Outcome sim.RunOutcome
	Earned  int
	NewHigh bool
	Stats   progress.Stats
}

type App struct {
	store  Store
	scout  Locator
	feed   Publisher
	logger *slog.Logger
	opts   Options

	Session *sim.Session
	Events  *sim.EventBus
	Stats   progress.Stats
	Mission Mission
	Last    *Result
}

func New(store Store, locator Locator, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	events := sim.NewEventBus()
	a := &App{
		store:   store,
		scout:   locator,
		feed:    opts.Feed,
		logger:  opts.Logger,
		opts:    opts,
		Session: sim.NewSession(events),
		Events:  events,
		Stats:   progress.DefaultStats(),
	}
	events.Subscribe(sim.EventRunOver, a.onRunOver)
	events.Subscribe(sim.EventPursuerSpawned, func(e sim.Event) {
		a.logger.Debug("pursuer spawned", "tick", e.Tick, "x", e.X, "z", e.Z)
	})
	return a
}

// LoadStats refreshes the cached progression.
func (a *App) LoadStats(ctx context.Context) error {
	st, err := a.store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("app: load stats: %w", err)
	}
	a.Stats = st
	return nil
}

// Launch loads progression and scouts the target concurrently.
func (a *App) Launch(ctx context.Context, query string) (Mission, error) {
	m := Mission{Query: query}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := a.store.Stats(gctx)
		if err != nil {
			return fmt.Errorf("app: load stats: %w", err)
		}
		m.Stats = st
		return nil
	})
	g.Go(func() error {
		m.Location = a.scout.Locate(gctx, query)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Mission{}, err
	}
	return m, nil
}

// StartRun begins a run for m. It must be called on the frame goroutine.
func (a *App) StartRun(m Mission) {
	a.Mission = m
	a.Stats = m.Stats
	a.Last = nil
	a.Session.Pursuers.EvictDistance = a.opts.EvictDistance
	seed := a.nextSeed()
	a.Session.Start(m.Stats.RunConfig(), seed)
	a.logger.Info("run started",
		"run_id", a.Session.RunID,
		"seed", seed,
		"target", m.Location.Name,
		"speed_level", a.Session.Config.SpeedLevel,
		"cosmetic", a.Session.Config.Cosmetic)
}

func (a *App) nextSeed() uint64 {
	if a.opts.Seed != 0 {
		return a.opts.Seed
	}
	return uint64(time.Now().UnixNano())
}

// Step advances the running session and publishes the resulting snapshot.
func (a *App) Step(in sim.InputSnapshot, dt float64) sim.Snapshot {
	a.Session.Tick(in, dt)
	snap := a.Session.Snapshot()
	if a.feed != nil && snap.State != sim.StateIdle {
		a.feed.Publish(snap)
	}
	return snap
}

func (a *App) onRunOver(e sim.Event) {
	out := e.Outcome
	prevHigh := a.Stats.HighScore
	res := &Result{Outcome: out, Earned: progress.Earned(out.Score), NewHigh: out.Score > prevHigh}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := a.store.RecordRun(ctx, out, a.Mission.Location.Name)
	if err != nil {
		// The run is over regardless; keep the in-memory view consistent.
		a.logger.Error("record run failed", "run_id", out.RunID, "error", err)
		st = a.Stats
		st.Money += res.Earned
		st.HighScore = max(st.HighScore, out.Score)
	}
	a.Stats = st
	res.Stats = st
	a.Last = res
	a.logger.Info("busted",
		"run_id", out.RunID,
		"score", out.Score,
		"earned", res.Earned,
		"ticks", out.Ticks,
		"pursuers", out.Pursuers)
}

// Buy purchases an item and refreshes the cached stats.
func (a *App) Buy(ctx context.Context, id progress.ItemID) error {
	st, err := a.store.Buy(ctx, id)
	if err != nil {
		return err
	}
	a.Stats = st
	return nil
}
