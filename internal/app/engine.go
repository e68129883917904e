// Package app hosts a Manager: it runs startup callbacks once, then drives
// input, update callbacks and the tick pipeline on a simulation goroutine
// while a presentation goroutine redraws the shared backend.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/helium/internal/config"
	"github.com/zeusync/helium/internal/core/ecs"
	"github.com/zeusync/helium/internal/core/events/bus"
	"github.com/zeusync/helium/internal/core/input"
	"github.com/zeusync/helium/internal/core/observability/log"
	"github.com/zeusync/helium/internal/core/render"
	"github.com/zeusync/helium/internal/core/system"
	"github.com/zeusync/helium/pkg/sequence"
)

var ErrAlreadyRunning = errors.New("engine already running")

type (
	// Callback runs on the simulation goroutine with exclusive access to the
	// manager.
	Callback func(m *system.Manager) error

	// InputCallback receives every queued input event once.
	InputCallback func(m *system.Manager, e input.Event) error
)

const (
	kindStartup = "startup"
	kindUpdate  = "update"
	kindInput   = "input"
)

type Engine struct {
	cfg     *config.Config
	logger  log.Log
	backend *render.Shared
	manager *system.Manager

	startup []Callback
	update  []Callback
	inputs  []InputCallback

	queue *sequence.Queue[input.Event]

	managerOpts []system.Option

	runID    uuid.UUID
	running  atomic.Bool
	shutdown atomic.Bool
}

type Option func(*Engine)

// WithManagerOptions forwards options to the underlying system.Manager.
func WithManagerOptions(opts ...system.Option) Option {
	return func(e *Engine) { e.managerOpts = append(e.managerOpts, opts...) }
}

// New builds an engine around backend. A nil backend leaves the shared slot
// empty; attach one later through Backend().Attach.
func New(cfg *config.Config, logger log.Log, backend render.Backend, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Provide()
	}

	e := &Engine{
		cfg:     cfg,
		logger:  logger.With(log.String("component", "engine")),
		backend: render.NewShared(backend),
		queue:   sequence.NewQueue[input.Event](64),
	}
	for _, opt := range opts {
		opt(e)
	}

	managerOpts := append([]system.Option{system.WithLogger(logger)}, e.managerOpts...)
	e.manager = system.NewManager(ecs.NewWorld(), e.backend, managerOpts...)
	if logger.GetLevel() == log.LevelDebug {
		e.manager.Bus().AddObserver(bus.LogObserver{
			Logger: logger.With(log.String("component", "bus")),
		})
	}
	return e
}

func (e *Engine) Config() *config.Config   { return e.cfg }
func (e *Engine) Manager() *system.Manager { return e.manager }
func (e *Engine) Backend() *render.Shared  { return e.backend }
func (e *Engine) IsRunning() bool          { return e.running.Load() }
func (e *Engine) PendingInputs() int       { return e.queue.Len() }

// RunID identifies the latest Run; it is the zero UUID before the first.
func (e *Engine) RunID() uuid.UUID { return e.runID }

// AddStartup registers a callback run once before the first tick.
func (e *Engine) AddStartup(fn Callback) *Engine {
	e.startup = append(e.startup, fn)
	return e
}

// AddUpdate registers a callback run every tick before the pipeline.
func (e *Engine) AddUpdate(fn Callback) *Engine {
	e.update = append(e.update, fn)
	return e
}

func (e *Engine) AddInput(fn InputCallback) *Engine {
	e.inputs = append(e.inputs, fn)
	return e
}

// PushInput queues ev for the next tick. Safe for concurrent use.
func (e *Engine) PushInput(ev input.Event) {
	e.queue.Push(ev)
}

// Close asks a running engine to stop after the current tick. An engine is
// closed for good: a later Run returns right after its startup callbacks.
func (e *Engine) Close() {
	e.shutdown.Store(true)
}

// Run executes the startup callbacks and then ticks at the configured rate
// until Close is called, max_ticks is reached or ctx is done. It returns
// once both the simulation and presentation goroutines have exited.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)

	e.runID = uuid.New()
	logger := e.logger.With(log.String("run_id", e.runID.String()))
	logger.Info("Engine starting",
		log.Int("tick_rate", e.cfg.Simulation.TickRate),
		log.Uint64("max_ticks", e.cfg.Simulation.MaxTicks),
	)

	for i, fn := range e.startup {
		e.invoke(logger, kindStartup, i, func() error { return fn(e.manager) })
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer e.shutdown.Store(true)
		return e.simulate(gctx, logger)
	})
	g.Go(func() error {
		return e.present(gctx, logger)
	})

	err := g.Wait()
	metrics := e.manager.Bus().Metrics()
	logger.Info("Engine stopped",
		log.Uint64("ticks", e.manager.Ticks()),
		log.Uint64("events_published", metrics.Published),
		log.Uint64("event_errors", metrics.Errors),
	)
	return err
}

func (e *Engine) simulate(ctx context.Context, logger log.Log) error {
	ticker := time.NewTicker(e.cfg.TickInterval())
	defer ticker.Stop()

	maxTicks := e.cfg.Simulation.MaxTicks
	for {
		if e.shutdown.Load() {
			return nil
		}
		if maxTicks > 0 && e.manager.Ticks() >= maxTicks {
			logger.Info("Tick limit reached", log.Tick(e.manager.Ticks()))
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		e.tick(logger)
	}
}

func (e *Engine) tick(logger log.Log) {
	for _, ev := range e.queue.Drain() {
		for i, fn := range e.inputs {
			e.invoke(logger, kindInput, i, func() error { return fn(e.manager, ev) })
		}
	}

	for i, fn := range e.update {
		e.invoke(logger, kindUpdate, i, func() error { return fn(e.manager) })
	}

	if err := e.manager.Step(); err != nil {
		logger.Warn("Tick failed", log.Tick(e.manager.Ticks()), log.Error(err))
	}
}

func (e *Engine) present(ctx context.Context, logger log.Log) error {
	ticker := time.NewTicker(e.cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if e.shutdown.Load() {
			return nil
		}

		if err := e.backend.Redraw(); err != nil {
			if errors.Is(err, render.ErrBackendUnavailable) {
				continue
			}
			logger.Warn("Redraw failed", log.Error(err))
		}
	}
}

// invoke runs one callback, logging its error or recovered panic. Neither
// stops the loop.
func (e *Engine) invoke(logger log.Log, kind string, index int, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Callback panicked",
				log.Callback(kind, index),
				log.Tick(e.manager.Ticks()),
				log.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	if err := fn(); err != nil {
		logger.Warn("Callback failed",
			log.Callback(kind, index),
			log.Tick(e.manager.Ticks()),
			log.Error(err),
		)
	}
}
