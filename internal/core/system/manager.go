// Package system holds the Manager, which owns the world and drives the
// per-tick pipeline: camera intents, gravity and collision, then renderer
// sync of everything that changed.
//
// A Manager belongs to the simulation goroutine. Its methods are not safe
// for concurrent use; only the render backend behind it is shared.
package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/zeusync/helium/internal/core/ecs"
	"github.com/zeusync/helium/internal/core/events/bus"
	"github.com/zeusync/helium/internal/core/models"
	"github.com/zeusync/helium/internal/core/observability/log"
	"github.com/zeusync/helium/internal/core/render"
)

var ErrNoCamera = errors.New("no camera registered")

// Event types published on the manager's bus.
const (
	EventEntityCreated = "entity.created"
	EventEntityRemoved = "entity.removed"
	EventCollision     = "collision"
)

const eventSource = "system"

// Collision is the payload of EventCollision: a falling box landed on a
// plane and was snapped to Position.
type Collision struct {
	Entity   ecs.Entity
	Plane    ecs.Entity
	Position mgl32.Vec3
}

type Manager struct {
	world   *ecs.World
	backend *render.Shared
	bus     bus.EventBus
	logger  log.Log

	camera    ecs.Entity
	hasCamera bool

	now   func() time.Time
	start time.Time
	last  time.Time
	ticks uint64
}

type Option func(*Manager)

func WithBus(b bus.EventBus) Option {
	return func(m *Manager) { m.bus = b }
}

func WithLogger(l log.Log) Option {
	return func(m *Manager) { m.logger = l }
}

// WithClock replaces time.Now for elapsed and delta time.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(world *ecs.World, backend *render.Shared, opts ...Option) *Manager {
	m := &Manager{
		world:   world,
		backend: backend,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.bus == nil {
		m.bus = bus.New()
	}
	if m.logger == nil {
		m.logger = log.Provide()
	}
	m.logger = m.logger.With(log.String("component", "manager"))
	m.world.OnTableCreated(func(info ecs.ComponentInfo) {
		m.logger.Debug("Component table created",
			log.Component(info.Name),
			log.Stringer("component_id", info.ID),
		)
	})
	m.start = m.now()
	m.last = m.start
	return m
}

func (m *Manager) World() *ecs.World       { return m.world }
func (m *Manager) Bus() bus.EventBus       { return m.bus }
func (m *Manager) Backend() *render.Shared { return m.backend }
func (m *Manager) Logger() log.Log         { return m.logger }

// Ticks is the number of completed ticks.
func (m *Manager) Ticks() uint64 { return m.ticks }

// Elapsed is the time since the manager was created.
func (m *Manager) Elapsed() time.Duration { return m.now().Sub(m.start) }

// DeltaTime is the time in seconds since the last tick finished.
func (m *Manager) DeltaTime() float32 {
	return float32(m.now().Sub(m.last).Seconds())
}

func (m *Manager) publish(typ string, data any) error {
	return m.bus.Publish(bus.NewEvent(typ, eventSource, m.ticks, data))
}

func (m *Manager) CreateEntity() ecs.Entity {
	e := m.world.NewEntity()
	if err := m.publish(EventEntityCreated, e); err != nil {
		m.logger.Warn("Entity created handler failed", log.Entity(uint64(e)), log.Error(err))
	}
	return e
}

func (m *Manager) NumEntities() uint64 { return m.world.NumEntities() }

// RemoveEntity drops e from every table. Removing the camera entity
// unregisters the camera.
func (m *Manager) RemoveEntity(e ecs.Entity) error {
	if err := m.world.RemoveEntity(e); err != nil {
		return err
	}
	if m.hasCamera && m.camera == e {
		m.hasCamera = false
	}
	return m.publish(EventEntityRemoved, e)
}

// Camera returns the registered camera entity.
func (m *Manager) Camera() (ecs.Entity, bool) { return m.camera, m.hasCamera }

// CreateCamera registers cam with the renderer and stores it, together with
// an idle controller, on a new entity that becomes the current camera.
func (m *Manager) CreateCamera(cam models.Camera) (ecs.Entity, error) {
	if err := m.backend.Do(func(b render.Backend) error {
		return b.AddCamera(cam.Params())
	}); err != nil {
		return 0, fmt.Errorf("create camera: %w", err)
	}
	cam.MarkSynced()

	e := m.CreateEntity()
	if err := errors.Join(
		ecs.AddComponent(m.world, e, cam),
		ecs.AddComponent(m.world, e, models.CameraController{}),
	); err != nil {
		return e, err
	}
	m.camera, m.hasCamera = e, true
	m.logger.Info("Camera created", log.Entity(uint64(e)))
	return e, nil
}

// UpdateCamera replaces the current camera and pushes it to the renderer.
func (m *Manager) UpdateCamera(cam models.Camera) error {
	if !m.hasCamera {
		return ErrNoCamera
	}
	if err := m.backend.Do(func(b render.Backend) error {
		return b.UpdateCamera(cam.Params())
	}); err != nil {
		return fmt.Errorf("update camera: %w", err)
	}
	cam.MarkSynced()
	return ecs.AddComponent(m.world, m.camera, cam)
}

// CreateObject loads model in the renderer with one instance at tr and
// stores both on a new entity. The transform stays dirty so the first tick
// mirrors it into any collider or light added later.
func (m *Manager) CreateObject(model models.Model, tr models.Transform) (ecs.Entity, error) {
	var index int
	if err := m.backend.Do(func(b render.Backend) error {
		var err error
		index, err = b.CreateObject(model.Path(), []render.Instance{tr.Instance()})
		return err
	}); err != nil {
		return 0, fmt.Errorf("create object %q: %w", model.Path(), err)
	}
	model.SetRendererIndex(index)

	e := m.CreateEntity()
	tr.MarkDirty()
	if err := errors.Join(
		ecs.AddComponent(m.world, e, model),
		ecs.AddComponent(m.world, e, tr),
	); err != nil {
		return e, err
	}
	m.logger.Debug("Object created",
		log.Entity(uint64(e)),
		log.String("path", model.Path()),
		log.Int("index", index),
	)
	return e, nil
}

// AddLight registers light with the renderer and stores it on a new entity.
func (m *Manager) AddLight(light models.Light) (ecs.Entity, error) {
	var handle render.LightHandle
	if err := m.backend.Do(func(b render.Backend) error {
		var err error
		handle, err = b.AddLight(light.Light)
		return err
	}); err != nil {
		return 0, fmt.Errorf("add light: %w", err)
	}
	light.SetHandle(handle)

	e := m.CreateEntity()
	return e, ecs.AddComponent(m.world, e, light)
}

func (m *Manager) RenderConfig() (render.SurfaceConfig, error) {
	return m.backend.SurfaceConfig()
}
