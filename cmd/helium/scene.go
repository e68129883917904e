package main

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/zeusync/helium/internal/app"
	"github.com/zeusync/helium/internal/config"
	"github.com/zeusync/helium/internal/core/collision"
	"github.com/zeusync/helium/internal/core/ecs"
	"github.com/zeusync/helium/internal/core/events/bus"
	"github.com/zeusync/helium/internal/core/models"
	"github.com/zeusync/helium/internal/core/observability/log"
	"github.com/zeusync/helium/internal/core/system"
	"github.com/zeusync/helium/internal/core/systems/physics"
)

const (
	cubeModel  = "res/cube.obj"
	floorModel = "res/floor.obj"
)

// scene is the demo: a box falling onto a floor plane, a cube spinning in
// place, one light and a camera driven by WASD and the mouse.
type scene struct {
	cfg *config.Config

	box, spinner, floor ecs.Entity

	// resting boxes report a collision every tick; only the first is logged
	landed map[ecs.Entity]bool
}

func newScene(cfg *config.Config) *scene {
	return &scene{cfg: cfg, landed: make(map[ecs.Entity]bool)}
}

func (s *scene) register(e *app.Engine) {
	e.AddStartup(s.setup).
		AddUpdate(s.spin).
		AddInput(app.CameraInput)
}

func (s *scene) setup(m *system.Manager) error {
	surface, err := m.RenderConfig()
	if err != nil {
		return err
	}

	cam := models.NewCamera(
		mgl32.Vec3{5, 5, 5},
		mgl32.Vec3{-5, -5, -5},
		mgl32.Vec3{0, 1, 0},
		surface.Aspect(), 45, 0.1, 100,
	)
	cam.Speed = s.cfg.Camera.Speed
	cam.AngleSpeed = s.cfg.Camera.AngleSpeed
	if _, err = m.CreateCamera(cam); err != nil {
		return err
	}

	if _, err = m.AddLight(models.NewLight(mgl32.Vec3{0, 10, 0}, mgl32.Vec3{1, 1, 1})); err != nil {
		return err
	}

	return errors.Join(
		s.addFloor(m),
		s.addFallingBox(m),
		s.addSpinner(m),
		s.watchCollisions(m),
	)
}

func (s *scene) addFloor(m *system.Manager) error {
	origin := mgl32.Vec3{0, -10, 0}
	plane, err := collision.NewStationaryPlaneCollider(10, 10, origin, mgl32.QuatIdent())
	if err != nil {
		return err
	}
	s.floor, err = m.CreateObject(models.NewModel(floorModel), models.NewTransform(origin, mgl32.QuatIdent()))
	if err != nil {
		return err
	}
	_, err = system.AddComponent(m, s.floor, plane)
	return err
}

func (s *scene) addFallingBox(m *system.Manager) error {
	start := mgl32.Vec3{0, 5, 0}

	var err error
	s.box, err = m.CreateObject(models.NewModel(cubeModel), models.NewTransform(start, mgl32.QuatIdent()))
	if err != nil {
		return err
	}
	return errors.Join(
		add(m, s.box, physics.NewGravity(mgl32.Vec3(s.cfg.Simulation.Gravity))),
		add(m, s.box, collision.NewRectangleCollider(1, 1, 1, start)),
		add(m, s.box, models.Label("falling box")),
	)
}

func (s *scene) addSpinner(m *system.Manager) error {
	var err error
	s.spinner, err = m.CreateObject(models.NewModel(cubeModel), models.NewTransform(mgl32.Vec3{3, 0, 0}, mgl32.QuatIdent()))
	if err != nil {
		return err
	}
	return add(m, s.spinner, models.Label("spinner"))
}

func (s *scene) watchCollisions(m *system.Manager) error {
	logger := m.Logger()
	_, err := m.Bus().Subscribe(system.EventCollision, func(ev bus.Event) error {
		c, ok := ev.Data().(system.Collision)
		if !ok || s.landed[c.Entity] {
			return nil
		}
		s.landed[c.Entity] = true
		logger.Info("Box landed",
			log.Entity(uint64(c.Entity)),
			log.Uint64("plane", uint64(c.Plane)),
			log.Float32("y", c.Position.Y()),
			log.Tick(ev.Tick()),
		)
		return nil
	})
	return err
}

// spin turns the spinner one radian per second about Y.
func (s *scene) spin(m *system.Manager) error {
	angle := float32(m.Elapsed().Seconds())
	return m.SetRotation(s.spinner, mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0}))
}

func add[T any](m *system.Manager, e ecs.Entity, v T) error {
	_, err := system.AddComponent(m, e, v)
	return err
}
