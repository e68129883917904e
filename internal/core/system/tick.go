package system

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/zeusync/helium/internal/core/collision"
	"github.com/zeusync/helium/internal/core/ecs"
	"github.com/zeusync/helium/internal/core/models"
	"github.com/zeusync/helium/internal/core/observability/log"
	"github.com/zeusync/helium/internal/core/render"
	"github.com/zeusync/helium/internal/core/systems/physics"
	"github.com/zeusync/helium/pkg/generic"
)

// Tick runs one simulation step of dt seconds:
//
//  1. camera controllers move their cameras; the current camera is pushed
//     to the renderer if it changed
//  2. gravity is integrated and falling boxes are tested against every
//     stationary plane; a hit snaps the box on Y, kills its velocity and
//     writes the resolved position into its transform
//  3. entities without a hit move by velocity*dt
//  4. dirty transforms are pushed to the renderer and mirrored into their
//     collider, light and camera
//  5. the delta time reference is reset
//
// A failing stage does not stop later ones; all errors are joined.
func (m *Manager) Tick(dt float32) error {
	var errs []error

	if err := m.applyCameras(dt); err != nil {
		errs = append(errs, fmt.Errorf("cameras: %w", err))
	}

	hits, err := m.applyPhysics(dt)
	if err != nil {
		errs = append(errs, fmt.Errorf("physics: %w", err))
	}
	for _, h := range hits {
		m.logger.Debug("Collision resolved",
			log.Entity(uint64(h.Entity)),
			log.Uint64("plane", uint64(h.Plane)),
			log.Tick(m.ticks),
		)
		if err = m.publish(EventCollision, h); err != nil {
			errs = append(errs, fmt.Errorf("collision handlers: %w", err))
		}
	}

	if err = m.syncTransforms(nil); err != nil {
		errs = append(errs, fmt.Errorf("sync: %w", err))
	}

	m.last = m.now()
	m.ticks++
	return errors.Join(errs...)
}

// Step ticks with the real time elapsed since the previous tick.
func (m *Manager) Step() error {
	return m.Tick(m.DeltaTime())
}

func sortedEntities[T any](ref *ecs.RefMut[T]) []ecs.Entity {
	out := make([]ecs.Entity, 0, ref.Len())
	for e := range ref.All() {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

func (m *Manager) applyCameras(dt float32) error {
	cameras, err := optional(ecs.QueryMut[models.Camera](m.world))
	if err != nil || cameras == nil {
		return err
	}
	defer cameras.Release()

	controllers, err := optional(ecs.QueryMut[models.CameraController](m.world))
	if err != nil {
		return err
	}
	if controllers != nil {
		defer controllers.Release()
		for e, ctrl := range controllers.All() {
			if cam, ok := cameras.Get(e); ok {
				ctrl.Apply(cam, dt)
			}
		}
	}

	if !m.hasCamera {
		return nil
	}
	cam, ok := cameras.Get(m.camera)
	if !ok || !cam.IsDirty() {
		return nil
	}
	return m.backend.Do(func(b render.Backend) error {
		if err := b.UpdateCamera(cam.Params()); err != nil {
			return err
		}
		cam.MarkSynced()
		return nil
	})
}

type plane struct {
	entity   ecs.Entity
	collider *collision.StationaryPlaneCollider
}

func (m *Manager) planes() ([]plane, error) {
	ref, err := optional(ecs.Query[collision.StationaryPlaneCollider](m.world))
	if err != nil || ref == nil {
		return nil, err
	}
	defer ref.Release()

	out := make([]plane, 0, ref.Len())
	for e, p := range ref.All() {
		out = append(out, plane{entity: e, collider: &p})
	}
	slices.SortFunc(out, func(a, b plane) int { return cmp.Compare(a.entity, b.entity) })
	return out, nil
}

func (m *Manager) applyPhysics(dt float32) ([]Collision, error) {
	planes, err := m.planes()
	if err != nil {
		return nil, err
	}

	gravities, err := optional(ecs.QueryMut[physics.Gravity](m.world))
	if err != nil || gravities == nil {
		return nil, err
	}
	defer gravities.Release()

	boxes, err := optional(ecs.QueryMut[collision.RectangleCollider](m.world))
	if err != nil {
		return nil, err
	}
	if boxes != nil {
		defer boxes.Release()
	}

	transforms, err := optional(ecs.QueryMut[models.Transform](m.world))
	if err != nil {
		return nil, err
	}
	if transforms != nil {
		defer transforms.Release()
	}

	var hits []Collision
	for _, e := range sortedEntities(gravities) {
		g, _ := gravities.Get(e)
		g.Update(dt)

		var tr *models.Transform
		if transforms != nil {
			tr, _ = transforms.Get(e)
		}

		var box *collision.RectangleCollider
		if boxes != nil {
			box, _ = boxes.Get(e)
		}

		hit := false
		if box != nil {
			if tr != nil {
				box.SetOrigin(tr.Position())
			}
			for _, p := range planes {
				if !box.IsColliding(p.collider) {
					continue
				}
				box.SnapY(p.collider)
				hit = true
				hits = append(hits, Collision{Entity: e, Plane: p.entity, Position: box.Origin()})
			}
		}

		switch {
		case hit:
			g.KillVelocity()
			if tr != nil {
				tr.SetPosition(box.Origin())
			}
		case tr != nil:
			tr.SetPosition(g.Integrate(tr.Position(), dt))
		}
	}
	return hits, nil
}

var pendingPool = generic.NewSlicePool[pendingSync](32)

type pendingSync struct {
	transform *models.Transform
	instance  render.Instance

	object    int
	hasObject bool

	light    render.LightHandle
	hasLight bool
	position mgl32.Vec3

	pushed bool
}

func (p *pendingSync) needsBackend() bool { return p.hasObject || p.hasLight }

// syncTransforms pushes dirty transforms to the renderer and mirrors them
// into the entity's collider, light and camera. With targets it only looks
// at those entities. A transform stays dirty if its push failed.
func (m *Manager) syncTransforms(targets []ecs.Entity) error {
	transforms, err := optional(ecs.QueryMut[models.Transform](m.world))
	if err != nil || transforms == nil {
		return err
	}
	defer transforms.Release()

	modelRefs, err := optional(ecs.Query[models.Model](m.world))
	if err != nil {
		return err
	}
	if modelRefs != nil {
		defer modelRefs.Release()
	}
	boxes, err := optional(ecs.QueryMut[collision.RectangleCollider](m.world))
	if err != nil {
		return err
	}
	if boxes != nil {
		defer boxes.Release()
	}
	lights, err := optional(ecs.QueryMut[models.Light](m.world))
	if err != nil {
		return err
	}
	if lights != nil {
		defer lights.Release()
	}
	cameras, err := optional(ecs.QueryMut[models.Camera](m.world))
	if err != nil {
		return err
	}
	if cameras != nil {
		defer cameras.Release()
	}

	if targets == nil {
		targets = sortedEntities(transforms)
	}

	scratch := pendingPool.Get()
	defer pendingPool.Put(scratch)

	var (
		pending = *scratch
		camera  *models.Camera
		backend bool
	)
	for _, e := range targets {
		tr, ok := transforms.Get(e)
		if !ok || !tr.IsDirty() {
			continue
		}
		p := pendingSync{transform: tr, instance: tr.Instance(), position: tr.Position()}

		if modelRefs != nil {
			if model, ok := modelRefs.Get(e); ok {
				p.object, p.hasObject = model.RendererIndex()
			}
		}
		if boxes != nil {
			if box, ok := boxes.Get(e); ok {
				box.SetOrigin(p.position)
			}
		}
		if lights != nil {
			if light, ok := lights.Get(e); ok {
				light.Position = p.position
				p.light, p.hasLight = light.Handle()
			}
		}
		if cameras != nil && m.hasCamera && e == m.camera {
			if cam, ok := cameras.Get(e); ok {
				cam.MoveTo(p.position)
				if cam.IsDirty() {
					camera = cam
				}
			}
		}

		backend = backend || p.needsBackend()
		pending = append(pending, p)
	}
	*scratch = pending

	if backend || camera != nil {
		err = m.backend.Do(func(b render.Backend) error {
			var errs []error
			for i := range pending {
				p := &pending[i]
				if p.hasObject {
					if err := b.UpdateInstances(p.object, []render.Instance{p.instance}); err != nil {
						errs = append(errs, err)
						continue
					}
				}
				if p.hasLight {
					if err := b.UpdateLight(p.light, p.position); err != nil {
						errs = append(errs, err)
						continue
					}
				}
				p.pushed = true
			}
			if camera != nil {
				if err := b.UpdateCamera(camera.Params()); err != nil {
					errs = append(errs, err)
				} else {
					camera.MarkSynced()
				}
			}
			return errors.Join(errs...)
		})
	}

	for _, p := range pending {
		if p.pushed || !p.needsBackend() {
			p.transform.MarkSynced()
		}
	}
	return err
}

// editTransform applies fn to the transform of e and syncs it right away.
func (m *Manager) editTransform(e ecs.Entity, fn func(*models.Transform)) error {
	transforms, err := ecs.QueryMut[models.Transform](m.world)
	if err != nil {
		return err
	}
	tr, ok := transforms.Get(e)
	if !ok {
		transforms.Release()
		return fmt.Errorf("%w: transform of %s", ecs.ErrNoComponent, e)
	}
	fn(tr)
	transforms.Release()

	return m.syncTransforms([]ecs.Entity{e})
}

// SetPosition moves e and pushes it to the renderer immediately.
func (m *Manager) SetPosition(e ecs.Entity, position mgl32.Vec3) error {
	return m.editTransform(e, func(t *models.Transform) { t.SetPosition(position) })
}

// SetRotation rotates e and pushes it to the renderer immediately.
func (m *Manager) SetRotation(e ecs.Entity, rotation mgl32.Quat) error {
	return m.editTransform(e, func(t *models.Transform) { t.SetRotation(rotation) })
}

// UpdateTransform replaces the transform of e and pushes it immediately.
func (m *Manager) UpdateTransform(e ecs.Entity, tr models.Transform) error {
	tr.MarkDirty()
	if err := ecs.AddComponent(m.world, e, tr); err != nil {
		return err
	}
	return m.syncTransforms([]ecs.Entity{e})
}

// MoveTransformToRenderer pushes the current transform of e even if it has
// not changed.
func (m *Manager) MoveTransformToRenderer(e ecs.Entity) error {
	return m.editTransform(e, (*models.Transform).MarkDirty)
}
