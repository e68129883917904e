package models

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/zeusync/helium/internal/core/render"
)

// Transform places an entity in the world. It is dirty from creation until
// the manager has mirrored it to the renderer, and again after any change.
type Transform struct {
	position mgl32.Vec3
	rotation mgl32.Quat
	dirty    bool
}

func NewTransform(position mgl32.Vec3, rotation mgl32.Quat) Transform {
	return Transform{position: position, rotation: rotation, dirty: true}
}

// DefaultTransform sits at the origin with no rotation.
func DefaultTransform() Transform {
	return NewTransform(mgl32.Vec3{}, mgl32.QuatIdent())
}

func (t Transform) Position() mgl32.Vec3 { return t.position }
func (t Transform) Rotation() mgl32.Quat { return t.rotation }

func (t *Transform) SetPosition(p mgl32.Vec3) {
	if p != t.position {
		t.position = p
		t.dirty = true
	}
}

func (t *Transform) SetRotation(q mgl32.Quat) {
	if q != t.rotation {
		t.rotation = q
		t.dirty = true
	}
}

func (t *Transform) Set(p mgl32.Vec3, q mgl32.Quat) {
	t.SetPosition(p)
	t.SetRotation(q)
}

func (t *Transform) Translate(delta mgl32.Vec3) {
	t.SetPosition(t.position.Add(delta))
}

// Rotate applies q after the current rotation.
func (t *Transform) Rotate(q mgl32.Quat) {
	t.SetRotation(q.Mul(t.rotation).Normalize())
}

func (t Transform) IsDirty() bool { return t.dirty }

// MarkDirty forces the next sync even without a change.
func (t *Transform) MarkDirty() { t.dirty = true }

// MarkSynced is called once the renderer has the current state.
func (t *Transform) MarkSynced() { t.dirty = false }

func (t Transform) Instance() render.Instance {
	return render.Instance{Position: t.position, Rotation: t.rotation}
}
