package models

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/helium/internal/core/input"
	"github.com/zeusync/helium/internal/core/render"
)

func TestTransformDirtyFlag(t *testing.T) {
	tr := DefaultTransform()
	assert.True(t, tr.IsDirty(), "new transforms need a first sync")
	assert.Equal(t, mgl32.Vec3{}, tr.Position())
	assert.Equal(t, mgl32.QuatIdent(), tr.Rotation())

	tr.MarkSynced()
	assert.False(t, tr.IsDirty())

	tr.SetPosition(mgl32.Vec3{})
	assert.False(t, tr.IsDirty(), "same value is not a change")

	tr.Translate(mgl32.Vec3{1, 0, 0})
	assert.True(t, tr.IsDirty())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, tr.Position())

	tr.MarkSynced()
	tr.SetRotation(mgl32.QuatRotate(1, mgl32.Vec3{0, 1, 0}))
	assert.True(t, tr.IsDirty())

	tr.MarkSynced()
	tr.MarkDirty()
	assert.True(t, tr.IsDirty())
}

func TestTransformInstance(t *testing.T) {
	q := mgl32.QuatRotate(0.5, mgl32.Vec3{1, 0, 0})
	tr := NewTransform(mgl32.Vec3{1, 2, 3}, q)
	assert.Equal(t, render.Instance{Position: mgl32.Vec3{1, 2, 3}, Rotation: q}, tr.Instance())
}

func TestTransformRotateComposes(t *testing.T) {
	tr := DefaultTransform()
	quarter := mgl32.QuatRotate(math.Pi/4, mgl32.Vec3{0, 0, 1})
	tr.Rotate(quarter)
	tr.Rotate(quarter)

	v := tr.Rotation().Rotate(mgl32.Vec3{1, 0, 0})
	vecNear(t, mgl32.Vec3{0, 1, 0}, v, "got %v", v)
}

func testCamera() Camera {
	return NewCamera(
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{0, 0, -1},
		mgl32.Vec3{0, 1, 0},
		1, 45, 0.1, 100,
	)
}

func TestCameraMove(t *testing.T) {
	c := testCamera()
	require.True(t, c.IsDirty())
	c.MarkSynced()

	c.Move(false, false, false, false, 1)
	assert.False(t, c.IsDirty(), "no intent, no move")

	c.Move(true, false, false, false, 0.1)
	vecNear(t, mgl32.Vec3{0, 0, -5}, c.Eye, "got %v", c.Eye)
	assert.True(t, c.IsDirty())

	c.Eye = mgl32.Vec3{}
	c.Move(false, false, false, true, 0.1)
	vecNear(t, mgl32.Vec3{5, 0, 0}, c.Eye, "strafe right, got %v", c.Eye)

	c.Eye = mgl32.Vec3{}
	c.Move(true, true, true, true, 1)
	vecNear(t, mgl32.Vec3{}, c.Eye, "opposite intents cancel")
}

func TestCameraYawAndPitch(t *testing.T) {
	c := testCamera()
	c.AngleSpeed = 1

	c.AddYaw(math.Pi / 2)
	vecNear(t, mgl32.Vec3{-1, 0, 0}, c.Target, "yaw left, got %v", c.Target)

	c = testCamera()
	c.AngleSpeed = 1
	c.AddPitch(math.Pi / 2)
	vecNear(t, mgl32.Vec3{0, 1, 0}, c.Target, "pitch up, got %v", c.Target)

	c.MarkSynced()
	c.AddPitch(0.3)
	assert.False(t, c.IsDirty(), "looking straight up has no right axis")
}

func TestCameraParams(t *testing.T) {
	c := testCamera()
	assert.Equal(t, render.CameraParams{
		Eye:    mgl32.Vec3{0, 0, 0},
		Target: mgl32.Vec3{0, 0, -1},
		Up:     mgl32.Vec3{0, 1, 0},
		Aspect: 1,
		Fovy:   45,
		Znear:  0.1,
		Zfar:   100,
	}, c.Params())
}

func TestCameraController(t *testing.T) {
	var ctrl CameraController

	ctrl.ProcessEvent(input.KeyPress(input.KeyW))
	ctrl.ProcessEvent(input.KeyPress(input.KeyD))
	ctrl.ProcessEvent(input.KeyPress(input.KeySpace))
	assert.Equal(t, CameraController{Forward: true, Right: true}, ctrl)

	ctrl.ProcessEvent(input.KeyRelease(input.KeyW))
	ctrl.ProcessEvent(input.MouseMotion(2, 1))
	ctrl.ProcessEvent(input.MouseMotion(1, 1))
	assert.False(t, ctrl.Forward)
	assert.Equal(t, mgl32.Vec2{3, 2}, ctrl.Delta)

	cam := testCamera()
	before := cam.Target
	ctrl.Apply(&cam, 0.1)
	assert.Equal(t, mgl32.Vec2{}, ctrl.Delta, "delta is consumed")
	assert.NotEqual(t, before, cam.Target)
	assert.InDelta(t, 1, cam.Target.Len(), 1e-5)
	assert.True(t, cam.Eye.X() > 0, "strafed right")
}

func TestModelAndLight(t *testing.T) {
	m := NewModel("assets/cube.obj")
	_, ok := m.RendererIndex()
	assert.False(t, ok)
	m.SetRendererIndex(0)
	idx, ok := m.RendererIndex()
	assert.True(t, ok)
	assert.Zero(t, idx)
	assert.Equal(t, "assets/cube.obj", m.Path())

	l := NewLight(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{1, 1, 1})
	_, ok = l.Handle()
	assert.False(t, ok)
	l.SetHandle(3)
	h, ok := l.Handle()
	assert.True(t, ok)
	assert.Equal(t, render.LightHandle(3), h)
	assert.Equal(t, mgl32.Vec3{0, 5, 0}, l.Position)
}

func vecNear(t *testing.T, want, got mgl32.Vec3, msgAndArgs ...any) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, msgAndArgs...)
	}
}
