package render

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceRaw(t *testing.T) {
	i := Instance{Position: mgl32.Vec3{1, 2, 3}, Rotation: mgl32.QuatIdent()}
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), i.Raw())

	i.Rotation = mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 0, 1})
	p := i.Raw().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	vecNear(t, mgl32.Vec3{1, 3, 3}, p.Vec3(), "got %v", p)
}

func TestCameraParamsViewLooksAlongTarget(t *testing.T) {
	c := CameraParams{
		Eye:    mgl32.Vec3{0, 0, 5},
		Target: mgl32.Vec3{0, 0, -1},
		Up:     mgl32.Vec3{0, 1, 0},
		Aspect: 16.0 / 9.0,
		Fovy:   45,
		Znear:  0.1,
		Zfar:   100,
	}
	// The world origin sits straight ahead, five units away.
	v := c.View().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	vecNear(t, mgl32.Vec3{0, 0, -5}, v.Vec3(), "got %v", v)

	clip := c.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, clip.X()/clip.W(), 1e-5)
	assert.InDelta(t, 0, clip.Y()/clip.W(), 1e-5)
}

func TestSurfaceAspect(t *testing.T) {
	assert.Equal(t, float32(2), SurfaceConfig{Width: 800, Height: 400}.Aspect())
	assert.Equal(t, float32(1), SurfaceConfig{}.Aspect())
}

func TestSharedWithoutBackend(t *testing.T) {
	var nilShared *Shared
	require.ErrorIs(t, nilShared.Redraw(), ErrBackendUnavailable)
	assert.False(t, nilShared.Available())

	s := NewShared(nil)
	require.ErrorIs(t, s.Resize(10, 10), ErrBackendUnavailable)
	_, err := s.SurfaceConfig()
	require.ErrorIs(t, err, ErrBackendUnavailable)

	s.Attach(NewHeadless(SurfaceConfig{Width: 640, Height: 480}))
	assert.True(t, s.Available())
	cfg, err := s.SurfaceConfig()
	require.NoError(t, err)
	assert.Equal(t, SurfaceConfig{Width: 640, Height: 480}, cfg)
}

func TestSharedPropagatesErrors(t *testing.T) {
	s := NewShared(NewHeadless(SurfaceConfig{}))
	boom := errors.New("boom")
	require.ErrorIs(t, s.Do(func(Backend) error { return boom }), boom)
}

func TestSharedSerializesCallers(t *testing.T) {
	h := NewHeadless(SurfaceConfig{Width: 1, Height: 1})
	s := NewShared(h)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				_ = s.Redraw()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(800), h.Frames())
}

func TestHeadlessObjects(t *testing.T) {
	h := NewHeadless(SurfaceConfig{Width: 800, Height: 600})

	idx, err := h.CreateObject("cube.obj", []Instance{{Rotation: mgl32.QuatIdent()}})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	second, err := h.CreateObject("floor.obj", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, second)

	moved := Instance{Position: mgl32.Vec3{0, 4, 0}, Rotation: mgl32.QuatIdent()}
	require.NoError(t, h.UpdateInstances(idx, []Instance{moved}))

	got, err := h.Instances(idx)
	require.NoError(t, err)
	assert.Equal(t, []Instance{moved}, got)

	require.ErrorIs(t, h.UpdateInstances(7, nil), ErrUnknownObject)
	_, err = h.Instances(-1)
	require.ErrorIs(t, err, ErrUnknownObject)
}

func TestHeadlessCameraAndLights(t *testing.T) {
	h := NewHeadless(SurfaceConfig{})
	_, ok := h.Camera()
	assert.False(t, ok)

	params := CameraParams{Eye: mgl32.Vec3{1, 2, 3}, Fovy: 45}
	require.NoError(t, h.AddCamera(params))
	got, ok := h.Camera()
	require.True(t, ok)
	assert.Equal(t, params, got)

	handle, err := h.AddLight(Light{Color: mgl32.Vec3{1, 1, 1}})
	require.NoError(t, err)
	require.NoError(t, h.UpdateLight(handle, mgl32.Vec3{0, 10, 0}))
	require.ErrorIs(t, h.UpdateLight(handle+1, mgl32.Vec3{}), ErrUnknownLight)

	f := h.Snapshot()
	require.Len(t, f.Lights, 1)
	assert.Equal(t, mgl32.Vec3{0, 10, 0}, f.Lights[0].Position)
	require.NotNil(t, f.Camera)
	assert.Equal(t, params, *f.Camera)
}

func TestHeadlessResizeIgnoresEmptySurface(t *testing.T) {
	h := NewHeadless(SurfaceConfig{Width: 800, Height: 600})
	require.NoError(t, h.Resize(0, 100))
	assert.Equal(t, SurfaceConfig{Width: 800, Height: 600}, h.SurfaceConfig())

	require.NoError(t, h.Resize(1024, 768))
	assert.Equal(t, SurfaceConfig{Width: 1024, Height: 768}, h.SurfaceConfig())
}

func TestSnapshotIsDetached(t *testing.T) {
	h := NewHeadless(SurfaceConfig{})
	idx, err := h.CreateObject("cube.obj", []Instance{{}})
	require.NoError(t, err)

	f := h.Snapshot()
	f.Objects[idx].Instances[0].Position = mgl32.Vec3{9, 9, 9}

	got, err := h.Instances(idx)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{}, got[0].Position)
}

func vecNear(t *testing.T, want, got mgl32.Vec3, msgAndArgs ...any) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, msgAndArgs...)
	}
}
