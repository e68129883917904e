// Package render defines the boundary between the simulation and whatever
// draws it. The simulation only creates objects, updates their instances,
// and moves the camera and lights; everything else belongs to the backend.
package render

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrBackendUnavailable = errors.New("render backend unavailable")
	ErrUnknownObject      = errors.New("unknown render object")
	ErrUnknownLight       = errors.New("unknown light")
)

// Backend is implemented by renderers. Calls are serialized by Shared, so
// implementations need no locking of their own for the simulation path.
type Backend interface {
	// CreateObject loads the model at path and returns its object index.
	CreateObject(path string, instances []Instance) (int, error)
	UpdateInstances(index int, instances []Instance) error

	AddCamera(CameraParams) error
	UpdateCamera(CameraParams) error

	AddLight(Light) (LightHandle, error)
	UpdateLight(handle LightHandle, position mgl32.Vec3) error

	SurfaceConfig() SurfaceConfig
	Resize(width, height uint32) error
	Render() error
}

// Instance is the per-object transform uploaded to the renderer.
type Instance struct {
	Position mgl32.Vec3 `json:"position"`
	Rotation mgl32.Quat `json:"rotation"`
}

// Raw is the model matrix: translation applied after rotation.
func (i Instance) Raw() mgl32.Mat4 {
	return mgl32.Translate3D(i.Position[0], i.Position[1], i.Position[2]).Mul4(i.Rotation.Mat4())
}

// CameraParams mirror the camera component. Target is a view direction,
// not a point, and Fovy is in degrees.
type CameraParams struct {
	Eye    mgl32.Vec3 `json:"eye"`
	Target mgl32.Vec3 `json:"target"`
	Up     mgl32.Vec3 `json:"up"`
	Aspect float32    `json:"aspect"`
	Fovy   float32    `json:"fovy"`
	Znear  float32    `json:"znear"`
	Zfar   float32    `json:"zfar"`
}

func (c CameraParams) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Eye.Add(c.Target), c.Up)
}

func (c CameraParams) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fovy), c.Aspect, c.Znear, c.Zfar)
}

func (c CameraParams) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

type Light struct {
	Position mgl32.Vec3 `json:"position"`
	Color    mgl32.Vec3 `json:"color"`
}

// LightHandle identifies a light inside the backend.
type LightHandle int

type SurfaceConfig struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// Aspect is width over height, or 1 for an empty surface.
func (s SurfaceConfig) Aspect() float32 {
	if s.Height == 0 {
		return 1
	}
	return float32(s.Width) / float32(s.Height)
}
