package render

import (
	"fmt"
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Object is one loaded model and its instance buffer.
type Object struct {
	Path      string     `json:"path"`
	Instances []Instance `json:"instances"`
}

// Frame is a snapshot of everything a backend would draw.
type Frame struct {
	Seq     uint64        `json:"seq"`
	Surface SurfaceConfig `json:"surface"`
	Camera  *CameraParams `json:"camera,omitempty"`
	Objects []Object      `json:"objects"`
	Lights  []Light       `json:"lights"`
}

// Headless keeps the scene in memory and counts frames instead of drawing.
// Its own lock lets tests and viewers read state while the simulation runs.
type Headless struct {
	mu      sync.RWMutex
	surface SurfaceConfig
	camera  *CameraParams
	objects []Object
	lights  []Light
	frames  uint64
}

var _ Backend = (*Headless)(nil)

func NewHeadless(surface SurfaceConfig) *Headless {
	return &Headless{surface: surface}
}

func (h *Headless) CreateObject(path string, instances []Instance) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.objects = append(h.objects, Object{Path: path, Instances: slices.Clone(instances)})
	return len(h.objects) - 1, nil
}

func (h *Headless) UpdateInstances(index int, instances []Instance) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if index < 0 || index >= len(h.objects) {
		return fmt.Errorf("%w: %d", ErrUnknownObject, index)
	}
	h.objects[index].Instances = slices.Clone(instances)
	return nil
}

func (h *Headless) AddCamera(params CameraParams) error {
	return h.UpdateCamera(params)
}

func (h *Headless) UpdateCamera(params CameraParams) error {
	h.mu.Lock()
	h.camera = &params
	h.mu.Unlock()
	return nil
}

func (h *Headless) AddLight(light Light) (LightHandle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lights = append(h.lights, light)
	return LightHandle(len(h.lights) - 1), nil
}

func (h *Headless) UpdateLight(handle LightHandle, position mgl32.Vec3) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if handle < 0 || int(handle) >= len(h.lights) {
		return fmt.Errorf("%w: %d", ErrUnknownLight, handle)
	}
	h.lights[handle].Position = position
	return nil
}

func (h *Headless) SurfaceConfig() SurfaceConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.surface
}

func (h *Headless) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}
	h.mu.Lock()
	h.surface = SurfaceConfig{Width: width, Height: height}
	h.mu.Unlock()
	return nil
}

func (h *Headless) Render() error {
	h.mu.Lock()
	h.frames++
	h.mu.Unlock()
	return nil
}

func (h *Headless) Frames() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.frames
}

// Instances returns a copy of an object's instance buffer.
func (h *Headless) Instances(index int) ([]Instance, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if index < 0 || index >= len(h.objects) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownObject, index)
	}
	return slices.Clone(h.objects[index].Instances), nil
}

func (h *Headless) Camera() (CameraParams, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.camera == nil {
		return CameraParams{}, false
	}
	return *h.camera, true
}

// Snapshot copies the current scene.
func (h *Headless) Snapshot() Frame {
	h.mu.RLock()
	defer h.mu.RUnlock()

	f := Frame{
		Seq:     h.frames,
		Surface: h.surface,
		Objects: make([]Object, len(h.objects)),
		Lights:  slices.Clone(h.lights),
	}
	if h.camera != nil {
		c := *h.camera
		f.Camera = &c
	}
	for i, o := range h.objects {
		f.Objects[i] = Object{Path: o.Path, Instances: slices.Clone(o.Instances)}
	}
	return f
}
