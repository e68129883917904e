package models

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/zeusync/helium/internal/core/render"
)

// Model links an entity to an object loaded by the renderer. The index is
// assigned when the manager creates the object.
type Model struct {
	path  string
	index int
	bound bool
}

func NewModel(path string) Model { return Model{path: path} }

func (m Model) Path() string { return m.path }

func (m Model) RendererIndex() (int, bool) { return m.index, m.bound }

func (m *Model) SetRendererIndex(index int) {
	m.index, m.bound = index, true
}

// Label is a free-form name used to find entities from callbacks.
type Label string

// Light is a point light registered with the renderer.
type Light struct {
	render.Light
	handle render.LightHandle
	bound  bool
}

func NewLight(position, color mgl32.Vec3) Light {
	return Light{Light: render.Light{Position: position, Color: color}}
}

func (l Light) Handle() (render.LightHandle, bool) { return l.handle, l.bound }

func (l *Light) SetHandle(h render.LightHandle) {
	l.handle, l.bound = h, true
}
