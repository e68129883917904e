package app

import (
	"github.com/zeusync/helium/internal/core/input"
	"github.com/zeusync/helium/internal/core/models"
	"github.com/zeusync/helium/internal/core/system"
)

// CameraInput feeds every event to the current camera's controller. It is a
// no-op until a camera exists.
func CameraInput(m *system.Manager, ev input.Event) error {
	cam, ok := m.Camera()
	if !ok {
		return nil
	}
	ctrl, err := system.QueryMut[models.CameraController](m)
	if err != nil {
		return err
	}
	defer ctrl.Release()

	if c, found := ctrl.Get(cam); found {
		c.ProcessEvent(ev)
	}
	return nil
}
