package system

import (
	"errors"

	"github.com/zeusync/helium/internal/core/ecs"
)

// Typed component access for callbacks. These are functions rather than
// methods because methods cannot take type parameters.

// AddComponent inserts or overwrites the T component of e and returns e.
func AddComponent[T any](m *Manager, e ecs.Entity, component T) (ecs.Entity, error) {
	return e, ecs.AddComponent(m.world, e, component)
}

func RemoveComponent[T any](m *Manager, e ecs.Entity) error {
	return ecs.RemoveComponent[T](m.world, e)
}

// Query borrows the T table for reading; release it before the callback
// returns. ecs.ErrNoTable means no entity ever had a T.
func Query[T any](m *Manager) (*ecs.Ref[T], error) {
	return ecs.Query[T](m.world)
}

func QueryMut[T any](m *Manager) (*ecs.RefMut[T], error) {
	return ecs.QueryMut[T](m.world)
}

func Get[T any](m *Manager, e ecs.Entity) (T, bool, error) {
	return ecs.Get[T](m.world, e)
}

func EntitiesWith[T any](m *Manager, pred func(T) bool) ([]ecs.Entity, error) {
	return ecs.EntitiesWith(m.world, pred)
}

// optional treats a missing table as empty: it returns a nil borrow and no
// error. Any other failure, an aliasing conflict included, is returned.
func optional[B any](ref *B, err error) (*B, error) {
	if errors.Is(err, ecs.ErrNoTable) {
		return nil, nil
	}
	return ref, err
}
