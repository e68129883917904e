package ecs

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// World owns the entity allocator and one table per component type. Tables
// are created on first insertion and never dropped, even when they empty out.
//
// The World itself is meant to be driven from a single goroutine. The registry
// lock only protects table lookup; access to table contents is governed by the
// per-table borrow flags.
type World struct {
	mu     sync.RWMutex
	alloc  allocator
	tables map[reflect.Type]anyTable
	order  []anyTable

	onCreate func(ComponentInfo)
}

func NewWorld() *World {
	return &World{
		tables: make(map[reflect.Type]anyTable),
	}
}

// NewEntity returns a fresh entity id. It never fails.
func (w *World) NewEntity() Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.alloc.allocate()
}

// NumEntities is the number of entities created and not yet removed.
func (w *World) NumEntities() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.alloc.live
}

// RemoveEntity drops every component keyed by e. The id is not recycled and
// no existence check is made. Tables that are currently borrowed keep their
// entry for e and are reported in the returned error.
func (w *World) RemoveEntity(e Entity) error {
	w.mu.Lock()
	w.alloc.release()
	tables := append([]anyTable(nil), w.order...)
	w.mu.Unlock()

	var errs []error
	for _, t := range tables {
		if err := t.removeEntity(e); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", e, err))
		}
	}
	return errors.Join(errs...)
}

// OnTableCreated registers fn to be called once per component type, right
// after its table is created. It replaces any earlier callback.
func (w *World) OnTableCreated(fn func(ComponentInfo)) {
	w.mu.Lock()
	w.onCreate = fn
	w.mu.Unlock()
}

// Components lists the tables in creation order.
func (w *World) Components() []ComponentInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]ComponentInfo, len(w.order))
	for i, t := range w.order {
		out[i] = t.info()
	}
	return out
}

func lookup[T any](w *World) (*Table[T], bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	t, ok := w.tables[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return t.(*Table[T]), true
}

func lookupOrCreate[T any](w *World) *Table[T] {
	if t, ok := lookup[T](w); ok {
		return t
	}

	w.mu.Lock()
	typ := reflect.TypeFor[T]()
	if t, ok := w.tables[typ]; ok {
		w.mu.Unlock()
		return t.(*Table[T])
	}
	t := newTable[T]()
	w.tables[typ] = t
	w.order = append(w.order, t)
	onCreate := w.onCreate
	w.mu.Unlock()

	if onCreate != nil {
		onCreate(t.info())
	}
	return t
}

// AddComponent inserts or overwrites the T component of e.
func AddComponent[T any](w *World, e Entity, component T) error {
	return lookupOrCreate[T](w).insert(e, component)
}

// RemoveComponent deletes the T component of e if present.
func RemoveComponent[T any](w *World, e Entity) error {
	t, ok := lookup[T](w)
	if !ok {
		return nil
	}
	return t.removeEntity(e)
}

// Query borrows the T table for reading. The caller must Release the borrow.
func Query[T any](w *World) (*Ref[T], error) {
	t, ok := lookup[T](w)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTable, typeName(reflect.TypeFor[T]()))
	}
	return t.borrowShared()
}

// QueryMut borrows the T table exclusively. The caller must Release the borrow.
func QueryMut[T any](w *World) (*RefMut[T], error) {
	t, ok := lookup[T](w)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTable, typeName(reflect.TypeFor[T]()))
	}
	return t.borrowExclusive()
}

// Get is a convenience for a single shared lookup.
func Get[T any](w *World, e Entity) (T, bool, error) {
	ref, err := Query[T](w)
	if err != nil {
		var zero T
		return zero, false, err
	}
	defer ref.Release()
	v, ok := ref.Get(e)
	return v, ok, nil
}

// EntitiesWith returns the entities whose T component satisfies pred, in
// table iteration order.
func EntitiesWith[T any](w *World, pred func(T) bool) ([]Entity, error) {
	ref, err := Query[T](w)
	if err != nil {
		return nil, err
	}
	defer ref.Release()

	var out []Entity
	for e, c := range ref.All() {
		if pred(c) {
			out = append(out, e)
		}
	}
	return out, nil
}
