package ecs

import (
	"fmt"
	"iter"
	"reflect"
	"sync/atomic"
)

// borrowFlag tracks outstanding borrows of one table: a positive value is the
// number of shared borrows, -1 is a single exclusive borrow.
type borrowFlag struct {
	n atomic.Int32
}

const exclusive = -1

func (b *borrowFlag) tryShared() bool {
	for {
		cur := b.n.Load()
		if cur == exclusive {
			return false
		}
		if b.n.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

func (b *borrowFlag) tryExclusive() bool {
	return b.n.CompareAndSwap(0, exclusive)
}

func (b *borrowFlag) releaseShared() {
	b.n.Add(-1)
}

func (b *borrowFlag) releaseExclusive() {
	b.n.Store(0)
}

func (b *borrowFlag) describe() string {
	switch cur := b.n.Load(); {
	case cur == exclusive:
		return "exclusively borrowed"
	case cur > 0:
		return fmt.Sprintf("shared by %d borrow(s)", cur)
	default:
		return "unborrowed"
	}
}

// anyTable is the type-erased view the World keeps of every Table.
type anyTable interface {
	info() ComponentInfo
	removeEntity(e Entity) error
}

// ComponentInfo describes one component table.
type ComponentInfo struct {
	ID   ComponentID
	Name string
	Type reflect.Type
	Len  int
}

// Table stores the T component of every entity that has one.
type Table[T any] struct {
	flag borrowFlag
	rows map[Entity]*T
	typ  reflect.Type
	id   ComponentID
}

func newTable[T any]() *Table[T] {
	typ := reflect.TypeFor[T]()
	return &Table[T]{
		rows: make(map[Entity]*T),
		typ:  typ,
		id:   componentID(typ),
	}
}

func (t *Table[T]) info() ComponentInfo {
	return ComponentInfo{ID: t.id, Name: typeName(t.typ), Type: t.typ, Len: len(t.rows)}
}

func (t *Table[T]) conflict(want string) error {
	return fmt.Errorf("%w: %s requested on %s (id %s), table is %s",
		ErrAliasing, want, typeName(t.typ), t.id, t.flag.describe())
}

func (t *Table[T]) borrowShared() (*Ref[T], error) {
	if !t.flag.tryShared() {
		return nil, t.conflict("shared borrow")
	}
	return &Ref[T]{table: t}, nil
}

func (t *Table[T]) borrowExclusive() (*RefMut[T], error) {
	if !t.flag.tryExclusive() {
		return nil, t.conflict("exclusive borrow")
	}
	return &RefMut[T]{table: t}, nil
}

func (t *Table[T]) insert(e Entity, v T) error {
	ref, err := t.borrowExclusive()
	if err != nil {
		return err
	}
	defer ref.Release()
	ref.Set(e, v)
	return nil
}

func (t *Table[T]) removeEntity(e Entity) error {
	ref, err := t.borrowExclusive()
	if err != nil {
		return err
	}
	defer ref.Release()
	ref.Delete(e)
	return nil
}

// Ref is a shared borrow of a Table. It must be released exactly once; extra
// Release calls are ignored. Using a Ref after Release panics with ErrReleased.
type Ref[T any] struct {
	table    *Table[T]
	released atomic.Bool
}

func (r *Ref[T]) live() *Table[T] {
	if r.released.Load() {
		panic(fmt.Errorf("%w: shared borrow of %s", ErrReleased, typeName(r.table.typ)))
	}
	return r.table
}

// Get returns a copy of the component for e.
func (r *Ref[T]) Get(e Entity) (T, bool) {
	v, ok := r.live().rows[e]
	if !ok {
		var zero T
		return zero, false
	}
	return *v, true
}

func (r *Ref[T]) Has(e Entity) bool {
	_, ok := r.live().rows[e]
	return ok
}

func (r *Ref[T]) Len() int {
	return len(r.live().rows)
}

// All iterates over copies of every component in unspecified order.
func (r *Ref[T]) All() iter.Seq2[Entity, T] {
	t := r.live()
	return func(yield func(Entity, T) bool) {
		for e, v := range t.rows {
			if !yield(e, *v) {
				return
			}
		}
	}
}

// Entities returns the keys of the table in unspecified order.
func (r *Ref[T]) Entities() []Entity {
	t := r.live()
	out := make([]Entity, 0, len(t.rows))
	for e := range t.rows {
		out = append(out, e)
	}
	return out
}

func (r *Ref[T]) Release() {
	if r.released.CompareAndSwap(false, true) {
		r.table.flag.releaseShared()
	}
}

// RefMut is an exclusive borrow of a Table. Pointers handed out by Get and All
// are only valid until Release.
type RefMut[T any] struct {
	table    *Table[T]
	released atomic.Bool
}

func (r *RefMut[T]) live() *Table[T] {
	if r.released.Load() {
		panic(fmt.Errorf("%w: exclusive borrow of %s", ErrReleased, typeName(r.table.typ)))
	}
	return r.table
}

func (r *RefMut[T]) Get(e Entity) (*T, bool) {
	v, ok := r.live().rows[e]
	return v, ok
}

func (r *RefMut[T]) Has(e Entity) bool {
	_, ok := r.live().rows[e]
	return ok
}

func (r *RefMut[T]) Set(e Entity, v T) {
	r.live().rows[e] = &v
}

func (r *RefMut[T]) Delete(e Entity) {
	delete(r.live().rows, e)
}

func (r *RefMut[T]) Len() int {
	return len(r.live().rows)
}

// All iterates over mutable components in unspecified order. Deleting the
// current entity during iteration is allowed.
func (r *RefMut[T]) All() iter.Seq2[Entity, *T] {
	t := r.live()
	return func(yield func(Entity, *T) bool) {
		for e, v := range t.rows {
			if !yield(e, v) {
				return
			}
		}
	}
}

func (r *RefMut[T]) Release() {
	if r.released.CompareAndSwap(false, true) {
		r.table.flag.releaseExclusive()
	}
}
