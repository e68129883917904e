// Package generic holds small type-safe wrappers over the standard library.
package generic

import "sync"

// Pool is a typed sync.Pool. Values handed back through Put are passed to
// reset first, so Get never returns stale contents.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
}

func NewPool[T any](generate func() T, reset func(T)) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return generate()
			},
		},
		reset: reset,
	}
}

// NewSlicePool pools *[]T scratch buffers of the given starting capacity.
// Returned buffers are cleared and truncated to zero length.
func NewSlicePool[T any](capacity int) *Pool[*[]T] {
	return NewPool(
		func() *[]T {
			s := make([]T, 0, capacity)
			return &s
		},
		func(s *[]T) {
			clear(*s)
			*s = (*s)[:0]
		},
	)
}

func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

func (p *Pool[T]) Put(value T) {
	if p.reset != nil {
		p.reset(value)
	}
	p.pool.Put(value)
}
