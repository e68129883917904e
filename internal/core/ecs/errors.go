package ecs

import "errors"

var (
	// ErrAliasing is returned when a borrow conflicts with one already
	// outstanding on the same component table.
	ErrAliasing = errors.New("component table borrow conflict")

	// ErrNoTable is returned when no entity ever received a component of the
	// requested type.
	ErrNoTable = errors.New("component table not found")

	// ErrNoComponent is returned by helpers that need a component the entity
	// does not have.
	ErrNoComponent = errors.New("component not found")

	// ErrReleased is the panic value for using a borrow after Release.
	ErrReleased = errors.New("component table borrow already released")
)
