package ecs

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Entity is an opaque identity used as a key across component tables.
// Identities are handed out in increasing order and never reused.
type Entity uint64

func (e Entity) String() string {
	return "entity#" + strconv.FormatUint(uint64(e), 10)
}

// ComponentID is a stable identifier for a component type, derived from the
// type's fully qualified name. It is informational: tables are keyed by
// reflect.Type, so a hash collision cannot merge two tables.
type ComponentID uint32

func (id ComponentID) String() string {
	return fmt.Sprintf("%08x", uint32(id))
}

// ComponentIDOf returns the ComponentID for T.
func ComponentIDOf[T any]() ComponentID {
	return componentID(reflect.TypeFor[T]())
}

func componentID(t reflect.Type) ComponentID {
	return ComponentID(uint32(xxhash.Sum64String(typeName(t))))
}

func typeName(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// allocator issues entity ids and tracks how many are alive.
type allocator struct {
	next Entity
	live uint64
}

func (a *allocator) allocate() Entity {
	id := a.next
	a.next++
	a.live++
	return id
}

func (a *allocator) release() {
	if a.live > 0 {
		a.live--
	}
}
