// Package input holds decoded device events. Window plumbing turns raw
// events into these before they reach the simulation.
package input

import (
	"fmt"
	"strings"
)

type Kind uint8

const (
	KindKey Kind = iota + 1
	KindMouseMotion
)

var kindNames = map[Kind]string{
	KindKey:         "key",
	KindMouseMotion: "mouse_motion",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("input: unknown event kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if strings.EqualFold(name, string(b)) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("input: unknown event kind %q", b)
}

// Key is a physical key code. Only the keys the engine binds are named.
type Key uint16

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeySpace
	KeyEscape
)

var keyNames = map[Key]string{
	KeyUnknown: "unknown",
	KeyW:       "w",
	KeyA:       "a",
	KeyS:       "s",
	KeyD:       "d",
	KeyQ:       "q",
	KeyE:       "e",
	KeySpace:   "space",
	KeyEscape:  "escape",
}

func (k Key) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return fmt.Sprintf("key(%d)", uint16(k))
}

func (k Key) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText maps unrecognized names to KeyUnknown rather than failing,
// so a client sending keys we do not bind is not an error.
func (k *Key) UnmarshalText(b []byte) error {
	*k = ParseKey(string(b))
	return nil
}

func ParseKey(s string) Key {
	for key, name := range keyNames {
		if strings.EqualFold(name, s) {
			return key
		}
	}
	return KeyUnknown
}

// Event is a key transition or a relative mouse movement.
type Event struct {
	Kind    Kind    `json:"kind"`
	Key     Key     `json:"key,omitempty"`
	Pressed bool    `json:"pressed,omitempty"`
	DX      float32 `json:"dx,omitempty"`
	DY      float32 `json:"dy,omitempty"`
}

func KeyPress(k Key) Event   { return Event{Kind: KindKey, Key: k, Pressed: true} }
func KeyRelease(k Key) Event { return Event{Kind: KindKey, Key: k} }

func MouseMotion(dx, dy float32) Event {
	return Event{Kind: KindMouseMotion, DX: dx, DY: dy}
}

func (e Event) String() string {
	switch e.Kind {
	case KindKey:
		state := "released"
		if e.Pressed {
			state = "pressed"
		}
		return fmt.Sprintf("key %s %s", e.Key, state)
	case KindMouseMotion:
		return fmt.Sprintf("mouse motion (%g, %g)", e.DX, e.DY)
	default:
		return e.Kind.String()
	}
}
