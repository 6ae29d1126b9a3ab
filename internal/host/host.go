// Package host defines the contract between addonkit and the extension host
// that drives registered entities. The host owns the real class registries,
// operator dispatch and UI; addonkit only issues register/unregister calls and
// thin delegations through this interface.
package host

import (
	"context"

	"github.com/Masterminds/semver/v3"
)

// ClassKind is the host-side category of a registered class.
type ClassKind string

const (
	KindOperator      ClassKind = "operator"
	KindPanel         ClassKind = "panel"
	KindMenu          ClassKind = "menu"
	KindPropertyGroup ClassKind = "property_group"
)

// Modifier keys held while an event fired.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// Event is the subset of a host input event that operators look at.
type Event struct {
	Type      string
	Modifiers Modifier
}

// Has reports whether every modifier in m is held.
func (e Event) Has(m Modifier) bool {
	return e.Modifiers&m == m
}

// InvokeFunc runs an operator in response to an event.
type InvokeFunc func(ctx context.Context, h Host, ev Event) error

// HandlerFunc is an application handler (render pre/post, load post, ...).
type HandlerFunc func(ctx context.Context, h Host) error

// Class describes a class handed to the host's class registry.
type Class struct {
	IDName string
	Kind   ClassKind
	Label  string
	Space  string
	Invoke InvokeFunc
	// Layout is the list of rows a panel draws, resolved at register time.
	Layout []string
}

// Host is the extension runtime. Implementations must reject registering an
// id twice and removing an id that is not present.
type Host interface {
	Version() *semver.Version

	RegisterClass(ctx context.Context, c Class) error
	UnregisterClass(ctx context.Context, idname string) error

	AddHandler(ctx context.Context, event, id string, fn HandlerFunc) error
	RemoveHandler(ctx context.Context, event, id string) error

	// Call delegates to a built-in host operator.
	Call(ctx context.Context, op string, args map[string]any) error
	// Invoke dispatches an event to a registered operator class.
	Invoke(ctx context.Context, idname string, ev Event) error

	SetOption(ctx context.Context, path string, value any) error
	Option(path string) (any, bool)
}
