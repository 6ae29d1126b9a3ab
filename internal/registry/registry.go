package registry

import (
	"fmt"
	"log/slog"
	"sort"
)

// Module is the interface that all compiled-in plugin packages implement to
// add their implementations to the catalog.
type Module interface {
	Register(r *Registry)
}

// EntryKind tells whether a catalog entry backs a class or a function
// declaration.
type EntryKind int

const (
	EntryClass EntryKind = iota
	EntryFunc
)

func (k EntryKind) String() string {
	if k == EntryFunc {
		return "function"
	}
	return "class"
}

// Entry is one named implementation.
type Entry struct {
	Name string
	Kind EntryKind
	// New builds a fresh value for each import so that a reload never shares
	// state with the previous load cycle.
	New func() any
}

// Registry maps implementation names to their compiled Go parts.
type Registry struct {
	entries map[string]*Entry
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// NewFrom creates a Registry and lets every module register into it.
func NewFrom(modules ...Module) *Registry {
	r := New()
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterClass registers a factory backing class declarations.
func (r *Registry) RegisterClass(name string, factory func() any) {
	r.add(&Entry{Name: name, Kind: EntryClass, New: factory})
}

// RegisterFunc registers a value backing function declarations. The value is
// shared by every import.
func (r *Registry) RegisterFunc(name string, fn any) {
	r.add(&Entry{Name: name, Kind: EntryFunc, New: func() any { return fn }})
}

func (r *Registry) add(e *Entry) {
	if e.Name == "" {
		panic("implementation name must not be empty")
	}
	if e.New == nil {
		panic(fmt.Sprintf("implementation '%s' has no constructor", e.Name))
	}
	if _, exists := r.entries[e.Name]; exists {
		panic(fmt.Sprintf("implementation with name '%s' already registered", e.Name))
	}
	slog.Debug("Registering implementation.", "name", e.Name, "kind", e.Kind.String())
	r.entries[e.Name] = e
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered implementations.
func (r *Registry) Len() int {
	return len(r.entries)
}
