package host

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"
)

var (
	ErrAlreadyRegistered = errors.New("already registered")
	ErrNotRegistered     = errors.New("not registered")
)

// Call records one delegated operator call.
type Call struct {
	Op   string
	Args map[string]any
}

// Memory is an in-memory Host used by the CLI and by tests.
type Memory struct {
	mu       sync.Mutex
	version  *semver.Version
	classes  map[string]Class
	handlers map[string]map[string]HandlerFunc
	options  map[string]any
	calls    []Call
	journal  []string
}

// Compile-time interface compliance check.
var _ Host = (*Memory)(nil)

// NewMemory creates an empty host reporting the given version.
func NewMemory(version *semver.Version) *Memory {
	if version == nil {
		version = semver.MustParse("4.2.0")
	}
	return &Memory{
		version:  version,
		classes:  make(map[string]Class),
		handlers: make(map[string]map[string]HandlerFunc),
		options:  make(map[string]any),
	}
}

func (m *Memory) Version() *semver.Version { return m.version }

func (m *Memory) RegisterClass(ctx context.Context, c Class) error {
	if c.IDName == "" {
		return errors.New("class idname must not be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.classes[c.IDName]; exists {
		return fmt.Errorf("class '%s': %w", c.IDName, ErrAlreadyRegistered)
	}
	m.classes[c.IDName] = c
	m.journal = append(m.journal, "+class:"+c.IDName)
	return nil
}

func (m *Memory) UnregisterClass(ctx context.Context, idname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.classes[idname]; !exists {
		return fmt.Errorf("class '%s': %w", idname, ErrNotRegistered)
	}
	delete(m.classes, idname)
	m.journal = append(m.journal, "-class:"+idname)
	return nil
}

func (m *Memory) AddHandler(ctx context.Context, event, id string, fn HandlerFunc) error {
	if fn == nil {
		return fmt.Errorf("handler '%s' for '%s' is nil", id, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	byID, ok := m.handlers[event]
	if !ok {
		byID = make(map[string]HandlerFunc)
		m.handlers[event] = byID
	}
	if _, exists := byID[id]; exists {
		return fmt.Errorf("handler '%s' on '%s': %w", id, event, ErrAlreadyRegistered)
	}
	byID[id] = fn
	m.journal = append(m.journal, "+handler:"+event+"/"+id)
	return nil
}

func (m *Memory) RemoveHandler(ctx context.Context, event, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.handlers[event][id]; !exists {
		return fmt.Errorf("handler '%s' on '%s': %w", id, event, ErrNotRegistered)
	}
	delete(m.handlers[event], id)
	m.journal = append(m.journal, "-handler:"+event+"/"+id)
	return nil
}

func (m *Memory) Call(ctx context.Context, op string, args map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: op, Args: args})
	return nil
}

// Invoke looks up the operator outside the lock so that the operator can
// call back into the host.
func (m *Memory) Invoke(ctx context.Context, idname string, ev Event) error {
	m.mu.Lock()
	c, ok := m.classes[idname]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("operator '%s': %w", idname, ErrNotRegistered)
	}
	if c.Kind != KindOperator || c.Invoke == nil {
		return fmt.Errorf("class '%s' is not an invokable operator", idname)
	}
	return c.Invoke(ctx, m, ev)
}

// Fire runs every handler attached to event in id order.
func (m *Memory) Fire(ctx context.Context, event string) error {
	m.mu.Lock()
	ids := make([]string, 0, len(m.handlers[event]))
	for id := range m.handlers[event] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	fns := make([]HandlerFunc, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.handlers[event][id])
	}
	m.mu.Unlock()

	for _, fn := range fns {
		if err := fn(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) SetOption(ctx context.Context, path string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.options[path] = value
	return nil
}

func (m *Memory) Option(path string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.options[path]
	return v, ok
}

// Class returns a registered class by idname.
func (m *Memory) Class(idname string) (Class, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.classes[idname]
	return c, ok
}

// Classes returns the idnames of all registered classes, sorted.
func (m *Memory) Classes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.classes))
	for name := range m.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Calls returns a copy of the delegated operator calls.
func (m *Memory) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Journal returns the register/unregister events in the order they happened.
func (m *Memory) Journal() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.journal...)
}
