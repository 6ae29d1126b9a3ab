package autoload

import "sync"

// Ledger tracks the entities currently registered with the host, in
// registration order. It lives as long as the process.
type Ledger struct {
	mu      sync.Mutex
	entries []Entity
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Contains reports whether an entity with the given id is registered.
func (l *Ledger) Contains(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.indexOf(id) >= 0
}

// Entries returns a snapshot in registration order.
func (l *Ledger) Entries() []Entity {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entity(nil), l.entries...)
}

// Len returns the number of registered entities.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *Ledger) add(e Entity) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.indexOf(e.ID()) >= 0 {
		return false
	}
	l.entries = append(l.entries, e)
	return true
}

func (l *Ledger) remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	return true
}

// indexOf must be called with mu held.
func (l *Ledger) indexOf(id string) int {
	for i, e := range l.entries {
		if e.ID() == id {
			return i
		}
	}
	return -1
}
