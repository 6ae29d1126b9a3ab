package autoload

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/addonkit/internal/ctxlog"
)

// Direction selects register (forward) or unregister (reverse).
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "unregister"
	}
	return "register"
}

// Options are passed explicitly on every call.
type Options struct {
	// StrictImport makes the first import failure abort the batch.
	StrictImport bool
	// Debug makes the first registration failure abort the batch.
	Debug bool
}

// Result summarises a register or unregister batch.
type Result struct {
	Succeeded int
	// Skipped counts entities that were already in (or already out of) the
	// ledger.
	Skipped int
	Failed  []*RegistrationError
}

// Merge adds the counts of other to r.
func (r Result) Merge(other Result) Result {
	r.Succeeded += other.Succeeded
	r.Skipped += other.Skipped
	r.Failed = append(r.Failed, other.Failed...)
	return r
}

// Register walks entities forward for Forward and backwards for Reverse and
// calls each entity's callable. A failure is recorded and the batch goes on,
// unless opts.Debug is set, in which case the failure is returned at once.
//
// Registering an entity already in the ledger, or unregistering one that is
// not, is a no-op. An unregister call leaves the ledger even when it fails:
// the teardown was issued and the host owns what remains.
func (l *Loader) Register(ctx context.Context, entities []Entity, dir Direction, opts Options) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	var res Result

	for i := range entities {
		e := entities[i]
		if dir == Reverse {
			e = entities[len(entities)-1-i]
		}
		id := e.ID()

		if dir == Forward && l.ledger.Contains(id) {
			logger.Debug("Entity already registered, skipping.", "entity", id)
			res.Skipped++
			continue
		}
		if dir == Reverse && !l.ledger.Contains(id) {
			logger.Debug("Entity not registered, skipping.", "entity", id)
			res.Skipped++
			continue
		}

		err := l.call(ctx, e, dir)
		if dir == Reverse {
			l.ledger.remove(id)
		}
		l.observer.Registered(dir, err == nil)

		if err != nil {
			regErr := &RegistrationError{Entity: id, Direction: dir, Err: err}
			if opts.Debug {
				return res, regErr
			}
			logger.Error("Entity failed, continuing.", "entity", id, "kind", e.Kind.String(), "direction", dir.String(), "error", err)
			res.Failed = append(res.Failed, regErr)
			continue
		}

		if dir == Forward {
			l.ledger.add(e)
		}
		res.Succeeded++
		logger.Debug("Entity done.", "entity", id, "direction", dir.String())
	}

	logger.Info("Batch finished.", "direction", dir.String(), "succeeded", res.Succeeded, "skipped", res.Skipped, "failed", len(res.Failed))
	return res, nil
}

// call runs one callable and turns a panic into an error.
func (l *Loader) call(ctx context.Context, e Entity, dir Direction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rErr, ok := r.(error); ok {
				err = fmt.Errorf("panic: %w", rErr)
				return
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if e.Impl == nil {
		return errors.New("entity has no implementation")
	}
	if dir == Reverse {
		return e.Impl.Unregister(ctx, l.host)
	}
	return e.Impl.Register(ctx, l.host)
}
