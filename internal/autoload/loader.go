package autoload

import (
	"context"

	"github.com/google/uuid"
	"github.com/vk/addonkit/internal/ctxlog"
	"github.com/vk/addonkit/internal/fsutil"
	"github.com/vk/addonkit/internal/host"
	"github.com/vk/addonkit/internal/registry"
)

// Observer receives load-cycle events, e.g. to feed metrics.
type Observer interface {
	ImportFailed(module string, err error)
	Registered(dir Direction, ok bool)
	CycleCompleted(registered int)
}

type nopObserver struct{}

func (nopObserver) ImportFailed(string, error) {}
func (nopObserver) Registered(Direction, bool) {}
func (nopObserver) CycleCompleted(int)         {}

// Config describes the plugin tree a Loader serves.
type Config struct {
	Root    string
	Package string
	Policy  fsutil.ExcludePolicy
	// Observer is optional.
	Observer Observer
}

// Loader owns the module cache and ledger for one plugin tree.
type Loader struct {
	root     string
	pkg      string
	policy   fsutil.ExcludePolicy
	catalog  *registry.Registry
	host     host.Host
	cache    *ModuleCache
	ledger   *Ledger
	observer Observer
}

// New creates a Loader with an empty cache and ledger.
func New(cfg Config, catalog *registry.Registry, h host.Host) *Loader {
	obs := cfg.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	return &Loader{
		root:     cfg.Root,
		pkg:      cfg.Package,
		policy:   cfg.Policy,
		catalog:  catalog,
		host:     h,
		cache:    NewModuleCache(),
		ledger:   NewLedger(),
		observer: obs,
	}
}

// Package returns the package name used for import paths.
func (l *Loader) Package() string { return l.pkg }

// Ledger returns the registration ledger.
func (l *Loader) Ledger() *Ledger { return l.ledger }

// Cache returns the loaded-module registry.
func (l *Loader) Cache() *ModuleCache { return l.cache }

// Cleanse removes every cached module under pkg so that the next import
// reads the files again. Calling it with nothing cached is a no-op.
func (l *Loader) Cleanse(ctx context.Context, pkg string) int {
	logger := ctxlog.FromContext(ctx)
	removed := l.cache.RemoveTree(pkg)
	for _, p := range removed {
		for _, e := range l.ledger.Entries() {
			if e.Module == p {
				logger.Warn("Cleansed module still has registered entities.", "module", p, "entity", e.Name)
			}
		}
	}
	logger.Debug("Module cache cleansed.", "package", pkg, "removed", len(removed))
	return len(removed)
}

// Load runs one load cycle: discover, import, collect, then register classes
// and functions in that order.
func (l *Loader) Load(ctx context.Context, opts Options) (Result, error) {
	ctx = ctxlog.With(ctx, "cycle", uuid.NewString())
	logger := ctxlog.FromContext(ctx)
	logger.Info("Load cycle started.", "root", l.root, "package", l.pkg, "strict_import", opts.StrictImport, "debug", opts.Debug)

	descs, err := Discover(ctx, l.root, l.pkg, l.policy)
	if err != nil {
		return Result{}, err
	}
	if l.pkg == "" && len(descs) > 0 {
		l.pkg = rootPackage(descs[0])
	}

	mods, err := l.ImportAll(ctx, descs, opts)
	if err != nil {
		return Result{}, err
	}

	classes, funcs := Collect(mods)
	logger.Debug("Collected registrable entities.", "classes", len(classes), "functions", len(funcs))

	res, err := l.Register(ctx, classes, Forward, opts)
	if err != nil {
		return res, err
	}
	fres, err := l.Register(ctx, funcs, Forward, opts)
	res = res.Merge(fres)
	if err != nil {
		return res, err
	}

	l.observer.CycleCompleted(l.ledger.Len())
	logger.Info("Load cycle finished.", "registered", l.ledger.Len(), "failed", len(res.Failed))
	return res, nil
}

// UnregisterAll tears down every registered entity in exactly the reverse of
// registration order.
func (l *Loader) UnregisterAll(ctx context.Context, opts Options) (Result, error) {
	return l.Register(ctx, l.ledger.Entries(), Reverse, opts)
}

// Reload unregisters everything, cleanses the cache and loads again. The
// returned Result is the one of the unregister batch when that batch fails,
// otherwise the one of the new load cycle.
func (l *Loader) Reload(ctx context.Context, opts Options) (Result, error) {
	res, err := l.UnregisterAll(ctx, opts)
	if err != nil {
		return res, err
	}
	l.Cleanse(ctx, l.pkg)
	return l.Load(ctx, opts)
}

// rootPackage returns the first element of a descriptor's import path.
func rootPackage(d Descriptor) string {
	for i := 0; i < len(d.Path); i++ {
		if d.Path[i] == '/' {
			return d.Path[:i]
		}
	}
	return d.Path
}
