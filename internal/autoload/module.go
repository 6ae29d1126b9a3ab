package autoload

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/vk/addonkit/internal/ctxlog"
	"github.com/vk/addonkit/internal/manifest"
	"github.com/vk/addonkit/internal/registry"
)

// Binding is a declaration paired with the value its implementation built.
type Binding struct {
	Decl  manifest.Declaration
	Value any
}

// Module is an imported plugin source file.
type Module struct {
	Descriptor
	Version  *semver.Version
	Bindings []Binding
}

// ModuleCache is the loaded-module registry, keyed by import path.
type ModuleCache struct {
	mu   sync.Mutex
	mods map[string]*Module
}

// NewModuleCache creates an empty cache.
func NewModuleCache() *ModuleCache {
	return &ModuleCache{mods: make(map[string]*Module)}
}

// Get returns the cached module for an import path.
func (c *ModuleCache) Get(path string) (*Module, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.mods[path]
	return m, ok
}

// Put stores m under its import path.
func (c *ModuleCache) Put(m *Module) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mods[m.Path] = m
}

// Paths returns the cached import paths, sorted.
func (c *ModuleCache) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	paths := make([]string, 0, len(c.mods))
	for p := range c.mods {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of cached modules.
func (c *ModuleCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.mods)
}

// RemoveTree drops pkg and every module below it and returns the removed
// import paths.
func (c *ModuleCache) RemoveTree(pkg string) []string {
	if pkg == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var removed []string
	for p := range c.mods {
		if p == pkg || strings.HasPrefix(p, pkg+"/") {
			delete(c.mods, p)
			removed = append(removed, p)
		}
	}
	sort.Strings(removed)
	return removed
}

// ImportAll imports every descriptor in order. Modules already in the cache
// are returned as they are. With opts.StrictImport the first failure aborts
// the batch; otherwise failing modules are logged and left out.
func (l *Loader) ImportAll(ctx context.Context, descs []Descriptor, opts Options) ([]*Module, error) {
	logger := ctxlog.FromContext(ctx)

	mods := make([]*Module, 0, len(descs))
	for _, d := range descs {
		if cached, ok := l.cache.Get(d.Path); ok {
			logger.Debug("Module already imported, using cache.", "module", d.Path)
			mods = append(mods, cached)
			continue
		}

		m, err := l.importModule(d)
		if err != nil {
			importErr := &ImportError{Module: d.Path, File: d.File, Err: err}
			l.observer.ImportFailed(d.Path, importErr)
			if opts.StrictImport {
				return mods, importErr
			}
			logger.Error("Skipping module that failed to import.", "module", d.Path, "file", d.File, "error", err)
			continue
		}

		l.cache.Put(m)
		mods = append(mods, m)
		logger.Debug("Imported module.", "module", d.Path, "declarations", len(m.Bindings))
	}

	logger.Info("Modules imported.", "imported", len(mods), "discovered", len(descs))
	return mods, nil
}

func (l *Loader) importModule(d Descriptor) (*Module, error) {
	f, err := manifest.ParseFile(d.File)
	if err != nil {
		return nil, err
	}

	if f.RequiresHost != nil {
		hv := l.host.Version()
		if ok, errs := f.RequiresHost.Validate(hv); !ok {
			return nil, fmt.Errorf("host version %s does not satisfy requires_host %q: %v", hv, f.RequiresHost.String(), errs)
		}
	}

	m := &Module{Descriptor: d, Version: f.Version}
	for _, decl := range f.Declarations {
		value, err := l.bind(decl)
		if err != nil {
			return nil, err
		}
		m.Bindings = append(m.Bindings, Binding{Decl: decl, Value: value})
	}
	return m, nil
}

func (l *Loader) bind(decl manifest.Declaration) (any, error) {
	entry, ok := l.catalog.Lookup(decl.Impl)
	if !ok {
		return nil, fmt.Errorf("%s: %s '%s' refers to unknown implementation '%s'", decl.Range, decl.Kind, decl.Name, decl.Impl)
	}
	want := registry.EntryClass
	if decl.Kind == manifest.DeclFunction {
		want = registry.EntryFunc
	}
	if entry.Kind != want {
		return nil, fmt.Errorf("%s: %s '%s' refers to %s implementation '%s'", decl.Range, decl.Kind, decl.Name, entry.Kind, decl.Impl)
	}

	value := entry.New()
	if c, ok := value.(registry.Configurable); ok {
		if err := c.Configure(decl.Settings); err != nil {
			return nil, fmt.Errorf("configuring %s '%s': %w", decl.Kind, decl.Name, err)
		}
	}
	return value, nil
}
