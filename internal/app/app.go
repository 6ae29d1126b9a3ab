package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/vk/addonkit/internal/autoload"
	"github.com/vk/addonkit/internal/ctxlog"
	"github.com/vk/addonkit/internal/fsutil"
	"github.com/vk/addonkit/internal/host"
	"github.com/vk/addonkit/internal/metrics"
	"github.com/vk/addonkit/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	ctx      context.Context
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	host     *host.Memory
	loader   *autoload.Loader
	recorder *metrics.Recorder

	// mu serialises enable, disable and reload.
	mu         sync.Mutex
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and catalog.
// Without modules the compiled-in coreModules are used.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	// NewConfig already validated the level.
	level, _ := parseLevel(cfg.LogLevel)
	logger := newLogger(level, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.NewFrom(modules...)
	logger.Debug("All Go modules registered.", "modules", len(modules), "implementations", reg.Len())

	var hostVersion *semver.Version
	if cfg.HostVersion != "" {
		hostVersion = semver.MustParse(cfg.HostVersion)
	}
	h := host.NewMemory(hostVersion)

	recorder := metrics.NewRecorder()
	loader := autoload.New(autoload.Config{
		Root:     cfg.Root,
		Package:  cfg.Package,
		Policy:   fsutil.ExcludePolicy{Patterns: cfg.Exclude},
		Observer: recorder,
	}, reg, h)

	return &App{
		outW:     outW,
		ctx:      ctx,
		logger:   logger,
		config:   cfg,
		registry: reg,
		host:     h,
		loader:   loader,
		recorder: recorder,
	}
}

// Host returns the in-memory host the plugins are registered with.
func (a *App) Host() *host.Memory {
	return a.host
}

// Loader returns the application's loader. This is primarily for testing.
func (a *App) Loader() *autoload.Loader {
	return a.loader
}

// Context returns the application context carrying its logger.
func (a *App) Context() context.Context {
	return a.ctx
}

func (a *App) options() autoload.Options {
	return autoload.Options{StrictImport: a.config.StrictImport, Debug: a.config.Debug}
}
