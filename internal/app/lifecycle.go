package app

import (
	"context"
	"fmt"

	"github.com/vk/addonkit/internal/autoload"
	"github.com/vk/addonkit/internal/ctxlog"
	"github.com/vk/addonkit/internal/fsutil"
	"github.com/vk/addonkit/internal/watch"
)

// Enable loads the plugin tree and registers everything it declares.
func (a *App) Enable(ctx context.Context) (autoload.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ctx = ctxlog.WithLogger(ctx, a.logger)

	res, err := a.loader.Load(ctx, a.options())
	if err != nil {
		return res, fmt.Errorf("enabling plugins: %w", err)
	}
	a.logger.Info("🚀 Plugins enabled.", "registered", a.loader.Ledger().Len(), "failed", len(res.Failed))
	return res, nil
}

// Disable unregisters every registered entity.
func (a *App) Disable(ctx context.Context) (autoload.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ctx = ctxlog.WithLogger(ctx, a.logger)

	res, err := a.loader.UnregisterAll(ctx, a.options())
	if err != nil {
		return res, fmt.Errorf("disabling plugins: %w", err)
	}
	a.logger.Info("🏁 Plugins disabled.", "unregistered", res.Succeeded, "failed", len(res.Failed))
	return res, nil
}

// Reload unregisters everything and loads the tree again from disk.
func (a *App) Reload(ctx context.Context) (autoload.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ctx = ctxlog.WithLogger(ctx, a.logger)

	res, err := a.loader.Reload(ctx, a.options())
	if err != nil {
		return res, fmt.Errorf("reloading plugins: %w", err)
	}
	a.logger.Info("🔄 Plugins reloaded.", "registered", a.loader.Ledger().Len(), "failed", len(res.Failed))
	return res, nil
}

// Watch enables the plugins, reloads them whenever the tree changes and
// disables them once ctx is done.
func (a *App) Watch(ctx context.Context) error {
	if _, err := a.Enable(ctx); err != nil {
		return err
	}
	a.healthCheckServer()
	defer a.closeHealthCheckServer()

	w := watch.New(a.config.Root, autoload.SourceExt, fsutil.ExcludePolicy{Patterns: a.config.Exclude}, a.config.Debounce,
		func(ctx context.Context) error {
			_, err := a.Reload(ctx)
			return err
		})
	werr := w.Run(ctxlog.WithLogger(ctx, a.logger))

	if _, err := a.Disable(context.Background()); err != nil {
		return err
	}
	return werr
}
