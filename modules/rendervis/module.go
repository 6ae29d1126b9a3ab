// Package rendervis keeps the render visibility of the active object in step
// with its viewport visibility.
package rendervis

import (
	"context"

	"github.com/vk/addonkit/internal/host"
	"github.com/vk/addonkit/internal/registry"
)

const (
	IDName         = "OBJECT_OT_addonkit_toggle_render"
	HideRender     = "object.active.hide_render"
	HideViewport   = "object.active.hide_viewport"
	RenderPreEvent = "render_pre"
	handlerID      = "addonkit_rendervis_sync"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// ToggleOperator flips render visibility of the active object.
type ToggleOperator struct{}

func (ToggleOperator) Register(ctx context.Context, h host.Host) error {
	return h.RegisterClass(ctx, host.Class{
		IDName: IDName,
		Kind:   host.KindOperator,
		Label:  "Toggle Render Visibility",
		Space:  "VIEW_3D",
		Invoke: func(ctx context.Context, h host.Host, _ host.Event) error {
			return h.SetOption(ctx, HideRender, !flag(h, HideRender))
		},
	})
}

func (ToggleOperator) Unregister(ctx context.Context, h host.Host) error {
	return h.UnregisterClass(ctx, IDName)
}

// syncBeforeRender hides from the render whatever is hidden in the viewport.
func syncBeforeRender(ctx context.Context, h host.Host) error {
	if flag(h, HideViewport) {
		return h.SetOption(ctx, HideRender, true)
	}
	return nil
}

func flag(h host.Host, path string) bool {
	v, _ := h.Option(path)
	b, _ := v.(bool)
	return b
}

// Register adds the implementations to the catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterClass("rendervis.toggle", func() any { return ToggleOperator{} })
	r.RegisterFunc("rendervis.handlers", registry.Funcs{
		OnRegister: func(ctx context.Context, h host.Host) error {
			return h.AddHandler(ctx, RenderPreEvent, handlerID, syncBeforeRender)
		},
		OnUnregister: func(ctx context.Context, h host.Host) error {
			return h.RemoveHandler(ctx, RenderPreEvent, handlerID)
		},
	})
}
