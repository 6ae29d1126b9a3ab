package uvdisplay

import (
	"context"

	"github.com/vk/addonkit/internal/host"
	"github.com/vk/addonkit/internal/registry"
)

const (
	IDName = "UV_OT_addonkit_toggle_display"
	// Option is the host overlay flag the operator flips.
	Option = "overlay.show_uv"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// ToggleOperator flips the UV overlay in the image editor.
type ToggleOperator struct{}

func (ToggleOperator) Register(ctx context.Context, h host.Host) error {
	return h.RegisterClass(ctx, host.Class{
		IDName: IDName,
		Kind:   host.KindOperator,
		Label:  "Toggle UV Display",
		Space:  "IMAGE_EDITOR",
		Invoke: toggle,
	})
}

func (ToggleOperator) Unregister(ctx context.Context, h host.Host) error {
	return h.UnregisterClass(ctx, IDName)
}

func toggle(ctx context.Context, h host.Host, _ host.Event) error {
	shown, _ := h.Option(Option)
	on, _ := shown.(bool)
	return h.SetOption(ctx, Option, !on)
}

// Register adds the implementations to the catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterClass("uvdisplay.toggle", func() any { return ToggleOperator{} })
}
