// Package cursor places the 3D cursor. The operator only picks which host
// operator to delegate to, based on the modifier keys held.
package cursor

import (
	"context"

	"github.com/vk/addonkit/internal/host"
	"github.com/vk/addonkit/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

const (
	DefaultIDName = "VIEW3D_OT_addonkit_cursor_snap"
	KeymapOption  = "keymap.view3d.cursor_snap"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Settings of the snap operator declaration.
type Settings struct {
	IDName      *string `cty:"idname"`
	Orientation *string `cty:"orientation"`
}

// SnapOperator places the cursor at the pointer, or snaps it to the selection
// (shift) or the world origin (ctrl).
type SnapOperator struct {
	idname      string
	orientation string
}

func (o *SnapOperator) Configure(settings cty.Value) error {
	var s Settings
	if err := gocty.FromCtyValue(settings, &s); err != nil {
		return err
	}
	o.idname = DefaultIDName
	if s.IDName != nil {
		o.idname = *s.IDName
	}
	o.orientation = "VIEW"
	if s.Orientation != nil {
		o.orientation = *s.Orientation
	}
	return nil
}

func (o *SnapOperator) Register(ctx context.Context, h host.Host) error {
	return h.RegisterClass(ctx, host.Class{
		IDName: o.idname,
		Kind:   host.KindOperator,
		Label:  "Snap Cursor",
		Space:  "VIEW_3D",
		Invoke: o.invoke,
	})
}

func (o *SnapOperator) Unregister(ctx context.Context, h host.Host) error {
	return h.UnregisterClass(ctx, o.idname)
}

func (o *SnapOperator) invoke(ctx context.Context, h host.Host, ev host.Event) error {
	switch {
	case ev.Has(host.ModShift):
		return h.Call(ctx, "view3d.snap_cursor_to_selected", nil)
	case ev.Has(host.ModCtrl):
		return h.Call(ctx, "view3d.snap_cursor_to_center", nil)
	default:
		return h.Call(ctx, "view3d.cursor3d", map[string]any{"orientation": o.orientation})
	}
}

// keymaps binds the operator to shift+right mouse.
var keymaps = registry.Funcs{
	OnRegister: func(ctx context.Context, h host.Host) error {
		return h.SetOption(ctx, KeymapOption, "SHIFT+RIGHTMOUSE")
	},
	OnUnregister: func(ctx context.Context, h host.Host) error {
		return h.SetOption(ctx, KeymapOption, nil)
	},
}

// Register adds the implementations to the catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterClass("cursor.snap", func() any { return &SnapOperator{idname: DefaultIDName, orientation: "VIEW"} })
	r.RegisterFunc("cursor.keymaps", keymaps)
}
