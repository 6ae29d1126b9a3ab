package topbar

import (
	"context"
	"slices"

	"github.com/vk/addonkit/internal/host"
	"github.com/vk/addonkit/internal/registry"
)

const (
	IDName = "TOPBAR_MT_addonkit"
	// MenusOption holds the ordered list of menu idnames drawn in the topbar.
	MenusOption = "topbar.menus"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Menu is the addonkit topbar menu.
type Menu struct{}

func (Menu) Register(ctx context.Context, h host.Host) error {
	return h.RegisterClass(ctx, host.Class{
		IDName: IDName,
		Kind:   host.KindMenu,
		Label:  "Add-ons",
		Layout: []string{"view3d.cursor3d", "overlay.show_uv"},
	})
}

func (Menu) Unregister(ctx context.Context, h host.Host) error {
	return h.UnregisterClass(ctx, IDName)
}

func menus(h host.Host) []string {
	v, _ := h.Option(MenusOption)
	list, _ := v.([]string)
	return list
}

// Register adds the implementations to the catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterClass("topbar.menu", func() any { return Menu{} })
	r.RegisterFunc("topbar.append", registry.Funcs{
		OnRegister: func(ctx context.Context, h host.Host) error {
			list := menus(h)
			if slices.Contains(list, IDName) {
				return nil
			}
			return h.SetOption(ctx, MenusOption, append(slices.Clone(list), IDName))
		},
		OnUnregister: func(ctx context.Context, h host.Host) error {
			list := slices.DeleteFunc(slices.Clone(menus(h)), func(s string) bool { return s == IDName })
			return h.SetOption(ctx, MenusOption, list)
		},
	})
}
