// Package dimensions shows the active object's dimensions in a sidebar panel.
// The rows the panel draws depend on the declaration's settings.
package dimensions

import (
	"context"
	"fmt"

	"github.com/vk/addonkit/internal/host"
	"github.com/vk/addonkit/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

const IDName = "VIEW3D_PT_addonkit_dimensions"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Settings of the panel declaration. Every field is optional.
type Settings struct {
	Units     *string `cty:"units"`
	Precision *int    `cty:"precision"`
	ShowArea  *bool   `cty:"show_area"`
	Compact   *bool   `cty:"compact"`
}

// Panel draws dimension rows.
type Panel struct {
	units     string
	precision int
	showArea  bool
	compact   bool
}

func newPanel() any {
	return &Panel{units: "metric", precision: 3}
}

func (p *Panel) Configure(settings cty.Value) error {
	var s Settings
	if err := gocty.FromCtyValue(settings, &s); err != nil {
		return err
	}
	if s.Units != nil {
		switch *s.Units {
		case "metric", "imperial":
			p.units = *s.Units
		default:
			return fmt.Errorf("units must be 'metric' or 'imperial', got %q", *s.Units)
		}
	}
	if s.Precision != nil {
		if *s.Precision < 0 || *s.Precision > 6 {
			return fmt.Errorf("precision must be between 0 and 6, got %d", *s.Precision)
		}
		p.precision = *s.Precision
	}
	if s.ShowArea != nil {
		p.showArea = *s.ShowArea
	}
	if s.Compact != nil {
		p.compact = *s.Compact
	}
	return nil
}

// Layout returns the rows the panel draws.
func (p *Panel) Layout() []string {
	unit := "m"
	if p.units == "imperial" {
		unit = "ft"
	}
	var rows []string
	if p.compact {
		rows = append(rows, fmt.Sprintf("xyz [%s] %%.%df", unit, p.precision))
	} else {
		for _, axis := range []string{"x", "y", "z"} {
			rows = append(rows, fmt.Sprintf("%s [%s] %%.%df", axis, unit, p.precision))
		}
	}
	if p.showArea {
		rows = append(rows, fmt.Sprintf("area [%s²] %%.%df", unit, p.precision))
	}
	return rows
}

func (p *Panel) Register(ctx context.Context, h host.Host) error {
	return h.RegisterClass(ctx, host.Class{
		IDName: IDName,
		Kind:   host.KindPanel,
		Label:  "Dimensions",
		Space:  "VIEW_3D",
		Layout: p.Layout(),
	})
}

func (p *Panel) Unregister(ctx context.Context, h host.Host) error {
	return h.UnregisterClass(ctx, IDName)
}

// Register adds the implementations to the catalog.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterClass("dimensions.panel", newPanel)
}
