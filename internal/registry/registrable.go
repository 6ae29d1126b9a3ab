package registry

import (
	"context"

	"github.com/vk/addonkit/internal/host"
	"github.com/zclconf/go-cty/cty"
)

// Registrable is the capability marker. Only values implementing it (or an
// explicit Funcs pair) are registered with the host.
type Registrable interface {
	Register(ctx context.Context, h host.Host) error
	Unregister(ctx context.Context, h host.Host) error
}

// Funcs tags a pair of plain functions as registrable. A pair with either
// side missing does not qualify.
type Funcs struct {
	OnRegister   func(ctx context.Context, h host.Host) error
	OnUnregister func(ctx context.Context, h host.Host) error
}

// Complete reports whether both callables are set.
func (f Funcs) Complete() bool {
	return f.OnRegister != nil && f.OnUnregister != nil
}

func (f Funcs) Register(ctx context.Context, h host.Host) error {
	return f.OnRegister(ctx, h)
}

func (f Funcs) Unregister(ctx context.Context, h host.Host) error {
	return f.OnUnregister(ctx, h)
}

// Configurable implementations receive the settings object of their
// declaration before they are registered.
type Configurable interface {
	Configure(settings cty.Value) error
}

// AsRegistrable applies the capability check to an implementation value.
func AsRegistrable(v any) (Registrable, bool) {
	switch impl := v.(type) {
	case Funcs:
		return impl, impl.Complete()
	case *Funcs:
		if impl == nil {
			return nil, false
		}
		return *impl, impl.Complete()
	case Registrable:
		return impl, true
	}
	return nil, false
}
