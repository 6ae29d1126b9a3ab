package topbar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/addonkit/internal/host"
	"github.com/vk/addonkit/internal/registry"
)

func TestAppend_AddsAndRemovesMenu(t *testing.T) {
	// --- Arrange ---
	ctx := context.Background()
	h := host.NewMemory(nil)
	require.NoError(t, h.SetOption(ctx, MenusOption, []string{"TOPBAR_MT_file"}))
	e, ok := registry.NewFrom(&Module{}).Lookup("topbar.append")
	require.True(t, ok)
	impl, ok := registry.AsRegistrable(e.New())
	require.True(t, ok)

	// --- Act / Assert ---
	require.NoError(t, impl.Register(ctx, h))
	require.NoError(t, impl.Register(ctx, h))
	assert.Equal(t, []string{"TOPBAR_MT_file", IDName}, menus(h))

	require.NoError(t, impl.Unregister(ctx, h))
	assert.Equal(t, []string{"TOPBAR_MT_file"}, menus(h))
}

func TestMenu_RegistersWithHost(t *testing.T) {
	ctx := context.Background()
	h := host.NewMemory(nil)

	require.NoError(t, Menu{}.Register(ctx, h))

	c, ok := h.Class(IDName)
	require.True(t, ok)
	assert.Equal(t, host.KindMenu, c.Kind)
}
