package app

import (
	"github.com/vk/addonkit/internal/registry"
	"github.com/vk/addonkit/modules/cursor"
	"github.com/vk/addonkit/modules/dimensions"
	"github.com/vk/addonkit/modules/rendervis"
	"github.com/vk/addonkit/modules/topbar"
	"github.com/vk/addonkit/modules/uvdisplay"
)

// coreModules is the definitive list of all plugin implementations that are
// compiled into the addonkit binary.
var coreModules = []registry.Module{
	&cursor.Module{},
	&dimensions.Module{},
	&rendervis.Module{},
	&topbar.Module{},
	&uvdisplay.Module{},
}
