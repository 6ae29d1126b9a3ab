package autoload

import (
	"github.com/vk/addonkit/internal/manifest"
	"github.com/vk/addonkit/internal/registry"
)

// Kind separates class entities from function entities.
type Kind int

const (
	KindClass Kind = iota
	KindFunc
)

func (k Kind) String() string {
	if k == KindFunc {
		return "function"
	}
	return "class"
}

// Entity is a registrable declaration of an imported module.
type Entity struct {
	Module string
	Name   string
	Kind   Kind
	// Order is the declaration's position within its module.
	Order int
	Impl  registry.Registrable
}

// ID is unique across a load cycle.
func (e Entity) ID() string {
	return e.Module + ":" + e.Name
}

// Collect returns the registrable entities of mods, split into classes and
// functions. Both slices keep module order, then declaration order.
// Declarations whose implementation lacks the capability are left out.
func Collect(mods []*Module) (classes, funcs []Entity) {
	for _, m := range mods {
		for i, b := range m.Bindings {
			impl, ok := registry.AsRegistrable(b.Value)
			if !ok {
				continue
			}
			e := Entity{Module: m.Path, Name: b.Decl.Name, Order: i, Impl: impl}
			if b.Decl.Kind == manifest.DeclFunction {
				e.Kind = KindFunc
				funcs = append(funcs, e)
			} else {
				e.Kind = KindClass
				classes = append(classes, e)
			}
		}
	}
	return classes, funcs
}
