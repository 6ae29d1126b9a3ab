package testutil

import "github.com/vk/addonkit/internal/registry"

// SimpleModule is a test helper for easily creating a mock module that
// registers a single class and/or function implementation.
type SimpleModule struct {
	ClassName string
	Class     func() any

	FuncName string
	Func     registry.Funcs
}

// Register implements registry.Module.
func (m *SimpleModule) Register(r *registry.Registry) {
	if m.ClassName != "" {
		r.RegisterClass(m.ClassName, m.Class)
	}
	if m.FuncName != "" {
		r.RegisterFunc(m.FuncName, m.Func)
	}
}
