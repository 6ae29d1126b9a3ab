package app

// EntityStatus describes one registered entity.
type EntityStatus struct {
	ID     string `yaml:"id" json:"id"`
	Module string `yaml:"module" json:"module"`
	Name   string `yaml:"name" json:"name"`
	Kind   string `yaml:"kind" json:"kind"`
}

// Status is a snapshot of the loader and host state.
type Status struct {
	Package     string         `yaml:"package" json:"package"`
	Modules     []string       `yaml:"modules" json:"modules"`
	Registered  []EntityStatus `yaml:"registered" json:"registered"`
	HostClasses []string       `yaml:"host_classes" json:"host_classes"`
}

// Status returns the current state in registration order.
func (a *App) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := Status{
		Package:     a.loader.Package(),
		Modules:     a.loader.Cache().Paths(),
		HostClasses: a.host.Classes(),
	}
	for _, e := range a.loader.Ledger().Entries() {
		st.Registered = append(st.Registered, EntityStatus{
			ID:     e.ID(),
			Module: e.Module,
			Name:   e.Name,
			Kind:   e.Kind.String(),
		})
	}
	return st
}
