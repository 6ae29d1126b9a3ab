package autoload

import "fmt"

// DiscoveryError reports a plugin root that cannot be walked.
type DiscoveryError struct {
	Root string
	Err  error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovering modules under %s: %v", e.Root, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// ImportError reports a plugin source file that failed to import.
type ImportError struct {
	Module string
	File   string
	Err    error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("importing module %s: %v", e.Module, e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// RegistrationError reports an entity whose register or unregister callable
// failed or panicked.
type RegistrationError struct {
	Entity    string
	Direction Direction
	Err       error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Direction, e.Entity, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }
