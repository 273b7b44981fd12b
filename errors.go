package statefor

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("statefor: configuration error")

	// ErrMissingFactory is matched by every *MissingFactoryError.
	ErrMissingFactory = errors.New("statefor: missing factory")

	// ErrInvalidKey is returned when an evaluated key cannot be used as a map key.
	ErrInvalidKey = errors.New("statefor: key is not comparable")
)

// ConfigurationError reports a binding that cannot work as configured:
// a missing key option at construction time, or no resolvable lookup at read time.
type ConfigurationError struct {
	Category string
	Option   string
	Err      error // optional cause
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Option == "lookup":
		return fmt.Sprintf("statefor: no lookup for category %q: pass BindingOptions.Lookup or implement LookupProvider on the host",
			e.Category)
	case e.Err != nil:
		return fmt.Sprintf("statefor: invalid option %q for category %q: %v", e.Option, e.Category, e.Err)
	default:
		return fmt.Sprintf("statefor: missing option %q for category %q", e.Option, e.Category)
	}
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

func (e *ConfigurationError) Unwrap() error { return e.Err }

// MissingFactoryError is returned when no factory is registered for a category.
type MissingFactoryError struct {
	Category string
	Name     string // lookup name that was tried, e.g. "state:onboarding"
}

func (e *MissingFactoryError) Error() string {
	return fmt.Sprintf("statefor: unknown factory %q for category %q", e.Name, e.Category)
}

func (e *MissingFactoryError) Is(target error) bool { return target == ErrMissingFactory }
