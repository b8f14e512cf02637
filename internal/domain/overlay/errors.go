package overlay

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
)

var (
	ErrNotFound        = errors.New("registry definition not found")
	ErrMalformedSource = errors.New("malformed registry source")
)

// NotFoundError reports a (category, name) without a base definition file.
type NotFoundError struct {
	Category types.Category
	Name     string
	Path     string
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("base config not found for %s/%s: %s: %v", e.Category, e.Name, e.Path, e.Err)
	}
	return fmt.Sprintf("base config not found for %s/%s: %s", e.Category, e.Name, e.Path)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *NotFoundError) Unwrap() error { return e.Err }

// MalformedSourceError reports a definition file that is not valid YAML or
// whose document root is not a mapping.
type MalformedSourceError struct {
	Path string
	Err  error
}

func (e *MalformedSourceError) Error() string {
	return fmt.Sprintf("malformed registry source %s: %v", e.Path, e.Err)
}

func (e *MalformedSourceError) Is(target error) bool { return target == ErrMalformedSource }

func (e *MalformedSourceError) Unwrap() error { return e.Err }
