package schema

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
)

var ErrValidation = errors.New("registry validation failed")

// ValidationError reports a mapping that does not satisfy an entity schema.
type ValidationError struct {
	Category types.Category
	Name     string
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed for %s/%s: %s", e.Category, e.Name, e.Reason)
	}
	return fmt.Sprintf("validation failed for %s/%s: %s: %s", e.Category, e.Name, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// fieldError is raised inside decode hooks, before category and name are known.
type fieldError struct {
	Field  string
	Reason string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// nested lifts a failure of an inline definition into the enclosing field.
func nested(field string, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		path := field
		if ve.Field != "" {
			path = field + "." + ve.Field
		}
		return &fieldError{Field: path, Reason: ve.Reason}
	}
	return &fieldError{Field: field, Reason: err.Error()}
}
