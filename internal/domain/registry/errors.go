package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/taskregistry/internal/domain/overlay"
	"github.com/GriffinCanCode/taskregistry/internal/domain/schema"
)

var ErrConstraintViolation = errors.New("registry constraint violation")

// ViolationKind names the capability a run asked for and its task lacks.
type ViolationKind string

const (
	ViolationMetric    ViolationKind = "metric"
	ViolationReport    ViolationKind = "report"
	ViolationFramework ViolationKind = "framework"
)

// ConstraintViolationError reports a run requesting something its task does
// not declare support for.
type ConstraintViolationError struct {
	Kind      ViolationKind
	Item      string
	Task      string
	Supported []string
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("%s '%s' is not supported by task '%s'. Supported %ss: [%s]",
		capitalize(string(e.Kind)), e.Item, e.Task, e.Kind, strings.Join(e.Supported, ", "))
}

func (e *ConstraintViolationError) Is(target error) bool { return target == ErrConstraintViolation }

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// errorKind labels err for metrics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, overlay.ErrNotFound):
		return "not_found"
	case errors.Is(err, overlay.ErrMalformedSource):
		return "malformed_source"
	case errors.Is(err, schema.ErrValidation):
		return "validation"
	case errors.Is(err, ErrConstraintViolation):
		return "constraint_violation"
	default:
		return "io"
	}
}
