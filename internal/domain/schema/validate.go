package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// Report field paths with the configuration key names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// check validates an entity's field constraints.
func check(category types.Category, name string, entity any) error {
	err := validatorInstance().Struct(entity)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Category: category, Name: name, Reason: err.Error()}
	}

	fe := fieldErrs[0]
	return &ValidationError{
		Category: category,
		Name:     name,
		Field:    fieldPath(fe.Namespace()),
		Reason:   describe(fe),
	}
}

// fieldPath turns "Run.Base.model.name" into "model.name".
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	out := parts[:0]
	for _, p := range parts {
		if p == "Base" {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, ".")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s, got %v", fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}
