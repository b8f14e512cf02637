package schema

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
)

var (
	sourceType        = reflect.TypeOf((*types.DependencySource)(nil)).Elem()
	customPackageType = reflect.TypeOf(types.CustomPackage{})
	runRefType        = reflect.TypeOf(types.RunRef{})

	// mapstructure quotes the offending field: "'model.name' expected type ..."
	quotedField = regexp.MustCompile(`'([^']+)'`)
)

// decode fills out from raw.
func decode(category types.Category, name string, raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			sourceHook,
			customPackageHook,
			runRefHook,
		),
		Result:   out,
		TagName:  "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := dec.Decode(raw); err != nil {
		return decodeError(category, name, err)
	}
	return nil
}

// decodeVariant decodes a nested mapping with the default decoder.
func decodeVariant(raw map[string]any, out any) error {
	return mapstructure.Decode(raw, out)
}

func decodeError(category types.Category, name string, err error) error {
	var fe *fieldError
	if errors.As(err, &fe) {
		return &ValidationError{Category: category, Name: name, Field: fe.Field, Reason: fe.Reason}
	}

	field := ""
	if m := quotedField.FindStringSubmatch(err.Error()); m != nil {
		field = m[1]
	}
	return &ValidationError{Category: category, Name: name, Field: field, Reason: err.Error()}
}

func asMapping(data any) (map[string]any, bool) {
	switch m := data.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	default:
		return nil, false
	}
}

// sourceHook resolves the DependencySource union by its "type" discriminant.
func sourceHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != sourceType {
		return data, nil
	}
	if src, ok := data.(types.DependencySource); ok {
		return src, nil
	}

	m, ok := asMapping(data)
	if !ok {
		return nil, &fieldError{Field: "source", Reason: fmt.Sprintf("expected a mapping, got %T", data)}
	}

	tag, _ := m["type"].(string)
	switch types.SourceType(tag) {
	case types.SourceLocal:
		src := types.LocalSource{Type: types.SourceLocal, Editable: true}
		if err := decodeVariant(m, &src); err != nil {
			return nil, &fieldError{Field: "source", Reason: err.Error()}
		}
		return src, nil
	case types.SourceGit:
		src := types.GitSource{Type: types.SourceGit}
		if err := decodeVariant(m, &src); err != nil {
			return nil, &fieldError{Field: "source", Reason: err.Error()}
		}
		return src, nil
	case types.SourcePyPI:
		src := types.PyPISource{Type: types.SourcePyPI}
		if err := decodeVariant(m, &src); err != nil {
			return nil, &fieldError{Field: "source", Reason: err.Error()}
		}
		return src, nil
	case "":
		return nil, &fieldError{Field: "source.type", Reason: "discriminant is required (local, git or pypi)"}
	default:
		return nil, &fieldError{
			Field:  "source.type",
			Reason: fmt.Sprintf("unknown source type %q (expected local, git or pypi)", tag),
		}
	}
}

// customPackageHook accepts a package name or an inline package definition.
func customPackageHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != customPackageType {
		return data, nil
	}

	switch v := data.(type) {
	case types.CustomPackage:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, &fieldError{Field: "custom_packages", Reason: "package name cannot be empty"}
		}
		return types.CustomPackage{Name: v}, nil
	}

	m, ok := asMapping(data)
	if !ok {
		return nil, &fieldError{
			Field:  "custom_packages",
			Reason: fmt.Sprintf("expected a package name or definition, got %T", data),
		}
	}
	inlineName, _ := m["name"].(string)
	pkg, err := NewPackage(inlineName, m)
	if err != nil {
		return nil, nested("custom_packages", err)
	}
	return types.CustomPackage{Name: pkg.Name, Inline: pkg}, nil
}

// runRefHook accepts a run name or an inline run definition.
func runRefHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != runRefType {
		return data, nil
	}

	switch v := data.(type) {
	case types.RunRef:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, &fieldError{Field: "tasks", Reason: "run name cannot be empty"}
		}
		return types.RunRef{Name: v}, nil
	}

	m, ok := asMapping(data)
	if !ok {
		return nil, &fieldError{
			Field:  "tasks",
			Reason: fmt.Sprintf("expected a run name or definition, got %T", data),
		}
	}
	inlineName, _ := m["name"].(string)
	run, err := NewRun(inlineName, m)
	if err != nil {
		return nil, nested("tasks", err)
	}
	return types.RunRef{Name: run.Name, Inline: run}, nil
}

// captureUnknown copies the keys of raw that match no field of shape into dst.
// Keys are compared with the mapstructure tag names the way the decoder does,
// so dotted keys are treated like any other key. Keys already in dst are kept.
func captureUnknown(dst map[string]any, raw map[string]any, shape any) map[string]any {
	known := fieldNames(reflect.TypeOf(shape))
	for key, value := range raw {
		if _, ok := known[strings.ToLower(key)]; ok {
			continue
		}
		if dst == nil {
			dst = make(map[string]any)
		}
		if _, exists := dst[key]; !exists {
			dst[key] = value
		}
	}
	return dst
}

// fieldNames returns the lowercased keys the decoder maps onto t, following
// squashed embedded structs.
func fieldNames(t reflect.Type) map[string]struct{} {
	names := make(map[string]struct{})
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return names
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, opts, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if tag == "-" {
			continue
		}
		if field.Anonymous && strings.Contains(","+opts+",", ",squash,") {
			for name := range fieldNames(field.Type) {
				names[name] = struct{}{}
			}
			continue
		}
		if tag == "" {
			tag = field.Name
		}
		names[strings.ToLower(tag)] = struct{}{}
	}
	return names
}
