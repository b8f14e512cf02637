package overlay

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/GriffinCanCode/taskregistry/internal/shared/paths"
	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
)

// Loader reads and merges definition files. It keeps no state between calls;
// caching is the registry's job.
type Loader struct {
	layout paths.Layout
}

// NewLoader creates a loader for the registry tree at root.
func NewLoader(root string) *Loader {
	return &Loader{layout: paths.New(root)}
}

// Root returns the registry root directory.
func (l *Loader) Root() string {
	return l.layout.Root
}

// Layout returns the path layout used by the loader.
func (l *Loader) Layout() paths.Layout {
	return l.layout
}

// Load returns the raw mapping for (category, name). In development mode the
// overlay, when present, is merged over the base with Merge.
func (l *Loader) Load(category types.Category, name string, mode types.RunMode) (map[string]any, error) {
	basePath := l.layout.BaseFile(category, name)
	if err := paths.ValidateName(name); err != nil {
		return nil, &NotFoundError{Category: category, Name: name, Path: basePath, Err: err}
	}

	exists, err := fileExists(basePath)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &NotFoundError{Category: category, Name: name, Path: basePath}
	}

	data, err := ParseFile(basePath)
	if err != nil {
		return nil, err
	}

	if !mode.IsDevelopment() {
		return data, nil
	}

	overlayPath := l.layout.OverlayFile(category, name)
	exists, err = fileExists(overlayPath)
	if err != nil {
		return nil, err
	}
	if !exists {
		return data, nil
	}

	overrides, err := ParseFile(overlayPath)
	if err != nil {
		return nil, err
	}
	return Merge(data, overrides), nil
}

// ParseFile reads and parses a single definition file.
func ParseFile(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	data, err := Parse(content)
	if err != nil {
		return nil, &MalformedSourceError{Path: path, Err: err}
	}
	return data, nil
}

// Parse decodes YAML text into a mapping. Empty and null documents yield an
// empty mapping.
func Parse(content []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return map[string]any{}, nil
	}

	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

func fileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return !info.IsDir(), nil
}
