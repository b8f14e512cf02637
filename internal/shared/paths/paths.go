package paths

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
)

// File extensions
const (
	BaseExt    = ".yaml"
	OverlayExt = ".dev.yaml"
)

// Layout resolves entity locations under a registry root.
type Layout struct {
	Root string
}

// New returns a Layout rooted at root.
func New(root string) Layout {
	return Layout{Root: root}
}

// CategoryDir returns the directory holding a category's definitions.
func (l Layout) CategoryDir(category types.Category) string {
	return filepath.Join(l.Root, string(category))
}

// BaseFile returns <root>/<category>/<name>.yaml.
func (l Layout) BaseFile(category types.Category, name string) string {
	return filepath.Join(l.CategoryDir(category), name+BaseExt)
}

// OverlayFile returns <root>/<category>/<name>.dev.yaml.
func (l Layout) OverlayFile(category types.Category, name string) string {
	return filepath.Join(l.CategoryDir(category), name+OverlayExt)
}

// CategoryDirs returns the directories of every category.
func (l Layout) CategoryDirs() []string {
	cats := types.Categories()
	dirs := make([]string, len(cats))
	for i, c := range cats {
		dirs[i] = l.CategoryDir(c)
	}
	return dirs
}

// IsOverlay reports whether a file name is a development overlay.
func IsOverlay(fileName string) bool {
	return strings.HasSuffix(fileName, OverlayExt)
}

// EntityName strips the base or overlay extension from a file name. The
// second result is false for files that are not registry definitions.
func EntityName(fileName string) (string, bool) {
	base := filepath.Base(fileName)
	switch {
	case strings.HasSuffix(base, OverlayExt):
		return strings.TrimSuffix(base, OverlayExt), true
	case strings.HasSuffix(base, BaseExt):
		return strings.TrimSuffix(base, BaseExt), true
	default:
		return "", false
	}
}

// ValidateName checks that an entity name can be used for path construction.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("entity name cannot be empty")
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("entity name %q cannot be an absolute path", name)
	}
	if filepath.Clean(name) != name || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("entity name %q contains invalid path components", name)
	}
	if strings.HasSuffix(name, BaseExt) {
		return fmt.Errorf("entity name %q must not include the %s extension", name, BaseExt)
	}
	return nil
}
