package types

import (
	"fmt"
	"strings"
)

// Category identifies a registry namespace. Each category is a directory
// under the registry root.
type Category string

const (
	CategoryPackages    Category = "packages"
	CategoryTasks       Category = "tasks"
	CategoryDatasets    Category = "datasets"
	CategoryMetrics     Category = "metrics"
	CategoryReports     Category = "reports"
	CategoryRuns        Category = "runs"
	CategoryExperiments Category = "experiments"
)

var categories = []Category{
	CategoryPackages,
	CategoryTasks,
	CategoryDatasets,
	CategoryMetrics,
	CategoryReports,
	CategoryRuns,
	CategoryExperiments,
}

// Categories returns every registry category in a stable order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the fixed registry categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

// ParseCategory converts a directory name into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !c.Valid() {
		return "", fmt.Errorf("unknown registry category %q", s)
	}
	return c, nil
}

// RunMode selects whether development overlays are consulted.
type RunMode string

const (
	RunModeDevelopment RunMode = "development"
	RunModeProduction  RunMode = "production"
)

// ParseRunMode maps a configuration value onto a RunMode. Only "development"
// enables overlays; every other value, including the empty string, is production.
func ParseRunMode(s string) RunMode {
	if RunMode(strings.ToLower(strings.TrimSpace(s))) == RunModeDevelopment {
		return RunModeDevelopment
	}
	return RunModeProduction
}

// IsDevelopment reports whether overlays should be applied.
func (m RunMode) IsDevelopment() bool {
	return m == RunModeDevelopment
}

func (m RunMode) String() string { return string(m) }

// Decode implements envconfig.Decoder.
func (m *RunMode) Decode(value string) error {
	*m = ParseRunMode(value)
	return nil
}
