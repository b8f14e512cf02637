package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/GriffinCanCode/taskregistry/internal/shared/paths"
	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
)

// SeedFailure is a definition the seeder could not resolve
type SeedFailure struct {
	Category types.Category
	Name     string
	Err      error
}

// SeedReport summarizes a Seed call
type SeedReport struct {
	Loaded    int
	Failed    []SeedFailure
	Durations []time.Duration // one per successful resolution
}

// Quantile returns the q-th quantile of the resolution durations. q is
// clamped to [0, 1] (NaN counts as 0), so out-of-range values yield the
// fastest or slowest resolution.
func (r *SeedReport) Quantile(q float64) time.Duration {
	if len(r.Durations) == 0 {
		return 0
	}
	switch {
	case !(q > 0):
		q = 0
	case q > 1:
		q = 1
	}
	sorted := make([]float64, len(r.Durations))
	for i, d := range r.Durations {
		sorted[i] = float64(d)
	}
	sort.Float64s(sorted)

	return time.Duration(stat.Quantile(q, stat.Empirical, sorted, nil))
}

// Seeder resolves every definition under a registry root so that broken
// files surface at startup instead of on first use
type Seeder struct {
	manager *Manager
	logger  *zap.Logger
}

// NewSeeder creates a seeder that fills manager's cache
func NewSeeder(manager *Manager) *Seeder {
	return &Seeder{
		manager: manager,
		logger:  manager.logger,
	}
}

type seedKey struct {
	category types.Category
	name     string
}

// Seed walks the registry root and resolves each base definition found.
// Resolution failures are collected in the report and do not stop the walk.
// A missing root is not an error.
func (s *Seeder) Seed(ctx context.Context) (*SeedReport, error) {
	root := s.manager.Root()
	s.logger.Info("Seeding registry", zap.String("root", root), zap.String("mode", string(s.manager.RunMode())))

	report := &SeedReport{Failed: []SeedFailure{}, Durations: []time.Duration{}}
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("Registry root not found", zap.String("root", root))
		return report, nil
	}

	keys, err := s.discover(ctx, root)
	if err != nil {
		return nil, err
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := s.manager.now()
		if _, err := s.manager.Resolve(key.category, key.name); err != nil {
			s.logger.Warn("Failed to seed definition",
				zap.String("category", string(key.category)),
				zap.String("name", key.name),
				zap.Error(err))
			report.Failed = append(report.Failed, SeedFailure{Category: key.category, Name: key.name, Err: err})
			continue
		}
		report.Loaded++
		report.Durations = append(report.Durations, s.manager.now().Sub(start))
	}

	s.logger.Info("Seeding complete", zap.Int("loaded", report.Loaded), zap.Int("failed", len(report.Failed)))
	return report, nil
}

// discover returns every (category, name) with a base file, sorted by
// category order then name. fastwalk calls back concurrently.
func (s *Seeder) discover(ctx context.Context, root string) ([]seedKey, error) {
	var (
		mu   sync.Mutex
		keys []seedKey
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil || rel == "." {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")

		if d.IsDir() {
			if len(parts) == 1 && types.Category(parts[0]).Valid() {
				return nil
			}
			return filepath.SkipDir
		}
		if len(parts) != 2 || paths.IsOverlay(parts[1]) {
			return nil
		}
		name, ok := paths.EntityName(parts[1])
		if !ok {
			return nil
		}

		mu.Lock()
		keys = append(keys, seedKey{category: types.Category(parts[0]), name: name})
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk registry root %s: %w", root, err)
	}

	order := make(map[types.Category]int, len(types.Categories()))
	for i, category := range types.Categories() {
		order[category] = i
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].category != keys[j].category {
			return order[keys[i].category] < order[keys[j].category]
		}
		return keys[i].name < keys[j].name
	})
	return keys, nil
}
