package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/GriffinCanCode/taskregistry/internal/domain/overlay"
	"github.com/GriffinCanCode/taskregistry/internal/domain/schema"
	"github.com/GriffinCanCode/taskregistry/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/taskregistry/internal/shared/paths"
	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
)

// categoryCache memoizes the entities of one category.
type categoryCache struct {
	entries sync.Map // name -> types.Entity
	group   singleflight.Group
	size    int64 // Atomic counter for cache size

	// Guards generations and epoch, and orders stores against invalidation
	mu          sync.Mutex
	generations map[string]uint64
	epoch       uint64 // bumped by Reset
}

// generation identifies the invalidation state of one name.
type generation struct {
	epoch uint64
	name  uint64
}

func (c *categoryCache) generation(name string) generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return generation{epoch: c.epoch, name: c.generations[name]}
}

// storeIfCurrent caches entity unless name was invalidated after gen was
// read. It returns the cached entity and whether it was newly stored.
func (c *categoryCache) storeIfCurrent(name string, entity types.Entity, gen generation) (types.Entity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if (generation{epoch: c.epoch, name: c.generations[name]}) != gen {
		return entity, false
	}
	actual, loaded := c.entries.LoadOrStore(name, entity)
	if !loaded {
		atomic.AddInt64(&c.size, 1)
	}
	return actual.(types.Entity), !loaded
}

// invalidate bumps name's generation and drops its entry.
func (c *categoryCache) invalidate(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations == nil {
		c.generations = make(map[string]uint64)
	}
	c.generations[name]++
	c.group.Forget(name)
	if _, existed := c.entries.LoadAndDelete(name); !existed {
		return false
	}
	atomic.AddInt64(&c.size, -1)
	return true
}

// reset bumps the epoch and drops every entry.
func (c *categoryCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.entries.Range(func(key, _ interface{}) bool {
		name := key.(string)
		c.group.Forget(name)
		if _, existed := c.entries.LoadAndDelete(name); existed {
			atomic.AddInt64(&c.size, -1)
		}
		return true
	})
}

// Manager resolves registry definitions and caches them by (category, name)
type Manager struct {
	loader  *overlay.Loader
	mode    types.RunMode
	caches  map[types.Category]*categoryCache
	logger  *zap.Logger
	metrics *monitoring.RegistryMetrics
	now     func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMetrics records cache and resolution metrics
func WithMetrics(metrics *monitoring.RegistryMetrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// WithClock overrides the time source used for durations and manifests
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a manager for the registry tree at root. mode is fixed
// for the manager's lifetime.
func NewManager(root string, mode types.RunMode, opts ...Option) *Manager {
	m := &Manager{
		loader: overlay.NewLoader(root),
		mode:   mode,
		caches: make(map[types.Category]*categoryCache, len(types.Categories())),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, category := range types.Categories() {
		m.caches[category] = &categoryCache{}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Root returns the registry root directory
func (m *Manager) Root() string {
	return m.loader.Root()
}

// RunMode returns the mode the manager was created with
func (m *Manager) RunMode() types.RunMode {
	return m.mode
}

// Resolve returns the entity for (category, name), loading it on first use.
// Loader and schema errors are returned unchanged and nothing is cached.
func (m *Manager) Resolve(category types.Category, name string) (types.Entity, error) {
	cache, ok := m.caches[category]
	if !ok {
		return nil, &schema.ValidationError{Category: category, Name: name, Reason: "unknown registry category"}
	}

	if cached, ok := cache.entries.Load(name); ok {
		m.metrics.RecordCacheHit(string(category))
		return cached.(types.Entity), nil
	}

	v, err, _ := cache.group.Do(name, func() (interface{}, error) {
		// A concurrent caller may have stored it between Load and Do
		if cached, ok := cache.entries.Load(name); ok {
			return cached, nil
		}
		return m.load(category, cache, name)
	})
	if err != nil {
		m.logger.Warn("Failed to resolve registry entity",
			zap.String("category", string(category)),
			zap.String("name", name),
			zap.Error(err))
		m.metrics.RecordResolveError(string(category), errorKind(err))
		return nil, err
	}
	return v.(types.Entity), nil
}

func (m *Manager) load(category types.Category, cache *categoryCache, name string) (types.Entity, error) {
	start := m.now()
	gen := cache.generation(name)

	raw, err := m.loader.Load(category, name, m.mode)
	if err != nil {
		return nil, err
	}
	entity, err := schema.Construct(category, name, raw)
	if err != nil {
		return nil, err
	}
	if entity.EntityName() != name {
		m.logger.Warn("Definition name differs from its file name",
			zap.String("category", string(category)),
			zap.String("file", name),
			zap.String("name", entity.EntityName()))
	}

	actual, stored := cache.storeIfCurrent(name, entity, gen)
	if stored {
		m.metrics.SetCachedEntities(string(category), atomic.LoadInt64(&cache.size))
	} else if actual == entity {
		m.logger.Debug("Registry entity invalidated while loading; not cached",
			zap.String("category", string(category)),
			zap.String("name", name))
	}
	m.metrics.RecordResolve(string(category), m.now().Sub(start))
	m.logger.Debug("Resolved registry entity",
		zap.String("category", string(category)),
		zap.String("name", name),
		zap.String("mode", string(m.mode)))
	return actual, nil
}

func get[T types.Entity](m *Manager, category types.Category, name string) (T, error) {
	var zero T
	entity, err := m.Resolve(category, name)
	if err != nil {
		return zero, err
	}
	typed, ok := entity.(T)
	if !ok {
		return zero, fmt.Errorf("registry entity %s/%s has unexpected type %T", category, name, entity)
	}
	return typed, nil
}

// GetPackage returns the package definition name
func (m *Manager) GetPackage(name string) (*types.Package, error) {
	return get[*types.Package](m, types.CategoryPackages, name)
}

// GetTask returns the task definition name
func (m *Manager) GetTask(name string) (*types.Task, error) {
	return get[*types.Task](m, types.CategoryTasks, name)
}

// GetDataset returns the dataset definition name
func (m *Manager) GetDataset(name string) (*types.Dataset, error) {
	return get[*types.Dataset](m, types.CategoryDatasets, name)
}

// GetMetric returns the metric definition name
func (m *Manager) GetMetric(name string) (*types.Metric, error) {
	return get[*types.Metric](m, types.CategoryMetrics, name)
}

// GetReport returns the report definition name
func (m *Manager) GetReport(name string) (*types.Report, error) {
	return get[*types.Report](m, types.CategoryReports, name)
}

// GetRun returns the run definition name
func (m *Manager) GetRun(name string) (*types.Run, error) {
	return get[*types.Run](m, types.CategoryRuns, name)
}

// GetExperiment returns the experiment plan name
func (m *Manager) GetExperiment(name string) (*types.ExperimentPlan, error) {
	return get[*types.ExperimentPlan](m, types.CategoryExperiments, name)
}

// Cached reports whether (category, name) is in the cache
func (m *Manager) Cached(category types.Category, name string) bool {
	cache, ok := m.caches[category]
	if !ok {
		return false
	}
	_, ok = cache.entries.Load(name)
	return ok
}

// Invalidate drops (category, name) from the cache. The next lookup reloads
// it from disk, and a load already in flight returns without caching.
func (m *Manager) Invalidate(category types.Category, name string) bool {
	cache, ok := m.caches[category]
	if !ok {
		return false
	}
	if !cache.invalidate(name) {
		return false
	}
	m.metrics.SetCachedEntities(string(category), atomic.LoadInt64(&cache.size))
	m.logger.Debug("Invalidated registry entity",
		zap.String("category", string(category)),
		zap.String("name", name))
	return true
}

// Reset drops every cached entity
func (m *Manager) Reset() {
	for category, cache := range m.caches {
		cache.reset()
		m.metrics.SetCachedEntities(string(category), atomic.LoadInt64(&cache.size))
	}
}

// Stats returns the number of cached entities per category
func (m *Manager) Stats() map[types.Category]int64 {
	stats := make(map[types.Category]int64, len(m.caches))
	for category, cache := range m.caches {
		stats[category] = atomic.LoadInt64(&cache.size)
	}
	return stats
}

// List returns the sorted names of every definition in category that has a
// base file. A missing category directory lists as empty.
func (m *Manager) List(category types.Category) ([]string, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("unknown registry category %q", category)
	}

	matches, err := doublestar.Glob(os.DirFS(m.Root()), string(category)+"/*"+paths.BaseExt)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", category, err)
	}

	names := make([]string, 0, len(matches))
	for _, match := range matches {
		file := path.Base(match)
		if paths.IsOverlay(file) {
			continue
		}
		if name, ok := paths.EntityName(file); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// ListAll returns List for every category
func (m *Manager) ListAll() (map[types.Category][]string, error) {
	all := make(map[types.Category][]string, len(m.caches))
	for _, category := range types.Categories() {
		names, err := m.List(category)
		if err != nil {
			return nil, err
		}
		all[category] = names
	}
	return all, nil
}
