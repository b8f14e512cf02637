package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/taskregistry/internal/shared/paths"
	"github.com/GriffinCanCode/taskregistry/internal/shared/types"
)

// Change is a definition file event that invalidated a cache entry
type Change struct {
	Category types.Category
	Name     string
	Op       fsnotify.Op
}

// Watcher invalidates cached entities when their base or overlay file changes
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	manager   *Manager
	logger    *zap.Logger
	changes   chan Change
	done      chan struct{}
	stopOnce  sync.Once
}

// NewWatcher creates a watcher for manager's registry root
func NewWatcher(manager *Manager) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		manager:   manager,
		logger:    manager.logger,
		changes:   make(chan Change, 64),
		done:      make(chan struct{}),
	}, nil
}

// Start watches the root and every existing category directory. The
// returned channel receives each change after its entry was invalidated;
// changes are dropped while the channel is full.
func (w *Watcher) Start() (<-chan Change, error) {
	root := w.manager.Root()
	if err := w.fsWatcher.Add(root); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", root, err)
	}

	layout := paths.New(root)
	for _, category := range types.Categories() {
		dir := layout.CategoryDir(category)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := w.fsWatcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}

	go w.loop()

	return w.changes, nil
}

// Stop terminates the watcher and releases resources
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Registry watcher error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	dir := filepath.Dir(event.Name)
	if filepath.Clean(dir) == filepath.Clean(w.manager.Root()) {
		w.watchNewCategory(event)
		return
	}

	category := types.Category(filepath.Base(dir))
	if !category.Valid() {
		return
	}
	name, ok := paths.EntityName(event.Name)
	if !ok {
		return
	}

	w.manager.Invalidate(category, name)
	w.logger.Debug("Registry definition changed",
		zap.String("category", string(category)),
		zap.String("name", name),
		zap.String("op", event.Op.String()))

	// Non-blocking send - drop if channel full
	select {
	case w.changes <- Change{Category: category, Name: name, Op: event.Op}:
	default:
	}
}

// watchNewCategory starts watching a category directory created after Start
func (w *Watcher) watchNewCategory(event fsnotify.Event) {
	if event.Op&fsnotify.Create == 0 || !types.Category(filepath.Base(event.Name)).Valid() {
		return
	}
	if info, err := os.Stat(event.Name); err != nil || !info.IsDir() {
		return
	}
	if err := w.fsWatcher.Add(event.Name); err != nil {
		w.logger.Warn("Failed to watch category directory", zap.String("dir", event.Name), zap.Error(err))
	}
}
