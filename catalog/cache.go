package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gpa-calculator/models"

	"github.com/fsnotify/fsnotify"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// Cache keeps loaded departments until they are invalidated, either
// explicitly or by Watch. Failed loads are not cached. Cached departments are
// shared between callers and must not be modified.
//
// A load that was in flight when its department was invalidated still
// answers its caller but is not stored.
type Cache struct {
	loader  *Loader
	enabled bool
	logger  log.Logger
	load    func(ctx context.Context, id string) (*models.Department, error)

	mu      sync.RWMutex
	entries map[string]*models.Department
	gens    map[string]uint64
	epoch   uint64
}

// NewCache wraps loader. With enabled false every lookup reloads from disk.
func NewCache(loader *Loader, enabled bool, logger log.Logger) *Cache {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Cache{
		loader:  loader,
		enabled: enabled,
		logger:  log.With(logger, "component", "catalog_cache"),
		load:    loader.LoadDepartment,
		entries: make(map[string]*models.Department),
		gens:    make(map[string]uint64),
	}
}

func (c *Cache) Loader() *Loader {
	return c.loader
}

func (c *Cache) ListDepartments(ctx context.Context) ([]string, error) {
	return c.loader.ListDepartments(ctx)
}

func (c *Cache) Department(ctx context.Context, id string) (*models.Department, error) {
	if !c.enabled {
		return c.load(ctx, id)
	}

	c.mu.RLock()
	dept, ok := c.entries[id]
	epoch, gen := c.epoch, c.gens[id]
	c.mu.RUnlock()
	if ok {
		return dept, nil
	}

	dept, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.epoch == epoch && c.gens[id] == gen {
		c.entries[id] = dept
	} else {
		level.Debug(c.logger).Log("msg", "department invalidated during load, not caching", "department", id)
	}
	c.mu.Unlock()
	return dept, nil
}

func (c *Cache) Cached(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[id]
	return ok
}

func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	_, ok := c.entries[id]
	delete(c.entries, id)
	c.gens[id]++
	c.mu.Unlock()
	if ok {
		level.Info(c.logger).Log("msg", "department invalidated", "department", id)
	}
}

func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]*models.Department)
	c.epoch++
	c.mu.Unlock()
	level.Info(c.logger).Log("msg", "catalog cache cleared", "departments", n)
}

// Watch invalidates departments whose files change until ctx is done.
// A change directly under the data root clears the whole cache.
func (c *Cache) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()

	root := filepath.Clean(c.loader.Root())
	if err := w.Add(root); err != nil {
		return errors.Wrapf(err, "watch %q", root)
	}
	depts, err := c.loader.ListDepartments(ctx)
	if err != nil {
		return err
	}
	for _, d := range depts {
		if err := w.Add(filepath.Join(root, d)); err != nil {
			level.Warn(c.logger).Log("msg", "cannot watch department", "department", d, "err", err)
		}
	}
	level.Info(c.logger).Log("msg", "watching catalog", "root", root, "departments", len(depts))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			c.handleEvent(w, root, event)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			level.Warn(c.logger).Log("msg", "watch error", "err", err)
		}
	}
}

func (c *Cache) handleEvent(w *fsnotify.Watcher, root string, event fsnotify.Event) {
	rel, err := filepath.Rel(root, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) == 1 {
		// A department directory itself was added, removed or renamed.
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				_ = w.Add(event.Name)
			}
		}
		c.InvalidateAll()
		return
	}
	c.Invalidate(parts[0])
}
