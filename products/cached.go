package products

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"lakecity/models"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// CachedReader keeps the last good catalog in memory and drops it whenever
// the backing file changes on disk.
type CachedReader struct {
	src     *FileReader
	log     *zap.Logger
	watcher *fsnotify.Watcher
	target  string

	mu     sync.RWMutex
	cached []json.RawMessage
	valid  bool
	gen    uint64
}

// NewCachedReader watches the directory holding src.Path, so atomic
// replace-by-rename of the catalog is picked up too.
func NewCachedReader(src *FileReader, log *zap.Logger) (*CachedReader, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	target, err := filepath.Abs(src.Path)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("resolve catalog path: %w", err)
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch catalog dir: %w", err)
	}

	c := &CachedReader{src: src, log: log, watcher: w, target: target}
	go c.loop()
	return c, nil
}

// ListRaw serves the cached entries, reading the file again after a change.
func (c *CachedReader) ListRaw(ctx context.Context) ([]json.RawMessage, error) {
	c.mu.RLock()
	if c.valid {
		out := make([]json.RawMessage, len(c.cached))
		copy(out, c.cached)
		c.mu.RUnlock()
		return out, nil
	}
	gen := c.gen
	c.mu.RUnlock()

	items, err := c.src.ListRaw(ctx)
	if err != nil {
		return items, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.cached = items
		c.valid = true
	}
	c.mu.Unlock()

	out := make([]json.RawMessage, len(items))
	copy(out, items)
	return out, nil
}

// List decodes the cached entries; every call gets its own copies.
func (c *CachedReader) List(ctx context.Context) ([]models.Product, error) {
	items, err := c.ListRaw(ctx)
	if err != nil {
		return []models.Product{}, err
	}
	return decodeProducts(items)
}

func (c *CachedReader) Close() error {
	return c.watcher.Close()
}

func (c *CachedReader) invalidate() {
	c.mu.Lock()
	c.valid = false
	c.cached = nil
	c.gen++
	c.mu.Unlock()
}

func (c *CachedReader) loop() {
	for {
		select {
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != c.target {
				continue
			}
			c.log.Debug("catalog changed", zap.String("op", ev.Op.String()))
			c.invalidate()
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.log.Warn("catalog watcher error", zap.Error(err))
			c.invalidate()
		}
	}
}
