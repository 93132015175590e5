package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/KaramelBytes/sdgdash/internal/catalog"
	"github.com/KaramelBytes/sdgdash/internal/source"
)

// ReadFunc reads a raw source from disk.
type ReadFunc func(path string) (*source.RawTable, error)

// Observer receives one call per actual (non-cached) load.
type Observer interface {
	ObserveLoad(outcome string, d time.Duration)
}

// Cache memoizes clean tables by source identity: absolute path, size and
// modification time. A key is populated at most once even under concurrent
// callers; cached tables are shared and must be treated as read-only.
type Cache struct {
	opt      Options
	read     ReadFunc
	observer Observer

	group   singleflight.Group
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	table *Table
	stats Stats
}

// NewCache builds a cache. A nil read uses source.Read; a nil observer is allowed.
func NewCache(opt Options, read ReadFunc, observer Observer) *Cache {
	if read == nil {
		read = source.Read
	}
	return &Cache{
		opt:      opt,
		read:     read,
		observer: observer,
		entries:  map[string]cacheEntry{},
	}
}

// Load returns the clean table for path, normalizing it on first use.
func (c *Cache) Load(ctx context.Context, path string) (*Table, Stats, error) {
	key, err := identity(path)
	if err != nil {
		c.observe("not_found", 0)
		return &Table{}, Stats{}, err
	}
	if e, ok := c.lookup(key); ok {
		return e.table, e.stats, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		if e, ok := c.lookup(key); ok {
			return e, nil
		}
		start := time.Now()
		raw, err := c.read(path)
		if err != nil {
			c.observe("error", time.Since(start))
			return nil, fmt.Errorf("read source %s: %w", filepath.Base(path), err)
		}
		t, st := NormalizeWithStats(raw, c.opt)
		// legacy display names get their code prefix
		t = t.Rename(catalog.PresentationMap())
		e := cacheEntry{table: t, stats: st}
		c.mu.Lock()
		c.entries[key] = e
		c.mu.Unlock()
		c.observe("ok", time.Since(start))
		return e, nil
	})

	select {
	case <-ctx.Done():
		return &Table{}, Stats{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return &Table{}, Stats{}, res.Err
		}
		e := res.Val.(cacheEntry)
		return e.table, e.stats, nil
	}
}

func (c *Cache) lookup(key string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache) observe(outcome string, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveLoad(outcome, d)
	}
}

func identity(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", source.ErrNotFound, path)
		}
		return "", fmt.Errorf("stat source: %w", err)
	}
	return fmt.Sprintf("%s|%d|%d", abs, info.Size(), info.ModTime().UnixNano()), nil
}
