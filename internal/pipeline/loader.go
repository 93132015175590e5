package pipeline

import (
	"context"
	"errors"

	"github.com/KaramelBytes/sdgdash/internal/logger"
	"github.com/KaramelBytes/sdgdash/internal/source"
)

// Loader tries candidate paths in order and loads the first one through the cache.
type Loader struct {
	Candidates []string
	Cache      *Cache
	Logger     *logger.Logger
}

// Result is what a load produced. Table is never nil; it is empty when the
// source is missing or unreadable, and Err says why.
type Result struct {
	Path  string
	Table *Table
	Stats Stats
	Err   error
}

// NotFound reports whether the load failed because no source exists.
func (r Result) NotFound() bool {
	return errors.Is(r.Err, source.ErrNotFound)
}

// Load never fails hard: a missing or broken source yields an empty table.
func (l *Loader) Load(ctx context.Context) Result {
	log := l.Logger
	if log == nil {
		log = logger.Discard()
	}
	path, err := source.Locate(l.Candidates)
	if err != nil {
		log.Warn("data source not found", "candidates", l.Candidates)
		return Result{Table: &Table{}, Err: err}
	}
	t, st, err := l.Cache.Load(ctx, path)
	if err != nil {
		log.Error("load data source", "path", path, "error", err)
		return Result{Path: path, Table: &Table{}, Err: err}
	}
	log.Debug("clean table ready", "path", path, "records", t.Len(), "countries", st.Countries)
	return Result{Path: path, Table: t, Stats: st}
}
