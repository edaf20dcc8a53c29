package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"possu/internal/core"
	"possu/internal/log"
	"possu/internal/sheets"
)

// Source is everything the cached reader needs from a backend.
type Source interface {
	sheets.EntryWriter
	sheets.CategoryReader
	sheets.EntryLister
	sheets.OverviewReader
}

// Reader caches categories and month overviews in front of a Source.
// Appending an entry invalidates the overview for its month.
type Reader struct {
	src        Source
	categories *LRU[[]string]
	overviews  *LRU[core.MonthOverview]
	logger     *log.Logger

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

const categoriesKey = "categories"

func NewReader(src Source, ttl time.Duration, logger *log.Logger) *Reader {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Reader{
		src:        src,
		categories: NewLRU[[]string](1, ttl),
		overviews:  NewLRU[core.MonthOverview](24, ttl),
		logger:     logger.WithComponent(log.ComponentBackend),
	}
}

func overviewKey(year, month int) string { return fmt.Sprintf("%04d-%02d", year, month) }

func (r *Reader) Append(ctx context.Context, e core.Entry) (string, error) {
	ref, err := r.src.Append(ctx, e)
	if err != nil {
		return "", err
	}
	r.overviews.Delete(overviewKey(e.Date.Year(), int(e.Date.Month())))
	return ref, nil
}

func (r *Reader) List(ctx context.Context) ([]string, error) {
	if cats, ok := r.categories.Get(categoriesKey); ok {
		return cats, nil
	}
	cats, err := r.src.List(ctx)
	if err != nil {
		return nil, err
	}
	r.categories.Set(categoriesKey, cats)
	return cats, nil
}

func (r *Reader) ListEntries(ctx context.Context, year, month int) ([]core.Entry, error) {
	ov, err := r.ReadMonthOverview(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return ov.Entries, nil
}

func (r *Reader) ReadMonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	key := overviewKey(year, month)
	if ov, ok := r.overviews.Get(key); ok {
		return ov, nil
	}
	ov, err := r.src.ReadMonthOverview(ctx, year, month)
	if err != nil {
		return ov, err
	}
	r.overviews.Set(key, ov)
	return ov, nil
}

// Invalidate drops everything cached.
func (r *Reader) Invalidate() {
	r.categories.Purge()
	r.overviews.Purge()
}

// StartCleanup drops expired entries every interval until Stop.
func (r *Reader) StartCleanup(interval time.Duration) {
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := r.categories.CleanExpired() + r.overviews.CleanExpired(); n > 0 {
					r.logger.Debug("Cache cleanup", log.FieldCount, n)
				}
			case <-r.stop:
				return
			}
		}
	}()
}

func (r *Reader) Stop() {
	r.stopOnce.Do(func() {
		if r.stop != nil {
			close(r.stop)
			<-r.done
		}
	})
}
