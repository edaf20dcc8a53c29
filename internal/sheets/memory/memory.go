package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"possu/internal/core"
	"possu/internal/sheets"
)

var (
	_ sheets.EntryWriter    = (*Store)(nil)
	_ sheets.CategoryReader = (*Store)(nil)
	_ sheets.EntryLister    = (*Store)(nil)
	_ sheets.OverviewReader = (*Store)(nil)
)

// DefaultCategories seed a store when no seed file is present.
var DefaultCategories = []string{"Groceries", "Housing", "Transport", "Leisure"}

// Seed is the TOML seed file layout.
type Seed struct {
	Categories []string `toml:"categories"`
}

type Store struct {
	mu    sync.Mutex
	cats  []string
	items []core.Entry
}

func New(cats []string) *Store {
	return &Store{cats: dedupe(cats)}
}

// NewFromFile loads categories from a TOML seed file. A missing file falls
// back to DefaultCategories; a malformed one is an error.
func NewFromFile(path string) (*Store, error) {
	var seed Seed
	if _, err := toml.DecodeFile(path, &seed); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("decode seed file %s: %w", path, err)
		}
	}
	if len(dedupe(seed.Categories)) == 0 {
		seed.Categories = DefaultCategories
	}
	return New(seed.Categories), nil
}

// Append stores the entry and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.Entry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = int64(len(s.items) + 1)
	s.items = append(s.items, e)
	return fmt.Sprintf("mem:%d", e.ID), nil
}

func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cats...), nil
}

func (s *Store) ListEntries(_ context.Context, year, month int) ([]core.Entry, error) {
	return s.overview(year, month).Entries, nil
}

func (s *Store) ReadMonthOverview(_ context.Context, year, month int) (core.MonthOverview, error) {
	return s.overview(year, month), nil
}

func (s *Store) overview(year, month int) core.MonthOverview {
	s.mu.Lock()
	items := append([]core.Entry(nil), s.items...)
	s.mu.Unlock()
	return core.Summarize(items, year, month)
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
