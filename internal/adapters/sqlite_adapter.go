package adapters

import (
	"context"

	"possu/internal/core"
	"possu/internal/services"
	"possu/internal/storage"
)

// SQLiteAdapter exposes the SQLite repository through the sheets ports.
// Writes go through EntryService so each new entry is announced for sync.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.EntryService
}

func NewSQLiteAdapter(repo *storage.SQLiteRepository, service *services.EntryService) *SQLiteAdapter {
	return &SQLiteAdapter{storage: repo, service: service}
}

// Append implements sheets.EntryWriter
func (a *SQLiteAdapter) Append(ctx context.Context, e core.Entry) (string, error) {
	return a.service.Append(ctx, e)
}

// List implements sheets.CategoryReader
func (a *SQLiteAdapter) List(ctx context.Context) ([]string, error) {
	return a.storage.List(ctx)
}

// ListEntries implements sheets.EntryLister
func (a *SQLiteAdapter) ListEntries(ctx context.Context, year, month int) ([]core.Entry, error) {
	return a.storage.ListEntries(ctx, year, month)
}

// ReadMonthOverview implements sheets.OverviewReader
func (a *SQLiteAdapter) ReadMonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	return a.storage.ReadMonthOverview(ctx, year, month)
}

func (a *SQLiteAdapter) Ping(ctx context.Context) error {
	return a.storage.Ping(ctx)
}
