package backend

import (
	"context"

	"possu/internal/sheets"
)

// Backend is every port the HTTP handlers and the entry CLI need.
type Backend interface {
	sheets.EntryWriter
	sheets.CategoryReader
	sheets.EntryLister
	sheets.OverviewReader
}

// Pinger is implemented by backends with a reachable dependency to probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type CleanupFunc func() error

type Result struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Close runs the cleanup func, if any.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}
