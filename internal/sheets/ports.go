package sheets

import (
	"context"

	"possu/internal/core"
)

// Ports for outbound adapters.
type (
	EntryWriter interface {
		Append(ctx context.Context, e core.Entry) (rowRef string, err error)
	}

	CategoryReader interface {
		List(ctx context.Context) (categories []string, err error)
	}

	// EntryLister returns the entries dated in a given month.
	EntryLister interface {
		ListEntries(ctx context.Context, year int, month int) ([]core.Entry, error)
	}

	// OverviewReader provides totals for a specific year and month.
	OverviewReader interface {
		ReadMonthOverview(ctx context.Context, year int, month int) (core.MonthOverview, error)
	}
)
