package core

import (
	"sort"
	"time"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Total      Money
	ByCategory []CategoryAmount
	Entries    []Entry
}

// Summarize builds the overview of the entries dated in year/month, in each
// entry's own offset. Categories are sorted by amount, largest first.
func Summarize(entries []Entry, year, month int) MonthOverview {
	ov := MonthOverview{Year: year, Month: month}
	totals := map[string]int64{}
	for _, e := range entries {
		if e.Date.Year() != year || e.Date.Month() != time.Month(month) {
			continue
		}
		ov.Entries = append(ov.Entries, e)
		ov.Total.Cents += e.Amount.Cents
		totals[e.Category] += e.Amount.Cents
	}
	for name, cents := range totals {
		ov.ByCategory = append(ov.ByCategory, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
	}
	sort.Slice(ov.ByCategory, func(i, j int) bool {
		a, b := ov.ByCategory[i], ov.ByCategory[j]
		if a.Amount.Cents != b.Amount.Cents {
			return a.Amount.Cents > b.Amount.Cents
		}
		return a.Name < b.Name
	})
	sort.SliceStable(ov.Entries, func(i, j int) bool {
		return ov.Entries[i].Date.Before(ov.Entries[j].Date)
	})
	return ov
}
