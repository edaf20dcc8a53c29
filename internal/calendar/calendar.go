// Package calendar enumerates the years, months and days that fall inside an
// inclusive range of instants. Every function is pure and never panics; an
// inverted range simply has nothing to offer.
package calendar

import (
	"slices"
	"time"
)

// Range is an inclusive [Start, End] pair of instants. Start after End is
// valid and selects nothing.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange returns the range [start, end].
func NewRange(start, end time.Time) Range {
	return Range{Start: start, End: end}
}

// Inverted reports whether Start is after End.
func (r Range) Inverted() bool {
	return r.Start.After(r.End)
}

// Contains reports whether t lies in the range, on a calendar-day basis in
// the range's own offsets.
func (r Range) Contains(t time.Time) bool {
	y, m, d := t.Date()
	return slices.Contains(DaysForYearAndMonth(r, y, Month(m)), d)
}

// Years lists every year from Start's year through End's year.
func Years(r Range) []int {
	if r.Inverted() {
		return nil
	}
	first, last := r.Start.Year(), r.End.Year()
	years := make([]int, 0, last-first+1)
	for y := first; y <= last; y++ {
		years = append(years, y)
	}
	return years
}

// YearOrFallback resolves preferred against Years(r).
func YearOrFallback(r Range, preferred Maybe[int]) Maybe[int] {
	return orFallback(Years(r), preferred)
}

// MonthsForYear lists the months of year that overlap the range.
func MonthsForYear(r Range, year int) []Month {
	if !inRange(r, year) {
		return nil
	}
	first, last := January, December
	if year == r.Start.Year() {
		first = Month(r.Start.Month())
	}
	if year == r.End.Year() {
		last = Month(r.End.Month())
	}
	return span(first, last)
}

// MonthOrFallback resolves preferred against MonthsForYear. No year means
// no month.
func MonthOrFallback(r Range, preferred Maybe[Month], year Maybe[int]) Maybe[Month] {
	y, ok := year.Get()
	if !ok {
		return None[Month]()
	}
	return orFallback(MonthsForYear(r, y), preferred)
}

// DaysForYearAndMonth lists the days of year/month that overlap the range.
func DaysForYearAndMonth(r Range, year int, month Month) []int {
	if !slices.Contains(MonthsForYear(r, year), month) {
		return nil
	}
	first, last := 1, LastDayOfMonth(year, month)
	if year == r.Start.Year() && month == Month(r.Start.Month()) {
		first = r.Start.Day()
	}
	if year == r.End.Year() && month == Month(r.End.Month()) {
		last = r.End.Day()
	}
	return span(first, last)
}

// DayOrFallback resolves preferred against DaysForYearAndMonth. A missing
// year or month means no day.
func DayOrFallback(r Range, preferred Maybe[int], month Maybe[Month], year Maybe[int]) Maybe[int] {
	y, ok := year.Get()
	if !ok {
		return None[int]()
	}
	m, ok := month.Get()
	if !ok {
		return None[int]()
	}
	return orFallback(DaysForYearAndMonth(r, y, m), preferred)
}

// LastDayOfMonth is the day before the first of the following month.
func LastDayOfMonth(year int, month Month) int {
	return time.Date(year, month.Time()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}

func inRange(r Range, year int) bool {
	return !r.Inverted() && year >= r.Start.Year() && year <= r.End.Year()
}

func span[T ~int](first, last T) []T {
	if first > last {
		return nil
	}
	out := make([]T, 0, int(last-first)+1)
	for v := first; v <= last; v++ {
		out = append(out, v)
	}
	return out
}
