// Package dateselect drives a three level year, month, day selection bounded
// by a calendar.Range. Update is a pure reducer; Controller wraps it for a
// single widget instance.
package dateselect

import (
	"slices"
	"time"

	"possu/internal/calendar"
)

// Level names one of the three dependent selections.
type Level int

const (
	LevelYear Level = iota
	LevelMonth
	LevelDay
)

// Levels in cascade order.
var Levels = [...]Level{LevelYear, LevelMonth, LevelDay}

func (l Level) String() string {
	switch l {
	case LevelYear:
		return "year"
	case LevelMonth:
		return "month"
	case LevelDay:
		return "day"
	default:
		return "unknown"
	}
}

// Label is the human readable caption for the level.
func (l Level) Label() string {
	switch l {
	case LevelYear:
		return "Year"
	case LevelMonth:
		return "Month"
	case LevelDay:
		return "Day"
	default:
		return ""
	}
}

// ParseLevel is the inverse of Level.String.
func ParseLevel(s string) (Level, bool) {
	for _, l := range Levels {
		if l.String() == s {
			return l, true
		}
	}
	return 0, false
}

// State is the current selection. Any level may be absent.
type State struct {
	Year  calendar.Maybe[int]
	Month calendar.Maybe[calendar.Month]
	Day   calendar.Maybe[int]
}

// Action is a direct choice at one level. An absent Value clears it.
type Action struct {
	Level Level
	Value calendar.Maybe[int]
}

func SelectYear(y int) Action { return Action{Level: LevelYear, Value: calendar.Some(y)} }

func SelectMonth(m calendar.Month) Action {
	return Action{Level: LevelMonth, Value: calendar.Some(int(m))}
}

func SelectDay(d int) Action { return Action{Level: LevelDay, Value: calendar.Some(d)} }

// SelectNone clears the given level.
func SelectNone(l Level) Action { return Action{Level: l} }

// Init seeds the state from preselect, falling back level by level.
func Init(r calendar.Range, preselect time.Time) State {
	y, m, d := preselect.Date()
	var s State
	s.Year = calendar.YearOrFallback(r, calendar.Some(y))
	s.Month = calendar.MonthOrFallback(r, calendar.Some(calendar.MonthFromInt(int(m))), s.Year)
	s.Day = calendar.DayOrFallback(r, calendar.Some(d), s.Month, s.Year)
	return s
}

// Update applies a to s and settles every level below it, strictly in
// year, month, day order. A chosen value that is not currently offered
// becomes absent rather than being clamped.
func Update(r calendar.Range, s State, a Action) State {
	switch a.Level {
	case LevelYear:
		s.Year = offered(calendar.Years(r), a.Value)
		s.Month = calendar.MonthOrFallback(r, s.Month, s.Year)
		s.Day = calendar.DayOrFallback(r, s.Day, s.Month, s.Year)
	case LevelMonth:
		s.Month = calendar.None[calendar.Month]()
		if y, ok := s.Year.Get(); ok {
			if v, ok := a.Value.Get(); ok {
				m := calendar.Month(v)
				s.Month = offered(calendar.MonthsForYear(r, y), calendar.Some(m))
			}
		}
		s.Day = calendar.DayOrFallback(r, s.Day, s.Month, s.Year)
	case LevelDay:
		s.Day = calendar.None[int]()
		y, yok := s.Year.Get()
		m, mok := s.Month.Get()
		if yok && mok {
			s.Day = offered(calendar.DaysForYearAndMonth(r, y, m), a.Value)
		}
	}
	return s
}

// Compose substitutes the selected year, month and day into template,
// keeping its time of day and location. Any absent level yields None.
func Compose(s State, template time.Time) calendar.Maybe[time.Time] {
	y, ok := s.Year.Get()
	if !ok {
		return calendar.None[time.Time]()
	}
	m, ok := s.Month.Get()
	if !ok {
		return calendar.None[time.Time]()
	}
	d, ok := s.Day.Get()
	if !ok {
		return calendar.None[time.Time]()
	}
	hh, mm, ss := template.Clock()
	return calendar.Some(time.Date(y, m.Time(), d, hh, mm, ss, template.Nanosecond(), template.Location()))
}

func offered[T comparable](options []T, v calendar.Maybe[T]) calendar.Maybe[T] {
	if x, ok := v.Get(); ok && slices.Contains(options, x) {
		return v
	}
	return calendar.None[T]()
}
