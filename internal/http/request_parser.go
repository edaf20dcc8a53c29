package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"possu/internal/calendar"
	"possu/internal/core"
	"possu/internal/dateselect"
)

// MonthParams holds a year/month taken from a query string.
type MonthParams struct {
	Year  int
	Month int
}

// ParseMonthParams reads year and month, defaulting to now's. A month
// outside 1..12 is replaced by now's month.
func ParseMonthParams(query url.Values, now time.Time) MonthParams {
	p := MonthParams{Year: now.Year(), Month: int(now.Month())}
	if v := strings.TrimSpace(query.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			p.Year = y
		}
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			p.Month = m
		}
	}
	return p
}

// DateSelectParams is one round trip of the date selector.
type DateSelectParams struct {
	ID         string
	State      dateselect.State
	Raw        map[dateselect.Level]string
	Changed    dateselect.Level
	HasChanged bool
	Preselect  time.Time
}

const defaultDateSelectID = "date"

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,31}$`)

// ParseDateSelectParams reads the selector's fields. The preselect falls
// back to now when missing or malformed; unknown ids fall back to "date".
func ParseDateSelectParams(form url.Values, now time.Time) DateSelectParams {
	p := DateSelectParams{
		ID:        defaultDateSelectID,
		Raw:       make(map[dateselect.Level]string, len(dateselect.Levels)),
		Preselect: now,
	}
	if id := strings.TrimSpace(form.Get("id")); idPattern.MatchString(id) {
		p.ID = id
	}
	for _, l := range dateselect.Levels {
		p.Raw[l] = form.Get(l.String())
	}
	p.State = dateselect.FromValues(p.Raw[dateselect.LevelYear], p.Raw[dateselect.LevelMonth], p.Raw[dateselect.LevelDay])
	if l, ok := dateselect.ParseLevel(strings.TrimSpace(form.Get("changed"))); ok {
		p.Changed, p.HasChanged = l, true
	}
	if v := strings.TrimSpace(form.Get("preselect")); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			p.Preselect = t
		}
	}
	return p
}

// ParseEntryDate parses the composed date field and checks it against r.
func ParseEntryDate(raw string, r calendar.Range) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, core.ErrInvalidDate
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, raw)
	}
	if !r.Contains(t) {
		return time.Time{}, fmt.Errorf("%w: %s", core.ErrDateOutOfRange, t.Format("2006-01-02"))
	}
	return t, nil
}

// sanitizeInput trims and drops control characters other than tab and
// newlines.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// ParseFormOrFail parses the request form; nil means success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Invalid request format")
	}
	return nil
}

// entryErrorMessage maps validation errors to user-facing text.
func entryErrorMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrDateOutOfRange):
		return "The date is outside the allowed range"
	case errors.Is(err, core.ErrInvalidDate):
		return "Choose a complete date"
	case errors.Is(err, core.ErrInvalidAmount):
		return "Invalid amount"
	case errors.Is(err, core.ErrEmptyDescription):
		return "Description is required"
	case errors.Is(err, core.ErrDescriptionLength):
		return "Description is too long"
	case errors.Is(err, core.ErrEmptyCategory):
		return "Choose a category"
	default:
		return "Invalid data: " + err.Error()
	}
}
