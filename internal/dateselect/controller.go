package dateselect

import (
	"strconv"
	"strings"
	"time"

	"cloudeng.io/datetime"

	"possu/internal/calendar"
	"possu/internal/ui"
)

// ChangeFunc receives the composed date after every settle, including the
// first one. It is called even when the date did not change.
type ChangeFunc func(calendar.Maybe[time.Time])

// Field is what a select list needs to render one level.
type Field struct {
	Level    Level
	Options  []ui.SelectOption
	OnSelect func(raw string)
}

// Controller owns the selection for one widget bound to one range. To use a
// different range, build a new Controller. It is not safe for concurrent use.
type Controller struct {
	rng       calendar.Range
	preselect time.Time
	state     State
	onChange  ChangeFunc
}

// New seeds a controller from preselect and emits the initial date.
// onChange may be nil.
func New(r calendar.Range, preselect time.Time, onChange ChangeFunc) *Controller {
	c := &Controller{rng: r, preselect: preselect, onChange: onChange}
	c.state = Init(r, preselect)
	c.emit()
	return c
}

// Restore builds a controller around a previously settled state without
// emitting. Used when the state travels through a form round trip.
func Restore(r calendar.Range, preselect time.Time, s State, onChange ChangeFunc) *Controller {
	return &Controller{rng: r, preselect: preselect, state: s, onChange: onChange}
}

// Dispatch runs one settle for a and emits the result.
func (c *Controller) Dispatch(a Action) {
	c.state = Update(c.rng, c.state, a)
	c.emit()
}

// Select parses a raw option value for level and dispatches it. Values that
// do not parse clear the level.
func (c *Controller) Select(level Level, raw string) {
	c.Dispatch(Action{Level: level, Value: ParseValue(level, raw)})
}

// State returns the current settled selection.
func (c *Controller) State() State { return c.state }

// Preselect returns the template the controller was created with.
func (c *Controller) Preselect() time.Time { return c.preselect }

// Date composes the current selection onto the preselect template.
func (c *Controller) Date() calendar.Maybe[time.Time] { return Compose(c.state, c.preselect) }

// Options lists the choices currently offered at level, with the current
// value marked selected. Nothing is ever disabled.
func (c *Controller) Options(level Level) []ui.SelectOption {
	s := c.state
	var opts []ui.SelectOption
	switch level {
	case LevelYear:
		for _, y := range calendar.Years(c.rng) {
			opts = append(opts, ui.OptionFromYear(y).WithSelected(s.Year.Equal(calendar.Some(y))))
		}
	case LevelMonth:
		y, ok := s.Year.Get()
		if !ok {
			return nil
		}
		for _, m := range calendar.MonthsForYear(c.rng, y) {
			opts = append(opts, ui.OptionFromMonth(m).WithSelected(s.Month.Equal(calendar.Some(m))))
		}
	case LevelDay:
		y, yok := s.Year.Get()
		m, mok := s.Month.Get()
		if !yok || !mok {
			return nil
		}
		for _, d := range calendar.DaysForYearAndMonth(c.rng, y, m) {
			opts = append(opts, ui.OptionFromDay(d).WithSelected(s.Day.Equal(calendar.Some(d))))
		}
	}
	return opts
}

// Fields returns the three levels in cascade order.
func (c *Controller) Fields() []Field {
	fields := make([]Field, 0, len(Levels))
	for _, l := range Levels {
		fields = append(fields, Field{
			Level:    l,
			Options:  c.Options(l),
			OnSelect: func(raw string) { c.Select(l, raw) },
		})
	}
	return fields
}

func (c *Controller) emit() {
	if c.onChange != nil {
		c.onChange(c.Date())
	}
}

// ParseValue turns a raw option value into a level value. Months accept a
// number, which wraps into 1..12, or a name such as "Feb".
func ParseValue(level Level, raw string) calendar.Maybe[int] {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return calendar.None[int]()
	}
	n, err := strconv.Atoi(raw)
	if level == LevelMonth {
		if err == nil {
			return calendar.Some(int(calendar.MonthFromInt(n)))
		}
		m, err := datetime.ParseMonth(raw)
		if err != nil {
			return calendar.None[int]()
		}
		return calendar.Some(int(m))
	}
	if err != nil {
		return calendar.None[int]()
	}
	return calendar.Some(n)
}

// FromValues rebuilds a state from raw form values without validating it.
// Update settles it against the range.
func FromValues(year, month, day string) State {
	return State{
		Year:  ParseValue(LevelYear, year),
		Month: toMonth(ParseValue(LevelMonth, month)),
		Day:   ParseValue(LevelDay, day),
	}
}

func toMonth(v calendar.Maybe[int]) calendar.Maybe[calendar.Month] {
	if n, ok := v.Get(); ok {
		return calendar.Some(calendar.Month(n))
	}
	return calendar.None[calendar.Month]()
}
