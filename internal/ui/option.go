// Package ui holds the view models rendered by the HTML templates and the
// terminal picker. It carries data only; calendar rules live elsewhere.
package ui

import (
	"strconv"

	"possu/internal/calendar"
)

// SelectOption is one entry of a select list.
type SelectOption struct {
	Value    string
	Text     string
	Selected bool
	Disabled bool
}

func (o SelectOption) WithSelected(selected bool) SelectOption {
	o.Selected = selected
	return o
}

func (o SelectOption) WithDisabled(disabled bool) SelectOption {
	o.Disabled = disabled
	return o
}

// OptionFromString uses s as both value and text.
func OptionFromString(s string) SelectOption {
	return SelectOption{Value: s, Text: s}
}

func OptionFromYear(y int) SelectOption {
	return OptionFromString(strconv.Itoa(y))
}

// OptionFromMonth uses the month number as value and its name as text.
func OptionFromMonth(m calendar.Month) SelectOption {
	return SelectOption{Value: strconv.Itoa(int(m)), Text: m.String()}
}

func OptionFromDay(d int) SelectOption {
	return OptionFromString(strconv.Itoa(d))
}

// OptionsFromStrings builds a list with the entry equal to selected marked.
func OptionsFromStrings(values []string, selected string) []SelectOption {
	out := make([]SelectOption, 0, len(values))
	for _, v := range values {
		out = append(out, OptionFromString(v).WithSelected(v == selected))
	}
	return out
}

// SelectedIndex returns the index of the first selected option, or -1.
func SelectedIndex(opts []SelectOption) int {
	for i, o := range opts {
		if o.Selected {
			return i
		}
	}
	return -1
}
