// Package tui is a terminal front end for the cascading date selector.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"possu/internal/calendar"
	"possu/internal/dateselect"
	"possu/internal/ui"
)

// visibleRows is how many options each column shows at once.
const visibleRows = 7

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CECDC3")).MarginBottom(1)
	columnStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#403E3C")).Padding(0, 1).Width(14)
	focusedStyle = columnStyle.BorderForeground(lipgloss.Color("#3AA99F"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#878580"))
	selectedRow  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#100F0F")).Background(lipgloss.Color("#3AA99F"))
	plainRow     = lipgloss.NewStyle().Foreground(lipgloss.Color("#CECDC3"))
	dimRow       = lipgloss.NewStyle().Foreground(lipgloss.Color("#575653"))
	dateStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#879A39")).MarginTop(1)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D0A215")).MarginTop(1)
)

// DatePicker is a bubbletea model with one column per level. It only
// confirms a complete date.
type DatePicker struct {
	ctrl     *dateselect.Controller
	focus    dateselect.Level
	keys     KeyMap
	help     help.Model
	title    string
	warning  string
	done     bool
	canceled bool
}

// NewDatePicker starts at preselect, settled into r.
func NewDatePicker(r calendar.Range, preselect time.Time, title string) DatePicker {
	return DatePicker{
		ctrl:  dateselect.New(r, preselect, nil),
		focus: dateselect.LevelYear,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		title: title,
	}
}

func (p DatePicker) Init() tea.Cmd { return nil }

func (p DatePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.help.Width = msg.Width
		return p, nil

	case tea.KeyMsg:
		p.warning = ""
		switch {
		case key.Matches(msg, p.keys.Cancel):
			p.canceled = true
			return p, tea.Quit
		case key.Matches(msg, p.keys.Confirm):
			if p.ctrl.Date().IsSome() {
				p.done = true
				return p, tea.Quit
			}
			p.warning = "Pick a year, month and day first"
		case key.Matches(msg, p.keys.Left):
			if p.focus > dateselect.LevelYear {
				p.focus--
			}
		case key.Matches(msg, p.keys.Right):
			if p.focus < dateselect.LevelDay {
				p.focus++
			}
		case key.Matches(msg, p.keys.Up):
			p.step(-1)
		case key.Matches(msg, p.keys.Down):
			p.step(1)
		case key.Matches(msg, p.keys.Clear):
			p.ctrl.Select(p.focus, "")
		}
	}
	return p, nil
}

// step moves the focused level by delta options, stopping at either end.
// With nothing selected, down picks the first option and up the last.
func (p DatePicker) step(delta int) {
	opts := p.ctrl.Options(p.focus)
	if len(opts) == 0 {
		return
	}
	i := ui.SelectedIndex(opts)
	switch {
	case i < 0 && delta > 0:
		i = 0
	case i < 0:
		i = len(opts) - 1
	default:
		i = min(max(i+delta, 0), len(opts)-1)
	}
	p.ctrl.Select(p.focus, opts[i].Value)
}

func (p DatePicker) View() string {
	cols := make([]string, 0, len(dateselect.Levels))
	for _, l := range dateselect.Levels {
		cols = append(cols, p.column(l))
	}

	var b strings.Builder
	if p.title != "" {
		b.WriteString(titleStyle.Render(p.title))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n")
	if d, ok := p.ctrl.Date().Get(); ok {
		b.WriteString(dateStyle.Render(d.Format("Monday, 2 January 2006")))
	} else {
		b.WriteString(dimRow.MarginTop(1).Render("No date selected"))
	}
	if p.warning != "" {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render(p.warning))
	}
	b.WriteString("\n\n")
	b.WriteString(p.help.View(p.keys))
	return b.String()
}

func (p DatePicker) column(l dateselect.Level) string {
	opts := p.ctrl.Options(l)
	lines := []string{headerStyle.Render(l.Label())}
	if len(opts) == 0 {
		lines = append(lines, dimRow.Render("-"))
	}
	sel := ui.SelectedIndex(opts)
	start := 0
	if len(opts) > visibleRows {
		start = min(max(sel-visibleRows/2, 0), len(opts)-visibleRows)
	}
	for i := start; i < len(opts) && i < start+visibleRows; i++ {
		if i == sel {
			lines = append(lines, selectedRow.Render(opts[i].Text))
		} else {
			lines = append(lines, plainRow.Render(opts[i].Text))
		}
	}
	style := columnStyle
	if l == p.focus {
		style = focusedStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

// Focus is the level the arrow keys currently change.
func (p DatePicker) Focus() dateselect.Level { return p.focus }

// Date is the current composed selection.
func (p DatePicker) Date() calendar.Maybe[time.Time] { return p.ctrl.Date() }

// Result is the confirmed date. ok is false until enter was pressed on a
// complete date, and after a cancel.
func (p DatePicker) Result() (time.Time, bool) {
	if !p.done || p.canceled {
		return time.Time{}, false
	}
	return p.ctrl.Date().Get()
}

func (p DatePicker) Canceled() bool { return p.canceled }
