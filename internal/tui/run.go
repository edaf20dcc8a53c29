package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"possu/internal/calendar"
)

// ErrCanceled is returned by Pick when the user leaves without confirming.
var ErrCanceled = errors.New("date selection canceled")

// Pick runs a DatePicker on the terminal and returns the confirmed date.
// in and out default to the process's stdin and stdout when nil.
func Pick(ctx context.Context, r calendar.Range, preselect time.Time, title string, in io.Reader, out io.Writer) (time.Time, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	final, err := tea.NewProgram(NewDatePicker(r, preselect, title), opts...).Run()
	if err != nil {
		return time.Time{}, fmt.Errorf("date picker: %w", err)
	}
	p, ok := final.(DatePicker)
	if !ok {
		return time.Time{}, fmt.Errorf("date picker: unexpected model %T", final)
	}
	if d, ok := p.Result(); ok {
		return d, nil
	}
	return time.Time{}, ErrCanceled
}
