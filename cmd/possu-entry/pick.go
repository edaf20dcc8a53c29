package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"possu/internal/calendar"
	"possu/internal/core"
	"possu/internal/dateselect"
	"possu/internal/tui"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick a date and print it as RFC 3339",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		now := time.Now()
		pre, err := parseDateFlag(flagPreselect, now)
		if err != nil {
			return fmt.Errorf("--preselect: %w", err)
		}
		d, err := tui.Pick(cmd.Context(), entryRange(now, flagYearsBack), pre, "Pick a date", nil, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), d.Format(time.RFC3339))
		return nil
	},
}

// parseDateFlag accepts RFC 3339 as is, or YYYY-MM-DD composed onto now's
// clock and location. Empty means now.
func parseDateFlag(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, want YYYY-MM-DD or RFC 3339", core.ErrInvalidDate, raw)
	}
	s := dateselect.State{
		Year:  calendar.Some(day.Year()),
		Month: calendar.Some(calendar.Month(day.Month())),
		Day:   calendar.Some(day.Day()),
	}
	t, _ := dateselect.Compose(s, now).Get()
	return t, nil
}
