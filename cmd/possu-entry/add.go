package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"possu/internal/backend"
	"possu/internal/calendar"
	"possu/internal/core"
	"possu/internal/log"
	"possu/internal/sheets"
	"possu/internal/tui"
)

var errAborted = errors.New("entry canceled")

var (
	flagDate        string
	flagDescription string
	flagAmount      string
	flagCategory    string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an entry; missing fields are prompted for",
	Args:  cobra.NoArgs,
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&flagDate, "date", "", "Entry date (YYYY-MM-DD or RFC 3339); the picker opens when empty")
	addCmd.Flags().StringVarP(&flagDescription, "description", "d", "", "What the entry is for")
	addCmd.Flags().StringVarP(&flagAmount, "amount", "a", "", "Amount, e.g. 12.50")
	addCmd.Flags().StringVarP(&flagCategory, "category", "c", "", "Category name")
}

func runAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	now := time.Now()
	rng := entryRange(now, flagYearsBack)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger).Create(ctx, bcfg)
	if err != nil {
		return fmt.Errorf("open backend: %w", err)
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Warn("Backend cleanup failed", log.FieldError, err)
		}
	}()

	in := entryInput{
		Date:        strings.TrimSpace(flagDate),
		Description: strings.TrimSpace(flagDescription),
		Amount:      strings.TrimSpace(flagAmount),
		Category:    strings.TrimSpace(flagCategory),
	}
	if err := promptMissing(ctx, res.Backend, &in); err != nil {
		return err
	}
	if in.Date == "" {
		pre, err := parseDateFlag(flagPreselect, now)
		if err != nil {
			return fmt.Errorf("--preselect: %w", err)
		}
		d, err := tui.Pick(ctx, rng, pre, "Entry date", nil, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		in.Date = d.Format(time.RFC3339)
	}

	e, err := in.entry(rng, now)
	if err != nil {
		return err
	}
	ref, err := res.Backend.Append(ctx, e)
	if err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n",
		ref, e.Date.Format(time.DateOnly), e.Description, e.Amount, e.Category)
	return nil
}

// entryInput is an entry as typed, before validation.
type entryInput struct {
	Date        string
	Description string
	Amount      string
	Category    string
}

// entry validates in against rng and builds the entry.
func (in entryInput) entry(rng calendar.Range, now time.Time) (core.Entry, error) {
	if in.Date == "" {
		return core.Entry{}, core.ErrInvalidDate
	}
	date, err := parseDateFlag(in.Date, now)
	if err != nil {
		return core.Entry{}, err
	}
	if !rng.Contains(date) {
		return core.Entry{}, fmt.Errorf("%w: %s", core.ErrDateOutOfRange, date.Format(time.DateOnly))
	}
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Entry{}, err
	}
	e := core.Entry{
		Date:        date,
		Description: in.Description,
		Amount:      amount,
		Category:    in.Category,
	}
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}
	return e, nil
}

// promptMissing asks for the text fields that were not given as flags.
func promptMissing(ctx context.Context, categories sheets.CategoryReader, in *entryInput) error {
	var fields []huh.Field
	if in.Description == "" {
		fields = append(fields, huh.NewInput().
			Title("Description").
			Value(&in.Description).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return core.ErrEmptyDescription
				}
				return nil
			}))
	}
	if in.Amount == "" {
		fields = append(fields, huh.NewInput().
			Title("Amount").
			Placeholder("0.00").
			Value(&in.Amount).
			Validate(func(s string) error {
				m, err := core.ParseAmount(s)
				if err != nil {
					return err
				}
				return m.Validate()
			}))
	}
	if in.Category == "" {
		cats, err := categories.List(ctx)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		if len(cats) == 0 {
			return core.ErrEmptyCategory
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Category").
			Options(huh.NewOptions(cats...)...).
			Value(&in.Category))
	}
	if len(fields) == 0 {
		return nil
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errAborted
		}
		return fmt.Errorf("entry form: %w", err)
	}
	in.Description = strings.TrimSpace(in.Description)
	in.Amount = strings.TrimSpace(in.Amount)
	return nil
}
