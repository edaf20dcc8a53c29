package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"possu/internal/config"
	"possu/internal/core"
	ports "possu/internal/sheets"
)

// Client reads and writes entries in a spreadsheet. The entries sheet has
// one row per entry: date, description, amount, category.
type Client struct {
	svc             *gsheet.Service
	spreadsheetID   string
	entriesSheet    string
	categoriesSheet string
}

var (
	_ ports.EntryWriter    = (*Client)(nil)
	_ ports.CategoryReader = (*Client)(nil)
	_ ports.EntryLister    = (*Client)(nil)
	_ ports.OverviewReader = (*Client)(nil)
)

// Options configures New. ClientOptions, when set, replace the service
// account credentials.
type Options struct {
	SpreadsheetID   string
	EntriesSheet    string
	CategoriesSheet string
	CredentialsJSON string
	CredentialsFile string
	ClientOptions   []goption.ClientOption
}

// OptionsFromConfig maps the GOOGLE_* settings onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		EntriesSheet:    cfg.GoogleSheetName,
		CategoriesSheet: cfg.GoogleCategoriesSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	}
}

func New(ctx context.Context, o Options) (*Client, error) {
	if strings.TrimSpace(o.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if o.EntriesSheet == "" {
		o.EntriesSheet = "Entries"
	}
	if o.CategoriesSheet == "" {
		o.CategoriesSheet = "Categories"
	}
	opts := o.ClientOptions
	if len(opts) == 0 {
		creds, err := o.credentials()
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{
		svc:             svc,
		spreadsheetID:   o.SpreadsheetID,
		entriesSheet:    o.EntriesSheet,
		categoriesSheet: o.CategoriesSheet,
	}, nil
}

func (o Options) credentials() ([]byte, error) {
	switch {
	case strings.TrimSpace(o.CredentialsJSON) != "":
		return []byte(o.CredentialsJSON), nil
	case o.CredentialsFile != "":
		b, err := os.ReadFile(o.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

// Append adds e as a new row and returns the updated range.
func (c *Client) Append(ctx context.Context, e core.Entry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:D", c.entriesSheet)
	vr := &gsheet.ValueRange{Values: [][]any{entryRow(e)}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", c.entriesSheet, err)
	}
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		return resp.Updates.UpdatedRange, nil
	}
	return rng, nil
}

// List reads categories from column A of the categories sheet, skipping
// the header row.
func (c *Client) List(ctx context.Context) ([]string, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	values, err := c.get(ctx, fmt.Sprintf("%s!A2:A", c.categoriesSheet))
	if err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	return column(values), nil
}

func (c *Client) ListEntries(ctx context.Context, year, month int) ([]core.Entry, error) {
	ov, err := c.ReadMonthOverview(ctx, year, month)
	if err != nil {
		return nil, err
	}
	return ov.Entries, nil
}

// ReadMonthOverview scans the entries sheet and summarises one month.
func (c *Client) ReadMonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	if c.svc == nil {
		return core.MonthOverview{}, errors.New("sheets service not initialized")
	}
	if month < 1 || month > 12 {
		return core.MonthOverview{}, fmt.Errorf("invalid month: %d", month)
	}
	values, err := c.get(ctx, fmt.Sprintf("%s!A:D", c.entriesSheet))
	if err != nil {
		return core.MonthOverview{}, err
	}
	return core.Summarize(parseEntryRows(values), year, month), nil
}

func (c *Client) get(ctx context.Context, rng string) ([][]any, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}
