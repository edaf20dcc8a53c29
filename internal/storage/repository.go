package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"possu/internal/core"
	"possu/internal/sheets"
)

// ErrNotFound is returned when an entry id does not exist.
var ErrNotFound = errors.New("entry not found")

var (
	_ sheets.EntryWriter    = (*SQLiteRepository)(nil)
	_ sheets.CategoryReader = (*SQLiteRepository)(nil)
	_ sheets.EntryLister    = (*SQLiteRepository)(nil)
	_ sheets.OverviewReader = (*SQLiteRepository)(nil)
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateEntry validates and stores e as pending sync.
func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.Entry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (entry_date, entry_year, entry_month, description, amount_cents, category)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Date.Format(time.RFC3339Nano), e.Date.Year(), int(e.Date.Month()),
		strings.TrimSpace(e.Description), e.Amount.Cents, strings.TrimSpace(e.Category))
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read entry id: %w", err)
	}
	return id, nil
}

// Append implements sheets.EntryWriter; the reference is the row id.
func (r *SQLiteRepository) Append(ctx context.Context, e core.Entry) (string, error) {
	id, err := r.CreateEntry(ctx, e)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

// List implements sheets.CategoryReader.
func (r *SQLiteRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// ReplaceCategories swaps the category list in one transaction.
func (r *SQLiteRepository) ReplaceCategories(ctx context.Context, categories []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO categories (name) VALUES (?)`, c); err != nil {
			return fmt.Errorf("insert category %q: %w", c, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit categories: %w", err)
	}
	return nil
}

const entryColumns = `id, entry_date, description, amount_cents, category`

// ListEntries implements sheets.EntryLister, oldest first.
func (r *SQLiteRepository) ListEntries(ctx context.Context, year, month int) ([]core.Entry, error) {
	return r.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE entry_year = ? AND entry_month = ? ORDER BY entry_date, id`,
		year, month)
}

// ReadMonthOverview implements sheets.OverviewReader.
func (r *SQLiteRepository) ReadMonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	entries, err := r.ListEntries(ctx, year, month)
	if err != nil {
		return core.MonthOverview{Year: year, Month: month}, fmt.Errorf("read month overview: %w", err)
	}
	return core.Summarize(entries, year, month), nil
}

func (r *SQLiteRepository) GetEntry(ctx context.Context, id int64) (core.Entry, error) {
	entries, err := r.queryEntries(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	if err != nil {
		return core.Entry{}, err
	}
	if len(entries) == 0 {
		return core.Entry{}, fmt.Errorf("get entry %d: %w", id, ErrNotFound)
	}
	return entries[0], nil
}

// GetPendingSync returns entries not yet synced, including failed ones,
// oldest first.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]core.Entry, error) {
	return r.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE sync_status IN ('pending', 'error') ORDER BY id LIMIT ?`,
		limit)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE entries SET sync_status = 'synced', synced_at = ?, sync_error = NULL WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("mark entry %d synced: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE entries SET sync_status = 'error', sync_error = ? WHERE id = ?`, msg, id)
	if err != nil {
		return fmt.Errorf("mark entry %d sync error: %w", id, err)
	}
	return nil
}

// SyncStatus returns the stored status and error message for id.
func (r *SQLiteRepository) SyncStatus(ctx context.Context, id int64) (status, message string, err error) {
	var msg sql.NullString
	err = r.db.QueryRowContext(ctx, `SELECT sync_status, sync_error FROM entries WHERE id = ?`, id).Scan(&status, &msg)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("sync status %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", "", fmt.Errorf("sync status %d: %w", id, err)
	}
	return status, msg.String, nil
}

func (r *SQLiteRepository) queryEntries(ctx context.Context, query string, args ...any) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()
	var out []core.Entry
	for rows.Next() {
		var (
			e    core.Entry
			date string
		)
		if err := rows.Scan(&e.ID, &date, &e.Description, &e.Amount.Cents, &e.Category); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			return nil, fmt.Errorf("parse entry %d date %q: %w", e.ID, date, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
