package backend

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"possu/internal/config"
	gsheet "possu/internal/sheets/google"
)

type Type string

const (
	SQLiteBackend Type = config.BackendSQLite
	SheetsBackend Type = config.BackendSheets
	MemoryBackend Type = config.BackendMemory
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	}
	return false
}

func Types() []Type { return []Type{MemoryBackend, SQLiteBackend, SheetsBackend} }

func TypeStrings() []string {
	out := make([]string, 0, 3)
	for _, t := range Types() {
		out = append(out, t.String())
	}
	return out
}

type Config struct {
	Type Type

	// memory
	SeedFile string

	// sqlite
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// sheets
	Google gsheet.Options

	// CacheTTL of zero disables the read cache.
	CacheTTL time.Duration
}

func FromAppConfig(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return Config{}, errors.New("app config is nil")
	}
	t := Type(strings.ToLower(strings.TrimSpace(cfg.DataBackend)))
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", cfg.DataBackend)
	}
	return Config{
		Type:         t,
		SeedFile:     cfg.SeedFile,
		SQLiteDBPath: cfg.SQLiteDBPath,
		AMQPURL:      cfg.AMQPURL,
		AMQPExchange: cfg.AMQPExchange,
		AMQPQueue:    cfg.AMQPQueue,
		Google:       gsheet.OptionsFromConfig(cfg),
		CacheTTL:     time.Minute,
	}, nil
}

func (c Config) Validate() error {
	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return errors.New("SQLite database path is required for sqlite backend")
		}
	case SheetsBackend:
		if c.Google.SpreadsheetID == "" {
			return errors.New("Google Spreadsheet ID is required for sheets backend")
		}
	case MemoryBackend:
	default:
		return fmt.Errorf("invalid backend type: %q (valid: %s)", c.Type, strings.Join(TypeStrings(), ", "))
	}
	return nil
}
