package backend

import (
	"context"
	"fmt"

	"possu/internal/adapters"
	"possu/internal/amqp"
	"possu/internal/cache"
	"possu/internal/log"
	"possu/internal/services"
	gsheet "possu/internal/sheets/google"
	"possu/internal/sheets/memory"
	"possu/internal/storage"
)

type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Factory{logger: logger.WithComponent(log.ComponentBackend)}
}

// Create builds the backend named by cfg.Type, wrapped in the read cache
// when cfg.CacheTTL is positive.
func (f *Factory) Create(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		res *Result
		err error
	)
	switch cfg.Type {
	case SQLiteBackend:
		res, err = f.createSQLite(ctx, cfg)
	case SheetsBackend:
		res, err = f.createSheets(ctx, cfg)
	default:
		res, err = f.createMemory(cfg)
	}
	if err != nil {
		return nil, err
	}

	if cfg.CacheTTL > 0 {
		cached := cache.NewReader(res.Backend, cfg.CacheTTL, f.logger)
		cached.StartCleanup(cfg.CacheTTL)
		inner := res.Cleanup
		res = &Result{
			Backend: &pingable{Reader: cached, inner: res.Backend},
			Cleanup: func() error {
				cached.Stop()
				if inner != nil {
					return inner()
				}
				return nil
			},
		}
	}
	f.logger.Info("Backend ready", log.FieldBackend, cfg.Type.String(), "cache_ttl", cfg.CacheTTL)
	return res, nil
}

// pingable keeps the wrapped backend's health probe visible through the cache.
type pingable struct {
	*cache.Reader
	inner Backend
}

func (p *pingable) Ping(ctx context.Context) error {
	if pg, ok := p.inner.(Pinger); ok {
		return pg.Ping(ctx)
	}
	return nil
}

func (f *Factory) createSQLite(ctx context.Context, cfg Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize SQLite repository: %w", err)
	}
	if err := f.seedCategories(ctx, repo, cfg.SeedFile); err != nil {
		repo.Close()
		return nil, err
	}

	var publisher services.SyncPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, f.logger)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync", log.FieldError, err)
		} else {
			publisher = client
			f.logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	svc := services.NewEntryService(repo, publisher, f.logger)
	f.logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath, "amqp_enabled", publisher != nil)
	return &Result{
		Backend: adapters.NewSQLiteAdapter(repo, svc),
		Cleanup: svc.Close,
	}, nil
}

// seedCategories fills an empty categories table from the seed file.
func (f *Factory) seedCategories(ctx context.Context, repo *storage.SQLiteRepository, seedFile string) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	seed, err := memory.NewFromFile(seedFile)
	if err != nil {
		return err
	}
	cats, err := seed.List(ctx)
	if err != nil {
		return fmt.Errorf("read seed categories: %w", err)
	}
	if err := repo.ReplaceCategories(ctx, cats); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	f.logger.Info("Seeded categories", log.FieldCount, len(cats))
	return nil
}

func (f *Factory) createSheets(ctx context.Context, cfg Config) (*Result, error) {
	cli, err := gsheet.New(ctx, cfg.Google)
	if err != nil {
		return nil, fmt.Errorf("initialize Google Sheets client: %w", err)
	}
	f.logger.Info("Initialized Google Sheets backend", "entries_sheet", cfg.Google.EntriesSheet)
	return &Result{Backend: cli}, nil
}

func (f *Factory) createMemory(cfg Config) (*Result, error) {
	store, err := memory.NewFromFile(cfg.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("initialize memory backend: %w", err)
	}
	f.logger.Info("Initialized memory backend", "seed_file", cfg.SeedFile)
	return &Result{Backend: store}, nil
}
