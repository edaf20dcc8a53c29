package services

import (
	"context"
	"errors"
	"fmt"

	"possu/internal/core"
	"possu/internal/log"
)

// EntryStore persists entries locally.
type EntryStore interface {
	CreateEntry(ctx context.Context, e core.Entry) (int64, error)
	Close() error
}

// SyncPublisher announces a stored entry to the sync worker.
type SyncPublisher interface {
	PublishEntrySync(ctx context.Context, id int64) error
	Close() error
}

// EntryService stores entries in SQLite and publishes a sync message for
// each one. Publishing is best effort; the worker backstop picks up
// anything that was never announced.
type EntryService struct {
	store     EntryStore
	publisher SyncPublisher
	logger    *log.Logger
}

// NewEntryService accepts a nil publisher, in which case entries stay
// pending until the worker polls for them.
func NewEntryService(store EntryStore, publisher SyncPublisher, logger *log.Logger) *EntryService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &EntryService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentEntry),
	}
}

func (s *EntryService) CreateEntry(ctx context.Context, e core.Entry) (int64, error) {
	id, err := s.store.CreateEntry(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save entry: %w", err)
	}

	if s.publisher == nil {
		s.logger.WarnContext(ctx, "AMQP client not available, skipping sync message", log.FieldEntryID, id)
		return id, nil
	}
	if err := s.publisher.PublishEntrySync(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish sync message",
			log.FieldEntryID, id,
			log.FieldError, err)
	}
	return id, nil
}

// Append adapts CreateEntry to the sheets.EntryWriter port.
func (s *EntryService) Append(ctx context.Context, e core.Entry) (string, error) {
	id, err := s.CreateEntry(ctx, e)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", id), nil
}

func (s *EntryService) Close() error {
	var errs []error
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	return errors.Join(errs...)
}
