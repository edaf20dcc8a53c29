package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"possu/internal/amqp"
	"possu/internal/core"
	"possu/internal/log"
	"possu/internal/sheets"
	"possu/internal/storage"
)

const statusSynced = "synced"

// SyncStore is the local side of the sync: entries waiting to reach the sheet.
type SyncStore interface {
	GetEntry(ctx context.Context, id int64) (core.Entry, error)
	GetPendingSync(ctx context.Context, limit int) ([]core.Entry, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64, cause error) error
	SyncStatus(ctx context.Context, id int64) (status, message string, err error)
	ReplaceCategories(ctx context.Context, categories []string) error
}

// SyncWorker copies entries from SQLite to Google Sheets.
type SyncWorker struct {
	store      SyncStore
	sheets     sheets.EntryWriter
	categories sheets.CategoryReader
	batchSize  int
	logger     *log.Logger

	// mu serialises appends so the consumer and the backstop never push
	// the same entry at once.
	mu sync.Mutex
}

// NewSyncWorker builds a worker. categories may be nil when the sheet has
// no category column to mirror.
func NewSyncWorker(store SyncStore, w sheets.EntryWriter, categories sheets.CategoryReader, batchSize int, logger *log.Logger) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &SyncWorker{
		store:      store,
		sheets:     w,
		categories: categories,
		batchSize:  batchSize,
		logger:     logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEntrySync processes one sync message. A returned error requeues it.
// Messages for unknown or already synced entries are acked without an append.
func (w *SyncWorker) HandleEntrySync(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	w.logger.InfoContext(ctx, "Processing sync message", log.FieldEntryID, msg.ID)

	e, err := w.store.GetEntry(ctx, msg.ID)
	if errors.Is(err, storage.ErrNotFound) {
		w.logger.WarnContext(ctx, "Dropping sync message for unknown entry", log.FieldEntryID, msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get entry from storage: %w", err)
	}
	if _, err := w.syncEntry(ctx, e); err != nil {
		return fmt.Errorf("sync entry to sheets: %w", err)
	}
	return nil
}

// ProcessPending syncs up to one batch of unsynced entries and reports how
// many reached the sheet. Failures are recorded per entry.
func (w *SyncWorker) ProcessPending(ctx context.Context) (int, error) {
	return w.processBatch(ctx, w.batchSize)
}

// StartupSyncCheck runs a larger batch once, to recover from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	synced, err := w.processBatch(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup sync check: %w", err)
	}
	w.logger.InfoContext(ctx, "Startup sync completed", log.FieldCount, synced)
	return nil
}

func (w *SyncWorker) processBatch(ctx context.Context, limit int) (int, error) {
	pending, err := w.store.GetPendingSync(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("get pending entries: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}
	w.logger.InfoContext(ctx, "Processing pending entries", log.FieldCount, len(pending))

	synced := 0
	for _, e := range pending {
		if err := ctx.Err(); err != nil {
			return synced, err
		}
		appended, err := w.syncEntry(ctx, e)
		if err != nil {
			w.logger.ErrorContext(ctx, "Failed to sync entry",
				log.FieldEntryID, e.ID,
				log.FieldError, err)
			continue
		}
		if appended {
			synced++
		}
	}
	return synced, nil
}

// syncEntry appends e unless it is already marked synced and reports
// whether it appended.
func (w *SyncWorker) syncEntry(ctx context.Context, e core.Entry) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	status, _, err := w.store.SyncStatus(ctx, e.ID)
	if errors.Is(err, storage.ErrNotFound) {
		w.logger.WarnContext(ctx, "Entry vanished before sync", log.FieldEntryID, e.ID)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read sync status: %w", err)
	}
	if status == statusSynced {
		w.logger.DebugContext(ctx, "Entry already synced", log.FieldEntryID, e.ID)
		return false, nil
	}

	ref, err := w.sheets.Append(ctx, e)
	if err != nil {
		if merr := w.store.MarkSyncError(ctx, e.ID, err); merr != nil {
			w.logger.ErrorContext(ctx, "Failed to mark sync error",
				log.FieldEntryID, e.ID,
				log.FieldError, merr)
		}
		return false, err
	}
	// The row is in the sheet; a retry would duplicate it.
	if err := w.store.MarkSynced(ctx, e.ID); err != nil {
		w.logger.WarnContext(ctx, "Failed to mark entry synced",
			log.FieldEntryID, e.ID,
			"ref", ref,
			log.FieldError, err)
		return true, nil
	}
	w.logger.InfoContext(ctx, "Entry synced",
		log.FieldEntryID, e.ID,
		"ref", ref)
	return true, nil
}

// SyncCategories mirrors the sheet's category list into SQLite. An empty
// remote list leaves the local one untouched.
func (w *SyncWorker) SyncCategories(ctx context.Context) error {
	if w.categories == nil {
		return nil
	}
	cats, err := w.categories.List(ctx)
	if err != nil {
		return fmt.Errorf("list remote categories: %w", err)
	}
	if len(cats) == 0 {
		w.logger.WarnContext(ctx, "Remote category list is empty, keeping local categories")
		return nil
	}
	if err := w.store.ReplaceCategories(ctx, cats); err != nil {
		return fmt.Errorf("replace categories: %w", err)
	}
	w.logger.InfoContext(ctx, "Categories synced", log.FieldCount, len(cats))
	return nil
}

// RunBackstop calls ProcessPending every interval until ctx is done.
func (w *SyncWorker) RunBackstop(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.ProcessPending(ctx); err != nil && ctx.Err() == nil {
				w.logger.ErrorContext(ctx, "Backstop sync failed", log.FieldError, err)
			}
		}
	}
}
