// Package feed processes split change messages from the event stream. The
// worker re-reads the affected record from the store, so downstream views
// always reflect persisted state rather than message payloads.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sengdao/splitkip/internal/events"
	"github.com/sengdao/splitkip/internal/storage"
)

// Worker handles split change messages against the store.
type Worker struct {
	store storage.Store
}

func NewWorker(store storage.Store) *Worker {
	return &Worker{store: store}
}

// HandleChange processes a single split change message. Created and updated
// splits are re-read from the store; a record that disappeared in the
// meantime is treated the same as a delete. Store failures are returned so
// the message is requeued.
func (w *Worker) HandleChange(ctx context.Context, msg *events.SplitChangedMessage) error {
	if msg.Action == "deleted" {
		slog.InfoContext(ctx, "Split removed", "split_id", msg.SplitID)
		return nil
	}

	split, err := w.store.GetSplit(ctx, msg.SplitID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.WarnContext(ctx, "Changed split no longer exists", "split_id", msg.SplitID, "action", msg.Action)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get split from storage: %w", err)
	}

	remaining := 0.0
	for _, u := range split.Users {
		remaining += u.CurrentBalance
	}

	slog.InfoContext(ctx, "Split changed",
		"split_id", split.ID,
		"action", msg.Action,
		"total_amount", split.TotalAmount,
		"users", split.TotalUsers,
		"remaining", remaining,
	)
	return nil
}
