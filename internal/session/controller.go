// Package session implements the split session controller: it owns the
// live in-memory split state, drives the balance engine, and synchronizes
// snapshots with the storage collaborator.
//
// Persistence after a successful mutation is fire-and-forget: a store
// failure is logged and counted, but the in-memory session remains
// authoritative and is not rolled back. The store catches up on the next
// successful write.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sengdao/splitkip/internal/calc"
	"github.com/sengdao/splitkip/internal/engine"
	"github.com/sengdao/splitkip/internal/metrics"
	"github.com/sengdao/splitkip/internal/models"
	"github.com/sengdao/splitkip/internal/storage"
)

// Publisher announces persisted split changes to external consumers.
// A nil Publisher disables the change feed.
type Publisher interface {
	PublishSplitChanged(ctx context.Context, splitID, action string) error
}

// ErrUnknownUser is returned when a payment toggle names a user ID that is
// not part of the split.
var ErrUnknownUser = errors.New("unknown user in split")

// Controller orchestrates split sessions. Live sessions are held in memory
// keyed by split ID; each user command runs to completion under the
// controller's lock, so the engine itself never needs to guard against
// interleaving.
type Controller struct {
	store storage.Store
	pub   Publisher

	mu   sync.Mutex
	live map[string]*models.Split
}

// New creates a controller backed by the given store. pub may be nil.
func New(store storage.Store, pub Publisher) *Controller {
	return &Controller{
		store: store,
		pub:   pub,
		live:  make(map[string]*models.Split),
	}
}

// Start initializes a new split session and persists its first snapshot.
// The store assigns the split's identifier; if the create fails the session
// is not retained.
func (c *Controller) Start(ctx context.Context, totalAmount float64, names []string) (*models.Split, error) {
	split, err := engine.Initialize(totalAmount, names)
	if err != nil {
		return nil, err
	}

	if err := c.store.CreateSplit(ctx, split); err != nil {
		metrics.StoreFailures.WithLabelValues("create_split").Inc()
		return nil, fmt.Errorf("failed to save split: %w", err)
	}

	c.mu.Lock()
	c.live[split.ID] = split
	c.mu.Unlock()

	metrics.SplitsCreated.Inc()
	slog.Info("Split session started",
		"split_id", split.ID,
		"total_amount", split.TotalAmount,
		"users", split.TotalUsers,
	)
	c.publish(ctx, split.ID, "created")

	return split.Clone(), nil
}

// Get returns a snapshot of the split, preferring the live in-memory
// session over the persisted copy.
func (c *Controller) Get(ctx context.Context, splitID string) (*models.Split, error) {
	split, err := c.session(ctx, splitID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return split.Clone(), nil
}

// List returns the persisted split history, newest first.
func (c *Controller) List(ctx context.Context) ([]*models.Split, error) {
	return c.store.ListSplits(ctx)
}

// AddPurchase records a spend for one participant and persists the updated
// participant list. Validation and insufficient-balance failures leave both
// the session and the store untouched.
func (c *Controller) AddPurchase(ctx context.Context, splitID string, userIndex int, itemName string, amount float64) (*models.Split, error) {
	split, err := c.session(ctx, splitID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	purchase, err := engine.AddPurchase(split, userIndex, itemName, amount)
	if err != nil {
		metrics.PurchasesRejected.WithLabelValues(rejectReason(err)).Inc()
		return nil, err
	}

	metrics.PurchasesRecorded.Inc()
	slog.Info("Purchase recorded",
		"split_id", splitID,
		"user", split.Users[userIndex].UserName,
		"item", purchase.ItemName,
		"amount", purchase.Amount,
	)

	c.persistUsers(ctx, split)
	return split.Clone(), nil
}

// TogglePaid flips one participant's payment flag and persists the updated
// participant list. The participant is addressed by user ID, the form the
// history view has at hand.
func (c *Controller) TogglePaid(ctx context.Context, splitID, userID string, isPaid bool) (*models.Split, error) {
	split, err := c.session(ctx, splitID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i, u := range split.Users {
		if u.UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}

	if err := engine.TogglePaid(split, idx, isPaid); err != nil {
		return nil, err
	}

	slog.Info("Payment status toggled", "split_id", splitID, "user_id", userID, "is_paid", isPaid)
	c.persistUsers(ctx, split)
	return split.Clone(), nil
}

// Settlements computes the transfer list for the split's current balance
// snapshot. Nothing is stored; every call recomputes.
func (c *Controller) Settlements(ctx context.Context, splitID string) ([]engine.Settlement, error) {
	split, err := c.session(ctx, splitID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	users := split.Clone().Users
	c.mu.Unlock()

	metrics.SettlementsComputed.Inc()
	return engine.ComputeSettlements(users), nil
}

// Delete removes a split from the store and drops any live session for it.
func (c *Controller) Delete(ctx context.Context, splitID string) error {
	if err := c.store.DeleteSplit(ctx, splitID); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.live, splitID)
	c.mu.Unlock()

	slog.Info("Split deleted", "split_id", splitID)
	c.publish(ctx, splitID, "deleted")
	return nil
}

// Clear drops the live session without touching the persisted record.
func (c *Controller) Clear(splitID string) {
	c.mu.Lock()
	delete(c.live, splitID)
	c.mu.Unlock()
}

// Calculate runs a standalone calculation and persists the history record.
func (c *Controller) Calculate(ctx context.Context, calcType models.CalculationType, totalAmount, userAmount float64) (*models.Calculation, error) {
	res, err := calc.Calculate(calcType, totalAmount, userAmount)
	if err != nil {
		return nil, err
	}

	record := res.Record("anonymous")
	if err := c.store.CreateCalculation(ctx, record); err != nil {
		metrics.StoreFailures.WithLabelValues("create_calculation").Inc()
		return nil, fmt.Errorf("failed to save calculation: %w", err)
	}

	metrics.CalculationsRecorded.Inc()
	slog.Info("Calculation recorded", "id", record.ID, "type", record.CalculationType, "formula", record.Details.Formula)
	return record, nil
}

// Calculations returns the persisted calculation history, newest first.
func (c *Controller) Calculations(ctx context.Context) ([]*models.Calculation, error) {
	return c.store.ListCalculations(ctx)
}

// DeleteCalculation removes one calculation record.
func (c *Controller) DeleteCalculation(ctx context.Context, calcID string) error {
	if err := c.store.DeleteCalculation(ctx, calcID); err != nil {
		return err
	}
	slog.Info("Calculation deleted", "id", calcID)
	return nil
}

// session returns the live split for splitID, loading it from the store
// into memory on first touch.
func (c *Controller) session(ctx context.Context, splitID string) (*models.Split, error) {
	c.mu.Lock()
	if split, ok := c.live[splitID]; ok {
		c.mu.Unlock()
		return split, nil
	}
	c.mu.Unlock()

	split, err := c.store.GetSplit(ctx, splitID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another command may have loaded it meanwhile; keep the first.
	if existing, ok := c.live[splitID]; ok {
		return existing, nil
	}
	c.live[splitID] = split
	return split, nil
}

// persistUsers writes the split's participant list back to the store.
// Failures are logged and counted, never rolled back: the in-memory session
// stays authoritative until the next successful write.
func (c *Controller) persistUsers(ctx context.Context, split *models.Split) {
	if err := c.store.UpdateSplitUsers(ctx, split.ID, split.Clone().Users); err != nil {
		metrics.StoreFailures.WithLabelValues("update_users").Inc()
		slog.Error("Failed to persist split users; keeping in-memory state",
			"split_id", split.ID,
			"error", err,
		)
		return
	}
	c.publish(ctx, split.ID, "updated")
}

func (c *Controller) publish(ctx context.Context, splitID, action string) {
	if c.pub == nil {
		return
	}
	if err := c.pub.PublishSplitChanged(ctx, splitID, action); err != nil {
		slog.Warn("Failed to publish split change", "split_id", splitID, "action", action, "error", err)
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, engine.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, engine.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, engine.ErrBlankItem):
		return "blank_item"
	default:
		return "other"
	}
}
