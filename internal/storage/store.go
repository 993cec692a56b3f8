// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/sengdao/splitkip/internal/models"
)

// ErrNotFound is returned when a record with the given identifier does not
// exist. Implementations wrap it with the identifier for context.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for split and calculation history storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the session or HTTP layers.
type Store interface {
	// CreateSplit persists a new split snapshot. The split's ID and
	// Timestamp fields are populated by the store.
	CreateSplit(ctx context.Context, split *models.Split) error

	// GetSplit retrieves a split by its ID, including all participants and
	// their purchases in insertion order.
	GetSplit(ctx context.Context, splitID string) (*models.Split, error)

	// UpdateSplitUsers replaces the users array of an existing split,
	// leaving the split's other fields untouched. This is the partial
	// update used after purchase additions and payment toggles.
	UpdateSplitUsers(ctx context.Context, splitID string, users []models.UserShare) error

	// DeleteSplit removes a split and its dependent rows.
	DeleteSplit(ctx context.Context, splitID string) error

	// ListSplits returns all splits ordered by timestamp descending.
	ListSplits(ctx context.Context) ([]*models.Split, error)

	// CreateCalculation persists a standalone calculation record. The
	// record's ID and Timestamp fields are populated by the store.
	CreateCalculation(ctx context.Context, calc *models.Calculation) error

	// ListCalculations returns all calculation records ordered by timestamp
	// descending. Rows that fail to decode into a typed record are dropped,
	// never returned loosely typed.
	ListCalculations(ctx context.Context) ([]*models.Calculation, error)

	// DeleteCalculation removes a calculation record.
	DeleteCalculation(ctx context.Context, calcID string) error

	// Close releases any resources held by the store.
	Close() error
}
