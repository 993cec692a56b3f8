package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sengdao/splitkip/internal/models"
	"github.com/sengdao/splitkip/internal/storage"
)

// CreateSplit persists a new split snapshot, assigning its ID and timestamp.
func (s *SQLiteStore) CreateSplit(ctx context.Context, split *models.Split) error {
	if split.ID == "" {
		split.ID = uuid.New().String()
	}
	if split.Timestamp == 0 {
		split.Timestamp = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO splits (id, total_amount, total_users, per_user_amount, created_at) VALUES (?, ?, ?, ?, ?)",
		split.ID, split.TotalAmount, split.TotalUsers, split.PerUserAmount, split.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert split: %w", err)
	}

	if err := insertUsers(ctx, tx, split.ID, split.Users); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSplit retrieves a split by ID, including all participants and purchases.
func (s *SQLiteStore) GetSplit(ctx context.Context, splitID string) (*models.Split, error) {
	split := &models.Split{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, total_amount, total_users, per_user_amount, created_at FROM splits WHERE id = ?",
		splitID,
	).Scan(&split.ID, &split.TotalAmount, &split.TotalUsers, &split.PerUserAmount, &split.Timestamp)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("split %s: %w", splitID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split: %w", err)
	}

	if split.Users, err = s.loadUsers(ctx, splitID); err != nil {
		return nil, err
	}

	return split, nil
}

// UpdateSplitUsers replaces the users array of an existing split. The
// split's own row (total, per-user amount, timestamp) is left untouched.
func (s *SQLiteStore) UpdateSplitUsers(ctx context.Context, splitID string, users []models.UserShare) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM splits WHERE id = ?", splitID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("split %s: %w", splitID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check split existence: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM split_users WHERE split_id = ?", splitID); err != nil {
		return fmt.Errorf("failed to clear split users: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM purchases WHERE split_id = ?", splitID); err != nil {
		return fmt.Errorf("failed to clear purchases: %w", err)
	}

	if err := insertUsers(ctx, tx, splitID, users); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteSplit removes a split; participant and purchase rows cascade.
func (s *SQLiteStore) DeleteSplit(ctx context.Context, splitID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM splits WHERE id = ?", splitID)
	if err != nil {
		return fmt.Errorf("failed to delete split: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("split %s: %w", splitID, storage.ErrNotFound)
	}
	return nil
}

// ListSplits returns all splits, newest first.
func (s *SQLiteStore) ListSplits(ctx context.Context) ([]*models.Split, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, total_amount, total_users, per_user_amount, created_at FROM splits ORDER BY created_at DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer rows.Close()

	var splits []*models.Split
	for rows.Next() {
		split := &models.Split{}
		if err := rows.Scan(&split.ID, &split.TotalAmount, &split.TotalUsers, &split.PerUserAmount, &split.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	for _, split := range splits {
		if split.Users, err = s.loadUsers(ctx, split.ID); err != nil {
			return nil, err
		}
	}

	return splits, nil
}

// insertUsers writes the participant rows and their purchases for a split.
// Position columns preserve setup and insertion order on read-back.
func insertUsers(ctx context.Context, tx *sql.Tx, splitID string, users []models.UserShare) error {
	for pos, user := range users {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO split_users (split_id, user_id, user_name, initial_share, current_balance, is_paid, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			splitID, user.UserID, user.UserName, user.InitialShare, user.CurrentBalance, user.IsPaid, pos,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split user: %w", err)
		}

		for i, p := range user.Purchases {
			id := p.ID
			if id == "" {
				id = uuid.New().String()
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO purchases (id, split_id, user_id, item_name, amount, created_at, position)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				id, splitID, user.UserID, p.ItemName, p.Amount, p.Timestamp, i,
			)
			if err != nil {
				return fmt.Errorf("failed to insert purchase: %w", err)
			}
		}
	}
	return nil
}

// loadUsers reads a split's participants and purchases in stored order.
func (s *SQLiteStore) loadUsers(ctx context.Context, splitID string) ([]models.UserShare, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, user_name, initial_share, current_balance, is_paid
		 FROM split_users WHERE split_id = ? ORDER BY position`,
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get split users: %w", err)
	}
	defer rows.Close()

	var users []models.UserShare
	for rows.Next() {
		user := models.UserShare{Purchases: []models.Purchase{}}
		if err := rows.Scan(&user.UserID, &user.UserName, &user.InitialShare, &user.CurrentBalance, &user.IsPaid); err != nil {
			return nil, fmt.Errorf("failed to scan split user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split users: %w", err)
	}

	purchaseRows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, item_name, amount, created_at
		 FROM purchases WHERE split_id = ? ORDER BY user_id, position`,
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchases: %w", err)
	}
	defer purchaseRows.Close()

	byUser := make(map[string][]models.Purchase)
	for purchaseRows.Next() {
		var p models.Purchase
		var userID string
		if err := purchaseRows.Scan(&p.ID, &userID, &p.ItemName, &p.Amount, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		byUser[userID] = append(byUser[userID], p)
	}
	if err := purchaseRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate purchases: %w", err)
	}

	for i := range users {
		if ps, ok := byUser[users[i].UserID]; ok {
			users[i].Purchases = ps
		}
	}

	return users, nil
}
