package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sengdao/splitkip/internal/models"
	"github.com/sengdao/splitkip/internal/storage"
)

// CreateCalculation persists a standalone calculation record.
func (s *SQLiteStore) CreateCalculation(ctx context.Context, calc *models.Calculation) error {
	if calc.ID == "" {
		calc.ID = uuid.New().String()
	}
	if calc.Timestamp == 0 {
		calc.Timestamp = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calculations (id, user_id, total_amount, user_amount, result, percentage, remaining, calculation_type, formula, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		calc.ID, calc.UserID, calc.TotalAmount, calc.UserAmount, calc.Result,
		calc.Percentage, calc.Remaining, string(calc.CalculationType), calc.Details.Formula, calc.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert calculation: %w", err)
	}

	return nil
}

// ListCalculations returns all calculation records, newest first. Rows whose
// calculation type is unknown fail the typed decode and are dropped with a
// warning instead of being passed through.
func (s *SQLiteStore) ListCalculations(ctx context.Context) ([]*models.Calculation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, total_amount, user_amount, result, percentage, remaining, calculation_type, formula, created_at
		 FROM calculations ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}
	defer rows.Close()

	var calcs []*models.Calculation
	for rows.Next() {
		calc := &models.Calculation{}
		var calcType string
		if err := rows.Scan(&calc.ID, &calc.UserID, &calc.TotalAmount, &calc.UserAmount, &calc.Result,
			&calc.Percentage, &calc.Remaining, &calcType, &calc.Details.Formula, &calc.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan calculation: %w", err)
		}

		switch models.CalculationType(calcType) {
		case models.CalculationDivide, models.CalculationPercentage, models.CalculationSubtract, models.CalculationSplitUsers:
			calc.CalculationType = models.CalculationType(calcType)
			calc.Details.Type = calc.CalculationType
		default:
			slog.Warn("Dropping calculation with unknown type", "id", calc.ID, "type", calcType)
			continue
		}

		calcs = append(calcs, calc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calculations: %w", err)
	}

	return calcs, nil
}

// DeleteCalculation removes a calculation record by ID.
func (s *SQLiteStore) DeleteCalculation(ctx context.Context, calcID string) error {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM calculations WHERE id = ?", calcID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("calculation %s: %w", calcID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check calculation existence: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM calculations WHERE id = ?", calcID); err != nil {
		return fmt.Errorf("failed to delete calculation: %w", err)
	}

	return nil
}
