// Package calc implements the standalone arithmetic calculations that sit
// alongside split sessions: divide a total, express an amount as a
// percentage, or subtract. Results carry a human-readable formula for the
// history view.
package calc

import (
	"errors"
	"fmt"

	"github.com/sengdao/splitkip/internal/models"
)

var (
	// ErrNonPositiveInput is returned when either operand is zero or below.
	ErrNonPositiveInput = errors.New("amounts must be greater than zero")

	// ErrAmountExceedsTotal is returned when the user amount is larger than
	// the total it is measured against.
	ErrAmountExceedsTotal = errors.New("user amount cannot exceed total amount")

	// ErrUnknownType is returned for calculation types the module does not
	// compute (split_users is handled by the engine, not here).
	ErrUnknownType = errors.New("unknown calculation type")
)

// Result is the outcome of one standalone calculation.
type Result struct {
	TotalAmount float64
	UserAmount  float64
	Result      float64
	Percentage  float64
	Remaining   float64
	Type        models.CalculationType
}

// Calculate runs one calculation of the given type over the two operands.
func Calculate(calcType models.CalculationType, totalAmount, userAmount float64) (*Result, error) {
	if totalAmount <= 0 || userAmount <= 0 {
		return nil, ErrNonPositiveInput
	}
	if userAmount > totalAmount {
		return nil, ErrAmountExceedsTotal
	}

	res := &Result{
		TotalAmount: totalAmount,
		UserAmount:  userAmount,
		Percentage:  userAmount / totalAmount * 100,
		Type:        calcType,
	}

	switch calcType {
	case models.CalculationDivide:
		res.Result = totalAmount / userAmount
		res.Remaining = totalAmount - userAmount
	case models.CalculationPercentage:
		res.Result = res.Percentage
		res.Remaining = totalAmount - userAmount
	case models.CalculationSubtract:
		res.Result = totalAmount - userAmount
		res.Remaining = res.Result
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, calcType)
	}

	return res, nil
}

// Formula renders the calculation as a display string for history records.
func (r *Result) Formula() string {
	switch r.Type {
	case models.CalculationDivide:
		return fmt.Sprintf("%g ÷ %g = %.2f", r.TotalAmount, r.UserAmount, r.Result)
	case models.CalculationPercentage:
		return fmt.Sprintf("(%g ÷ %g) × 100 = %.2f%%", r.UserAmount, r.TotalAmount, r.Result)
	case models.CalculationSubtract:
		return fmt.Sprintf("%g - %g = %.2f", r.TotalAmount, r.UserAmount, r.Result)
	default:
		return ""
	}
}

// Record converts the result into a persistable history record for userID.
func (r *Result) Record(userID string) *models.Calculation {
	return &models.Calculation{
		UserID:          userID,
		TotalAmount:     r.TotalAmount,
		UserAmount:      r.UserAmount,
		Result:          r.Result,
		Percentage:      r.Percentage,
		Remaining:       r.Remaining,
		CalculationType: r.Type,
		Details: models.CalculationDetails{
			Type:    r.Type,
			Formula: r.Formula(),
		},
	}
}
