// Package engine implements the balance engine and the settlement solver.
//
// All functions here are pure transformations of an explicit split value:
// the engine holds no state of its own, so every rule is unit-testable
// without a server or a database. The session package owns the one mutable
// Split instance and calls in.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sengdao/splitkip/internal/models"
)

// Epsilon guards monetary comparisons against floating-point noise.
// Balances within Epsilon of zero are treated as settled.
const Epsilon = 0.01

var (
	// ErrInvalidAmount is returned when a monetary input is not positive.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInsufficientBalance is returned when a purchase exceeds the
	// participant's remaining balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrBlankName is returned when a participant name is empty after
	// trimming whitespace.
	ErrBlankName = errors.New("participant name cannot be blank")

	// ErrBlankItem is returned when a purchase has no item name.
	ErrBlankItem = errors.New("item name cannot be blank")

	// ErrNoParticipants is returned when setup is attempted with an empty
	// participant list.
	ErrNoParticipants = errors.New("at least one participant required")
)

// Initialize creates a new split session dividing totalAmount equally among
// the given participants. Names are trimmed before validation; a blank name
// anywhere rejects the whole setup. On failure no split is produced.
func Initialize(totalAmount float64, names []string) (*models.Split, error) {
	if totalAmount <= 0 {
		return nil, fmt.Errorf("total amount: %w", ErrInvalidAmount)
	}
	if len(names) == 0 {
		return nil, ErrNoParticipants
	}

	trimmed := make([]string, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("participant %d: %w", i+1, ErrBlankName)
		}
		trimmed[i] = name
	}

	perUser := totalAmount / float64(len(trimmed))
	users := make([]models.UserShare, len(trimmed))
	for i, name := range trimmed {
		users[i] = models.UserShare{
			UserID:         fmt.Sprintf("user_%d", i+1),
			UserName:       name,
			InitialShare:   perUser,
			CurrentBalance: perUser,
			Purchases:      []models.Purchase{},
		}
	}

	return &models.Split{
		TotalAmount:   totalAmount,
		TotalUsers:    len(users),
		PerUserAmount: perUser,
		Users:         users,
	}, nil
}

// AddPurchase records a spend for the participant at userIndex and decrements
// their balance. The amount is capped at the participant's *current* balance,
// not the initial share: a single purchase can never push a balance negative.
// On any failure the split is left untouched.
func AddPurchase(split *models.Split, userIndex int, itemName string, amount float64) (models.Purchase, error) {
	if err := checkIndex(split, userIndex); err != nil {
		return models.Purchase{}, err
	}
	if strings.TrimSpace(itemName) == "" {
		return models.Purchase{}, ErrBlankItem
	}
	if amount <= 0 {
		return models.Purchase{}, ErrInvalidAmount
	}

	user := &split.Users[userIndex]
	if amount > user.CurrentBalance {
		return models.Purchase{}, fmt.Errorf("%w: %s has %.2f left", ErrInsufficientBalance, user.UserName, user.CurrentBalance)
	}

	purchase := models.Purchase{
		ID:        uuid.New().String(),
		ItemName:  strings.TrimSpace(itemName),
		Amount:    amount,
		Timestamp: time.Now().Unix(),
	}
	user.Purchases = append(user.Purchases, purchase)
	user.CurrentBalance -= amount
	return purchase, nil
}

// TogglePaid flips the payment flag for the participant at userIndex.
// The flag never interacts with the balance.
func TogglePaid(split *models.Split, userIndex int, isPaid bool) error {
	if err := checkIndex(split, userIndex); err != nil {
		return err
	}
	split.Users[userIndex].IsPaid = isPaid
	return nil
}

func checkIndex(split *models.Split, userIndex int) error {
	if split == nil {
		return errors.New("no active split")
	}
	if userIndex < 0 || userIndex >= len(split.Users) {
		return fmt.Errorf("participant index %d out of range", userIndex)
	}
	return nil
}
