package models

// CalculationType identifies the arithmetic performed by a standalone
// calculation or the kind of a persisted history record.
type CalculationType string

const (
	CalculationDivide     CalculationType = "divide"
	CalculationPercentage CalculationType = "percentage"
	CalculationSubtract   CalculationType = "subtract"
	CalculationSplitUsers CalculationType = "split_users"
)

// CalculationDetails carries the human-readable description of how a
// calculation result was produced.
type CalculationDetails struct {
	Type    CalculationType `json:"type"`
	Formula string          `json:"formula"`
}

// Calculation represents a persisted standalone calculation record.
type Calculation struct {
	// ID is the unique identifier for the record (UUID format), assigned by
	// the storage layer on create.
	ID string `json:"id"`

	// UserID identifies who ran the calculation. "anonymous" when no user
	// identity exists.
	UserID string `json:"userId"`

	// TotalAmount and UserAmount are the two operands.
	TotalAmount float64 `json:"totalAmount"`
	UserAmount  float64 `json:"userAmount"`

	// Result is the computed value: quotient, percentage or difference
	// depending on CalculationType.
	Result float64 `json:"result"`

	// Percentage is UserAmount as a share of TotalAmount, recorded for
	// every calculation type.
	Percentage float64 `json:"percentage"`

	// Remaining is what is left of TotalAmount after the operation.
	Remaining float64 `json:"remaining"`

	CalculationType CalculationType    `json:"calculationType"`
	Details         CalculationDetails `json:"details"`

	// Timestamp is the Unix timestamp assigned when the record is persisted.
	Timestamp int64 `json:"timestamp"`
}
