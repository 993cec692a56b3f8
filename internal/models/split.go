package models

// Purchase represents a single spend recorded against one participant.
type Purchase struct {
	// ID is the unique identifier for the purchase (UUID format).
	ID string `json:"id"`

	// ItemName is the label for what was bought (e.g., "Coffee").
	ItemName string `json:"itemName"`

	// Amount is the positive amount spent, in Kip.
	Amount float64 `json:"amount"`

	// Timestamp is the Unix timestamp when the purchase was recorded.
	Timestamp int64 `json:"timestamp"`
}

// UserShare represents one participant in a split session.
type UserShare struct {
	// UserID is the participant's identifier, unique within a split and
	// assigned sequentially at setup ("user_1", "user_2", ...).
	UserID string `json:"userId"`

	// UserName is the non-empty display name. Setup rejects blank names.
	UserName string `json:"userName"`

	// InitialShare is the equal per-person portion of the total amount,
	// fixed at split creation.
	InitialShare float64 `json:"initialShare"`

	// CurrentBalance is what this participant still owes (positive) or is
	// owed (negative). Starts equal to InitialShare and decreases by each
	// purchase amount.
	CurrentBalance float64 `json:"currentBalance"`

	// Purchases are this participant's recorded spends, insertion order
	// preserved, append-only.
	Purchases []Purchase `json:"purchases"`

	// IsPaid marks a participant as settled up. Flipped only by an explicit
	// toggle; it is bookkeeping for the history view and is not derived
	// from CurrentBalance.
	IsPaid bool `json:"isPaid,omitempty"`
}

// Split represents one split session: a total amount divided equally among
// a fixed set of participants.
type Split struct {
	// ID is the unique identifier for the split (UUID format), assigned by
	// the storage layer on create.
	ID string `json:"id"`

	// TotalAmount is the positive sum being divided.
	TotalAmount float64 `json:"totalAmount"`

	// TotalUsers is the participant count.
	TotalUsers int `json:"totalUsers"`

	// PerUserAmount equals TotalAmount / TotalUsers. Duplicated from the
	// participants' InitialShare for persisted-document convenience.
	PerUserAmount float64 `json:"perUserAmount"`

	// Users are the participants, in setup order.
	Users []UserShare `json:"users"`

	// Timestamp is the Unix timestamp assigned when the split is persisted.
	Timestamp int64 `json:"timestamp"`
}

// Clone returns a deep copy of the split. The session controller hands
// copies to collaborators so the owned state cannot be mutated from outside.
func (s *Split) Clone() *Split {
	if s == nil {
		return nil
	}
	out := *s
	out.Users = make([]UserShare, len(s.Users))
	for i, u := range s.Users {
		out.Users[i] = u
		out.Users[i].Purchases = append([]Purchase(nil), u.Purchases...)
	}
	return &out
}
