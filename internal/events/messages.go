package events

import (
	"encoding/json"
	"time"
)

// SplitChangedMessage announces that a persisted split was created or
// mutated. Consumers re-read the record by ID; the message carries no
// snapshot payload.
type SplitChangedMessage struct {
	SplitID   string    `json:"splitId"`
	Action    string    `json:"action"` // "created", "updated" or "deleted"
	Timestamp time.Time `json:"timestamp"`
}

// NewSplitChangedMessage builds a change message for the given split.
func NewSplitChangedMessage(splitID, action string) *SplitChangedMessage {
	return &SplitChangedMessage{
		SplitID:   splitID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *SplitChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SplitChangedMessageFromJSON creates a message from JSON bytes.
func SplitChangedMessageFromJSON(data []byte) (*SplitChangedMessage, error) {
	var msg SplitChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
