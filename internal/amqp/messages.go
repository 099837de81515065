package amqp

import (
	"encoding/json"
	"time"

	"billed/internal/core"
)

// BillSubmittedMessage carries a bill submitted elsewhere, to be stored by the ingest worker.
type BillSubmittedMessage struct {
	Bill      core.Bill `json:"bill"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBillSubmittedMessage wraps b with the current time.
func NewBillSubmittedMessage(b core.Bill) *BillSubmittedMessage {
	return &BillSubmittedMessage{
		Bill:      b,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BillSubmittedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BillSubmittedMessageFromJSON decodes a message body.
func BillSubmittedMessageFromJSON(data []byte) (*BillSubmittedMessage, error) {
	var msg BillSubmittedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
