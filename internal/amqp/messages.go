package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EntrySyncMessage asks the worker to push one stored entry to the sheet.
// The worker reads the entry itself, so only the id travels.
type EntrySyncMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntrySyncMessage(id int64) *EntrySyncMessage {
	return &EntrySyncMessage{ID: id, Timestamp: time.Now().UTC()}
}

func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID <= 0 {
		return nil, fmt.Errorf("invalid entry id %d", msg.ID)
	}
	return &msg, nil
}
