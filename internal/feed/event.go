package feed

import (
	"encoding/json"
	"time"
)

// Op classifies a change event.
type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// Event describes one row change in a synced table. Before and After carry
// the row snapshots as raw JSON: created events have only After, deleted
// events only Before, updated events both.
type Event struct {
	Op     Op              `json:"op"`
	Table  string          `json:"table"`
	ID     string          `json:"id"`
	Before json.RawMessage `json:"before,omitempty"`
	After  json.RawMessage `json:"after,omitempty"`
	At     time.Time       `json:"at"`
}

// Record returns the most relevant snapshot for the event: After when
// present, otherwise Before.
func (e Event) Record() json.RawMessage {
	if len(e.After) > 0 {
		return e.After
	}
	return e.Before
}

// Publisher is the write side of the change feed. The store calls Publish
// after each mutation; a nil publisher disables sync.
type Publisher interface {
	Publish(pairID string, ev Event) error
}
