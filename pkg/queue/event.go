package queue

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	EventActivityRecorded EventType = "activity_recorded"
)

type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

type ActivityEventData struct {
	ActivityID   uint64 `json:"activity_id"`
	ActivityType string `json:"activity_type"`
	ActorID      string `json:"actor_id"`
	TargetID     string `json:"target_id"`
	TargetModel  string `json:"target_model"`
}

// NewEvent marshals data into an Event envelope.
func NewEvent(eventType EventType, data interface{}) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Timestamp: time.Now(), Data: raw}, nil
}

// Decode unmarshals the payload into dest.
func (e Event) Decode(dest interface{}) error {
	return json.Unmarshal(e.Data, dest)
}
