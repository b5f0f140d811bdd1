package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated = "OrderCreated"
	EventCaseReported = "CaseReported"
)

const (
	TopicOrderCreated = "apotek.order.created"
	TopicCaseReported = "hospital.case.reported"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// New wraps a payload in a v1 envelope. Panics on a non-serializable payload;
// all payloads here are plain structs.
func New(eventType, producer, traceID, correlationID string, payload any) Envelope {
	b, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: correlationID,
		Payload:       b,
	}
}

// Partition key keeps all events for one record in order.
func PartitionKey(id string) []byte { return []byte(id) }
