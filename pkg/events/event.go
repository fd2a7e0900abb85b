package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	Event         string    `json:"event"`         // e.g., "item.created"
	Version       string    `json:"version"`       // e.g., "v1"
	Timestamp     time.Time `json:"timestamp"`     // Event occurrence time
	Payload       any       `json:"payload"`       // The actual event data
	TraceID       string    `json:"traceId"`       // For distributed tracing
	CorrelationID string    `json:"correlationId"` // For request correlation
}

type Headers struct {
	TraceID       string
	CorrelationID string
	Service       string
}

func NewEvent(eventName, version string, payload any, headers Headers) *Event {
	return &Event{
		Event:         eventName,
		Version:       version,
		Timestamp:     time.Now().UTC(),
		Payload:       payload,
		TraceID:       headers.TraceID,
		CorrelationID: headers.CorrelationID,
	}
}

func NewHeaders(service string) Headers {
	return Headers{
		TraceID:       GenerateTraceID(),
		CorrelationID: GenerateCorrelationID(),
		Service:       service,
	}
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Event) GetRoutingKey() string {
	return e.Event + "." + e.Version
}

// DecodePayload re-decodes the generic payload of a consumed event into dst.
func (e *Event) DecodePayload(dst any) error {
	raw, err := json.Marshal(e.Payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func GenerateTraceID() string {
	return uuid.New().String()
}

func GenerateCorrelationID() string {
	return uuid.New().String()
}
