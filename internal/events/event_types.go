package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintResolved      EventType = "complaint_resolved"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus         domain.ComplaintStatus `json:"old_status"`
	NewStatus         domain.ComplaintStatus `json:"new_status"`
	ResolutionMessage string                 `json:"resolution_message,omitempty"`
}

// ComplaintResolvedPayload payload.
type ComplaintResolvedPayload struct {
	ResolutionMessage string `json:"resolution_message,omitempty"`
}
