package events

import "time"

// Event is the contract for statistics events emitted after successful
// session or chat transitions.
type Event interface {
	// EventType returns the unique code for this event (e.g. "ASSIGN_SESSION").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event codes consumed by the statistics service.
const (
	TypeAssignSession     = "ASSIGN_SESSION"
	TypeArchiveSession    = "ARCHIVE_SESSION"
	TypeDeactivateSession = "DEACTIVATE_SESSION"
	TypeCreateEnquiry     = "CREATE_ENQUIRY"
	TypeStartGroupChat    = "START_GROUP_CHAT"
	TypeStopGroupChat     = "STOP_GROUP_CHAT"
	TypeRegisterUser      = "REGISTER_USER"
)
