package booking

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentKind string

const KindVideo AppointmentKind = "video"

type AppointmentStatus string

const StatusScheduled AppointmentStatus = "scheduled"

// Visitor is the anonymous booker's contact info. Phone is optional; the
// other fields are required before any side effect runs.
type Visitor struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

func (v Visitor) FullName() string {
	return v.FirstName + " " + v.LastName
}

// Request is one booking attempt: a visitor, a selected slot, and the page
// owner. It is consumed exactly once and never retried automatically.
type Request struct {
	Visitor Visitor
	Date    time.Time // midnight in the page's time zone
	Start   string    // "HH:MM"
}

// Appointment is the persisted record of a confirmed booking. It is
// insert-only from this subsystem's point of view.
type Appointment struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Title        string
	ContactLabel string
	Date         string // ISO-8601 calendar date
	TimeRange    string // "HH:MM - HH:MM"
	Kind         AppointmentKind
	Status       AppointmentStatus
	JoinURL      string
	Notes        string
	CreatedAt    time.Time
}

// Confirmation is what a successful booking returns to the visitor.
type Confirmation struct {
	Appointment *Appointment
	JoinURL     string
}

// RoomProvision is the ledger row written when a room is created, so rooms
// that never became appointments can be swept later. ConsumedAt is set when
// the appointment write succeeds; ReleasedAt when the room was compensated
// or reaped.
type RoomProvision struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	MeetingID  string
	RoomURL    string
	CreatedAt  time.Time
	ConsumedAt *time.Time
	ReleasedAt *time.Time
}
