package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAppointmentConflict = errors.New("an appointment already exists for this slot")
	ErrProvisionNotFound   = errors.New("room provision not found")
)

// Repository contains all DB interactions needed by the booking service.
type Repository interface {
	// InsertAppointment persists a new appointment. A unique-index violation
	// on (owner, date, time range) is returned as ErrAppointmentConflict.
	InsertAppointment(ctx context.Context, appt *Appointment) error

	// Provision ledger for orphaned-room cleanup
	InsertProvision(ctx context.Context, p *RoomProvision) error
	MarkProvisionConsumed(ctx context.Context, id uuid.UUID) error
	MarkProvisionReleased(ctx context.Context, id uuid.UUID) error
	FindStaleProvisions(ctx context.Context, olderThan time.Time) ([]RoomProvision, error)
}
