package store

import (
	"context"

	"github.com/google/uuid"

	"vetpoint/backend/internal/domain"
)

// AppointmentUpdate is a partial update; nil fields are left untouched.
// The repo always stamps updated_at.
type AppointmentUpdate struct {
	Status        *domain.AppointmentStatus
	PaymentStatus *domain.PaymentStatus
	Reason        *string
	Notes         *string
	Date          *string
	Time          *string
}

type AppointmentRepository interface {
	Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	Update(ctx context.Context, id uuid.UUID, upd AppointmentUpdate) (domain.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// ListForUser returns the owner's appointments newest first; the two
	// veterinarian-facing lists are soonest first.
	ListForUser(ctx context.Context, userID string) ([]domain.Appointment, error)
	ListForVeterinarian(ctx context.Context, vetID uuid.UUID) ([]domain.Appointment, error)
	ListForClinic(ctx context.Context, clinicID uuid.UUID) ([]domain.Appointment, error)

	// CountActiveAtSlot counts pending/confirmed appointments occupying
	// the (veterinarian, date, time) slot.
	CountActiveAtSlot(ctx context.Context, vetID uuid.UUID, date, timeOfDay string) (int, error)

	// InSlotTransaction runs fn inside a transaction that holds an
	// exclusive lock on the slot, serializing concurrent bookings.
	InSlotTransaction(ctx context.Context, vetID uuid.UUID, date, timeOfDay string, fn func(ctx context.Context, tx SlotTx) error) error
}

// SlotTx is the slice of the appointment repo available while a slot
// lock is held.
type SlotTx interface {
	CountActiveAtSlot(ctx context.Context, vetID uuid.UUID, date, timeOfDay string) (int, error)
	CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
}
