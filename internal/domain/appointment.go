package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentNoShow    AppointmentStatus = "no-show"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled, AppointmentNoShow:
		return true
	}
	return false
}

// Active appointments are the ones that occupy a slot.
func (s AppointmentStatus) Active() bool {
	return s == AppointmentPending || s == AppointmentConfirmed
}

type AppointmentType string

const (
	AppointmentCheckup      AppointmentType = "checkup"
	AppointmentVaccination  AppointmentType = "vaccination"
	AppointmentSurgery      AppointmentType = "surgery"
	AppointmentEmergency    AppointmentType = "emergency"
	AppointmentConsultation AppointmentType = "consultation"
	AppointmentOther        AppointmentType = "other"
)

func (t AppointmentType) Valid() bool {
	switch t {
	case AppointmentCheckup, AppointmentVaccination, AppointmentSurgery, AppointmentEmergency, AppointmentConsultation, AppointmentOther:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// TimeSlots is the fixed set of bookable times, matching the mobile
// client's picker.
var TimeSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"13:00", "13:30", "14:00", "14:30", "15:00", "15:30",
	"16:00", "16:30", "17:00", "17:30",
}

func ValidTimeSlot(t string) bool {
	for _, s := range TimeSlots {
		if s == t {
			return true
		}
	}
	return false
}

const DateLayout = "2006-01-02"

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID             uuid.UUID         `bun:"id,pk,type:uuid" json:"id"`
	UserID         string            `bun:"user_id,notnull" json:"userId"`
	PetID          uuid.UUID         `bun:"pet_id,notnull,type:uuid" json:"petId"`
	VeterinarianID uuid.UUID         `bun:"veterinarian_id,notnull,type:uuid" json:"veterinarianId"`
	ClinicID       uuid.UUID         `bun:"clinic_id,notnull,type:uuid" json:"clinicId"`
	Date           string            `bun:"date,notnull" json:"date"`
	Time           string            `bun:"time,notnull" json:"time"`
	Status         AppointmentStatus `bun:"status,notnull" json:"status"`
	Type           AppointmentType   `bun:"type,notnull" json:"type"`
	Reason         string            `bun:"reason,notnull" json:"reason"`
	Notes          string            `bun:"notes" json:"notes,omitempty"`
	PaymentStatus  PaymentStatus     `bun:"payment_status,notnull" json:"paymentStatus"`
	CreatedAt      time.Time         `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt      time.Time         `bun:"updated_at,notnull" json:"updatedAt"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}

// Party identifies which side of the appointment is acting on it.
type Party string

const (
	PartyOwner        Party = "owner"
	PartyVeterinarian Party = "veterinarian"
)

// CanTransition reports whether the given party may move an appointment
// from its current status to the requested one. The edges:
//
//	pending   -> confirmed  (veterinarian)
//	pending   -> cancelled  (owner, or veterinarian as a reject)
//	confirmed -> completed  (veterinarian)
//	confirmed -> cancelled  (either party)
//	confirmed -> no-show    (veterinarian)
//
// cancelled, completed and no-show are terminal.
func CanTransition(from, to AppointmentStatus, by Party) bool {
	switch from {
	case AppointmentPending:
		switch to {
		case AppointmentConfirmed:
			return by == PartyVeterinarian
		case AppointmentCancelled:
			return true
		}
	case AppointmentConfirmed:
		switch to {
		case AppointmentCompleted, AppointmentNoShow:
			return by == PartyVeterinarian
		case AppointmentCancelled:
			return true
		}
	}
	return false
}
