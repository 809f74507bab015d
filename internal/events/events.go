package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventAppointmentCreated   = "appointment_created"
	EventNotificationSent     = "notification_sent"
	EventNotificationReceived = "notification_received"
	EventNotificationClicked  = "notification_clicked"
)

// AppointmentCreated carries enough denormalized data that consumers do
// not have to re-query the store.
type AppointmentCreated struct {
	AppointmentID  uuid.UUID `json:"appointmentId"`
	PetName        string    `json:"petName"`
	OwnerName      string    `json:"ownerName"`
	VeterinarianID uuid.UUID `json:"veterinarianId"`
	Date           string    `json:"appointmentDate"`
	Time           string    `json:"appointmentTime"`
	ClinicName     string    `json:"clinicName,omitempty"`
}

type RecipientType string

const (
	RecipientVeterinarian RecipientType = "veterinarian"
	RecipientOwner        RecipientType = "owner"
)

// NotificationSent reports the delivery outcome of a push dispatch; it
// is the only consumer-facing signal of a send failure.
type NotificationSent struct {
	AppointmentID uuid.UUID     `json:"appointmentId"`
	RecipientID   string        `json:"recipientId"`
	RecipientType RecipientType `json:"recipientType"`
	Success       bool          `json:"success"`
	Error         string        `json:"error,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
}
