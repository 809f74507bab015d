package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vetpoint/backend/internal/events"
	"vetpoint/backend/internal/store"
)

// Sender is the slice of the push client the dispatcher needs.
type Sender interface {
	Send(ctx context.Context, n Notification) (string, error)
}

// Dispatcher listens for appointment_created and pushes a message to the
// assigned veterinarian's device. Every outcome, success or failure, is
// reported back on the bus as notification_sent.
type Dispatcher struct {
	sender  Sender
	devices store.PushDeviceRepository
	vets    store.VeterinarianRepository
	bus     *events.Bus
	log     *slog.Logger

	sub *events.Subscription
}

func NewDispatcher(sender Sender, devices store.PushDeviceRepository, vets store.VeterinarianRepository, bus *events.Bus, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		sender:  sender,
		devices: devices,
		vets:    vets,
		bus:     bus,
		log:     log.With(slog.String("component", "notify.dispatcher")),
	}
}

// Start subscribes the dispatcher to the bus. Calling Start twice is a
// no-op.
func (d *Dispatcher) Start() {
	if d.sub != nil {
		return
	}
	d.sub = d.bus.Subscribe(events.EventAppointmentCreated, d.onAppointmentCreated)
}

func (d *Dispatcher) Stop() {
	if d.sub != nil {
		d.sub.Cancel()
		d.sub = nil
	}
}

func (d *Dispatcher) onAppointmentCreated(ctx context.Context, payload any) {
	event, ok := payload.(events.AppointmentCreated)
	if !ok {
		d.log.Error("unexpected payload type on appointment_created", slog.String("type", fmt.Sprintf("%T", payload)))
		return
	}

	vet, err := d.vets.GetByID(ctx, event.VeterinarianID)
	if err != nil {
		d.report(ctx, event, "", fmt.Errorf("resolve veterinarian: %w", err))
		return
	}
	if vet.UserID == "" {
		// Listing without an account; nobody to push to.
		d.log.Info("veterinarian has no linked account, skipping push",
			slog.String("veterinarian_id", event.VeterinarianID.String()))
		return
	}

	device, err := d.devices.GetByUserID(ctx, vet.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			d.log.Info("no registered device, skipping push", slog.String("user_id", vet.UserID))
			return
		}
		d.report(ctx, event, vet.UserID, fmt.Errorf("resolve device: %w", err))
		return
	}

	_, err = d.sender.Send(ctx, Notification{
		PlayerIDs: []string{device.PlayerID},
		Heading:   "Yeni Randevu",
		Content:   fmt.Sprintf("%s, %s için %s %s tarihinde randevu aldı", event.OwnerName, event.PetName, event.Date, event.Time),
		Data: map[string]any{
			"type":          "appointment_created",
			"appointmentId": event.AppointmentID.String(),
		},
	})
	d.report(ctx, event, vet.UserID, err)
}

func (d *Dispatcher) report(ctx context.Context, event events.AppointmentCreated, recipientID string, err error) {
	sent := events.NotificationSent{
		AppointmentID: event.AppointmentID,
		RecipientID:   recipientID,
		RecipientType: events.RecipientVeterinarian,
		Success:       err == nil,
		Timestamp:     time.Now().UTC(),
	}
	if err != nil {
		sent.Error = err.Error()
		d.log.Warn("push dispatch failed",
			slog.String("appointment_id", event.AppointmentID.String()),
			slog.Any("err", err))
	}
	d.bus.Publish(ctx, events.EventNotificationSent, sent)
}
