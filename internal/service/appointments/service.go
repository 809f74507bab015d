package appointments

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"vetpoint/backend/internal/domain"
	"vetpoint/backend/internal/events"
	"vetpoint/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

var (
	// ErrSlotTaken means the availability check ran and found an active
	// appointment occupying the slot.
	ErrSlotTaken = errors.New("slot already booked")
	// ErrInvalidTransition means the status change is not an allowed
	// edge for the acting party.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrForbidden means the caller is neither the owner nor the
	// assigned veterinarian of the record.
	ErrForbidden = errors.New("forbidden")
)

// errSlotCheckFailed aborts the slot transaction when the availability
// query itself fails, so the creation can be retried outside it.
var errSlotCheckFailed = errors.New("slot check failed")

// Actor is the authenticated caller, resolved once at the transport
// boundary.
type Actor struct {
	UserID string
	Role   domain.Role
}

type Service struct {
	repo    store.AppointmentRepository
	pets    store.PetRepository
	users   store.UserRepository
	clinics store.ClinicRepository
	vets    store.VeterinarianRepository
	bus     *events.Bus
	log     *slog.Logger
}

func NewService(
	repo store.AppointmentRepository,
	pets store.PetRepository,
	users store.UserRepository,
	clinics store.ClinicRepository,
	vets store.VeterinarianRepository,
	bus *events.Bus,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:    repo,
		pets:    pets,
		users:   users,
		clinics: clinics,
		vets:    vets,
		bus:     bus,
		log:     log.With(slog.String("component", "service.appointments")),
	}
}

type CreateInput struct {
	UserID         string
	PetID          uuid.UUID
	VeterinarianID uuid.UUID
	ClinicID       uuid.UUID
	Date           string
	Time           string
	Type           domain.AppointmentType
	Reason         string
	Notes          string
}

// CreateResult distinguishes a booking whose slot was verified free from
// one created while the availability check was failing.
type CreateResult struct {
	Appointment  domain.Appointment
	SlotVerified bool
}

// Create books a slot. The availability check runs under a slot lock so
// concurrent bookings for the same (veterinarian, date, time) serialize;
// a failure of the check itself is non-fatal and the appointment is
// created anyway, marked unverified.
func (s *Service) Create(ctx context.Context, in CreateInput) (CreateResult, error) {
	if err := validateCreate(in); err != nil {
		return CreateResult{}, err
	}

	appt := domain.Appointment{
		UserID:         in.UserID,
		PetID:          in.PetID,
		VeterinarianID: in.VeterinarianID,
		ClinicID:       in.ClinicID,
		Date:           in.Date,
		Time:           in.Time,
		Status:         domain.AppointmentPending,
		Type:           in.Type,
		Reason:         strings.TrimSpace(in.Reason),
		Notes:          strings.TrimSpace(in.Notes),
		PaymentStatus:  domain.PaymentPending,
	}

	var created domain.Appointment
	var checkErr error
	err := s.repo.InSlotTransaction(ctx, in.VeterinarianID, in.Date, in.Time, func(ctx context.Context, tx store.SlotTx) error {
		n, err := tx.CountActiveAtSlot(ctx, in.VeterinarianID, in.Date, in.Time)
		if err != nil {
			checkErr = err
			return errSlotCheckFailed
		}
		if n > 0 {
			return ErrSlotTaken
		}
		created, err = tx.CreateAppointment(ctx, appt)
		return err
	})

	slotVerified := true
	switch {
	case err == nil:
	case errors.Is(err, ErrSlotTaken):
		return CreateResult{}, ErrSlotTaken
	case errors.Is(err, errSlotCheckFailed):
		// Availability over consistency: a broken check must not block
		// the booking.
		s.log.Warn("availability check failed; creating unverified",
			slog.String("veterinarian_id", in.VeterinarianID.String()),
			slog.String("date", in.Date),
			slog.String("time", in.Time),
			slog.Any("err", checkErr),
		)
		slotVerified = false
		created, err = s.repo.Create(ctx, appt)
		if err != nil {
			return CreateResult{}, err
		}
	default:
		return CreateResult{}, err
	}

	s.publishCreated(ctx, created)

	return CreateResult{Appointment: created, SlotVerified: slotVerified}, nil
}

// publishCreated denormalizes names into the event so consumers do not
// re-query the store. Lookups are best effort.
func (s *Service) publishCreated(ctx context.Context, appt domain.Appointment) {
	event := events.AppointmentCreated{
		AppointmentID:  appt.ID,
		VeterinarianID: appt.VeterinarianID,
		Date:           appt.Date,
		Time:           appt.Time,
	}

	if pet, err := s.pets.GetByID(ctx, appt.PetID); err == nil {
		event.PetName = pet.Name
	} else {
		s.log.Warn("pet lookup for event failed", slog.String("pet_id", appt.PetID.String()), slog.Any("err", err))
	}
	if owner, err := s.users.GetByID(ctx, appt.UserID); err == nil {
		event.OwnerName = owner.Name
	} else {
		s.log.Warn("owner lookup for event failed", slog.String("user_id", appt.UserID), slog.Any("err", err))
	}
	if clinic, err := s.clinics.GetByID(ctx, appt.ClinicID); err == nil {
		event.ClinicName = clinic.Name
	} else {
		s.log.Warn("clinic lookup for event failed", slog.String("clinic_id", appt.ClinicID.String()), slog.Any("err", err))
	}

	s.bus.Publish(ctx, events.EventAppointmentCreated, event)
}

func validateCreate(in CreateInput) error {
	if in.UserID == "" {
		return validationError("user_id is required")
	}
	if in.PetID == uuid.Nil {
		return validationError("pet_id is required")
	}
	if in.VeterinarianID == uuid.Nil {
		return validationError("veterinarian_id is required")
	}
	if in.ClinicID == uuid.Nil {
		return validationError("clinic_id is required")
	}
	if _, err := time.Parse(domain.DateLayout, in.Date); err != nil {
		return validationError("date must be YYYY-MM-DD")
	}
	if !domain.ValidTimeSlot(in.Time) {
		return validationError("time is not a bookable slot")
	}
	if !in.Type.Valid() {
		return validationError("unknown appointment type")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return validationError("reason is required")
	}
	return nil
}

// Availability reports whether a slot is free of active appointments.
func (s *Service) Availability(ctx context.Context, vetID uuid.UUID, date, timeOfDay string) (bool, error) {
	if vetID == uuid.Nil {
		return false, validationError("veterinarian_id is required")
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return false, validationError("date must be YYYY-MM-DD")
	}
	if !domain.ValidTimeSlot(timeOfDay) {
		return false, validationError("time is not a bookable slot")
	}

	n, err := s.repo.CountActiveAtSlot(ctx, vetID, date, timeOfDay)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Get returns an appointment to its owner or to its assigned
// veterinarian; anyone else gets ErrForbidden, which is distinct from
// not-found.
func (s *Service) Get(ctx context.Context, actor Actor, id uuid.UUID) (domain.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	if _, err := s.partyFor(ctx, actor, appt); err != nil {
		return domain.Appointment{}, err
	}
	return appt, nil
}

// Transition moves an appointment along the status machine. The acting
// party is resolved from the actor's relationship to the record, never
// from client-supplied role strings.
func (s *Service) Transition(ctx context.Context, actor Actor, id uuid.UUID, to domain.AppointmentStatus) (domain.Appointment, error) {
	if !to.Valid() {
		return domain.Appointment{}, validationError("unknown status")
	}

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}

	party, err := s.partyFor(ctx, actor, appt)
	if err != nil {
		return domain.Appointment{}, err
	}

	if !domain.CanTransition(appt.Status, to, party) {
		return domain.Appointment{}, ErrInvalidTransition
	}

	updated, err := s.repo.Update(ctx, id, store.AppointmentUpdate{Status: &to})
	if err != nil {
		return domain.Appointment{}, err
	}

	s.log.Info("appointment transitioned",
		slog.String("appointment_id", id.String()),
		slog.String("from", string(appt.Status)),
		slog.String("to", string(to)),
		slog.String("by", string(party)),
	)
	return updated, nil
}

// Cancel is the convenience edge both audiences use.
func (s *Service) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (domain.Appointment, error) {
	return s.Transition(ctx, actor, id, domain.AppointmentCancelled)
}

type UpdateInput struct {
	Reason        *string
	Notes         *string
	PaymentStatus *domain.PaymentStatus
}

// Update merges non-status fields; only the owner may edit them.
func (s *Service) Update(ctx context.Context, actor Actor, id uuid.UUID, in UpdateInput) (domain.Appointment, error) {
	if in.PaymentStatus != nil && !in.PaymentStatus.Valid() {
		return domain.Appointment{}, validationError("unknown payment status")
	}

	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	if appt.UserID != actor.UserID {
		return domain.Appointment{}, ErrForbidden
	}

	return s.repo.Update(ctx, id, store.AppointmentUpdate{
		Reason:        in.Reason,
		Notes:         in.Notes,
		PaymentStatus: in.PaymentStatus,
	})
}

// Delete removes the owner's appointment record. Deleting an absent
// record succeeds.
func (s *Service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if appt.UserID != actor.UserID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// ListMine returns the owner's appointments newest first.
func (s *Service) ListMine(ctx context.Context, actor Actor) ([]domain.Appointment, error) {
	if actor.UserID == "" {
		return nil, validationError("user_id is required")
	}
	return s.repo.ListForUser(ctx, actor.UserID)
}

// ListIncoming returns the acting veterinarian's appointments soonest
// first.
func (s *Service) ListIncoming(ctx context.Context, actor Actor) ([]domain.Appointment, error) {
	vet, err := s.vets.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return s.repo.ListForVeterinarian(ctx, vet.ID)
}

// ListForClinic returns a clinic's appointments soonest first.
func (s *Service) ListForClinic(ctx context.Context, clinicID uuid.UUID) ([]domain.Appointment, error) {
	if clinicID == uuid.Nil {
		return nil, validationError("clinic_id is required")
	}
	return s.repo.ListForClinic(ctx, clinicID)
}

// partyFor resolves which side of the appointment the actor is on.
func (s *Service) partyFor(ctx context.Context, actor Actor, appt domain.Appointment) (domain.Party, error) {
	if actor.UserID == "" {
		return "", ErrForbidden
	}
	if appt.UserID == actor.UserID {
		return domain.PartyOwner, nil
	}

	vet, err := s.vets.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrForbidden
		}
		return "", err
	}
	if vet.ID == appt.VeterinarianID {
		return domain.PartyVeterinarian, nil
	}
	return "", ErrForbidden
}
