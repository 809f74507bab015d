package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vetpoint/backend/internal/domain"
	"vetpoint/backend/internal/service/appointments"
)

type appointmentsService interface {
	Create(ctx context.Context, in appointments.CreateInput) (appointments.CreateResult, error)
	Availability(ctx context.Context, vetID uuid.UUID, date, timeOfDay string) (bool, error)
	Get(ctx context.Context, actor appointments.Actor, id uuid.UUID) (domain.Appointment, error)
	Transition(ctx context.Context, actor appointments.Actor, id uuid.UUID, to domain.AppointmentStatus) (domain.Appointment, error)
	Cancel(ctx context.Context, actor appointments.Actor, id uuid.UUID) (domain.Appointment, error)
	Update(ctx context.Context, actor appointments.Actor, id uuid.UUID, in appointments.UpdateInput) (domain.Appointment, error)
	Delete(ctx context.Context, actor appointments.Actor, id uuid.UUID) error
	ListMine(ctx context.Context, actor appointments.Actor) ([]domain.Appointment, error)
	ListIncoming(ctx context.Context, actor appointments.Actor) ([]domain.Appointment, error)
	ListForClinic(ctx context.Context, clinicID uuid.UUID) ([]domain.Appointment, error)
}

type AppointmentsHandler struct {
	svc appointmentsService
	log *slog.Logger
}

func NewAppointmentsHandler(svc appointmentsService, log *slog.Logger) *AppointmentsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AppointmentsHandler{svc: svc, log: log.With(slog.String("component", "http.appointments"))}
}

type createAppointmentRequest struct {
	PetID          string `json:"petId" binding:"required"`
	VeterinarianID string `json:"veterinarianId" binding:"required"`
	ClinicID       string `json:"clinicId" binding:"required"`
	Date           string `json:"appointmentDate" binding:"required"`
	Time           string `json:"appointmentTime" binding:"required"`
	Type           string `json:"type" binding:"required"`
	Reason         string `json:"reason" binding:"required"`
	Notes          string `json:"notes"`
}

type createAppointmentResponse struct {
	Appointment  domain.Appointment `json:"appointment"`
	SlotVerified bool               `json:"slotVerified"`
}

func (h *AppointmentsHandler) Create(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "petId, veterinarianId, clinicId, appointmentDate, appointmentTime, type and reason are required"})
		return
	}

	petID, err := uuid.Parse(req.PetID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "petId must be a UUID"})
		return
	}
	vetID, err := uuid.Parse(req.VeterinarianID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "veterinarianId must be a UUID"})
		return
	}
	clinicID, err := uuid.Parse(req.ClinicID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "clinicId must be a UUID"})
		return
	}

	result, err := h.svc.Create(c.Request.Context(), appointments.CreateInput{
		UserID:         actorFrom(c).UserID,
		PetID:          petID,
		VeterinarianID: vetID,
		ClinicID:       clinicID,
		Date:           req.Date,
		Time:           req.Time,
		Type:           domain.AppointmentType(req.Type),
		Reason:         req.Reason,
		Notes:          req.Notes,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info("appointment created",
		slog.String("appointment_id", result.Appointment.ID.String()),
		slog.String("user_id", result.Appointment.UserID),
		slog.Bool("slot_verified", result.SlotVerified))
	c.JSON(http.StatusCreated, createAppointmentResponse{
		Appointment:  result.Appointment,
		SlotVerified: result.SlotVerified,
	})
}

// Availability answers ?veterinarianId=&date=&time= with whether the
// slot is free.
func (h *AppointmentsHandler) Availability(c *gin.Context) {
	vetID, err := uuid.Parse(c.Query("veterinarianId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "veterinarianId must be a UUID"})
		return
	}

	available, err := h.svc.Availability(c.Request.Context(), vetID, c.Query("date"), c.Query("time"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

func (h *AppointmentsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}

	appt, err := h.svc.Get(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentsHandler) ListMine(c *gin.Context) {
	out, err := h.svc.ListMine(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if out == nil {
		out = []domain.Appointment{}
	}
	c.JSON(http.StatusOK, out)
}

func (h *AppointmentsHandler) ListIncoming(c *gin.Context) {
	out, err := h.svc.ListIncoming(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if out == nil {
		out = []domain.Appointment{}
	}
	c.JSON(http.StatusOK, out)
}

func (h *AppointmentsHandler) ListForClinic(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}

	out, err := h.svc.ListForClinic(c.Request.Context(), clinicID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if out == nil {
		out = []domain.Appointment{}
	}
	c.JSON(http.StatusOK, out)
}

type transitionRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *AppointmentsHandler) Transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	appt, err := h.svc.Transition(c.Request.Context(), actorFrom(c), id, domain.AppointmentStatus(req.Status))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentsHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}

	appt, err := h.svc.Cancel(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

type updateAppointmentRequest struct {
	Reason        *string `json:"reason"`
	Notes         *string `json:"notes"`
	PaymentStatus *string `json:"paymentStatus"`
}

func (h *AppointmentsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}

	var req updateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	in := appointments.UpdateInput{Reason: req.Reason, Notes: req.Notes}
	if req.PaymentStatus != nil {
		ps := domain.PaymentStatus(*req.PaymentStatus)
		in.PaymentStatus = &ps
	}

	appt, err := h.svc.Update(c.Request.Context(), actorFrom(c), id, in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
