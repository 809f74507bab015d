package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vetpoint/backend/internal/domain"
	"vetpoint/backend/internal/service/directory"
)

type directoryService interface {
	ListClinics(ctx context.Context) ([]domain.Clinic, error)
	GetClinic(ctx context.Context, id uuid.UUID) (domain.Clinic, error)
	CreateClinic(ctx context.Context, in directory.CreateClinicInput) (domain.Clinic, error)
	ListVeterinarians(ctx context.Context, clinicID uuid.UUID) ([]domain.Veterinarian, error)
	GetVeterinarian(ctx context.Context, id uuid.UUID) (domain.Veterinarian, error)
	BecomeVeterinarian(ctx context.Context, in directory.BecomeVeterinarianInput) (domain.Veterinarian, error)
	UpdateVeterinarian(ctx context.Context, userID string, id uuid.UUID, in directory.UpdateVeterinarianInput) (domain.Veterinarian, error)
}

type DirectoryHandler struct {
	svc directoryService
	log *slog.Logger
}

func NewDirectoryHandler(svc directoryService, log *slog.Logger) *DirectoryHandler {
	if log == nil {
		log = slog.Default()
	}
	return &DirectoryHandler{svc: svc, log: log.With(slog.String("component", "http.directory"))}
}

func (h *DirectoryHandler) ListClinics(c *gin.Context) {
	out, err := h.svc.ListClinics(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if out == nil {
		out = []domain.Clinic{}
	}
	c.JSON(http.StatusOK, out)
}

func (h *DirectoryHandler) GetClinic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}

	clinic, err := h.svc.GetClinic(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, clinic)
}

type createClinicRequest struct {
	Name             string          `json:"name" binding:"required"`
	Address          domain.Address  `json:"address"`
	Phone            string          `json:"phone" binding:"required"`
	Email            string          `json:"email"`
	Website          string          `json:"website"`
	Description      string          `json:"description"`
	Services         []string        `json:"services"`
	Facilities       []string        `json:"facilities"`
	EmergencyService bool            `json:"emergencyService"`
	IsOpen24Hours    bool            `json:"isOpen24Hours"`
	PhotoURL         string          `json:"photoUrl"`
	Location         domain.GeoPoint `json:"location"`
}

func (h *DirectoryHandler) CreateClinic(c *gin.Context) {
	var req createClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and phone are required"})
		return
	}

	clinic, err := h.svc.CreateClinic(c.Request.Context(), directory.CreateClinicInput{
		Name:             req.Name,
		Address:          req.Address,
		Phone:            req.Phone,
		Email:            req.Email,
		Website:          req.Website,
		Description:      req.Description,
		Services:         req.Services,
		Facilities:       req.Facilities,
		EmergencyService: req.EmergencyService,
		IsOpen24Hours:    req.IsOpen24Hours,
		PhotoURL:         req.PhotoURL,
		Location:         req.Location,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info("clinic created", slog.String("clinic_id", clinic.ID.String()))
	c.JSON(http.StatusCreated, clinic)
}

// ListVeterinarians optionally filters by the clinicId query parameter.
func (h *DirectoryHandler) ListVeterinarians(c *gin.Context) {
	clinicID := uuid.Nil
	if raw := c.Query("clinicId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "clinicId must be a UUID"})
			return
		}
		clinicID = id
	}

	out, err := h.svc.ListVeterinarians(c.Request.Context(), clinicID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if out == nil {
		out = []domain.Veterinarian{}
	}
	c.JSON(http.StatusOK, out)
}

func (h *DirectoryHandler) GetVeterinarian(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}

	vet, err := h.svc.GetVeterinarian(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, vet)
}

type becomeVeterinarianRequest struct {
	Name           string   `json:"name" binding:"required"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Specialization []string `json:"specialization"`
	Experience     int      `json:"experience"`
	Education      string   `json:"education"`
	LicenseNumber  string   `json:"licenseNumber" binding:"required"`
	ClinicID       string   `json:"clinicId" binding:"required"`
}

func (h *DirectoryHandler) BecomeVeterinarian(c *gin.Context) {
	var req becomeVeterinarianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, licenseNumber and clinicId are required"})
		return
	}

	clinicID, err := uuid.Parse(req.ClinicID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "clinicId must be a UUID"})
		return
	}

	vet, err := h.svc.BecomeVeterinarian(c.Request.Context(), directory.BecomeVeterinarianInput{
		UserID:         actorFrom(c).UserID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		Education:      req.Education,
		LicenseNumber:  req.LicenseNumber,
		ClinicID:       clinicID,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info("veterinarian registered",
		slog.String("veterinarian_id", vet.ID.String()),
		slog.String("user_id", vet.UserID))
	c.JSON(http.StatusCreated, vet)
}

type updateVeterinarianRequest struct {
	Name           *string              `json:"name"`
	Phone          *string              `json:"phone"`
	Specialization *[]string            `json:"specialization"`
	Experience     *int                 `json:"experience"`
	Education      *string              `json:"education"`
	IsAvailable    *bool                `json:"isAvailable"`
	WorkingHours   *domain.WorkingHours `json:"workingHours"`
}

func (h *DirectoryHandler) UpdateVeterinarian(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}

	var req updateVeterinarianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	vet, err := h.svc.UpdateVeterinarian(c.Request.Context(), actorFrom(c).UserID, id, directory.UpdateVeterinarianInput{
		Name:           req.Name,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		Education:      req.Education,
		IsAvailable:    req.IsAvailable,
		WorkingHours:   req.WorkingHours,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, vet)
}
