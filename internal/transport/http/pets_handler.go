package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vetpoint/backend/internal/domain"
	"vetpoint/backend/internal/service/pets"
	"vetpoint/backend/internal/store"
)

type petsService interface {
	Create(ctx context.Context, in pets.CreateInput) (domain.Pet, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (domain.Pet, error)
	ListMine(ctx context.Context, userID string) ([]domain.Pet, error)
	Update(ctx context.Context, userID string, id uuid.UUID, upd store.PetUpdate) (domain.Pet, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

type PetsHandler struct {
	svc petsService
	log *slog.Logger
}

func NewPetsHandler(svc petsService, log *slog.Logger) *PetsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &PetsHandler{svc: svc, log: log.With(slog.String("component", "http.pets"))}
}

type createPetRequest struct {
	Name            string  `json:"name" binding:"required"`
	Species         string  `json:"type" binding:"required"`
	Breed           string  `json:"breed"`
	Age             int     `json:"age"`
	Weight          float64 `json:"weight"`
	Color           string  `json:"color"`
	Gender          string  `json:"gender" binding:"required"`
	MicrochipNumber string  `json:"microchipNumber"`
	Notes           string  `json:"notes"`
}

func (h *PetsHandler) Create(c *gin.Context) {
	var req createPetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, type and gender are required"})
		return
	}

	pet, err := h.svc.Create(c.Request.Context(), pets.CreateInput{
		UserID:          actorFrom(c).UserID,
		Name:            req.Name,
		Species:         domain.PetSpecies(req.Species),
		Breed:           req.Breed,
		Age:             req.Age,
		Weight:          req.Weight,
		Color:           req.Color,
		Gender:          domain.PetGender(req.Gender),
		MicrochipNumber: req.MicrochipNumber,
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info("pet created", slog.String("pet_id", pet.ID.String()), slog.String("user_id", pet.UserID))
	c.JSON(http.StatusCreated, pet)
}

func (h *PetsHandler) List(c *gin.Context) {
	out, err := h.svc.ListMine(c.Request.Context(), actorFrom(c).UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if out == nil {
		out = []domain.Pet{}
	}
	c.JSON(http.StatusOK, out)
}

func (h *PetsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}

	pet, err := h.svc.Get(c.Request.Context(), actorFrom(c).UserID, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, pet)
}

type updatePetRequest struct {
	Name            *string  `json:"name"`
	Species         *string  `json:"type"`
	Breed           *string  `json:"breed"`
	Age             *int     `json:"age"`
	Weight          *float64 `json:"weight"`
	Color           *string  `json:"color"`
	Gender          *string  `json:"gender"`
	MicrochipNumber *string  `json:"microchipNumber"`
	Notes           *string  `json:"notes"`
}

func (h *PetsHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}

	var req updatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	upd := store.PetUpdate{
		Name:            req.Name,
		Breed:           req.Breed,
		Age:             req.Age,
		Weight:          req.Weight,
		Color:           req.Color,
		MicrochipNumber: req.MicrochipNumber,
		Notes:           req.Notes,
	}
	if req.Species != nil {
		species := domain.PetSpecies(*req.Species)
		upd.Species = &species
	}
	if req.Gender != nil {
		gender := domain.PetGender(*req.Gender)
		upd.Gender = &gender
	}

	pet, err := h.svc.Update(c.Request.Context(), actorFrom(c).UserID, id, upd)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, pet)
}

func (h *PetsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actorFrom(c).UserID, id); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
