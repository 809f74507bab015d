package pets

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"vetpoint/backend/internal/domain"
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

// ErrForbidden means the caller does not own the pet.
var ErrForbidden = errors.New("forbidden")

type Service struct {
	repo store.PetRepository
	log  *slog.Logger
}

func NewService(repo store.PetRepository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, log: log.With(slog.String("component", "service.pets"))}
}

type CreateInput struct {
	UserID          string
	Name            string
	Species         domain.PetSpecies
	Breed           string
	Age             int
	Weight          float64
	Color           string
	Gender          domain.PetGender
	MicrochipNumber string
	Notes           string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Pet, error) {
	if in.UserID == "" {
		return domain.Pet{}, validationError("user_id is required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Pet{}, validationError("name is required")
	}
	if !in.Species.Valid() {
		return domain.Pet{}, validationError("unknown species")
	}
	if !in.Gender.Valid() {
		return domain.Pet{}, validationError("unknown gender")
	}
	if in.Age < 0 {
		return domain.Pet{}, validationError("age cannot be negative")
	}
	if in.Weight < 0 {
		return domain.Pet{}, validationError("weight cannot be negative")
	}

	return s.repo.Create(ctx, domain.Pet{
		UserID:          in.UserID,
		Name:            name,
		Species:         in.Species,
		Breed:           strings.TrimSpace(in.Breed),
		Age:             in.Age,
		Weight:          in.Weight,
		Color:           strings.TrimSpace(in.Color),
		Gender:          in.Gender,
		MicrochipNumber: strings.TrimSpace(in.MicrochipNumber),
		Notes:           strings.TrimSpace(in.Notes),
	})
}

// Get returns a pet to its owner only.
func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (domain.Pet, error) {
	pet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Pet{}, err
	}
	if pet.UserID != userID {
		return domain.Pet{}, ErrForbidden
	}
	return pet, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]domain.Pet, error) {
	if userID == "" {
		return nil, validationError("user_id is required")
	}
	return s.repo.ListForUser(ctx, userID)
}

func (s *Service) Update(ctx context.Context, userID string, id uuid.UUID, upd store.PetUpdate) (domain.Pet, error) {
	if upd.Species != nil && !upd.Species.Valid() {
		return domain.Pet{}, validationError("unknown species")
	}
	if upd.Gender != nil && !upd.Gender.Valid() {
		return domain.Pet{}, validationError("unknown gender")
	}

	pet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Pet{}, err
	}
	if pet.UserID != userID {
		return domain.Pet{}, ErrForbidden
	}
	return s.repo.Update(ctx, id, upd)
}

// Delete removes the owner's pet; deleting an absent pet succeeds.
func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	pet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if pet.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
