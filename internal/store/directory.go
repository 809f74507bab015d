package store

import (
	"context"

	"github.com/google/uuid"

	"vetpoint/backend/internal/domain"
)

type ClinicRepository interface {
	Create(ctx context.Context, clinic domain.Clinic) (domain.Clinic, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Clinic, error)
	List(ctx context.Context) ([]domain.Clinic, error)
}

type VeterinarianUpdate struct {
	Name           *string
	Phone          *string
	Specialization *[]string
	Experience     *int
	Education      *string
	IsAvailable    *bool
	WorkingHours   *domain.WorkingHours
}

type VeterinarianRepository interface {
	Create(ctx context.Context, vet domain.Veterinarian) (domain.Veterinarian, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Veterinarian, error)
	GetByUserID(ctx context.Context, userID string) (domain.Veterinarian, error)
	List(ctx context.Context) ([]domain.Veterinarian, error)
	ListForClinic(ctx context.Context, clinicID uuid.UUID) ([]domain.Veterinarian, error)
	Update(ctx context.Context, id uuid.UUID, upd VeterinarianUpdate) (domain.Veterinarian, error)
}
