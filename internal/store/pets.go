package store

import (
	"context"

	"github.com/google/uuid"

	"vetpoint/backend/internal/domain"
)

type PetUpdate struct {
	Name            *string
	Species         *domain.PetSpecies
	Breed           *string
	Age             *int
	Weight          *float64
	Color           *string
	Gender          *domain.PetGender
	MicrochipNumber *string
	Notes           *string
}

type PetRepository interface {
	Create(ctx context.Context, pet domain.Pet) (domain.Pet, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Pet, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Pet, error)
	Update(ctx context.Context, id uuid.UUID, upd PetUpdate) (domain.Pet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
