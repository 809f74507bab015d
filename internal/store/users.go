package store

import (
	"context"

	"github.com/google/uuid"

	"vetpoint/backend/internal/domain"
)

type UserUpdate struct {
	Name      *string
	FirstName *string
	LastName  *string
	Role      *domain.Role
	PhotoURL  *string
	ClinicID  *uuid.UUID
}

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (domain.User, error)
}
