package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Role strings are kept as the mobile client stored them.
type Role string

const (
	RoleVeterinarian Role = "veteriner"
	RolePetOwner     Role = "hayvan_sahibi"
)

func (r Role) Valid() bool {
	return r == RoleVeterinarian || r == RolePetOwner
}

// User mirrors the identity provider's account. The ID is the provider's
// uid, not a generated one, so sign-ins converge on the same row. Users
// are never hard-deleted.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           string     `bun:"id,pk" json:"id"`
	Email        string     `bun:"email,notnull" json:"email"`
	Name         string     `bun:"name,notnull" json:"name"`
	FirstName    string     `bun:"first_name" json:"firstName,omitempty"`
	LastName     string     `bun:"last_name" json:"lastName,omitempty"`
	Role         Role       `bun:"role" json:"role,omitempty"`
	PhotoURL     string     `bun:"photo_url" json:"photoUrl,omitempty"`
	ClinicID     *uuid.UUID `bun:"clinic_id,type:uuid" json:"clinicId,omitempty"`
	PasswordHash string     `bun:"password_hash" json:"-"`
	CreatedAt    time.Time  `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt    time.Time  `bun:"updated_at,notnull" json:"updatedAt"`
}

func (u *User) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if u.CreatedAt.IsZero() {
			u.CreatedAt = now
		}
		if u.UpdatedAt.IsZero() {
			u.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		u.UpdatedAt = now
	}
	return nil
}
