package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type PetSpecies string

const (
	PetDog     PetSpecies = "dog"
	PetCat     PetSpecies = "cat"
	PetBird    PetSpecies = "bird"
	PetFish    PetSpecies = "fish"
	PetRabbit  PetSpecies = "rabbit"
	PetHamster PetSpecies = "hamster"
	PetOther   PetSpecies = "other"
)

func (s PetSpecies) Valid() bool {
	switch s {
	case PetDog, PetCat, PetBird, PetFish, PetRabbit, PetHamster, PetOther:
		return true
	}
	return false
}

type PetGender string

const (
	PetMale   PetGender = "male"
	PetFemale PetGender = "female"
)

func (g PetGender) Valid() bool {
	return g == PetMale || g == PetFemale
}

// Pet is owned by exactly one user; only the owner may read or mutate it.
type Pet struct {
	bun.BaseModel `bun:"table:pets"`

	ID              uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	UserID          string     `bun:"user_id,notnull" json:"userId"`
	Name            string     `bun:"name,notnull" json:"name"`
	Species         PetSpecies `bun:"species,notnull" json:"type"`
	Breed           string     `bun:"breed" json:"breed,omitempty"`
	Age             int        `bun:"age,notnull" json:"age"`
	Weight          float64    `bun:"weight,notnull" json:"weight"`
	Color           string     `bun:"color,notnull" json:"color"`
	Gender          PetGender  `bun:"gender,notnull" json:"gender"`
	MicrochipNumber string     `bun:"microchip_number" json:"microchipNumber,omitempty"`
	Notes           string     `bun:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time  `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt       time.Time  `bun:"updated_at,notnull" json:"updatedAt"`
}

func (p *Pet) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if p.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			p.ID = id
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		p.UpdatedAt = now
	}
	return nil
}
