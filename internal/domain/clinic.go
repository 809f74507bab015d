package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Clinic struct {
	bun.BaseModel `bun:"table:clinics"`

	ID               uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name             string    `bun:"name,notnull" json:"name"`
	Address          Address   `bun:"address,type:jsonb" json:"address"`
	Phone            string    `bun:"phone,notnull" json:"phone"`
	Email            string    `bun:"email,notnull" json:"email"`
	Website          string    `bun:"website" json:"website,omitempty"`
	Description      string    `bun:"description" json:"description"`
	Services         []string  `bun:"services,array" json:"services"`
	Facilities       []string  `bun:"facilities,array" json:"facilities"`
	EmergencyService bool      `bun:"emergency_service,notnull" json:"emergencyService"`
	IsOpen24Hours    bool      `bun:"is_open_24_hours,notnull" json:"isOpen24Hours"`
	Rating           float64   `bun:"rating,notnull,default:0" json:"rating"`
	ReviewCount      int       `bun:"review_count,notnull,default:0" json:"reviewCount"`
	PhotoURL         string    `bun:"photo_url" json:"photoUrl,omitempty"`
	Location         GeoPoint  `bun:"location,type:jsonb" json:"location"`
	CreatedAt        time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt        time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}

func (c *Clinic) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if c.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			c.ID = id
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		if c.UpdatedAt.IsZero() {
			c.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		c.UpdatedAt = now
	}
	return nil
}
