package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type DaySchedule struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	IsWorking bool   `json:"isWorking"`
}

// WorkingHours is the weekly table the clinic admin edits. It is stored
// as a single jsonb document, never queried field-by-field.
type WorkingHours struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// DefaultWorkingHours matches what the admin screen seeds for a new
// veterinarian: weekdays 09:00-18:00, weekend off.
func DefaultWorkingHours() WorkingHours {
	weekday := DaySchedule{Start: "09:00", End: "18:00", IsWorking: true}
	weekend := DaySchedule{Start: "09:00", End: "18:00", IsWorking: false}
	return WorkingHours{
		Monday:    weekday,
		Tuesday:   weekday,
		Wednesday: weekday,
		Thursday:  weekday,
		Friday:    weekday,
		Saturday:  weekend,
		Sunday:    weekend,
	}
}

// Veterinarian is referenced by appointments and optionally linked to a
// User row through UserID when an account elects the veterinarian role.
type Veterinarian struct {
	bun.BaseModel `bun:"table:veterinarians"`

	ID             uuid.UUID    `bun:"id,pk,type:uuid" json:"id"`
	UserID         string       `bun:"user_id" json:"userId,omitempty"`
	Name           string       `bun:"name,notnull" json:"name"`
	Email          string       `bun:"email,notnull" json:"email"`
	Phone          string       `bun:"phone,notnull" json:"phone"`
	Specialization []string     `bun:"specialization,array" json:"specialization"`
	Experience     int          `bun:"experience,notnull" json:"experience"`
	Education      string       `bun:"education" json:"education"`
	LicenseNumber  string       `bun:"license_number,notnull" json:"licenseNumber"`
	PhotoURL       string       `bun:"photo_url" json:"photoUrl,omitempty"`
	ClinicID       uuid.UUID    `bun:"clinic_id,notnull,type:uuid" json:"clinicId"`
	IsAvailable    bool         `bun:"is_available,notnull,default:true" json:"isAvailable"`
	WorkingHours   WorkingHours `bun:"working_hours,type:jsonb" json:"workingHours"`
	Rating         float64      `bun:"rating,notnull,default:0" json:"rating"`
	ReviewCount    int          `bun:"review_count,notnull,default:0" json:"reviewCount"`
	CreatedAt      time.Time    `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt      time.Time    `bun:"updated_at,notnull" json:"updatedAt"`
}

func (v *Veterinarian) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if v.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			v.ID = id
		}
		if v.CreatedAt.IsZero() {
			v.CreatedAt = now
		}
		if v.UpdatedAt.IsZero() {
			v.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		v.UpdatedAt = now
	}
	return nil
}
