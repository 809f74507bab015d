package domain

import (
	"time"

	"github.com/uptrace/bun"
)

// PushDevice maps a user to the push provider's device token for the app
// install they last signed in on. One row per user, upserted on sign-in,
// independent of role.
type PushDevice struct {
	bun.BaseModel `bun:"table:push_devices"`

	UserID    string    `bun:"user_id,pk" json:"userId"`
	PlayerID  string    `bun:"player_id,notnull" json:"playerId"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}
