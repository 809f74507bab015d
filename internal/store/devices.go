package store

import (
	"context"

	"vetpoint/backend/internal/domain"
)

type PushDeviceRepository interface {
	// Save upserts the device token for a user; a user has at most one.
	Save(ctx context.Context, device domain.PushDevice) error
	GetByUserID(ctx context.Context, userID string) (domain.PushDevice, error)
}
