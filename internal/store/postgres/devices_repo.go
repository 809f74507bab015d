package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"vetpoint/backend/internal/domain"
	"vetpoint/backend/internal/store"
)

type PushDeviceRepo struct {
	db *bun.DB
}

func NewPushDeviceRepo(db *bun.DB) *PushDeviceRepo {
	return &PushDeviceRepo{db: db}
}

func (r *PushDeviceRepo) Save(ctx context.Context, device domain.PushDevice) error {
	m := device
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = time.Now().UTC()
	}
	_, err := r.db.NewInsert().
		Model(&m).
		On("CONFLICT (user_id) DO UPDATE").
		Set("player_id = EXCLUDED.player_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (r *PushDeviceRepo) GetByUserID(ctx context.Context, userID string) (domain.PushDevice, error) {
	var m domain.PushDevice
	err := r.db.NewSelect().
		Model(&m).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PushDevice{}, store.ErrNotFound
		}
		return domain.PushDevice{}, err
	}
	return m, nil
}
