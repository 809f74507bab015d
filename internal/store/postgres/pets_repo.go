package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"vetpoint/backend/internal/domain"
	"vetpoint/backend/internal/store"
)

type PetRepo struct {
	db *bun.DB
}

func NewPetRepo(db *bun.DB) *PetRepo {
	return &PetRepo{db: db}
}

func (r *PetRepo) Create(ctx context.Context, pet domain.Pet) (domain.Pet, error) {
	m := pet
	_, err := r.db.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		return domain.Pet{}, err
	}
	return m, nil
}

func (r *PetRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Pet, error) {
	var m domain.Pet
	err := r.db.NewSelect().
		Model(&m).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Pet{}, store.ErrNotFound
		}
		return domain.Pet{}, err
	}
	return m, nil
}

func (r *PetRepo) ListForUser(ctx context.Context, userID string) ([]domain.Pet, error) {
	var rows []domain.Pet
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		OrderExpr("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PetRepo) Update(ctx context.Context, id uuid.UUID, upd store.PetUpdate) (domain.Pet, error) {
	q := r.db.NewUpdate().
		Model((*domain.Pet)(nil)).
		Where("id = ?", id).
		Set("updated_at = now()")

	if upd.Name != nil {
		q = q.Set("name = ?", *upd.Name)
	}
	if upd.Species != nil {
		q = q.Set("species = ?", *upd.Species)
	}
	if upd.Breed != nil {
		q = q.Set("breed = ?", *upd.Breed)
	}
	if upd.Age != nil {
		q = q.Set("age = ?", *upd.Age)
	}
	if upd.Weight != nil {
		q = q.Set("weight = ?", *upd.Weight)
	}
	if upd.Color != nil {
		q = q.Set("color = ?", *upd.Color)
	}
	if upd.Gender != nil {
		q = q.Set("gender = ?", *upd.Gender)
	}
	if upd.MicrochipNumber != nil {
		q = q.Set("microchip_number = ?", *upd.MicrochipNumber)
	}
	if upd.Notes != nil {
		q = q.Set("notes = ?", *upd.Notes)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return domain.Pet{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Pet{}, err
	}
	if affected == 0 {
		return domain.Pet{}, store.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete is idempotent.
func (r *PetRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*domain.Pet)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
