package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"vetpoint/backend/internal/domain"
	"vetpoint/backend/internal/store"
)

type ClinicRepo struct {
	db *bun.DB
}

func NewClinicRepo(db *bun.DB) *ClinicRepo {
	return &ClinicRepo{db: db}
}

func (r *ClinicRepo) Create(ctx context.Context, clinic domain.Clinic) (domain.Clinic, error) {
	m := clinic
	_, err := r.db.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		return domain.Clinic{}, err
	}
	return m, nil
}

func (r *ClinicRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Clinic, error) {
	var m domain.Clinic
	err := r.db.NewSelect().
		Model(&m).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Clinic{}, store.ErrNotFound
		}
		return domain.Clinic{}, err
	}
	return m, nil
}

func (r *ClinicRepo) List(ctx context.Context) ([]domain.Clinic, error) {
	var rows []domain.Clinic
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type VeterinarianRepo struct {
	db *bun.DB
}

func NewVeterinarianRepo(db *bun.DB) *VeterinarianRepo {
	return &VeterinarianRepo{db: db}
}

func (r *VeterinarianRepo) Create(ctx context.Context, vet domain.Veterinarian) (domain.Veterinarian, error) {
	m := vet
	_, err := r.db.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		return domain.Veterinarian{}, err
	}
	return m, nil
}

func (r *VeterinarianRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Veterinarian, error) {
	var m domain.Veterinarian
	err := r.db.NewSelect().
		Model(&m).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Veterinarian{}, store.ErrNotFound
		}
		return domain.Veterinarian{}, err
	}
	return m, nil
}

func (r *VeterinarianRepo) GetByUserID(ctx context.Context, userID string) (domain.Veterinarian, error) {
	var m domain.Veterinarian
	err := r.db.NewSelect().
		Model(&m).
		Where("user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Veterinarian{}, store.ErrNotFound
		}
		return domain.Veterinarian{}, err
	}
	return m, nil
}

func (r *VeterinarianRepo) List(ctx context.Context) ([]domain.Veterinarian, error) {
	var rows []domain.Veterinarian
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *VeterinarianRepo) ListForClinic(ctx context.Context, clinicID uuid.UUID) ([]domain.Veterinarian, error) {
	var rows []domain.Veterinarian
	err := r.db.NewSelect().
		Model(&rows).
		Where("clinic_id = ?", clinicID).
		OrderExpr("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *VeterinarianRepo) Update(ctx context.Context, id uuid.UUID, upd store.VeterinarianUpdate) (domain.Veterinarian, error) {
	q := r.db.NewUpdate().
		Model((*domain.Veterinarian)(nil)).
		Where("id = ?", id).
		Set("updated_at = now()")

	if upd.Name != nil {
		q = q.Set("name = ?", *upd.Name)
	}
	if upd.Phone != nil {
		q = q.Set("phone = ?", *upd.Phone)
	}
	if upd.Specialization != nil {
		q = q.Set("specialization = ?", pgdialect.Array(*upd.Specialization))
	}
	if upd.Experience != nil {
		q = q.Set("experience = ?", *upd.Experience)
	}
	if upd.Education != nil {
		q = q.Set("education = ?", *upd.Education)
	}
	if upd.IsAvailable != nil {
		q = q.Set("is_available = ?", *upd.IsAvailable)
	}
	if upd.WorkingHours != nil {
		hours, err := json.Marshal(*upd.WorkingHours)
		if err != nil {
			return domain.Veterinarian{}, err
		}
		q = q.Set("working_hours = ?", string(hours))
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return domain.Veterinarian{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Veterinarian{}, err
	}
	if affected == 0 {
		return domain.Veterinarian{}, store.ErrNotFound
	}
	return r.GetByID(ctx, id)
}
