package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"vetpoint/backend/internal/domain"
	"vetpoint/backend/internal/store"
)

type UserRepo struct {
	db *bun.DB
}

func NewUserRepo(db *bun.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	m := user
	_, err := r.db.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, store.ErrConflict
		}
		return domain.User{}, err
	}
	return m, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	var m domain.User
	err := r.db.NewSelect().
		Model(&m).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, store.ErrNotFound
		}
		return domain.User{}, err
	}
	return m, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var m domain.User
	err := r.db.NewSelect().
		Model(&m).
		Where("lower(email) = lower(?)", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, store.ErrNotFound
		}
		return domain.User{}, err
	}
	return m, nil
}

func (r *UserRepo) Update(ctx context.Context, id string, upd store.UserUpdate) (domain.User, error) {
	q := r.db.NewUpdate().
		Model((*domain.User)(nil)).
		Where("id = ?", id).
		Set("updated_at = now()")

	if upd.Name != nil {
		q = q.Set("name = ?", *upd.Name)
	}
	if upd.FirstName != nil {
		q = q.Set("first_name = ?", *upd.FirstName)
	}
	if upd.LastName != nil {
		q = q.Set("last_name = ?", *upd.LastName)
	}
	if upd.Role != nil {
		q = q.Set("role = ?", *upd.Role)
	}
	if upd.PhotoURL != nil {
		q = q.Set("photo_url = ?", *upd.PhotoURL)
	}
	if upd.ClinicID != nil {
		q = q.Set("clinic_id = ?", *upd.ClinicID)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return domain.User{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.User{}, err
	}
	if affected == 0 {
		return domain.User{}, store.ErrNotFound
	}
	return r.GetByID(ctx, id)
}
