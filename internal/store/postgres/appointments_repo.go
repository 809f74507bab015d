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

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

type slotTx struct {
	tx bun.Tx
}

func (r *AppointmentRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	_, err := r.db.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		return domain.Appointment{}, err
	}
	return m, nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var m domain.Appointment
	err := r.db.NewSelect().
		Model(&m).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return m, nil
}

func (r *AppointmentRepo) Update(ctx context.Context, id uuid.UUID, upd store.AppointmentUpdate) (domain.Appointment, error) {
	q := r.db.NewUpdate().
		Model((*domain.Appointment)(nil)).
		Where("id = ?", id).
		Set("updated_at = now()")

	if upd.Status != nil {
		q = q.Set("status = ?", *upd.Status)
	}
	if upd.PaymentStatus != nil {
		q = q.Set("payment_status = ?", *upd.PaymentStatus)
	}
	if upd.Reason != nil {
		q = q.Set("reason = ?", *upd.Reason)
	}
	if upd.Notes != nil {
		q = q.Set("notes = ?", *upd.Notes)
	}
	if upd.Date != nil {
		q = q.Set("date = ?", *upd.Date)
	}
	if upd.Time != nil {
		q = q.Set("time = ?", *upd.Time)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return domain.Appointment{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete is idempotent: deleting an absent row is not an error.
func (r *AppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*domain.Appointment)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (r *AppointmentRepo) ListForUser(ctx context.Context, userID string) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		OrderExpr("date DESC, time DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) ListForVeterinarian(ctx context.Context, vetID uuid.UUID) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("veterinarian_id = ?", vetID).
		OrderExpr("date ASC, time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) ListForClinic(ctx context.Context, clinicID uuid.UUID) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("clinic_id = ?", clinicID).
		OrderExpr("date ASC, time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) CountActiveAtSlot(ctx context.Context, vetID uuid.UUID, date, timeOfDay string) (int, error) {
	return countActiveAtSlot(ctx, r.db, vetID, date, timeOfDay)
}

// InSlotTransaction serializes bookings for one slot with an advisory
// lock on the (veterinarian, date, time) key, so two concurrent creates
// cannot both pass the availability check.
func (r *AppointmentRepo) InSlotTransaction(ctx context.Context, vetID uuid.UUID, date, timeOfDay string, fn func(ctx context.Context, tx store.SlotTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockSlot(ctx, tx, vetID, date, timeOfDay); err != nil {
			return err
		}
		return fn(ctx, slotTx{tx: tx})
	})
}

func lockSlot(ctx context.Context, tx bun.Tx, vetID uuid.UUID, date, timeOfDay string) error {
	key := vetID.String() + ":" + date + ":" + timeOfDay
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", key).Exec(ctx)
	return err
}

func (t slotTx) CountActiveAtSlot(ctx context.Context, vetID uuid.UUID, date, timeOfDay string) (int, error) {
	return countActiveAtSlot(ctx, t.tx, vetID, date, timeOfDay)
}

func (t slotTx) CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	_, err := t.tx.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		return domain.Appointment{}, err
	}
	return m, nil
}

func countActiveAtSlot(ctx context.Context, db bun.IDB, vetID uuid.UUID, date, timeOfDay string) (int, error) {
	return db.NewSelect().
		Model((*domain.Appointment)(nil)).
		Where("veterinarian_id = ?", vetID).
		Where("date = ?", date).
		Where("time = ?", timeOfDay).
		Where("status IN (?)", bun.In([]domain.AppointmentStatus{domain.AppointmentPending, domain.AppointmentConfirmed})).
		Count(ctx)
}
