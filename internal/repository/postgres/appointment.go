package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
)

// appointmentRow carries an appointment plus nullable display columns from
// the doctor/user joins.
type appointmentRow struct {
	model.Appointment
	DoctorName *string `db:"doctor_name"`
	DoctorSpec *string `db:"doctor_specialization"`
	DoctorImg  *string `db:"doctor_image"`
	UserName   *string `db:"user_full_name"`
	UserEmail  *string `db:"user_email"`
}

func (row *appointmentRow) toModel() *model.Appointment {
	apt := row.Appointment
	if row.DoctorName != nil {
		apt.Doctor = &model.DoctorDisplay{
			ID:             apt.DoctorID,
			Name:           *row.DoctorName,
			Specialization: derefOr(row.DoctorSpec, ""),
			Image:          derefOr(row.DoctorImg, ""),
		}
	}
	if row.UserName != nil {
		apt.User = &model.UserDisplay{
			ID:       apt.UserID,
			FullName: *row.UserName,
			Email:    derefOr(row.UserEmail, ""),
		}
	}
	return &apt
}

func derefOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

const appointmentJoinedSelect = `
	SELECT a.id, a.user_id, a.doctor_id, a.date, a.reason, a.phone,
		   a.appointment_price, a.status, a.created_at, a.updated_at,
		   d.name AS doctor_name, d.specialization AS doctor_specialization,
		   d.image AS doctor_image,
		   u.full_name AS user_full_name, u.email AS user_email
	FROM appointments a
	LEFT JOIN doctors d ON d.id = a.doctor_id
	LEFT JOIN users u ON u.id = a.user_id
`

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment, event *model.OutboxEvent) error {
	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = apt.CreatedAt

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO appointments (
				id, user_id, doctor_id, date, reason, phone,
				appointment_price, status, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err := tx.ExecContext(ctx, query,
			apt.ID,
			apt.UserID,
			apt.DoctorID,
			apt.Date,
			apt.Reason,
			apt.Phone,
			apt.Price,
			apt.Status,
			apt.CreatedAt,
			apt.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrSlotTaken
			}
			return fmt.Errorf("failed to create appointment: %w", err)
		}
		return insertOutboxEvent(ctx, tx, event)
	})
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var row appointmentRow
	err := r.db.GetContext(ctx, &row, appointmentJoinedSelect+" WHERE a.id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return row.toModel(), nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment, event *model.OutboxEvent) error {
	apt.UpdatedAt = time.Now()

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE appointments
			SET date = $1, reason = $2, phone = $3, appointment_price = $4,
				status = $5, updated_at = $6
			WHERE id = $7
		`
		result, err := tx.ExecContext(ctx, query,
			apt.Date,
			apt.Reason,
			apt.Phone,
			apt.Price,
			apt.Status,
			apt.UpdatedAt,
			apt.ID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrSlotTaken
			}
			return fmt.Errorf("failed to update appointment: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrNotFound
		}
		return insertOutboxEvent(ctx, tx, event)
	})
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID, event *model.OutboxEvent) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete appointment: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrNotFound
		}
		return insertOutboxEvent(ctx, tx, event)
	})
}

func (r *appointmentRepository) List(ctx context.Context) ([]*model.Appointment, error) {
	return r.selectJoined(ctx, appointmentJoinedSelect+" ORDER BY a.date DESC")
}

func (r *appointmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error) {
	return r.selectJoined(ctx, appointmentJoinedSelect+" WHERE a.user_id = $1 ORDER BY a.date DESC", userID)
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	return r.selectJoined(ctx, appointmentJoinedSelect+" WHERE a.doctor_id = $1 ORDER BY a.date DESC", doctorID)
}

func (r *appointmentRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error) {
	return r.selectJoined(ctx,
		appointmentJoinedSelect+" WHERE a.created_at >= $1 AND a.created_at <= $2 ORDER BY a.created_at DESC",
		from, to)
}

func (r *appointmentRepository) selectJoined(ctx context.Context, query string, args ...interface{}) ([]*model.Appointment, error) {
	var rows []*appointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	appointments := make([]*model.Appointment, 0, len(rows))
	for _, row := range rows {
		appointments = append(appointments, row.toModel())
	}
	return appointments, nil
}

func (r *appointmentRepository) FindBySlot(ctx context.Context, doctorID uuid.UUID, date time.Time, excludeID *uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, user_id, doctor_id, date, reason, phone,
			   appointment_price, status, created_at, updated_at
		FROM appointments
		WHERE doctor_id = $1 AND date = $2
	`
	args := []interface{}{doctorID, date}
	if excludeID != nil {
		query += " AND id != $3"
		args = append(args, *excludeID)
	}

	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up slot: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM appointments`); err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) CountByStatus(ctx context.Context, status model.AppointmentStatus) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM appointments WHERE status = $1`, status)
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments by status: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) CountScheduledBetween(ctx context.Context, start, end time.Time, doctorID *uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE date >= $1 AND date <= $2`
	args := []interface{}{start, end}
	if doctorID != nil {
		query += " AND doctor_id = $3"
		args = append(args, *doctorID)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count scheduled appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) CountForDoctor(ctx context.Context, doctorID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM appointments WHERE doctor_id = $1`, doctorID)
	if err != nil {
		return 0, fmt.Errorf("failed to count doctor appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) RevenueTotal(ctx context.Context, doctorID *uuid.UUID) (*model.RevenueTotal, error) {
	query := `
		SELECT COALESCE(SUM(appointment_price), 0) AS total,
			   COUNT(*) AS count
		FROM appointments
		WHERE appointment_price IS NOT NULL
	`
	args := []interface{}{}
	if doctorID != nil {
		query += " AND doctor_id = $1"
		args = append(args, *doctorID)
	}

	var total model.RevenueTotal
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return &total, nil
}

func (r *appointmentRepository) CountByDoctor(ctx context.Context, limit int) ([]*model.DoctorSlice, error) {
	query := `
		SELECT a.doctor_id,
			   COALESCE(d.name, 'Unknown Doctor') AS name,
			   COUNT(*) AS count
		FROM appointments a
		LEFT JOIN doctors d ON d.id = a.doctor_id
		GROUP BY a.doctor_id, d.name
		ORDER BY count DESC
		LIMIT $1
	`
	var slices []*model.DoctorSlice
	if err := r.db.SelectContext(ctx, &slices, query, limit); err != nil {
		return nil, fmt.Errorf("failed to group appointments by doctor: %w", err)
	}
	return slices, nil
}

func (r *appointmentRepository) TopDoctors(ctx context.Context, limit int) ([]*model.TopDoctor, error) {
	query := `
		SELECT a.doctor_id,
			   COALESCE(d.name, 'Unknown Doctor') AS name,
			   COALESCE(d.specialization, 'Unknown') AS specialization,
			   COALESCE(d.image, '') AS image,
			   COUNT(*) AS count,
			   COALESCE(SUM(a.appointment_price), 0) AS total_revenue
		FROM appointments a
		LEFT JOIN doctors d ON d.id = a.doctor_id
		GROUP BY a.doctor_id, d.name, d.specialization, d.image
		ORDER BY count DESC
		LIMIT $1
	`
	var top []*model.TopDoctor
	if err := r.db.SelectContext(ctx, &top, query, limit); err != nil {
		return nil, fmt.Errorf("failed to rank doctors: %w", err)
	}
	return top, nil
}

func (r *appointmentRepository) withTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insertOutboxEvent(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error {
	if event == nil {
		return nil
	}
	query := `
		INSERT INTO outbox_events (id, event_type, payload, status, retry_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.Payload,
		event.Status,
		event.RetryCount,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue outbox event: %w", err)
	}
	return nil
}
