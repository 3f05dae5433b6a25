package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
)

// ErrSlotTaken is returned by appointment writes when the (doctor, date)
// unique index rejects the row. The storage layer owns the uniqueness
// invariant; the service pre-check only exists to fail before payment.
var ErrSlotTaken = errors.New("slot already booked for this doctor at this time")

// ErrNotFound is returned when a write targets a record that does not exist.
var ErrNotFound = errors.New("record not found")

type (
	// AppointmentRepository owns appointment records. All reads and writes
	// go through here; nothing mutates an appointment outside this path.
	AppointmentRepository interface {
		Create(ctx context.Context, apt *model.Appointment, event *model.OutboxEvent) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, apt *model.Appointment, event *model.OutboxEvent) error
		Delete(ctx context.Context, id uuid.UUID, event *model.OutboxEvent) error
		List(ctx context.Context) ([]*model.Appointment, error)
		ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Appointment, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error)

		// FindBySlot returns the appointment occupying (doctorID, date),
		// excluding excludeID when non-nil, or nil when the slot is free.
		FindBySlot(ctx context.Context, doctorID uuid.UUID, date time.Time, excludeID *uuid.UUID) (*model.Appointment, error)

		// Reporting queries.
		ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*model.Appointment, error)
		Count(ctx context.Context) (int, error)
		CountByStatus(ctx context.Context, status model.AppointmentStatus) (int, error)
		CountScheduledBetween(ctx context.Context, start, end time.Time, doctorID *uuid.UUID) (int, error)
		RevenueTotal(ctx context.Context, doctorID *uuid.UUID) (*model.RevenueTotal, error)
		CountByDoctor(ctx context.Context, limit int) ([]*model.DoctorSlice, error)
		TopDoctors(ctx context.Context, limit int) ([]*model.TopDoctor, error)
		CountForDoctor(ctx context.Context, doctorID uuid.UUID) (int, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Doctor, error)
		Count(ctx context.Context) (int, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.User, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
