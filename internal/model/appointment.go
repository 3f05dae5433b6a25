package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment occupies one (doctor, date) slot. At most one appointment may
// exist per slot; the appointments table enforces this with a unique index
// on (doctor_id, date).
type Appointment struct {
	Base
	UserID   uuid.UUID         `json:"user_id" db:"user_id"`
	DoctorID uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	Date     time.Time         `json:"date" db:"date"`
	Reason   string            `json:"reason" db:"reason"`
	Phone    string            `json:"phone" db:"phone"`
	Price    Price             `json:"appointment_price" db:"appointment_price"`
	Status   AppointmentStatus `json:"status" db:"status"`

	// Display joins, populated on read paths only.
	Doctor *DoctorDisplay `json:"doctor,omitempty" db:"-"`
	User   *UserDisplay   `json:"user,omitempty" db:"-"`
}

type CreateAppointmentRequest struct {
	UserID          uuid.UUID `json:"userId" binding:"required"`
	DoctorID        uuid.UUID `json:"doctorId" binding:"required"`
	AppointmentTime string    `json:"appointmentTime" binding:"required"`
	Reason          string    `json:"reason"`
	Phone           string    `json:"phone" binding:"required,msisdn"`
	Price           string    `json:"price"`
}

// UpdateAppointmentRequest uses merge-non-empty semantics: omitted or empty
// fields keep their stored value.
type UpdateAppointmentRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
	Phone  string `json:"phone"`
	Price  string `json:"appointmentPrice"`
	Status string `json:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
}
