package model

import (
	"github.com/google/uuid"
)

type DoctorStatus string

const (
	DoctorStatusActive   DoctorStatus = "active"
	DoctorStatusInactive DoctorStatus = "inactive"
)

// Doctor is the bookable directory entry. Each doctor links back to a user
// account, which is how the doctor-self dashboard resolves its subject.
type Doctor struct {
	Base
	UserID         uuid.UUID    `json:"user_id" db:"user_id"`
	Name           string       `json:"name" db:"name"`
	Specialization string       `json:"specialization" db:"specialization"`
	Experience     int          `json:"experience" db:"experience"`
	Phone          string       `json:"phone" db:"phone"`
	Email          string       `json:"email" db:"email"`
	Image          string       `json:"image,omitempty" db:"image"`
	Language       string       `json:"language" db:"language"`
	Price          Price        `json:"appointment_price" db:"appointment_price"`
	Status         DoctorStatus `json:"status" db:"status"`
}

// DoctorDisplay is the projection joined onto appointment reads and
// dashboard rankings.
type DoctorDisplay struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Specialization string    `json:"specialization" db:"specialization"`
	Image          string    `json:"image,omitempty" db:"image"`
}

type CreateDoctorRequest struct {
	Name           string `json:"name" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	Experience     int    `json:"experience" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	Image          string `json:"image"`
	Language       string `json:"language"`
	Price          string `json:"appointmentPrice"`
	Status         string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type UpdateDoctorRequest struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Experience     int    `json:"experience"`
	Phone          string `json:"phone"`
	Email          string `json:"email" binding:"omitempty,email"`
	Image          string `json:"image"`
	Language       string `json:"language"`
	Price          string `json:"appointmentPrice"`
	Status         string `json:"status" binding:"omitempty,oneof=active inactive"`
}
