package model

import (
	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser   UserRole = "user"
	UserRoleDoctor UserRole = "doctor"
	UserRoleAdmin  UserRole = "admin"
)

// User represents an account able to log in and own appointments.
type User struct {
	Base
	FullName     string   `json:"full_name" db:"full_name"`
	Email        string   `json:"email" db:"email"`
	PasswordHash string   `json:"-" db:"password_hash"`
	Role         UserRole `json:"role" db:"role"`
	Phone        string   `json:"phone,omitempty" db:"phone"`
	Image        string   `json:"image,omitempty" db:"image"`
}

// UserDisplay is the projection joined onto appointment reads.
type UserDisplay struct {
	ID       uuid.UUID `json:"id" db:"id"`
	FullName string    `json:"full_name" db:"full_name"`
	Email    string    `json:"email" db:"email"`
}

type RegisterUserRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"omitempty,oneof=user doctor admin"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type UpdateUserRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Image    string `json:"image"`
}

// TokenClaims is the payload carried in issued JWTs.
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   UserRole  `json:"role"`
}
