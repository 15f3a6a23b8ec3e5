package model

import (
	"time"
)

// Role distinguishes learner and instructor accounts.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTeacher Role = "TEACHER"
)

// Profile is a platform account. UserID is the opaque identifier the
// rest of the system keys on; when an external identity provider is in
// front, it supplies this id and PasswordHash stays empty.
type Profile struct {
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginRequest is the payload for self-hosted credential login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}
