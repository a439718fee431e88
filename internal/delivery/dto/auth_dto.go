package dto

import "time"

// Request DTOs

type RegisterRequest struct {
	Email          string   `json:"email" validate:"required,email"`
	Password       string   `json:"password" validate:"required,min=6"`
	Name           string   `json:"name" validate:"omitempty,max=100"`
	Role           string   `json:"role" validate:"required,oneof=doctor patient"`
	Specialization string   `json:"specialization" validate:"omitempty,max=100"`
	Department     string   `json:"department" validate:"omitempty,max=100"`
	Qualifications []string `json:"qualifications"`
	Phone          string   `json:"phone" validate:"omitempty,max=20"`
	Age            *int     `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender         string   `json:"gender" validate:"omitempty,max=20"`
	Address        string   `json:"address" validate:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response DTOs

// AuthResponse is returned by register and login.
type AuthResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
