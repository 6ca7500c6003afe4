package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserRegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type UserResponse struct {
	ID           uuid.UUID `json:"id" format:"uuid"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}
