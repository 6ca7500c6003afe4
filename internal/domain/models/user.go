package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Password     []byte    `db:"password" json:"-"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at,omitempty"`
}
