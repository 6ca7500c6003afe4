package models

import (
	"time"

	"github.com/google/uuid"
)

// Wedding statuses. Planning is the default for new records.
const (
	StatusPlanning   = "Planning"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

type Wedding struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	CoupleNames string    `db:"couple_names" json:"couple_names"`
	WeddingDate time.Time `db:"wedding_date" json:"wedding_date"`
	Venue       string    `db:"venue" json:"venue"`
	GuestCount  int       `db:"guest_count" json:"guest_count"`
	Budget      *float64  `db:"budget" json:"budget"`
	Theme       *string   `db:"theme" json:"theme,omitempty"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	ImageURL    *string   `db:"image_url" json:"image_url,omitempty"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
