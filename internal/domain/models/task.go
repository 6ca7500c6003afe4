package models

import (
	"time"

	"github.com/google/uuid"
)

// ChecklistTask is a single planning to-do scoped to one wedding.
type ChecklistTask struct {
	ID        uuid.UUID `db:"id" json:"id"`
	WeddingID uuid.UUID `db:"wedding_id" json:"wedding_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Task      string    `db:"task" json:"task"`
	Completed bool      `db:"completed" json:"completed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
