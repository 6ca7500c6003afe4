package dto

import (
	"time"

	"github.com/google/uuid"
)

type AddTaskRequest struct {
	Task string `json:"task" validate:"required"`
}

type TaskResponse struct {
	ID        uuid.UUID `json:"id" format:"uuid"`
	Task      string    `json:"task"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

type ProgressResponse struct {
	Completed int  `json:"completed"`
	Total     int  `json:"total"`
	Percent   int  `json:"percent"`
	AllDone   bool `json:"all_done"`
}

type ChecklistResponse struct {
	WeddingID uuid.UUID        `json:"wedding_id" format:"uuid"`
	Tasks     []TaskResponse   `json:"tasks"`
	Progress  ProgressResponse `json:"progress"`
}
