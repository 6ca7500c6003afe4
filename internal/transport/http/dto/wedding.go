package dto

import (
	"time"

	"everafter/internal/lib/countdown"

	"github.com/google/uuid"
)

// WeddingFormRequest carries the raw form fields. Numeric fields arrive as
// strings so normalization (default 0, blank budget becomes null) happens in
// one place in the service, exactly like the original form buffer.
type WeddingFormRequest struct {
	CoupleNames string `json:"couple_names" validate:"required"`
	WeddingDate string `json:"wedding_date" validate:"required"`
	Venue       string `json:"venue" validate:"required"`
	GuestCount  string `json:"guest_count,omitempty"`
	Budget      string `json:"budget,omitempty"`
	Theme       string `json:"theme,omitempty"`
	Notes       string `json:"notes,omitempty"`
	ImageURL    string `json:"image_url,omitempty" validate:"omitempty,url"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=Planning 'In Progress' Completed"`
}

type WeddingResponse struct {
	ID          uuid.UUID           `json:"id" format:"uuid"`
	CoupleNames string              `json:"couple_names"`
	WeddingDate time.Time           `json:"wedding_date"`
	Venue       string              `json:"venue"`
	GuestCount  int                 `json:"guest_count"`
	Budget      *float64            `json:"budget"`
	Theme       *string             `json:"theme,omitempty"`
	Notes       *string             `json:"notes,omitempty"`
	ImageURL    string              `json:"image_url"`
	Status      string              `json:"status"`
	Countdown   countdown.Breakdown `json:"countdown"`
	Passed      bool                `json:"passed"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type DashboardResponse struct {
	Tab         string            `json:"tab"`
	TotalCount  int               `json:"total_count"`
	HiddenCount int               `json:"hidden_count"`
	ShowingAll  bool              `json:"showing_all"`
	Weddings    []WeddingResponse `json:"weddings"`
}

type CountdownResponse struct {
	countdown.Breakdown
	Passed bool `json:"passed"`
}
