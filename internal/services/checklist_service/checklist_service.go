package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"everafter/internal/domain/models"
	"everafter/internal/lib/logger/sl"
	"everafter/internal/metrics"
	"everafter/internal/repository"

	"github.com/google/uuid"
)

var ErrEmptyTask = errors.New("task text must not be empty")

// defaultTasks is the fixed set seeded into a wedding's checklist the
// first time it is opened empty.
var defaultTasks = [...]string{
	"Set wedding date and venue",
	"Book venue",
	"Create guest list",
	"Send invitations",
	"Plan menu and catering",
	"Arrange flowers and decorations",
	"Book photographer",
	"Book videographer",
	"Arrange music/DJ",
	"Plan honeymoon",
	"Get wedding attire",
	"Confirm RSVPs",
	"Finalize seating arrangements",
	"Wedding rehearsal",
	"Final preparations day before",
}

type ChecklistService struct {
	log  *slog.Logger
	repo repository.TaskRepository
}

func NewChecklistService(log *slog.Logger, repo repository.TaskRepository) *ChecklistService {
	return &ChecklistService{log: log, repo: repo}
}

// OpenChecklist loads one wedding's tasks in creation order. A checklist
// observed empty is seeded with the default tasks and the store-returned
// rows (carrying store-assigned ids) are adopted as the live list; a
// checklist with at least one task is never reseeded. A failed seed leaves
// the checklist empty so the next open retries.
func (s *ChecklistService) OpenChecklist(ctx context.Context, weddingID, ownerID uuid.UUID) ([]models.ChecklistTask, error) {
	const op = "checklist_service.OpenChecklist"
	log := s.log.With(
		slog.String("op", op),
		slog.String("wedding_id", weddingID.String()),
	)

	tasks, err := s.repo.ListTasks(ctx, weddingID, ownerID)
	if err != nil {
		log.Error("failed to list tasks", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(tasks) > 0 {
		return tasks, nil
	}

	seed := make([]models.ChecklistTask, 0, len(defaultTasks))
	for _, text := range defaultTasks {
		seed = append(seed, models.ChecklistTask{
			WeddingID: weddingID,
			UserID:    ownerID,
			Task:      text,
			Completed: false,
		})
	}

	seeded, err := s.repo.InsertTasks(ctx, seed)
	if err != nil {
		log.Error("failed to seed default tasks", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.ChecklistSeedsTotal.Inc()

	log.Info("seeded default checklist", slog.Int("count", len(seeded)))
	return seeded, nil
}

// AddTask inserts a user-authored task; the text must be non-empty after
// trimming.
func (s *ChecklistService) AddTask(ctx context.Context, weddingID, ownerID uuid.UUID, text string) (*models.ChecklistTask, error) {
	const op = "checklist_service.AddTask"

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyTask
	}

	task, err := s.repo.InsertTask(ctx, models.ChecklistTask{
		WeddingID: weddingID,
		UserID:    ownerID,
		Task:      text,
		Completed: false,
	})
	if err != nil {
		s.log.Error("failed to add task", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return task, nil
}

func (s *ChecklistService) SetCompleted(ctx context.Context, taskID, ownerID uuid.UUID, completed bool) error {
	const op = "checklist_service.SetCompleted"

	if err := s.repo.SetTaskCompleted(ctx, taskID, ownerID, completed); err != nil {
		s.log.Error("failed to toggle task", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *ChecklistService) DeleteTask(ctx context.Context, taskID, ownerID uuid.UUID) error {
	const op = "checklist_service.DeleteTask"

	if err := s.repo.DeleteTask(ctx, taskID, ownerID); err != nil {
		s.log.Error("failed to delete task", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
