package services

import (
	"context"
	"fmt"

	"everafter/internal/domain/models"
	"everafter/internal/storage"

	"github.com/google/uuid"
)

// Checklist is one wedding's open checklist: a live mirror of the stored
// tasks that only changes after the store confirms each mutation.
type Checklist struct {
	svc       *ChecklistService
	weddingID uuid.UUID
	ownerID   uuid.UUID
	tasks     []models.ChecklistTask
}

// OpenList opens the checklist for a wedding, seeding defaults when it is
// empty, and returns a session bound to the loaded tasks.
func (s *ChecklistService) OpenList(ctx context.Context, weddingID, ownerID uuid.UUID) (*Checklist, error) {
	tasks, err := s.OpenChecklist(ctx, weddingID, ownerID)
	if err != nil {
		return nil, err
	}

	return &Checklist{
		svc:       s,
		weddingID: weddingID,
		ownerID:   ownerID,
		tasks:     tasks,
	}, nil
}

func (cl *Checklist) Tasks() []models.ChecklistTask {
	return cl.tasks
}

func (cl *Checklist) Progress() Progress {
	return ComputeProgress(cl.tasks)
}

// Toggle flips a task's completed flag, persisting first and mirroring the
// change only on success.
func (cl *Checklist) Toggle(ctx context.Context, taskID uuid.UUID) error {
	const op = "checklist_service.Checklist.Toggle"

	idx := cl.indexOf(taskID)
	if idx < 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrTaskNotFound)
	}

	next := !cl.tasks[idx].Completed
	if err := cl.svc.SetCompleted(ctx, taskID, cl.ownerID, next); err != nil {
		return err
	}

	cl.tasks[idx].Completed = next
	return nil
}

// Add appends a new task after the store assigns its id.
func (cl *Checklist) Add(ctx context.Context, text string) error {
	task, err := cl.svc.AddTask(ctx, cl.weddingID, cl.ownerID, text)
	if err != nil {
		return err
	}

	cl.tasks = append(cl.tasks, *task)
	return nil
}

// Remove deletes a task, dropping it from the mirror only on success.
func (cl *Checklist) Remove(ctx context.Context, taskID uuid.UUID) error {
	if err := cl.svc.DeleteTask(ctx, taskID, cl.ownerID); err != nil {
		return err
	}

	if idx := cl.indexOf(taskID); idx >= 0 {
		cl.tasks = append(cl.tasks[:idx], cl.tasks[idx+1:]...)
	}
	return nil
}

func (cl *Checklist) indexOf(taskID uuid.UUID) int {
	for i, t := range cl.tasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}
