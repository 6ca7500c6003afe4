package repository

import (
	"context"
	"fmt"
	"time"

	"everafter/internal/domain/models"
	"everafter/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var taskColumns = []string{
	"id",
	"wedding_id",
	"user_id",
	"task",
	"completed",
	"created_at",
}

type TaskRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ListTasks returns the checklist for one owned wedding ordered by creation
// time ascending.
func (r *TaskRepo) ListTasks(ctx context.Context, weddingID, ownerID uuid.UUID) ([]models.ChecklistTask, error) {
	const op = "repository.task_repository.ListTasks"

	query, args, err := r.sb.Select(taskColumns...).
		From("wedding_tasks").
		Where(sq.Eq{"wedding_id": weddingID, "user_id": ownerID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	tasks := make([]models.ChecklistTask, 0)
	for rows.Next() {
		var t models.ChecklistTask
		if err := scanTask(rows, &t); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tasks, nil
}

func (r *TaskRepo) InsertTask(ctx context.Context, task models.ChecklistTask) (*models.ChecklistTask, error) {
	const op = "repository.task_repository.InsertTask"

	query, args, err := r.sb.Insert("wedding_tasks").
		Columns("wedding_id", "user_id", "task", "completed", "created_at").
		Values(task.WeddingID, task.UserID, task.Task, task.Completed, time.Now().UTC()).
		Suffix("RETURNING " + joinColumns(taskColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var inserted models.ChecklistTask
	err = scanTask(r.db.QueryRow(ctx, query, args...), &inserted)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &inserted, nil
}

// InsertTasks bulk-inserts rows and returns them carrying store-assigned ids
// in insertion order. Used only for default checklist seeding.
func (r *TaskRepo) InsertTasks(ctx context.Context, tasks []models.ChecklistTask) ([]models.ChecklistTask, error) {
	const op = "repository.task_repository.InsertTasks"

	if len(tasks) == 0 {
		return nil, fmt.Errorf("%s: no tasks to insert", op)
	}

	builder := r.sb.Insert("wedding_tasks").
		Columns("wedding_id", "user_id", "task", "completed", "created_at")

	// Monotonic created_at keeps the seeded defaults in their fixed order
	// under the created_at ASC read.
	base := time.Now().UTC()
	for i, t := range tasks {
		builder = builder.Values(t.WeddingID, t.UserID, t.Task, t.Completed, base.Add(time.Duration(i)*time.Millisecond))
	}

	query, args, err := builder.
		Suffix("RETURNING " + joinColumns(taskColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	inserted := make([]models.ChecklistTask, 0, len(tasks))
	for rows.Next() {
		var t models.ChecklistTask
		if err := scanTask(rows, &t); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		inserted = append(inserted, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return inserted, nil
}

func (r *TaskRepo) SetTaskCompleted(ctx context.Context, taskID, ownerID uuid.UUID, completed bool) error {
	const op = "repository.task_repository.SetTaskCompleted"

	query, args, err := r.sb.Update("wedding_tasks").
		Set("completed", completed).
		Where(sq.Eq{"id": taskID, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrTaskNotFound)
	}

	return nil
}

func (r *TaskRepo) DeleteTask(ctx context.Context, taskID, ownerID uuid.UUID) error {
	const op = "repository.task_repository.DeleteTask"

	query, args, err := r.sb.Delete("wedding_tasks").
		Where(sq.Eq{"id": taskID, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrTaskNotFound)
	}

	return nil
}

func scanTask(row pgx.Row, t *models.ChecklistTask) error {
	return row.Scan(
		&t.ID,
		&t.WeddingID,
		&t.UserID,
		&t.Task,
		&t.Completed,
		&t.CreatedAt,
	)
}
