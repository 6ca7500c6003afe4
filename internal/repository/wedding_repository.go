package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"everafter/internal/domain/models"
	"everafter/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var weddingColumns = []string{
	"id",
	"user_id",
	"couple_names",
	"wedding_date",
	"venue",
	"guest_count",
	"budget",
	"theme",
	"notes",
	"image_url",
	"status",
	"created_at",
	"updated_at",
}

type WeddingRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewWeddingRepository(db *pgxpool.Pool) *WeddingRepo {
	return &WeddingRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ListWeddings returns every wedding owned by ownerID ordered by wedding
// date ascending. Zero rows is a valid empty dashboard, not an error.
func (r *WeddingRepo) ListWeddings(ctx context.Context, ownerID uuid.UUID) ([]models.Wedding, error) {
	const op = "repository.wedding_repository.ListWeddings"

	query, args, err := r.sb.Select(weddingColumns...).
		From("weddings").
		Where(sq.Eq{"user_id": ownerID}).
		OrderBy("wedding_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	return r.queryWeddings(ctx, op, query, args)
}

// LatestWeddings returns the most recently created weddings across all
// users, for the public landing gallery.
func (r *WeddingRepo) LatestWeddings(ctx context.Context, limit int) ([]models.Wedding, error) {
	const op = "repository.wedding_repository.LatestWeddings"

	query, args, err := r.sb.Select(weddingColumns...).
		From("weddings").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	return r.queryWeddings(ctx, op, query, args)
}

func (r *WeddingRepo) GetWeddingByID(ctx context.Context, weddingID, ownerID uuid.UUID) (*models.Wedding, error) {
	const op = "repository.wedding_repository.GetWeddingByID"

	query, args, err := r.sb.Select(weddingColumns...).
		From("weddings").
		Where(sq.Eq{"id": weddingID, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var w models.Wedding
	err = scanWedding(r.db.QueryRow(ctx, query, args...), &w)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrWeddingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &w, nil
}

func (r *WeddingRepo) InsertWedding(ctx context.Context, wedding models.Wedding) (*models.Wedding, error) {
	const op = "repository.wedding_repository.InsertWedding"

	now := time.Now().UTC()

	query, args, err := r.sb.Insert("weddings").
		Columns(
			"user_id",
			"couple_names",
			"wedding_date",
			"venue",
			"guest_count",
			"budget",
			"theme",
			"notes",
			"image_url",
			"status",
			"created_at",
			"updated_at",
		).
		Values(
			wedding.UserID,
			wedding.CoupleNames,
			wedding.WeddingDate,
			wedding.Venue,
			wedding.GuestCount,
			wedding.Budget,
			wedding.Theme,
			wedding.Notes,
			wedding.ImageURL,
			wedding.Status,
			now,
			now,
		).
		Suffix("RETURNING " + joinColumns(weddingColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var inserted models.Wedding
	err = scanWedding(r.db.QueryRow(ctx, query, args...), &inserted)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &inserted, nil
}

// UpdateWeddingFields applies a partial update to one owned row. The owner
// column is not in the allow list, so it can never be reassigned.
func (r *WeddingRepo) UpdateWeddingFields(ctx context.Context, weddingID, ownerID uuid.UUID, updates map[string]interface{}) error {
	const op = "repository.wedding_repository.UpdateWeddingFields"

	allowedFields := map[string]bool{
		"couple_names": true,
		"wedding_date": true,
		"venue":        true,
		"guest_count":  true,
		"budget":       true,
		"theme":        true,
		"notes":        true,
		"image_url":    true,
		"status":       true,
	}

	if len(updates) == 0 {
		return fmt.Errorf("%s: no fields to update", op)
	}

	updateBuilder := r.sb.Update("weddings").
		Set("updated_at", time.Now().UTC())

	for field, value := range updates {
		if !allowedFields[field] {
			return fmt.Errorf("%s: field '%s' is not allowed for update", op, field)
		}

		updateBuilder = updateBuilder.Set(field, value)
	}

	updateBuilder = updateBuilder.Where(sq.Eq{"id": weddingID, "user_id": ownerID})

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrWeddingNotFound)
	}

	return nil
}

// DeleteWedding removes one owned wedding and its checklist tasks in a
// single transaction. Task cleanup is an explicit cascade here rather than
// something delegated to the schema.
func (r *WeddingRepo) DeleteWedding(ctx context.Context, weddingID, ownerID uuid.UUID) error {
	const op = "repository.wedding_repository.DeleteWedding"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback(ctx)

	taskQuery, taskArgs, err := r.sb.Delete("wedding_tasks").
		Where(sq.Eq{"wedding_id": weddingID, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := tx.Exec(ctx, taskQuery, taskArgs...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query, args, err := r.sb.Delete("weddings").
		Where(sq.Eq{"id": weddingID, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	result, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrWeddingNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *WeddingRepo) queryWeddings(ctx context.Context, op, query string, args []interface{}) ([]models.Wedding, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	weddings := make([]models.Wedding, 0)
	for rows.Next() {
		var w models.Wedding
		if err := scanWedding(rows, &w); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		weddings = append(weddings, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return weddings, nil
}

func scanWedding(row pgx.Row, w *models.Wedding) error {
	return row.Scan(
		&w.ID,
		&w.UserID,
		&w.CoupleNames,
		&w.WeddingDate,
		&w.Venue,
		&w.GuestCount,
		&w.Budget,
		&w.Theme,
		&w.Notes,
		&w.ImageURL,
		&w.Status,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
}

func joinColumns(cols []string) string {
	out := cols[0]
	for _, c := range cols[1:] {
		out += ", " + c
	}
	return out
}
