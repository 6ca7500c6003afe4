package repository

import (
	"context"
	"time"

	"everafter/internal/domain/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (uuid.UUID, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteAllUserTokens(ctx context.Context, userID string) error
}

// WeddingRepository is the record-store client for wedding rows. Every
// read and write is scoped to the owning user; owner id is never updated.
type WeddingRepository interface {
	ListWeddings(ctx context.Context, ownerID uuid.UUID) ([]models.Wedding, error)
	LatestWeddings(ctx context.Context, limit int) ([]models.Wedding, error)
	GetWeddingByID(ctx context.Context, weddingID, ownerID uuid.UUID) (*models.Wedding, error)
	InsertWedding(ctx context.Context, wedding models.Wedding) (*models.Wedding, error)
	UpdateWeddingFields(ctx context.Context, weddingID, ownerID uuid.UUID, updates map[string]interface{}) error
	DeleteWedding(ctx context.Context, weddingID, ownerID uuid.UUID) error
}

type TaskRepository interface {
	ListTasks(ctx context.Context, weddingID, ownerID uuid.UUID) ([]models.ChecklistTask, error)
	InsertTask(ctx context.Context, task models.ChecklistTask) (*models.ChecklistTask, error)
	InsertTasks(ctx context.Context, tasks []models.ChecklistTask) ([]models.ChecklistTask, error)
	SetTaskCompleted(ctx context.Context, taskID, ownerID uuid.UUID, completed bool) error
	DeleteTask(ctx context.Context, taskID, ownerID uuid.UUID) error
}
