package repository

import (
	"context"
	"database/sql"
	"errors"

	"task_tracker/internal/models"
	"task_tracker/internal/repository/filestore"
)

// ErrNotFound is returned by mutating operations when the target record does
// not exist. Lookup methods return (nil, nil) for absent records instead.
var ErrNotFound = errors.New("record not found")

type UserRepo interface {
	Create(username, passwordHash string) (int, error)
	GetByUsername(username string) (*models.User, error)
	GetByID(id int) (*models.User, error)
}

// TaskRepo persists tasks and keeps the owner's task-id list in sync:
// Create attaches the new id to the owner, Delete detaches it.
type TaskRepo interface {
	Create(ctx context.Context, t models.Task) (models.Task, error)
	GetByID(ctx context.Context, id int) (*models.Task, error)
	ListByOwner(ctx context.Context, ownerID int, status, priority string) ([]models.Task, error)
	Update(ctx context.Context, t models.Task) (models.Task, error)
	Delete(ctx context.Context, id int) (models.Task, error)
}

type Repository struct {
	Users UserRepo
	Tasks TaskRepo
}

// NewRepository wires the sqlite-backed implementations.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserSQLite(db),
		Tasks: NewTaskSQLite(db),
	}
}

// NewFileRepository wires the JSON-document implementations over a filestore.
func NewFileRepository(store *filestore.Store) *Repository {
	return &Repository{
		Users: NewUserFile(store),
		Tasks: NewTaskFile(store),
	}
}
