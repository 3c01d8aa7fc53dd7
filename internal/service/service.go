package service

import (
	"context"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (models.Identity, error)
}

// TaskInput carries the caller-supplied fields of a task. Update is a full
// replacement: omitted fields become empty, never a merge with stored values.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
}

// TaskFilter narrows List by exact match; empty fields match everything.
type TaskFilter struct {
	Status   string
	Priority string
}

// Tasks exposes owner-scoped CRUD; callerID is the authenticated identity.
type Tasks interface {
	Create(ctx context.Context, callerID int, in TaskInput) (models.Task, error)
	List(ctx context.Context, callerID int, f TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, callerID, taskID int, in TaskInput) (models.Task, error)
	Delete(ctx context.Context, callerID, taskID int) (models.Task, error)
}

// Events lets a consumer follow task changes of a single user.
type Events interface {
	Subscribe(userID int) (<-chan models.TaskEvent, func())
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Tasks
	Events
}

// NewService wires the repository layer into concrete services. The signing
// key comes from configuration; there is no built-in fallback.
func NewService(repos *repository.Repository, signingKey string) *Service {
	broker := NewBroker()
	return &Service{
		Authorization: NewAuthService(repos.Users, signingKey),
		Tasks:         NewTaskService(repos.Tasks, repos.Users, broker),
		Events:        broker,
	}
}
