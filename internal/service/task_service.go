package service

import (
	"context"
	"errors"
	"fmt"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

// Domain errors for task flows.
var (
	ErrOwnerNotFound = errors.New("owner not found")
	ErrTaskNotFound  = errors.New("task not found")
	ErrForbidden     = errors.New("task belongs to another user")
)

// TaskService implements the owner-scoped task CRUD. Every operation works
// against the repository directly; no state is held between requests.
type TaskService struct {
	tasks  repository.TaskRepo
	users  repository.UserRepo
	broker *Broker
}

func NewTaskService(tasks repository.TaskRepo, users repository.UserRepo, broker *Broker) *TaskService {
	return &TaskService{tasks: tasks, users: users, broker: broker}
}

// Create stores a new task owned by the caller and attaches its id to the
// caller's task list. A caller whose identity no longer resolves to a stored
// user gets ErrOwnerNotFound.
func (s *TaskService) Create(ctx context.Context, callerID int, in TaskInput) (models.Task, error) {
	owner, err := s.users.GetByID(callerID)
	if err != nil {
		return models.Task{}, err
	}
	if owner == nil {
		return models.Task{}, ErrOwnerNotFound
	}

	created, err := s.tasks.Create(ctx, models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		UserID:      callerID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Task{}, ErrOwnerNotFound
		}
		return models.Task{}, fmt.Errorf("create task for user %d: %w", callerID, err)
	}

	s.broker.Publish(callerID, models.TaskEvent{Type: models.TaskEventCreated, Task: created})
	return created, nil
}

// List returns the caller's tasks in insertion order, optionally filtered by
// exact status/priority match. The result may be empty, never nil.
func (s *TaskService) List(ctx context.Context, callerID int, f TaskFilter) ([]models.Task, error) {
	return s.tasks.ListByOwner(ctx, callerID, f.Status, f.Priority)
}

// Update fully replaces the task's fields. Existence is checked before
// ownership, so a missing task is NotFound even for a non-owner.
func (s *TaskService) Update(ctx context.Context, callerID, taskID int, in TaskInput) (models.Task, error) {
	existing, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}
	if existing == nil {
		return models.Task{}, ErrTaskNotFound
	}
	if existing.UserID != callerID {
		return models.Task{}, ErrForbidden
	}

	updated, err := s.tasks.Update(ctx, models.Task{
		ID:          taskID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		UserID:      existing.UserID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, fmt.Errorf("update task %d: %w", taskID, err)
	}

	s.broker.Publish(callerID, models.TaskEvent{Type: models.TaskEventUpdated, Task: updated})
	return updated, nil
}

// Delete removes the task and detaches it from the caller's task list,
// returning the task's prior state.
func (s *TaskService) Delete(ctx context.Context, callerID, taskID int) (models.Task, error) {
	existing, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}
	if existing == nil {
		return models.Task{}, ErrTaskNotFound
	}
	if existing.UserID != callerID {
		return models.Task{}, ErrForbidden
	}

	removed, err := s.tasks.Delete(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, fmt.Errorf("delete task %d: %w", taskID, err)
	}

	s.broker.Publish(callerID, models.TaskEvent{Type: models.TaskEventDeleted, Task: removed})
	return removed, nil
}
