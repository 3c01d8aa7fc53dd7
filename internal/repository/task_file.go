package repository

import (
	"context"
	"fmt"

	"task_tracker/internal/models"
	"task_tracker/internal/repository/filestore"
)

// TaskFile stores tasks in the JSON tasks document and maintains the owner's
// task-id list in the users document. The two documents are written in
// separate read-modify-write cycles; a crash between them can leave an
// orphaned task or a dangling id.
type TaskFile struct {
	store *filestore.Store
}

func NewTaskFile(store *filestore.Store) *TaskFile {
	return &TaskFile{store: store}
}

var _ TaskRepo = (*TaskFile)(nil)

func nextTaskID(tasks []models.Task) int {
	max := 0
	for _, t := range tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

// Create assigns the next id, appends the task, then attaches the id to the
// owner's task list.
func (r *TaskFile) Create(ctx context.Context, t models.Task) (models.Task, error) {
	err := r.store.MutateTasks(func(doc *filestore.TasksDocument) error {
		t.ID = nextTaskID(doc.Tasks)
		doc.Tasks = append(doc.Tasks, t)
		return nil
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}

	err = r.store.MutateUsers(func(doc *filestore.UsersDocument) error {
		for i := range doc.Users {
			if doc.Users[i].ID == t.UserID {
				doc.Users[i].TaskIDs = append(doc.Users[i].TaskIDs, t.ID)
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("attach task %d to user %d: %w", t.ID, t.UserID, err)
	}
	return t, nil
}

// GetByID returns the task with the given id, or (nil, nil).
func (r *TaskFile) GetByID(ctx context.Context, id int) (*models.Task, error) {
	doc, err := r.store.LoadTasks()
	if err != nil {
		return nil, fmt.Errorf("lookup task %d: %w", id, err)
	}
	for _, t := range doc.Tasks {
		if t.ID == id {
			task := t
			return &task, nil
		}
	}
	return nil, nil
}

// ListByOwner returns the owner's tasks in insertion order, optionally
// narrowed by exact status and priority matches.
func (r *TaskFile) ListByOwner(ctx context.Context, ownerID int, status, priority string) ([]models.Task, error) {
	doc, err := r.store.LoadTasks()
	if err != nil {
		return nil, fmt.Errorf("list tasks for user %d: %w", ownerID, err)
	}
	tasks := make([]models.Task, 0)
	for _, t := range doc.Tasks {
		if t.UserID != ownerID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		if priority != "" && t.Priority != priority {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Update replaces the stored task in place.
func (r *TaskFile) Update(ctx context.Context, t models.Task) (models.Task, error) {
	err := r.store.MutateTasks(func(doc *filestore.TasksDocument) error {
		for i := range doc.Tasks {
			if doc.Tasks[i].ID == t.ID {
				doc.Tasks[i] = t
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %d: %w", t.ID, err)
	}
	return t, nil
}

// Delete removes the task, then detaches its id from the owner's task list,
// and returns the task's prior state.
func (r *TaskFile) Delete(ctx context.Context, id int) (models.Task, error) {
	var removed models.Task
	err := r.store.MutateTasks(func(doc *filestore.TasksDocument) error {
		for i := range doc.Tasks {
			if doc.Tasks[i].ID == id {
				removed = doc.Tasks[i]
				doc.Tasks = append(doc.Tasks[:i], doc.Tasks[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("delete task %d: %w", id, err)
	}

	err = r.store.MutateUsers(func(doc *filestore.UsersDocument) error {
		for i := range doc.Users {
			if doc.Users[i].ID != removed.UserID {
				continue
			}
			ids := doc.Users[i].TaskIDs
			for j, tid := range ids {
				if tid == id {
					doc.Users[i].TaskIDs = append(ids[:j], ids[j+1:]...)
					break
				}
			}
			return nil
		}
		// Owner already gone; the task itself is removed, nothing to detach.
		return nil
	})
	if err != nil {
		return models.Task{}, fmt.Errorf("detach task %d from user %d: %w", id, removed.UserID, err)
	}
	return removed, nil
}
