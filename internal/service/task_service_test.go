package service

import (
	"context"
	"errors"
	"testing"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

// In-memory fakes mirroring the repository semantics: ids are max+1, Create
// attaches the task to its owner, Delete detaches it.

type fakeUserRepo struct {
	users []models.User
}

func (f *fakeUserRepo) Create(username, hash string) (int, error) {
	id := len(f.users) + 1
	f.users = append(f.users, models.User{ID: id, Username: username, PasswordHash: hash, TaskIDs: []int{}})
	return id, nil
}

func (f *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	for i := range f.users {
		if f.users[i].Username == username {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByID(id int) (*models.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

type fakeTaskRepo struct {
	tasks []models.Task
	users *fakeUserRepo
}

func (f *fakeTaskRepo) Create(ctx context.Context, t models.Task) (models.Task, error) {
	max := 0
	for _, existing := range f.tasks {
		if existing.ID > max {
			max = existing.ID
		}
	}
	t.ID = max + 1
	f.tasks = append(f.tasks, t)
	for i := range f.users.users {
		if f.users.users[i].ID == t.UserID {
			f.users.users[i].TaskIDs = append(f.users.users[i].TaskIDs, t.ID)
			return t, nil
		}
	}
	return models.Task{}, repository.ErrNotFound
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id int) (*models.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			t := f.tasks[i]
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeTaskRepo) ListByOwner(ctx context.Context, ownerID int, status, priority string) ([]models.Task, error) {
	out := make([]models.Task, 0)
	for _, t := range f.tasks {
		if t.UserID != ownerID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		if priority != "" && t.Priority != priority {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, t models.Task) (models.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == t.ID {
			f.tasks[i] = t
			return t, nil
		}
	}
	return models.Task{}, repository.ErrNotFound
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id int) (models.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].ID != id {
			continue
		}
		removed := f.tasks[i]
		f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
		for j := range f.users.users {
			if f.users.users[j].ID != removed.UserID {
				continue
			}
			ids := f.users.users[j].TaskIDs
			for k, tid := range ids {
				if tid == id {
					f.users.users[j].TaskIDs = append(ids[:k], ids[k+1:]...)
					break
				}
			}
		}
		return removed, nil
	}
	return models.Task{}, repository.ErrNotFound
}

func newTaskFixture(t *testing.T) (*TaskService, *fakeUserRepo, *fakeTaskRepo, *Broker) {
	t.Helper()
	users := &fakeUserRepo{}
	tasks := &fakeTaskRepo{users: users}
	broker := NewBroker()
	return NewTaskService(tasks, users, broker), users, tasks, broker
}

func TestTaskService_Create_AssignsOwnerAndAttaches(t *testing.T) {
	svc, users, _, broker := newTaskFixture(t)
	_, _ = users.Create("alice", "h")

	events, cancel := broker.Subscribe(1)
	defer cancel()

	created, err := svc.Create(context.Background(), 1, TaskInput{
		Title: "A", Description: "d", Status: "open", Priority: "low",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != 1 || created.UserID != 1 {
		t.Fatalf("unexpected created task: %+v", created)
	}

	owner, _ := users.GetByID(1)
	if len(owner.TaskIDs) != 1 || owner.TaskIDs[0] != 1 {
		t.Fatalf("task not attached to owner: %+v", owner.TaskIDs)
	}

	select {
	case ev := <-events:
		if ev.Type != models.TaskEventCreated || ev.Task.ID != 1 {
			t.Fatalf("unexpected event: %+v", ev)
		}
	default:
		t.Fatalf("expected a created event")
	}
}

func TestTaskService_Create_UnknownCaller(t *testing.T) {
	svc, _, _, _ := newTaskFixture(t)

	_, err := svc.Create(context.Background(), 99, TaskInput{Title: "A"})
	if !errors.Is(err, ErrOwnerNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
}

func TestTaskService_List_ScopedToCallerWithFilters(t *testing.T) {
	svc, users, _, _ := newTaskFixture(t)
	_, _ = users.Create("alice", "h")
	_, _ = users.Create("bob", "h")

	mustCreate := func(caller int, in TaskInput) models.Task {
		t.Helper()
		task, err := svc.Create(context.Background(), caller, in)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		return task
	}

	a1 := mustCreate(1, TaskInput{Title: "a1", Status: "open", Priority: "low"})
	a2 := mustCreate(1, TaskInput{Title: "a2", Status: "done", Priority: "low"})
	mustCreate(2, TaskInput{Title: "b1", Status: "open", Priority: "high"})

	all, err := svc.List(context.Background(), 1, TaskFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].ID != a1.ID || all[1].ID != a2.ID {
		t.Fatalf("expected alice's two tasks in insertion order, got %+v", all)
	}

	open, err := svc.List(context.Background(), 1, TaskFilter{Status: "open"})
	if err != nil {
		t.Fatalf("List(status=open): %v", err)
	}
	if len(open) != 1 || open[0].ID != a1.ID {
		t.Fatalf("expected only a1, got %+v", open)
	}

	none, err := svc.List(context.Background(), 1, TaskFilter{Status: "open", Priority: "high"})
	if err != nil {
		t.Fatalf("List(combined): %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected empty list, got %+v", none)
	}
}

func TestTaskService_Update_FullReplacementNotMerge(t *testing.T) {
	svc, users, tasks, _ := newTaskFixture(t)
	_, _ = users.Create("alice", "h")

	created, err := svc.Create(context.Background(), 1, TaskInput{
		Title: "A", Description: "keep?", Status: "open", Priority: "low",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Description and priority omitted: they must become empty, not survive.
	updated, err := svc.Update(context.Background(), 1, created.ID, TaskInput{
		Title: "A2", Status: "done",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "A2" || updated.Status != "done" {
		t.Fatalf("unexpected updated task: %+v", updated)
	}
	if updated.Description != "" || updated.Priority != "" {
		t.Fatalf("expected omitted fields to be emptied, got %+v", updated)
	}
	if updated.UserID != 1 || updated.ID != created.ID {
		t.Fatalf("id/owner must not change on update: %+v", updated)
	}

	stored, _ := tasks.GetByID(context.Background(), created.ID)
	if stored.Description != "" {
		t.Fatalf("stored task kept old field: %+v", stored)
	}
}

func TestTaskService_Update_NotFoundAndForbidden(t *testing.T) {
	svc, users, _, _ := newTaskFixture(t)
	_, _ = users.Create("alice", "h")
	_, _ = users.Create("bob", "h")

	created, err := svc.Create(context.Background(), 1, TaskInput{Title: "A"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(context.Background(), 1, 999, TaskInput{Title: "x"}); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}

	if _, err := svc.Update(context.Background(), 2, created.ID, TaskInput{Title: "stolen"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// The task must be unmodified after the forbidden attempt.
	list, _ := svc.List(context.Background(), 1, TaskFilter{})
	if len(list) != 1 || list[0].Title != "A" {
		t.Fatalf("task modified by forbidden update: %+v", list)
	}
}

func TestTaskService_Delete_RemovesAndDetaches(t *testing.T) {
	svc, users, _, _ := newTaskFixture(t)
	_, _ = users.Create("alice", "h")

	created, err := svc.Create(context.Background(), 1, TaskInput{Title: "A", Status: "open"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	removed, err := svc.Delete(context.Background(), 1, created.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed.ID != created.ID || removed.Title != "A" {
		t.Fatalf("expected prior state back, got %+v", removed)
	}

	owner, _ := users.GetByID(1)
	if len(owner.TaskIDs) != 0 {
		t.Fatalf("task id not detached from owner: %+v", owner.TaskIDs)
	}

	list, _ := svc.List(context.Background(), 1, TaskFilter{})
	if len(list) != 0 {
		t.Fatalf("deleted task still listed: %+v", list)
	}

	if _, err := svc.Delete(context.Background(), 1, created.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("second delete: expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskService_Delete_Forbidden(t *testing.T) {
	svc, users, _, _ := newTaskFixture(t)
	_, _ = users.Create("alice", "h")
	_, _ = users.Create("bob", "h")

	created, err := svc.Create(context.Background(), 1, TaskInput{Title: "A"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Delete(context.Background(), 2, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	list, _ := svc.List(context.Background(), 1, TaskFilter{})
	if len(list) != 1 {
		t.Fatalf("task removed by forbidden delete: %+v", list)
	}
}
