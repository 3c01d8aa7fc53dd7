package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"task_tracker/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockTaskRepo(t *testing.T) (*TaskSQLite, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewTaskSQLite(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func TestTaskSQLite_Create(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(insertTaskSQL)).
		WithArgs("A", "d", "open", "low", 1).
		WillReturnResult(sqlmock.NewResult(7, 1))

	created, err := repo.Create(context.Background(), models.Task{
		Title: "A", Description: "d", Status: "open", Priority: "low", UserID: 1,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 7 || created.UserID != 1 {
		t.Fatalf("unexpected task: %+v", created)
	}
}

func TestTaskSQLite_GetByID(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectTaskByIDSQL)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "status", "priority", "user_id"}).
			AddRow(7, "A", "d", "open", "low", 1))

	task, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if task == nil || task.Title != "A" || task.UserID != 1 {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestTaskSQLite_GetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectTaskByIDSQL)).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "status", "priority", "user_id"}))

	task, err := repo.GetByID(context.Background(), 9)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if task != nil {
		t.Fatalf("expected nil task, got %+v", task)
	}
}

func TestTaskSQLite_ListByOwner_AppliesFilters(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	wantQuery := `SELECT id, title, description, status, priority, user_id FROM tasks WHERE user_id = ? AND status = ? AND priority = ? ORDER BY id`
	mock.ExpectQuery(regexp.QuoteMeta(wantQuery)).
		WithArgs(1, "open", "low").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "status", "priority", "user_id"}).
			AddRow(1, "a1", "", "open", "low", 1))

	tasks, err := repo.ListByOwner(context.Background(), 1, "open", "low")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "a1" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
}

func TestTaskSQLite_ListByOwner_NoFiltersEmptyResult(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	wantQuery := `SELECT id, title, description, status, priority, user_id FROM tasks WHERE user_id = ? ORDER BY id`
	mock.ExpectQuery(regexp.QuoteMeta(wantQuery)).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "status", "priority", "user_id"}))

	tasks, err := repo.ListByOwner(context.Background(), 2, "", "")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty non-nil slice, got %+v", tasks)
	}
}

func TestTaskSQLite_Update_NotFound(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(updateTaskSQL)).
		WithArgs("x", "", "", "", 9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), models.Task{ID: 9, Title: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskSQLite_Delete_ReturnsPriorStateInOneTransaction(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectTaskByIDSQL)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "status", "priority", "user_id"}).
			AddRow(7, "A", "d", "open", "low", 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteTaskSQL)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	removed, err := repo.Delete(context.Background(), 7)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed.ID != 7 || removed.Title != "A" {
		t.Fatalf("expected prior state, got %+v", removed)
	}
}

func TestTaskSQLite_Delete_NotFound(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectTaskByIDSQL)).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "status", "priority", "user_id"}))
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), 9)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
