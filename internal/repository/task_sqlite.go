package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"task_tracker/internal/models"
)

// TaskSQLite stores tasks in the tasks table. Ownership lives in the user_id
// column, so create and delete are single-statement and atomic, unlike the
// two-document file driver.
type TaskSQLite struct {
	db *sql.DB
}

func NewTaskSQLite(db *sql.DB) *TaskSQLite {
	return &TaskSQLite{db: db}
}

var _ TaskRepo = (*TaskSQLite)(nil)

const (
	insertTaskSQL     = `INSERT INTO tasks (title, description, status, priority, user_id) VALUES (?, ?, ?, ?, ?)`
	selectTaskByIDSQL = `SELECT id, title, description, status, priority, user_id FROM tasks WHERE id = ?`
	updateTaskSQL     = `UPDATE tasks SET title = ?, description = ?, status = ?, priority = ? WHERE id = ?`
	deleteTaskSQL     = `DELETE FROM tasks WHERE id = ?`
)

// Create inserts the task and returns it with the assigned id.
func (r *TaskSQLite) Create(ctx context.Context, t models.Task) (models.Task, error) {
	res, err := r.db.ExecContext(ctx, insertTaskSQL, t.Title, t.Description, t.Status, t.Priority, t.UserID)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task for user %d: %w", t.UserID, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("get last insert id for task: %w", err)
	}
	t.ID = int(lastID)
	return t, nil
}

// GetByID fetches a task by id. Returns (nil, nil) if not found.
func (r *TaskSQLite) GetByID(ctx context.Context, id int) (*models.Task, error) {
	var t models.Task
	err := r.db.QueryRowContext(ctx, selectTaskByIDSQL, id).
		Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select task %d: %w", id, err)
	}
	return &t, nil
}

// ListByOwner returns the owner's tasks ordered by id, optionally narrowed by
// exact status and priority matches.
func (r *TaskSQLite) ListByOwner(ctx context.Context, ownerID int, status, priority string) ([]models.Task, error) {
	conds := []string{"user_id = ?"}
	args := []any{ownerID}

	if status != "" {
		conds = append(conds, "status = ?")
		args = append(args, status)
	}
	if priority != "" {
		conds = append(conds, "priority = ?")
		args = append(args, priority)
	}

	q := `SELECT id, title, description, status, priority, user_id FROM tasks WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks for user %d: %w", ownerID, err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.UserID); err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task rows: %w", err)
	}
	return tasks, nil
}

// Update replaces the stored fields of the task.
func (r *TaskSQLite) Update(ctx context.Context, t models.Task) (models.Task, error) {
	res, err := r.db.ExecContext(ctx, updateTaskSQL, t.Title, t.Description, t.Status, t.Priority, t.ID)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %d: %w", t.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Task{}, fmt.Errorf("rows affected for task %d: %w", t.ID, err)
	}
	if n == 0 {
		return models.Task{}, fmt.Errorf("update task %d: %w", t.ID, ErrNotFound)
	}
	return t, nil
}

// Delete removes the task in one transaction and returns its prior state.
func (r *TaskSQLite) Delete(ctx context.Context, id int) (models.Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("begin delete task %d: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	var t models.Task
	err = tx.QueryRowContext(ctx, selectTaskByIDSQL, id).
		Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Task{}, fmt.Errorf("delete task %d: %w", id, ErrNotFound)
		}
		return models.Task{}, fmt.Errorf("select task %d for delete: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, deleteTaskSQL, id); err != nil {
		return models.Task{}, fmt.Errorf("delete task %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return models.Task{}, fmt.Errorf("commit delete task %d: %w", id, err)
	}
	return t, nil
}
