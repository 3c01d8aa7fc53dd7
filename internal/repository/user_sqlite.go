package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"task_tracker/internal/models"
)

// UserSQLite stores users in the users table; the task-id list is derived
// from tasks.user_id, so it can never drift from the tasks themselves.
type UserSQLite struct {
	db *sql.DB
}

func NewUserSQLite(db *sql.DB) *UserSQLite {
	return &UserSQLite{db: db}
}

var _ UserRepo = (*UserSQLite)(nil)

const (
	insertUserSQL           = `INSERT INTO users (username, password_hash) VALUES (?, ?)`
	selectUserByUsernameSQL = `SELECT id, username, password_hash FROM users WHERE username = ? LIMIT 1`
	selectUserByIDSQL       = `SELECT id, username, password_hash FROM users WHERE id = ?`
	selectUserTaskIDsSQL    = `SELECT id FROM tasks WHERE user_id = ? ORDER BY id`
)

// Create inserts a new user and returns its ID.
func (r *UserSQLite) Create(username, passwordHash string) (int, error) {
	res, err := r.db.Exec(insertUserSQL, username, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", username, err)
	}
	return int(lastID), nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByUsername(username string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(selectUserByUsernameSQL, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	if err := r.loadTaskIDs(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserSQLite) GetByID(id int) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(selectUserByIDSQL, id).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	if err := r.loadTaskIDs(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserSQLite) loadTaskIDs(u *models.User) error {
	rows, err := r.db.Query(selectUserTaskIDsSQL, u.ID)
	if err != nil {
		return fmt.Errorf("select task ids for user %d: %w", u.ID, err)
	}
	defer func() { _ = rows.Close() }()

	u.TaskIDs = []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan task id for user %d: %w", u.ID, err)
		}
		u.TaskIDs = append(u.TaskIDs, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate task ids for user %d: %w", u.ID, err)
	}
	return nil
}
