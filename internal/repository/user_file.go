package repository

import (
	"fmt"

	"task_tracker/internal/models"
	"task_tracker/internal/repository/filestore"
)

// UserFile stores users in the JSON users document.
type UserFile struct {
	store *filestore.Store
}

func NewUserFile(store *filestore.Store) *UserFile {
	return &UserFile{store: store}
}

var _ UserRepo = (*UserFile)(nil)

func userFromRecord(rec filestore.UserRecord) *models.User {
	ids := make([]int, len(rec.TaskIDs))
	copy(ids, rec.TaskIDs)
	return &models.User{
		ID:           rec.ID,
		Username:     rec.Username,
		PasswordHash: rec.PasswordHash,
		TaskIDs:      ids,
	}
}

// nextUserID assigns one past the highest existing id, so ids stay unique and
// are never reused.
func nextUserID(users []filestore.UserRecord) int {
	max := 0
	for _, u := range users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}

// Create appends a new user with an empty task list and returns its id.
func (r *UserFile) Create(username, passwordHash string) (int, error) {
	var id int
	err := r.store.MutateUsers(func(doc *filestore.UsersDocument) error {
		id = nextUserID(doc.Users)
		doc.Users = append(doc.Users, filestore.UserRecord{
			ID:           id,
			Username:     username,
			PasswordHash: passwordHash,
			TaskIDs:      []int{},
		})
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("create user %q: %w", username, err)
	}
	return id, nil
}

// GetByUsername returns the first user with the given username, or (nil, nil).
func (r *UserFile) GetByUsername(username string) (*models.User, error) {
	doc, err := r.store.LoadUsers()
	if err != nil {
		return nil, fmt.Errorf("lookup user %q: %w", username, err)
	}
	for _, u := range doc.Users {
		if u.Username == username {
			return userFromRecord(u), nil
		}
	}
	return nil, nil
}

// GetByID returns the user with the given id, or (nil, nil).
func (r *UserFile) GetByID(id int) (*models.User, error) {
	doc, err := r.store.LoadUsers()
	if err != nil {
		return nil, fmt.Errorf("lookup user %d: %w", id, err)
	}
	for _, u := range doc.Users {
		if u.ID == id {
			return userFromRecord(u), nil
		}
	}
	return nil, nil
}
