package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"task_tracker/internal/models"
)

// Store persists the two collections as flat JSON documents, each rewritten in
// full on every mutation. A per-document mutex serializes read-modify-write
// cycles within this process; there is no cross-process locking, and create or
// delete flows that touch both documents are not atomic across them. Known
// weakness, acceptable for the assumed single-client usage.
type Store struct {
	usersPath string
	tasksPath string

	usersMu sync.Mutex
	tasksMu sync.Mutex
}

// UserRecord is the on-disk shape of a user. The password hash is stored under
// the "password" key; the API model deliberately never serializes it.
type UserRecord struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password"`
	TaskIDs      []int  `json:"tasks"`
}

// UsersDocument is the top-level users file: {"users": [...]}.
type UsersDocument struct {
	Users []UserRecord `json:"users"`
}

// TasksDocument is the top-level tasks file: {"tasks": [...]}.
type TasksDocument struct {
	Tasks []models.Task `json:"tasks"`
}

// Open prepares a Store over the given file paths, creating parent directories
// and seeding empty documents for files that do not exist yet.
func Open(usersPath, tasksPath string) (*Store, error) {
	s := &Store{usersPath: usersPath, tasksPath: tasksPath}

	if err := seed(usersPath, UsersDocument{Users: []UserRecord{}}); err != nil {
		return nil, err
	}
	if err := seed(tasksPath, TasksDocument{Tasks: []models.Task{}}); err != nil {
		return nil, err
	}
	return s, nil
}

func seed(path string, doc any) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %q: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir %q: %w", dir, err)
		}
	}
	return writeDoc(path, doc)
}

func readDoc(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %q: %w", path, err)
	}
	return nil
}

func writeDoc(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %q: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

// LoadUsers reads the whole users document.
func (s *Store) LoadUsers() (UsersDocument, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	var doc UsersDocument
	err := readDoc(s.usersPath, &doc)
	return doc, err
}

// MutateUsers runs fn over the users document under the document lock and
// writes the whole document back if fn succeeds.
func (s *Store) MutateUsers(fn func(*UsersDocument) error) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	var doc UsersDocument
	if err := readDoc(s.usersPath, &doc); err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	return writeDoc(s.usersPath, doc)
}

// LoadTasks reads the whole tasks document.
func (s *Store) LoadTasks() (TasksDocument, error) {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	var doc TasksDocument
	err := readDoc(s.tasksPath, &doc)
	return doc, err
}

// MutateTasks runs fn over the tasks document under the document lock and
// writes the whole document back if fn succeeds.
func (s *Store) MutateTasks(fn func(*TasksDocument) error) error {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	var doc TasksDocument
	if err := readDoc(s.tasksPath, &doc); err != nil {
		return err
	}
	if err := fn(&doc); err != nil {
		return err
	}
	return writeDoc(s.tasksPath, doc)
}
