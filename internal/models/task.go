package models

// Task is a single tracked item owned by one user. Status and Priority are
// free-text; filtering matches them exactly.
type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	UserID      int    `json:"userId"`
}
