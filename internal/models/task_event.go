package models

const (
	TaskEventCreated = "created"
	TaskEventUpdated = "updated"
	TaskEventDeleted = "deleted"
)

// TaskEvent is a change notification pushed to websocket subscribers of the
// owning user.
type TaskEvent struct {
	Type string `json:"type"` // created | updated | deleted
	Task Task   `json:"task"`
}
