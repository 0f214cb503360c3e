package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTaskAssigned = "task_assigned"
	NotificationTaskDone     = "task_done"
)

// Notification is an entry in a user's mailbox. Entries are appended by the
// dispatcher and cleared in bulk by the owning user, never edited.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	TaskID    uuid.UUID `json:"taskId"`
	CreatedAt time.Time `json:"createdAt"`
}
