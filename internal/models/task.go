package models

import "time"

type TaskStatus string

const (
	TaskStatusStart      TaskStatus = "start"
	TaskStatusPause      TaskStatus = "pause"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusClose      TaskStatus = "close"
)

var taskStatuses = map[TaskStatus]struct{}{
	TaskStatusStart:      {},
	TaskStatusPause:      {},
	TaskStatusInProgress: {},
	TaskStatusDone:       {},
	TaskStatusClose:      {},
}

// ValidTaskStatus reports whether s is one of the enumerated statuses.
// Transitions between statuses are not constrained.
func ValidTaskStatus(s TaskStatus) bool {
	_, ok := taskStatuses[s]
	return ok
}

type Task struct {
	Base
	Title       string     `gorm:"type:varchar(100);not null" json:"title"`
	Description string     `gorm:"type:varchar(255)" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'pause'" json:"status"`
	CreatedBy   string     `gorm:"type:varchar(36)" json:"created_by"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       *time.Time `json:"end_at"`

	// Relations
	Users       []User       `gorm:"many2many:task_users" json:"users,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

// HasUser reports whether the user is in the task's assignment set. Relies on
// Users being preloaded.
func (t *Task) HasUser(userID string) bool {
	for _, u := range t.Users {
		if u.ID == userID {
			return true
		}
	}
	return false
}
