package repository

import (
	"time"

	"github.com/collabhub/collabhub-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByVerificationToken finds a user by pending verification token
	FindByVerificationToken(token string) (*models.User, error)

	// Update persists changes to an existing user
	Update(user *models.User) error

	// Delete removes the user after clearing its task assignment edges,
	// within a single transaction
	Delete(id string) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a task together with its initial assignment set
	Create(task *models.Task, users []models.User) error

	// FindByID finds a task by ID with assigned users preloaded
	FindByID(id string, preload ...string) (*models.Task, error)

	// ListByUser lists tasks the user is assigned to. A limit of zero
	// disables pagination
	ListByUser(userID string, offset, limit int) ([]models.Task, error)

	// ListByUserAndStatus lists the user's tasks filtered by status
	ListByUserAndStatus(userID string, status models.TaskStatus, offset, limit int) ([]models.Task, error)

	// CountByUser counts the user's tasks, optionally filtered by status
	CountByUser(userID string, status *models.TaskStatus) (int64, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// AppendUsers adds users to the task's assignment set
	AppendUsers(task *models.Task, users []models.User) error

	// Delete clears assignment edges, removes attachments, and deletes the
	// task, within a single transaction
	Delete(id string) error
}

// AttachmentRepository defines the interface for attachment data access
type AttachmentRepository interface {
	// Create creates a new attachment
	Create(attachment *models.Attachment) error

	// FindByID finds an attachment scoped to its task
	FindByID(id, taskID string) (*models.Attachment, error)

	// ListByTask lists all attachments of a task
	ListByTask(taskID string) ([]models.Attachment, error)

	// Update persists changes to an attachment
	Update(attachment *models.Attachment) error

	// Delete removes an attachment
	Delete(id string) error
}

// RevokedTokenRepository defines the interface for the token blacklist
type RevokedTokenRepository interface {
	// Create inserts a blacklist row; inserting the same token twice is a no-op
	Create(token string, expiresAt time.Time) error

	// Exists reports whether the token has been revoked
	Exists(token string) (bool, error)

	// DeleteExpired removes rows whose captured token expiry is before now
	DeleteExpired(now time.Time) (int64, error)
}
