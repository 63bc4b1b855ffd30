package repository

import (
	"github.com/collabhub/collabhub-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a task and its initial assignment set atomically.
func (r *GormTaskRepository) Create(task *models.Task, users []models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		if len(users) > 0 {
			if err := tx.Model(task).Association("Users").Append(&users); err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a task by ID. Assigned users are always preloaded; extra
// associations can be requested by name.
func (r *GormTaskRepository) FindByID(id string, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.Preload("Users")
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByUser lists tasks the user is assigned to. A limit of zero disables
// pagination.
func (r *GormTaskRepository) ListByUser(userID string, offset, limit int) ([]models.Task, error) {
	return r.listByUser(userID, nil, offset, limit)
}

// ListByUserAndStatus lists the user's tasks filtered by status
func (r *GormTaskRepository) ListByUserAndStatus(userID string, status models.TaskStatus, offset, limit int) ([]models.Task, error) {
	return r.listByUser(userID, &status, offset, limit)
}

// CountByUser counts the user's tasks, optionally filtered by status
func (r *GormTaskRepository) CountByUser(userID string, status *models.TaskStatus) (int64, error) {
	var count int64
	err := r.scopeByUser(userID, status).Model(&models.Task{}).Count(&count).Error
	return count, err
}

func (r *GormTaskRepository) listByUser(userID string, status *models.TaskStatus, offset, limit int) ([]models.Task, error) {
	var tasks []models.Task
	query := r.scopeByUser(userID, status).Preload("Users")

	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}

	if err := query.Order("tasks.created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *GormTaskRepository) scopeByUser(userID string, status *models.TaskStatus) *gorm.DB {
	query := r.db.
		Joins("JOIN task_users ON task_users.task_id = tasks.id").
		Where("task_users.user_id = ?", userID)

	if status != nil {
		query = query.Where("tasks.status = ?", *status)
	}
	return query
}

// Update persists changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// AppendUsers adds users to the task's assignment set
func (r *GormTaskRepository) AppendUsers(task *models.Task, users []models.User) error {
	if len(users) == 0 {
		return nil
	}
	return r.db.Model(task).Association("Users").Append(&users)
}

// Delete removes the assignment edges, the attachments, and the task itself
// in one transaction so a failure leaves no partial state.
func (r *GormTaskRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Model(&task).Association("Users").Clear(); err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&task).Error
	})
}
