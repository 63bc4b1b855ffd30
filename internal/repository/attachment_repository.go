package repository

import (
	"github.com/collabhub/collabhub-api/internal/models"
	"gorm.io/gorm"
)

// GormAttachmentRepository is a GORM implementation of AttachmentRepository
type GormAttachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &GormAttachmentRepository{db: db}
}

// Create creates a new attachment
func (r *GormAttachmentRepository) Create(attachment *models.Attachment) error {
	return r.db.Create(attachment).Error
}

// FindByID finds an attachment scoped to its task
func (r *GormAttachmentRepository) FindByID(id, taskID string) (*models.Attachment, error) {
	var attachment models.Attachment
	if err := r.db.Where("id = ? AND task_id = ?", id, taskID).First(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

// ListByTask lists all attachments of a task
func (r *GormAttachmentRepository) ListByTask(taskID string) ([]models.Attachment, error) {
	var attachments []models.Attachment
	if err := r.db.Where("task_id = ?", taskID).Order("created_at").Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// Update persists changes to an attachment
func (r *GormAttachmentRepository) Update(attachment *models.Attachment) error {
	return r.db.Save(attachment).Error
}

// Delete removes an attachment
func (r *GormAttachmentRepository) Delete(id string) error {
	return r.db.Delete(&models.Attachment{}, "id = ?", id).Error
}
