package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/repository"
)

var (
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrInfoRequired       = errors.New("info is required")
)

// AttachmentService handles task-scoped attachment CRUD. Every operation
// first checks that the actor is assigned to the owning task; inaccessible
// tasks read as not found.
type AttachmentService struct {
	attachmentRepo repository.AttachmentRepository
	taskRepo       repository.TaskRepository
}

// NewAttachmentService creates a new AttachmentService.
func NewAttachmentService(attachmentRepo repository.AttachmentRepository, taskRepo repository.TaskRepository) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		taskRepo:       taskRepo,
	}
}

// ListForTask returns all attachments of a task the actor can access.
func (s *AttachmentService) ListForTask(taskID, actorID string) ([]models.Attachment, error) {
	if _, err := s.accessibleTask(taskID, actorID); err != nil {
		return nil, err
	}

	attachments, err := s.attachmentRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

// AddAttachmentInput represents input for adding an attachment.
type AddAttachmentInput struct {
	File string
	Link string
	Tag  string
	Info string
}

// Add attaches a file or link record to the task.
func (s *AttachmentService) Add(taskID, actorID string, input AddAttachmentInput) (*models.Attachment, error) {
	if input.Info == "" {
		return nil, ErrInfoRequired
	}

	task, err := s.accessibleTask(taskID, actorID)
	if err != nil {
		return nil, err
	}

	attachment := &models.Attachment{
		TaskID: task.ID,
		File:   input.File,
		Link:   input.Link,
		Tag:    input.Tag,
		Info:   input.Info,
	}

	if err := s.attachmentRepo.Create(attachment); err != nil {
		return nil, fmt.Errorf("failed to create attachment: %w", err)
	}
	return attachment, nil
}

// UpdateAttachmentInput carries partial attachment edits. Nil means leave
// unchanged.
type UpdateAttachmentInput struct {
	File *string
	Link *string
	Tag  *string
	Info *string
}

// Update edits an attachment of an accessible task.
func (s *AttachmentService) Update(attachmentID, taskID, actorID string, input UpdateAttachmentInput) (*models.Attachment, error) {
	if _, err := s.accessibleTask(taskID, actorID); err != nil {
		return nil, err
	}

	attachment, err := s.attachmentRepo.FindByID(attachmentID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("failed to find attachment: %w", err)
	}

	if input.File != nil {
		attachment.File = *input.File
	}
	if input.Link != nil {
		attachment.Link = *input.Link
	}
	if input.Tag != nil {
		attachment.Tag = *input.Tag
	}
	if input.Info != nil {
		attachment.Info = *input.Info
	}

	if err := s.attachmentRepo.Update(attachment); err != nil {
		return nil, fmt.Errorf("failed to update attachment: %w", err)
	}
	return attachment, nil
}

// Delete removes an attachment of an accessible task.
func (s *AttachmentService) Delete(attachmentID, taskID, actorID string) error {
	if _, err := s.accessibleTask(taskID, actorID); err != nil {
		return err
	}

	attachment, err := s.attachmentRepo.FindByID(attachmentID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return fmt.Errorf("failed to find attachment: %w", err)
	}

	if err := s.attachmentRepo.Delete(attachment.ID); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}

func (s *AttachmentService) accessibleTask(taskID, actorID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if !task.HasUser(actorID) {
		return nil, ErrTaskNotFound
	}
	return task, nil
}
