package dto

import (
	"time"

	"github.com/collabhub/collabhub-api/internal/models"
)

// TaskDTO represents a task in API responses. Assignees are reported as a
// flat list of user IDs.
type TaskDTO struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	CreatedBy   string            `json:"created_by"`
	StartAt     *time.Time        `json:"start_at,omitempty"`
	EndAt       *time.Time        `json:"end_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	UserIDs     []string          `json:"user_ids"`
	Attachments []AttachmentDTO   `json:"attachments,omitempty"`
}

// AttachmentDTO represents a task attachment in API responses
type AttachmentDTO struct {
	ID     string `json:"id"`
	TaskID string `json:"task_id"`
	File   string `json:"file"`
	Link   string `json:"link"`
	Tag    string `json:"tag"`
	Info   string `json:"info"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	userIDs := make([]string, 0, len(task.Users))
	for _, u := range task.Users {
		userIDs = append(userIDs, u.ID)
	}

	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedBy:   task.CreatedBy,
		StartAt:     task.StartAt,
		EndAt:       task.EndAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		UserIDs:     userIDs,
	}

	for _, a := range task.Attachments {
		dto.Attachments = append(dto.Attachments, ToAttachmentDTO(a))
	}
	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskDTO(t))
	}
	return out
}

// ToAttachmentDTO converts an Attachment model to AttachmentDTO
func ToAttachmentDTO(a models.Attachment) AttachmentDTO {
	return AttachmentDTO{
		ID:     a.ID,
		TaskID: a.TaskID,
		File:   a.File,
		Link:   a.Link,
		Tag:    a.Tag,
		Info:   a.Info,
	}
}

// ToAttachmentDTOs converts a slice of attachments
func ToAttachmentDTOs(attachments []models.Attachment) []AttachmentDTO {
	out := make([]AttachmentDTO, 0, len(attachments))
	for _, a := range attachments {
		out = append(out, ToAttachmentDTO(a))
	}
	return out
}
