package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/repository"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTitleRequired      = errors.New("title is required")
	ErrInvalidTaskStatus  = errors.New("invalid status value")
	ErrHigherRoleInvolved = errors.New("you are not authorized to perform this action, as it involves users with higher role hierarchy")
	ErrNotTaskCreator     = errors.New("only the user who created the task can perform this action")
)

// TaskService handles task business logic, including the mutation
// authorization policy.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// ListForUser returns the requested page of the user's tasks together with
// the total count. A limit of zero returns everything.
func (s *TaskService) ListForUser(userID string, offset, limit int) ([]models.Task, int64, error) {
	tasks, err := s.taskRepo.ListByUser(userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	total, err := s.taskRepo.CountByUser(userID, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return tasks, total, nil
}

// ListForUserByStatus returns the requested page of the user's tasks in the
// given status together with the total count.
func (s *TaskService) ListForUserByStatus(userID string, status models.TaskStatus, offset, limit int) ([]models.Task, int64, error) {
	if !models.ValidTaskStatus(status) {
		return nil, 0, ErrInvalidTaskStatus
	}
	tasks, err := s.taskRepo.ListByUserAndStatus(userID, status, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	total, err := s.taskRepo.CountByUser(userID, &status)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return tasks, total, nil
}

// Get returns a task the actor is assigned to. Tasks outside the actor's
// assignment set read as not found, never as forbidden.
func (s *TaskService) Get(taskID, actorID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Attachments")
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

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title           string
	Description     string
	Status          models.TaskStatus
	StartAt         *time.Time
	EndAt           *time.Time
	AssignedUserIDs []string
}

// Create creates a task authored by the creator. The creator always lands in
// the assignment set, which keeps created_by pointing at an assignee; unknown
// extra assignee IDs are skipped.
func (s *TaskService) Create(creator *models.User, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.Status == "" {
		input.Status = models.TaskStatusPause
	}
	if !models.ValidTaskStatus(input.Status) {
		return nil, ErrInvalidTaskStatus
	}

	users := []models.User{*creator}
	for _, id := range input.AssignedUserIDs {
		if id == creator.ID {
			continue
		}
		user, err := s.userRepo.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to resolve assignee: %w", err)
		}
		users = append(users, *user)
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		CreatedBy:   creator.ID,
		StartAt:     input.StartAt,
		EndAt:       input.EndAt,
	}

	if err := s.taskRepo.Create(task, users); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID)
}

// UpdateTaskInput represents input for updating a task. Nil means leave the
// field unchanged.
type UpdateTaskInput struct {
	Title           *string
	Description     *string
	Status          *models.TaskStatus
	StartAt         *time.Time
	EndAt           *time.Time
	AssignedUserIDs []string
}

// Update edits a task the actor is assigned to. Status may move to any
// enumerated value regardless of the current one; assignment IDs are merged
// into the existing set without duplicates.
func (s *TaskService) Update(taskID, actorID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.Get(taskID, actorID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidTaskStatus(*input.Status) {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *input.Status
	}
	if input.StartAt != nil {
		task.StartAt = input.StartAt
	}
	if input.EndAt != nil {
		task.EndAt = input.EndAt
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	var additions []models.User
	for _, id := range input.AssignedUserIDs {
		if task.HasUser(id) {
			continue
		}
		user, err := s.userRepo.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to resolve assignee: %w", err)
		}
		additions = append(additions, *user)
	}
	if err := s.taskRepo.AppendUsers(task, additions); err != nil {
		return nil, fmt.Errorf("failed to assign users: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Attachments")
}

// Delete removes a task; its assignment edges and attachments go with it.
// The mutation policy runs in the route middleware before this is reached.
func (s *TaskService) Delete(taskID string) error {
	if err := s.taskRepo.Delete(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// AuthorizeMutationByID loads the task and runs the mutation policy for the
// actor, returning the loaded task on success.
func (s *TaskService) AuthorizeMutationByID(taskID string, actor *models.User) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.AuthorizeMutation(actor, task); err != nil {
		return nil, err
	}
	return task, nil
}

// AuthorizeMutation decides whether the actor may take a destructive action
// on the task. Admins always may; a sole assignee always may; otherwise a
// higher-ranked assignee vetoes everyone below, and with no higher rank
// involved only the creator may act. A task with no assignees falls through
// the vacuous scan to the creator check, so the creator may still act on it.
// Task.Users must be preloaded.
func (s *TaskService) AuthorizeMutation(actor *models.User, task *models.Task) error {
	if actor.Role == models.RoleAdmin {
		return nil
	}

	if len(task.Users) == 1 {
		return nil
	}

	for _, assigned := range task.Users {
		if models.CompareRoles(assigned.Role, actor.Role) > 0 {
			return ErrHigherRoleInvolved
		}
	}

	if task.CreatedBy == actor.ID {
		return nil
	}
	return ErrNotTaskCreator
}
