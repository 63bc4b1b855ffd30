package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/collabhub/collabhub-api/internal/apierrors"
	"github.com/collabhub/collabhub-api/internal/constants"
	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/services"
)

// RequireTaskMutatePermission runs the role-hierarchy policy for destructive
// task routes. It loads the task for the :id parameter, applies the decision
// against the authenticated user, and either stores the task in the context
// or short-circuits with 403 (or 404 for an absent task).
func RequireTaskMutatePermission(tasks *services.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetCurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		task, err := tasks.AuthorizeMutationByID(c.Param("id"), actor)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTaskNotFound):
				apierrors.NotFound(c, "Task not found")
			case errors.Is(err, services.ErrHigherRoleInvolved),
				errors.Is(err, services.ErrNotTaskCreator):
				apierrors.Forbidden(c, err.Error())
			default:
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the policy-checked task from context.
func GetTask(c *gin.Context) (*models.Task, bool) {
	v, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := v.(*models.Task)
	return task, ok
}
