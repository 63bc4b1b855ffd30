package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/collabhub/collabhub-api/internal/dto"
	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/utils"
)

func (env *apiTestEnv) createTaskHTTP(t *testing.T, tokenStr string, body gin.H) dto.TaskDTO {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/tasks", tokenStr, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var task dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func (env *apiTestEnv) listTasksHTTP(t *testing.T, tokenStr, path string) ([]dto.TaskDTO, int64) {
	t.Helper()

	w := env.do(t, http.MethodGet, path, tokenStr, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Tasks      []dto.TaskDTO  `json:"tasks"`
		Pagination utils.PageMeta `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Tasks, resp.Pagination.Total
}

func TestCreateTask(t *testing.T) {
	env := setupAPITestEnv(t)
	user, tokenStr := env.registerAndLogin(t, "maker")

	task := env.createTaskHTTP(t, tokenStr, gin.H{
		"title":       "write report",
		"description": "quarterly numbers",
	})

	require.Equal(t, "write report", task.Title)
	require.Equal(t, models.TaskStatusPause, task.Status)
	require.Equal(t, user.ID, task.CreatedBy)
	require.Contains(t, task.UserIDs, user.ID)
}

func TestCreateTask_MissingTitle(t *testing.T) {
	env := setupAPITestEnv(t)
	_, tokenStr := env.registerAndLogin(t, "maker")

	w := env.do(t, http.MethodPost, "/api/tasks", tokenStr, gin.H{
		"description": "no title here",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTask_InvalidStatus(t *testing.T) {
	env := setupAPITestEnv(t)
	_, tokenStr := env.registerAndLogin(t, "maker")

	w := env.do(t, http.MethodPost, "/api/tasks", tokenStr, gin.H{
		"title":  "broken",
		"status": "archived",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListTasks_OnlyAssigned(t *testing.T) {
	env := setupAPITestEnv(t)
	_, makerToken := env.registerAndLogin(t, "maker")
	peer, peerToken := env.registerAndLogin(t, "peer")

	shared := env.createTaskHTTP(t, makerToken, gin.H{
		"title":          "shared",
		"assigned_users": []string{peer.ID},
	})
	env.createTaskHTTP(t, makerToken, gin.H{"title": "private"})

	tasks, total := env.listTasksHTTP(t, peerToken, "/api/tasks")
	require.Len(t, tasks, 1)
	require.EqualValues(t, 1, total)
	require.Equal(t, shared.ID, tasks[0].ID)

	tasks, total = env.listTasksHTTP(t, makerToken, "/api/tasks")
	require.Len(t, tasks, 2)
	require.EqualValues(t, 2, total)
}

func TestListTasks_Paginated(t *testing.T) {
	env := setupAPITestEnv(t)
	_, tokenStr := env.registerAndLogin(t, "busy")

	for i := 0; i < 5; i++ {
		env.createTaskHTTP(t, tokenStr, gin.H{"title": "chore"})
	}

	tasks, total := env.listTasksHTTP(t, tokenStr, "/api/tasks?page=2&limit=2")
	require.Len(t, tasks, 2)
	require.EqualValues(t, 5, total)

	tasks, total = env.listTasksHTTP(t, tokenStr, "/api/tasks?page=3&limit=2")
	require.Len(t, tasks, 1)
	require.EqualValues(t, 5, total)
}

func TestListTasksByStatus(t *testing.T) {
	env := setupAPITestEnv(t)
	_, tokenStr := env.registerAndLogin(t, "sorter")

	env.createTaskHTTP(t, tokenStr, gin.H{"title": "paused one"})
	done := env.createTaskHTTP(t, tokenStr, gin.H{"title": "done one", "status": "done"})

	tasks, total := env.listTasksHTTP(t, tokenStr, "/api/tasks/status/done")
	require.Len(t, tasks, 1)
	require.EqualValues(t, 1, total)
	require.Equal(t, done.ID, tasks[0].ID)

	w := env.do(t, http.MethodGet, "/api/tasks/status/archived", tokenStr, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTask_NotAssigned(t *testing.T) {
	env := setupAPITestEnv(t)
	_, makerToken := env.registerAndLogin(t, "maker")
	_, outsiderToken := env.registerAndLogin(t, "outsider")

	task := env.createTaskHTTP(t, makerToken, gin.H{"title": "secret"})

	w := env.do(t, http.MethodGet, "/api/tasks/"+task.ID, outsiderToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/tasks/"+task.ID, makerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateTask(t *testing.T) {
	env := setupAPITestEnv(t)
	_, tokenStr := env.registerAndLogin(t, "editor")

	task := env.createTaskHTTP(t, tokenStr, gin.H{"title": "draft"})

	w := env.do(t, http.MethodPut, "/api/tasks/"+task.ID, tokenStr, gin.H{
		"title":  "final",
		"status": "in-progress",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Equal(t, "final", updated.Title)
	require.Equal(t, models.TaskStatusInProgress, updated.Status)
}

func TestUpdateTask_StatusLiteralIsHyphenated(t *testing.T) {
	env := setupAPITestEnv(t)
	_, tokenStr := env.registerAndLogin(t, "editor")

	task := env.createTaskHTTP(t, tokenStr, gin.H{"title": "draft"})

	// The wire value is "in-progress"; the spaced spelling is not a status.
	w := env.do(t, http.MethodPut, "/api/tasks/"+task.ID, tokenStr, gin.H{
		"status": "in progress",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "invalid status value")
}

func TestDeleteTask_SoleAssignee(t *testing.T) {
	env := setupAPITestEnv(t)
	_, tokenStr := env.registerAndLogin(t, "loner")

	task := env.createTaskHTTP(t, tokenStr, gin.H{"title": "mine alone"})

	w := env.do(t, http.MethodDelete, "/api/tasks/"+task.ID, tokenStr, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/tasks/"+task.ID, tokenStr, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTask_HigherRoleInvolved(t *testing.T) {
	env := setupAPITestEnv(t)
	admin, adminToken := env.registerAndLogin(t, "boss")
	env.promote(t, admin, models.RoleAdmin)
	junior, juniorToken := env.registerAndLogin(t, "junior")

	task := env.createTaskHTTP(t, adminToken, gin.H{
		"title":          "team effort",
		"assigned_users": []string{junior.ID},
	})

	w := env.do(t, http.MethodDelete, "/api/tasks/"+task.ID, juniorToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "higher role hierarchy")

	// The admin deletes it without resistance.
	w = env.do(t, http.MethodDelete, "/api/tasks/"+task.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteTask_NonCreatorAmongEqualRanks(t *testing.T) {
	env := setupAPITestEnv(t)
	peerA, tokenA := env.registerAndLogin(t, "peer-a")
	peerB, tokenB := env.registerAndLogin(t, "peer-b")
	peerC, _ := env.registerAndLogin(t, "peer-c")

	task := env.createTaskHTTP(t, tokenA, gin.H{
		"title":          "group task",
		"assigned_users": []string{peerB.ID, peerC.ID},
	})
	require.Equal(t, peerA.ID, task.CreatedBy)

	w := env.do(t, http.MethodDelete, "/api/tasks/"+task.ID, tokenB, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "only the user who created the task")

	w = env.do(t, http.MethodDelete, "/api/tasks/"+task.ID, tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteTask_NotFound(t *testing.T) {
	env := setupAPITestEnv(t)
	_, tokenStr := env.registerAndLogin(t, "seeker")

	w := env.do(t, http.MethodDelete, "/api/tasks/no-such-task", tokenStr, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
