package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/collabhub/collabhub-api/internal/middleware"
	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/repository"
	"github.com/collabhub/collabhub-api/internal/services"
	"github.com/collabhub/collabhub-api/internal/token"
)

var errSMTPDown = errors.New("smtp connection refused")

// recordingMailer captures outgoing mail instead of dialing SMTP.
type recordingMailer struct {
	lastCode    string
	lastTo      string
	welcomeSent []string
	failNext    error
}

func (m *recordingMailer) SendSignupVerification(to, code, ipAddress string) error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.lastTo = to
	m.lastCode = code
	return nil
}

func (m *recordingMailer) SendWelcome(to string) error {
	m.welcomeSent = append(m.welcomeSent, to)
	return nil
}

type apiTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
	mailer *recordingMailer
	tokens *token.Service
	users  repository.UserRepository
	tasks  *services.TaskService
}

func setupAPITestEnv(t *testing.T) *apiTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}, &models.Attachment{}, &models.RevokedToken{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	revokedRepo := repository.NewRevokedTokenRepository(db)

	tokens := token.NewService([]byte("test-secret"), 24*time.Hour, 5*time.Second, revokedRepo)
	mailer := &recordingMailer{}

	authService := services.NewAuthService(userRepo, tokens, mailer)
	taskService := services.NewTaskService(taskRepo, userRepo)
	attachmentService := services.NewAttachmentService(attachmentRepo, taskRepo)

	authHandler := NewAuthHandler(authService)
	taskHandler := NewTaskHandler(taskService)
	attachmentHandler := NewAttachmentHandler(attachmentService)

	r := gin.New()
	requireAuth := middleware.RequireAuth(tokens, userRepo)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.POST("/verify-registration", authHandler.VerifyRegistration)
			auth.GET("/user", requireAuth, authHandler.GetCurrentUser)
		}

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("/:id/username", authHandler.GetUsername)
			users.PUT("/me", authHandler.UpdateProfile)
			users.DELETE("/me", authHandler.DeleteAccount)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/status/:status", taskHandler.ListTasksByStatus)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskMutatePermission(taskService), taskHandler.DeleteTask)

			tasks.GET("/:id/attachments", attachmentHandler.ListAttachments)
			tasks.POST("/:id/attachments", attachmentHandler.AddAttachment)
			tasks.PUT("/:id/attachments/:attachment_id", attachmentHandler.UpdateAttachment)
			tasks.DELETE("/:id/attachments/:attachment_id", attachmentHandler.DeleteAttachment)
		}
	}

	return &apiTestEnv{
		db:     db,
		router: r,
		mailer: mailer,
		tokens: tokens,
		users:  userRepo,
		tasks:  taskService,
	}
}

func (env *apiTestEnv) do(t *testing.T, method, path, tokenStr string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tokenStr != "" {
		req.Header.Set("Authorization", "Bearer "+tokenStr)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// registerAndLogin runs the full signup flow and returns the stored user with
// a live session token.
func (env *apiTestEnv) registerAndLogin(t *testing.T, username string) (*models.User, string) {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username":   username,
		"email":      username + "@example.com",
		"password":   "secret-pass",
		"first_name": "Test",
		"last_name":  "User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username,
		"password": "secret-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeJSON(t, w)
	tokenStr, _ := resp["token"].(string)
	require.NotEmpty(t, tokenStr)

	user, err := env.users.FindByUsername(username)
	require.NoError(t, err)
	return user, tokenStr
}

// promote changes a user's role directly in the database.
func (env *apiTestEnv) promote(t *testing.T, user *models.User, role models.UserRole) {
	t.Helper()
	user.Role = role
	require.NoError(t, env.users.Update(user))
}
