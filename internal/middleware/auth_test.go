package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/collabhub/collabhub-api/internal/models"
	"github.com/collabhub/collabhub-api/internal/repository"
	"github.com/collabhub/collabhub-api/internal/token"
)

type gateTestEnv struct {
	db     *gorm.DB
	tokens *token.Service
	users  repository.UserRepository
	router *gin.Engine
}

func setupGateTestEnv(t *testing.T) gateTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}, &models.RevokedToken{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	users := repository.NewUserRepository(db)
	tokens := token.NewService([]byte("test-secret"), 24*time.Hour, 5*time.Second, repository.NewRevokedTokenRepository(db))

	r := gin.New()
	r.GET("/protected", RequireAuth(tokens, users), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		tokenStr, _ := GetToken(c)
		user, _ := GetCurrentUser(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":  userID,
			"token":    tokenStr,
			"username": user.Username,
		})
	})

	return gateTestEnv{db: db, tokens: tokens, users: users, router: r}
}

func (env gateTestEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	require.NoError(t, env.users.Create(user))
	return user
}

func (env gateTestEnv) request(t *testing.T, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_Success(t *testing.T) {
	env := setupGateTestEnv(t)
	user := env.createUser(t, "gatekeeper")

	signed, err := env.tokens.Issue(user.ID, time.Now())
	require.NoError(t, err)

	w := env.request(t, "Bearer "+signed)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), user.ID)
	require.Contains(t, w.Body.String(), "gatekeeper")
}

func TestRequireAuth_MissingCredential(t *testing.T) {
	env := setupGateTestEnv(t)

	for _, header := range []string{"", "Basic abc", "Bearer "} {
		w := env.request(t, header)
		require.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		require.Contains(t, w.Body.String(), "Token is missing or invalid")
	}
}

func TestRequireAuth_RevokedToken(t *testing.T) {
	env := setupGateTestEnv(t)
	user := env.createUser(t, "revokee")

	signed, err := env.tokens.Issue(user.ID, time.Now())
	require.NoError(t, err)
	require.NoError(t, env.tokens.Revoke(signed))

	w := env.request(t, "Bearer "+signed)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Token is revoked")
}

func TestRequireAuth_RevokedCheckedBeforeVerification(t *testing.T) {
	env := setupGateTestEnv(t)
	user := env.createUser(t, "expired-revokee")

	// Expired and revoked: revocation wins because it is checked first.
	signed, err := env.tokens.Issue(user.ID, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)
	require.NoError(t, env.tokens.Revoke(signed))

	w := env.request(t, "Bearer "+signed)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Token is revoked")
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	env := setupGateTestEnv(t)
	user := env.createUser(t, "sleeper")

	signed, err := env.tokens.Issue(user.ID, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	w := env.request(t, "Bearer "+signed)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Token has expired")
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	env := setupGateTestEnv(t)

	w := env.request(t, "Bearer not-a-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Invalid token")
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	env := setupGateTestEnv(t)

	// Valid signature, but the subject was never created.
	signed, err := env.tokens.Issue("ghost-user-id", time.Now())
	require.NoError(t, err)

	w := env.request(t, "Bearer "+signed)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Unknown user")
}
