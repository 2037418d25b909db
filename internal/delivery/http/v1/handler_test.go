package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mkruglov/go-task-api/internal/auth"
	"github.com/mkruglov/go-task-api/internal/services"
	"github.com/mkruglov/go-task-api/internal/storage/storagetest"
)

// testEnv wires the full handler chain against in-memory stores so the
// tests exercise the same routes the application registers.
type testEnv struct {
	router *gin.Engine
	users  *storagetest.MemoryUserStore
	tasks  *storagetest.MemoryTaskStore
	tokens auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zerolog.Nop()
	users := storagetest.NewMemoryUserStore()
	tasks := storagetest.NewMemoryTaskStore(users)
	tokens := auth.NewTokenManager("go-task-api", []byte("test-signing-key"), time.Hour)
	hasher := auth.NewPasswordHasher()

	handler := New(
		logger,
		services.NewAuthService(logger, users, hasher, tokens),
		services.NewTaskService(logger, tasks),
		users,
		tokens,
	)

	router := gin.New()
	authRouter := router.Group("/auth")
	authRouter.POST("/signup", handler.HandleSignup)
	authRouter.POST("/login", handler.HandleLogin)

	tasksRouter := router.Group("/tasks", handler.HandleAuthMiddleware)
	tasksRouter.POST("", handler.HandleCreateTask)
	tasksRouter.GET("", handler.HandleListTasks)
	tasksRouter.PATCH("/:id", handler.HandleUpdateTask)
	tasksRouter.DELETE("/:id", handler.HandleDeleteTask)

	return &testEnv{
		router: router,
		users:  users,
		tasks:  tasks,
		tokens: tokens,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// signupAndLogin registers a user and returns its id and a fresh token.
func (e *testEnv) signupAndLogin(t *testing.T, email, password string) (string, string) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/auth/signup", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodPost, "/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	claims, err := e.tokens.Verify(resp.Token)
	require.NoError(t, err)
	return claims.Subject, resp.Token
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
