package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mkruglov/go-task-api/internal/auth"
	"github.com/mkruglov/go-task-api/internal/services"
	"github.com/mkruglov/go-task-api/internal/storage"
)

type Handler interface {
	HandleSignup(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleListTasks(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	auth   services.AuthService
	tasks  services.TaskService
	users  storage.UserStore
	tokens auth.TokenManager
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	taskService services.TaskService,
	userStore storage.UserStore,
	tokens auth.TokenManager,
) Handler {
	return &handlerImpl{
		logger: logger,
		auth:   authService,
		tasks:  taskService,
		users:  userStore,
		tokens: tokens,
	}
}
