package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/mkruglov/go-task-api/internal/auth"
	"github.com/mkruglov/go-task-api/internal/config"
	v1 "github.com/mkruglov/go-task-api/internal/delivery/http/v1"
	"github.com/mkruglov/go-task-api/internal/services"
	"github.com/mkruglov/go-task-api/internal/storage"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	jwtCfg := config.Global().JWT

	userStore := storage.NewPostgresUserStore(globalLogger, globalPostgresPool)
	taskStore := storage.NewPostgresTaskStore(globalLogger, globalPostgresPool)

	hasher := auth.NewPasswordHasher()
	tokens := auth.NewTokenManager(
		jwtCfg.Issuer,
		[]byte(jwtCfg.SigningKey),
		jwtCfg.AccessTokenTTL,
	)

	authService := services.NewAuthService(globalLogger, userStore, hasher, tokens)
	taskService := services.NewTaskService(globalLogger, taskStore)

	v1Handler := v1.New(globalLogger, authService, taskService, userStore, tokens)

	authRouter := router.Group("/auth")
	authRouter.POST("/signup", v1Handler.HandleSignup)
	authRouter.POST("/login", v1Handler.HandleLogin)

	tasksRouter := router.Group("/tasks", v1Handler.HandleAuthMiddleware)
	tasksRouter.POST("", v1Handler.HandleCreateTask)
	tasksRouter.GET("", v1Handler.HandleListTasks)
	tasksRouter.PATCH("/:id", v1Handler.HandleUpdateTask)
	tasksRouter.DELETE("/:id", v1Handler.HandleDeleteTask)
}
