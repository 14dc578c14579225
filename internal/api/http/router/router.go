package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/dmarkhas/tasklane-server/internal/api/http/handler"
	"github.com/dmarkhas/tasklane-server/internal/api/http/middleware"
	"github.com/dmarkhas/tasklane-server/internal/config"
	"github.com/dmarkhas/tasklane-server/internal/logger"
	"github.com/dmarkhas/tasklane-server/internal/service"
)

// loginRateLimit caps magic link requests per IP per window.
const (
	loginRateLimit  = 5
	loginRateWindow = time.Minute
)

// Router wires handlers and middleware into an Echo instance.
type Router struct {
	authService *service.Auth
	taskService *service.Task
	listService *service.List
	rdb         *redis.Client
	cfg         *config.Config
	logger      *logger.Logger
}

// New creates a new Router instance. rdb may be nil, which disables
// rate limiting.
func New(
	authService *service.Auth,
	taskService *service.Task,
	listService *service.List,
	rdb *redis.Client,
	cfg *config.Config,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService: authService,
		taskService: taskService,
		listService: listService,
		rdb:         rdb,
		cfg:         cfg,
		logger:      logger,
	}
}

// Register builds the route table and returns the configured server.
func (r *Router) Register() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logging := middleware.NewLogging(r.logger)
	identity := middleware.NewIdentity(r.authService, r.cfg.Auth.APIKey, r.logger)
	ratelimit := middleware.NewRateLimit(r.rdb, loginRateLimit, loginRateWindow, r.logger)

	e.Use(logging.Handle)

	e.GET("/healthz", handler.Health)

	authHandler := handler.NewAuth(r.authService, r.cfg.HTTP.Env == "prod", r.logger)
	auth := e.Group("/api/auth")
	auth.POST("/login", authHandler.Login, ratelimit.Limit)
	auth.GET("/verify", authHandler.Verify)
	auth.POST("/logout", authHandler.Logout)

	api := e.Group("/api", identity.Require)

	taskHandler := handler.NewTask(r.taskService, r.logger)
	api.GET("/tasks", taskHandler.List)
	api.POST("/tasks", taskHandler.Create)
	api.GET("/tasks/:id", taskHandler.Get)
	api.PUT("/tasks/:id", taskHandler.Update)
	api.DELETE("/tasks/:id", taskHandler.Delete)

	listHandler := handler.NewList(r.listService, r.logger)
	api.GET("/lists", listHandler.List)
	api.POST("/lists", listHandler.Create)
	api.DELETE("/lists/:id", listHandler.Delete)

	return e
}
