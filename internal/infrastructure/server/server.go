package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	_ "github.com/harmonysync/backend/docs"
	"github.com/harmonysync/backend/internal/adapters/credentials"
	httpHandlers "github.com/harmonysync/backend/internal/adapters/http"
	"github.com/harmonysync/backend/internal/adapters/repository"
	"github.com/harmonysync/backend/internal/application/services"
	"github.com/harmonysync/backend/internal/domain/entities"
	google "github.com/harmonysync/backend/internal/google"
	"github.com/harmonysync/backend/internal/infrastructure/config"
	"github.com/harmonysync/backend/internal/infrastructure/database"
	"github.com/harmonysync/backend/internal/infrastructure/logger"
	"github.com/harmonysync/backend/internal/ports"
	"github.com/harmonysync/backend/internal/timeutil"
)

// Server represents the HTTP server and its wired dependencies.
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger

	db          *database.DB
	mongoClient *mongo.Client

	taskService *services.TaskService
	authService *services.AuthService
	archive     *services.ArchiveService
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance with the backing store named by the
// configuration.
func New(cfg *config.Config, appLogger *logger.Logger) (*Server, error) {
	loc, err := timeutil.LoadZone(cfg.App.Timezone)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
	}

	// Sessions and credentials
	sessions := credentials.NewSessionManager(cfg.Session.Secret, cfg.Session.CookieName, cfg.Session.TTL)

	var credStore ports.CredentialStore
	switch cfg.Session.Store {
	case "file":
		credStore, err = credentials.NewFileStore(cfg.Session.StateDir)
		if err != nil {
			return nil, err
		}
	default:
		credStore = credentials.NewMemoryStore()
	}

	oauthConfig := google.NewOAuthConfig(cfg.Google)
	authService := services.NewAuthService(oauthConfig, credStore, sessions, appLogger)
	server.authService = authService

	// Task store backend
	taskRepo, listRepo, err := server.buildStores(authService, loc)
	if err != nil {
		return nil, err
	}

	taskService := services.NewTaskService(taskRepo, listRepo, loc, appLogger)
	calendarService := services.NewCalendarService(authService, loc, appLogger)
	server.taskService = taskService

	// Archival sweeper; the remote Google store owns its own lifecycle, so
	// sweeping is restricted to local backends.
	if cfg.Archive.Enabled && cfg.Store.Backend != config.BackendGoogleTasks {
		archiveStore, err := repository.NewFileArchiveStore(cfg.Archive.Dir)
		if err != nil {
			return nil, err
		}
		server.archive = services.NewArchiveService(
			taskRepo, archiveStore,
			cfg.Archive.Retention, cfg.Archive.Interval,
			appLogger,
		)
	}

	// Handlers
	authHandler := httpHandlers.NewAuthHandler(authService, appLogger)
	calendarHandler := httpHandlers.NewCalendarHandler(calendarService, appLogger)
	taskHandler := httpHandlers.NewTaskHandler(taskService, appLogger)

	server.setupMiddleware(sessions)
	server.setupRoutes(authHandler, calendarHandler, taskHandler)

	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// buildStores constructs the task repositories for the configured backend.
func (s *Server) buildStores(authService *services.AuthService, loc *time.Location) (ports.TaskRepository, ports.TaskListRepository, error) {
	switch s.config.Store.Backend {
	case config.BackendPostgres:
		db, err := database.NewPostgres(s.config.Database)
		if err != nil {
			return nil, nil, err
		}
		s.db = db
		return repository.NewSQLTaskRepository(db.DB), repository.NewSQLTaskListRepository(db.DB), nil

	case config.BackendSQLite:
		db, err := database.NewSQLite(s.config.Database)
		if err != nil {
			return nil, nil, err
		}
		s.db = db
		return repository.NewSQLTaskRepository(db.DB), repository.NewSQLTaskListRepository(db.DB), nil

	case config.BackendMongo:
		ctx, cancel := context.WithTimeout(context.Background(), s.config.Mongo.Timeout)
		defer cancel()

		client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(s.config.Mongo.URI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect to mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, nil, fmt.Errorf("ping mongo: %w", err)
		}
		s.mongoClient = client

		db := client.Database(s.config.Mongo.Database)
		return repository.NewMongoTaskRepository(db), repository.NewMongoTaskListRepository(db), nil

	case config.BackendGoogleTasks:
		provider := repository.TasksClientProvider(func(ctx context.Context) (*google.TasksClient, error) {
			ts, err := authService.TokenSource(ctx)
			if err != nil {
				return nil, err
			}
			return google.NewTasksClient(ctx, ts, loc)
		})
		return repository.NewGoogleTasksRepository(provider), repository.NewGoogleTaskListRepository(provider), nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", s.config.Store.Backend)
	}
}

// setupRoutes configures API routes
func (s *Server) setupRoutes(
	authHandler *httpHandlers.AuthHandler,
	calendarHandler *httpHandlers.CalendarHandler,
	taskHandler *httpHandlers.TaskHandler,
) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// API documentation
	s.echo.GET("/docs/*", echoSwagger.WrapHandler)

	// Static frontend
	s.echo.GET("/", s.index)
	s.echo.Static("/assets", filepath.Join(s.config.App.StaticDir, "assets"))

	// OAuth handshake
	s.echo.GET("/login", authHandler.Login)
	s.echo.GET("/oauth2callback", authHandler.OAuth2Callback)

	api := s.echo.Group("/api")
	api.GET("/logout", authHandler.Logout)
	api.GET("/auth/check", authHandler.CheckAuth)

	// Protected routes
	protected := api.Group("", s.requireAuth())
	protected.GET("/calendar/events", calendarHandler.Events)
	protected.GET("/tasklists", taskHandler.ListTaskLists)
	protected.GET("/tasks", taskHandler.ListTasks)
	protected.POST("/tasks", taskHandler.CreateTask)
	protected.PUT("/tasks/:id", taskHandler.UpdateTask)
	protected.DELETE("/tasks/:id", taskHandler.DeleteTask)
	protected.GET("/completed_tasks_count", taskHandler.CompletedCount)
}

// index serves the SPA entry point, or the login page for anonymous visitors.
func (s *Server) index(c echo.Context) error {
	ok, err := s.authService.IsAuthenticated(c.Request().Context())
	if err != nil {
		return err
	}

	page := "login.html"
	if ok {
		page = "index.html"
	}

	return c.File(filepath.Join(s.config.App.StaticDir, page))
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	registry.MustRegister(requestsTotal, requestDuration)

	if s.archive != nil {
		registry.MustRegister(s.archive.Collectors()...)
	}

	// Metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET(s.config.Metrics.Path, echo.WrapHandler(metricsHandler))
}

// Seed creates the well-known task lists when they are absent. Skipped for
// the remote backend, which owns its default list.
func (s *Server) Seed(ctx context.Context) error {
	if s.config.Store.Backend == config.BackendGoogleTasks {
		return nil
	}
	return s.taskService.SeedDefaultLists(ctx)
}

// Archive returns the archival sweeper, or nil when disabled.
func (s *Server) Archive() *services.ArchiveService {
	return s.archive
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	if s.db != nil {
		if err := s.db.Ping(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": "database_not_ready",
			})
		}
	}

	if s.mongoClient != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := s.mongoClient.Ping(ctx, nil); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": "mongo_not_ready",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Info("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server and closes store connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")

	if err := s.echo.Shutdown(ctx); err != nil {
		return err
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
	}

	if s.mongoClient != nil {
		if err := s.mongoClient.Disconnect(ctx); err != nil {
			return err
		}
	}

	return nil
}

// customErrorHandler translates the error taxonomy into HTTP responses in
// one place, so routes never map statuses themselves.
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		body := map[string]interface{}{}

		switch {
		case entities.IsValidation(err):
			code = http.StatusBadRequest
			body["error"] = err.Error()
		case entities.IsAuth(err):
			code = http.StatusUnauthorized
			body["error"] = err.Error()
		case entities.IsNotFound(err):
			code = http.StatusNotFound
			body["error"] = err.Error()
		case entities.IsUpstream(err):
			code = http.StatusInternalServerError
			body["error"] = "Failed to call external service"
			body["details"] = err.Error()
		case entities.IsStore(err):
			code = http.StatusInternalServerError
			body["error"] = "Storage failure"
			body["details"] = err.Error()
		default:
			if he, ok := err.(*echo.HTTPError); ok {
				code = he.Code
				body["error"] = he.Message
			} else {
				body["error"] = err.Error()
			}
		}

		if code >= 500 {
			logger.Error("HTTP error",
				"error", err,
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", code,
				"ip", c.RealIP(),
			)
		} else {
			logger.Warn("HTTP client error",
				"error", err,
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", code,
				"ip", c.RealIP(),
			)
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				if reqID := c.Response().Header().Get(echo.HeaderXRequestID); reqID != "" {
					body["request_id"] = reqID
				}
				err = c.JSON(code, body)
			}
			if err != nil {
				logger.Error("Failed to send error response", "error", err)
			}
		}
	}
}
