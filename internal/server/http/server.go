// Package http exposes the REST API over fiber: auth endpoints, the bearer
// token middleware and per-user task CRUD.
package http

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const (
	shutdownTimeout = 5 * time.Second

	headerRequestID = "X-Request-ID"
	requestIDKey    = "requestid"
)

type authService interface {
	Signup(ctx context.Context, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	VerifyToken(token string) (*models.Identity, error)
}

type taskService interface {
	List(ctx context.Context, id *models.Identity) ([]*models.Task, error)
	Create(ctx context.Context, id *models.Identity, text string, completed *bool) (*models.Task, error)
	Update(ctx context.Context, id *models.Identity, taskID string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id *models.Identity, taskID string) error
}

type Server struct {
	address string
	app     *fiber.App
	auth    authService
	tasks   taskService
	logger  logging.Logger
}

type errorResponse struct {
	Message string `json:"message"`
}

// NewServer builds the fiber app with CORS, request logging and all routes
// registered. It does not start listening; see Run.
func NewServer(address, corsOrigin string, l logging.Logger, as authService, ts taskService) *Server {
	s := &Server{
		address: address,
		auth:    as,
		tasks:   ts,
		logger:  l.With("module", "http_server"),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "tasktracker",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigin,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type, Authorization",
	}))
	s.app.Use(requestid.New(requestid.Config{
		Header:     headerRequestID,
		ContextKey: requestIDKey,
	}))
	s.app.Use(s.requestLogger)

	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := s.app.Group("/api")

	api.Post("/auth/signup", s.signup)
	api.Post("/auth/login", s.login)

	tasks := api.Group("/tasks", s.requireAuth)
	tasks.Get("/", s.listTasks)
	tasks.Post("/", s.createTask)
	tasks.Put("/:id", s.updateTask)
	tasks.Delete("/:id", s.deleteTask)
}

// Run listens on the configured address until ctx is cancelled, then shuts
// the app down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(context.Background(), "http shutdown", "error", err)
		}
		// covers a cancel that lands before the app starts serving
		_ = ln.Close()
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())

	if err := s.app.Listener(ln); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// requestLogger logs one line per request. Bodies are never logged.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()

	chainErr := c.Next()
	if chainErr != nil {
		// let the error handler set the final status before we log it
		if herr := s.errorHandler(c, chainErr); herr != nil {
			return herr
		}
	}

	s.logger.Info(c.UserContext(), "request",
		"req_id", requestID(c),
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start).String(),
	)
	return nil
}

// requestID returns the id assigned by the requestid middleware, or the
// client's own X-Request-ID when it sent one.
func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

// errorHandler renders any error as {"message": ...}. Only *fiber.Error
// messages reach the client; anything else becomes a generic 500.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error."

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		msg = e.Message
	} else {
		s.logger.Error(c.UserContext(), "unhandled error", "req_id", requestID(c), "error", err)
	}

	return c.Status(code).JSON(errorResponse{Message: msg})
}
