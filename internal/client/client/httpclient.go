package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/client/models"
	"github.com/gofiber/fiber/v2"
)

type HTTPClient struct {
	baseURL string
	timeout time.Duration

	mu    sync.RWMutex
	token string
}

// NewHTTPClient returns a client for the API at baseURL. timeout bounds
// each call; a shorter context deadline wins.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) getToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createTaskRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (c *HTTPClient) Signup(ctx context.Context, email, password string) (*models.Session, error) {
	var s models.Session
	if err := c.do(ctx, fiber.MethodPost, "/api/auth/signup", credentials{email, password}, fiber.StatusCreated, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var s models.Session
	if err := c.do(ctx, fiber.MethodPost, "/api/auth/login", credentials{email, password}, fiber.StatusOK, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, fiber.MethodGet, "/ok", nil, fiber.StatusOK, nil)
}

func (c *HTTPClient) ListTasks(ctx context.Context) ([]*models.Task, error) {
	items := make([]*models.Task, 0)
	if err := c.do(ctx, fiber.MethodGet, "/api/tasks", nil, fiber.StatusOK, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) CreateTask(ctx context.Context, text string) (*models.Task, error) {
	var t models.Task
	if err := c.do(ctx, fiber.MethodPost, "/api/tasks", createTaskRequest{Text: text}, fiber.StatusCreated, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	var t models.Task
	if err := c.do(ctx, fiber.MethodPut, "/api/tasks/"+url.PathEscape(id), patch, fiber.StatusOK, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *HTTPClient) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, fiber.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, fiber.StatusNoContent, nil)
}

// do sends one request and decodes a successful response into out (if not
// nil). Any status other than want is turned into a sentinel error.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, want int, out any) error {
	timeout, err := c.requestTimeout(ctx)
	if err != nil {
		return err
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)

	if token := c.getToken(); token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		a.JSON(body)
	}
	a.Timeout(timeout)

	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	code, respBody, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrUnavailable, errors.Join(errs...))
	}

	if code != want {
		return mapStatus(code, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) requestTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return 0, context.DeadlineExceeded
		}
		if timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	return timeout, nil
}

func mapStatus(code int, body []byte) error {
	var e errorResponse
	_ = json.Unmarshal(body, &e)
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("status %d", code)
	}

	switch {
	case code == fiber.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrRejected, msg)
	case code == fiber.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case code == fiber.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case code >= fiber.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrUnavailable, msg)
	default:
		return fmt.Errorf("unexpected status %d: %s", code, msg)
	}
}
