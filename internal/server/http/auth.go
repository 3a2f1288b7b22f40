package http

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/cryptox"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

const (
	msgCredentialsRequired = "Email and password are required."
	msgUserExists          = "User already exists with this email."
	msgPasswordTooLong     = "Password must be at most 72 bytes."
	msgInvalidCredentials  = "Invalid email or password."
	msgSignupFailed        = "Failed to sign up user."
	msgLoginFailed         = "Failed to log in user."
	msgInvalidBody         = "Invalid request body."
	msgTokenMissing        = "Authorization token is required."
	msgTokenInvalid        = "Invalid or expired token."
)

const identityKey = "identity"

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

func (s *Server) signup(c *fiber.Ctx) error {
	var body credentialsRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgInvalidBody)
	}

	res, err := s.auth.Signup(c.UserContext(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, cryptox.ErrPasswordTooLong):
			return fiber.NewError(fiber.StatusBadRequest, msgPasswordTooLong)
		case errors.Is(err, common.ErrorValidation):
			return fiber.NewError(fiber.StatusBadRequest, msgCredentialsRequired)
		case errors.Is(err, common.ErrorAlreadyExists):
			return fiber.NewError(fiber.StatusBadRequest, msgUserExists)
		default:
			s.logger.Error(c.UserContext(), "signup failed", "req_id", requestID(c), "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, msgSignupFailed)
		}
	}

	s.logger.Info(c.UserContext(), "Registered", "user_id", res.User.ID)
	return c.Status(fiber.StatusCreated).JSON(authResponse{Token: res.Token, User: res.User})
}

func (s *Server) login(c *fiber.Ctx) error {
	var body credentialsRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgInvalidBody)
	}

	res, err := s.auth.Login(c.UserContext(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			return fiber.NewError(fiber.StatusBadRequest, msgCredentialsRequired)
		case errors.Is(err, common.ErrorUnauthorized):
			return fiber.NewError(fiber.StatusBadRequest, msgInvalidCredentials)
		default:
			s.logger.Error(c.UserContext(), "login failed", "req_id", requestID(c), "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, msgLoginFailed)
		}
	}

	return c.JSON(authResponse{Token: res.Token, User: res.User})
}

// requireAuth resolves "Authorization: Bearer <token>" to an identity and
// stores it in Locals. Requests without a valid token stop here with 401.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, msgTokenMissing)
	}

	id, err := s.auth.VerifyToken(token)
	if err != nil {
		s.logger.Debug(c.UserContext(), "token rejected", "error", err)
		return fiber.NewError(fiber.StatusUnauthorized, msgTokenInvalid)
	}

	c.Locals(identityKey, id)
	return c.Next()
}

func identityFrom(c *fiber.Ctx) *models.Identity {
	id, _ := c.Locals(identityKey).(*models.Identity)
	return id
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
