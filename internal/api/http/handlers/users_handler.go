package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/api/dto"
	"github.com/spec-kit/user-service/internal/service"
	apperrors "github.com/spec-kit/user-service/pkg/util/errorutil"
)

const invalidPayloadMessage = "check data you sent is correct"

// UsersHandler exposes the user account endpoints.
type UsersHandler struct {
	users     *service.UserService
	validator *dto.Validator
	logger    *zap.Logger
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, validator *dto.Validator, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{users: userService, validator: validator, logger: logger}
}

// CreateUser handles POST /users.
func (h *UsersHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := h.parseBody(c, &req); err != nil {
		return err
	}
	h.logger.Info("received request to create user", zap.String("email", req.Email))

	user, err := h.users.AddUser(c.UserContext(), req.ToUser())
	if err != nil {
		return err
	}

	h.logger.Info("responded with user created", zap.String("user_id", user.ID.String()))
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// ListUsers handles GET /users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.FindAllUsers(c.UserContext())
	if err != nil {
		return err
	}
	h.logger.Debug("responded with users requested", zap.Int("count", len(users)))
	return c.JSON(fiber.Map{"data": dto.NewUserListResponse(users)})
}

// GetUser handles GET /users/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetUserByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UpdateUser handles PATCH /users/:id.
func (h *UsersHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := h.parseBody(c, &req); err != nil {
		return err
	}
	h.logger.Info("received request to update user", zap.String("user_id", id.String()))

	user, err := h.users.UpdateUser(c.UserContext(), req.ToPatch(id))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// DeleteUser handles DELETE /users/:id.
func (h *UsersHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}
	h.logger.Info("received request to delete user", zap.String("user_id", id.String()))

	user, err := h.users.DeleteUserByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

func (h *UsersHandler) parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		h.logger.Warn("unreadable request body", zap.Error(err))
		return apperrors.NewValidationError(invalidPayloadMessage, nil)
	}
	if err := h.validator.Struct(out); err != nil {
		var fields dto.FieldErrors
		if errors.As(err, &fields) {
			return apperrors.NewValidationError(invalidPayloadMessage, map[string]any{"errors": fields})
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

func parseUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperrors.NewValidationError(invalidPayloadMessage, map[string]any{"id": c.Params("id")})
	}
	return id, nil
}
