package handlers

import (
	"errors"

	"github.com/dwellio/backend/internal/models"
	"github.com/dwellio/backend/internal/repository"
	"github.com/dwellio/backend/pkg/logger"
	"github.com/dwellio/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type UsersHandler struct {
	Users UserStore
}

func NewUsersHandler(users UserStore) *UsersHandler {
	return &UsersHandler{Users: users}
}

type createUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.Users.List(c.Context())
	if err != nil {
		return utils.ErrorDetail(c, fiber.StatusInternalServerError, "Error fetching users", err)
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.Users.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "User not found")
		}
		return utils.ErrorDetail(c, fiber.StatusInternalServerError, "Error fetching user", err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// Create is an upsert by email: an existing user comes back with 200 and no
// write, a new one with 201.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	user, created, err := h.Users.Create(c.Context(), models.User{
		Name:   req.Name,
		Email:  req.Email,
		Avatar: req.Avatar,
	})
	if err != nil {
		return utils.ErrorDetail(c, fiber.StatusInternalServerError, "Error creating user", err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
		logger.Info("user_created", map[string]interface{}{
			"user_id": user.ID.Hex(),
			"email":   user.Email,
		})
	}
	return c.Status(status).JSON(user)
}
