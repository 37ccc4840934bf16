package handlers

import (
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/apps"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/services"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/session"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	authService *services.AuthService
}

func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

type UserListResponse struct {
	Users []models.User `json:"users"`
	Total int           `json:"total"`
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers(c.UserContext())
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(UserListResponse{Users: users, Total: len(users)})
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}

	user, err := h.authService.GetUser(c.UserContext(), p.UserID)
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(user)
}
