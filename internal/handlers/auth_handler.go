package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/apps"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// authFailure answers with the {success, message} envelope the auth
// endpoints use instead of dto.ErrorResponse.
func authFailure(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.AuthResponse{Message: verr.Error()})
	case errors.Is(err, services.ErrDuplicateEmail):
		return c.Status(fiber.StatusConflict).JSON(dto.AuthResponse{Message: err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.AuthResponse{Message: err.Error()})
	default:
		slog.Error("auth request failed", "request_id", apps.RequestID(c), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.AuthResponse{Message: "Internal server error"})
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.AuthResponse{Message: "Invalid request body"})
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return authFailure(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.AuthResponse{Message: "Invalid request body"})
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return authFailure(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.AuthResponse{Message: "Invalid request body"})
	}

	resp, err := h.authService.Refresh(c.UserContext(), &req)
	if err != nil {
		return authFailure(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.AuthResponse{Message: "Invalid request body"})
	}

	if err := h.authService.Logout(c.UserContext(), &req); err != nil {
		return authFailure(c, err)
	}
	return c.JSON(dto.AuthResponse{Success: true, Message: "Logged out successfully"})
}
