package apps

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RespondError writes the status and envelope for a service error. Anything
// outside the service taxonomy is logged and reported as a 500.
func RespondError(c *fiber.Ctx, err error) error {
	status, message := fiber.StatusInternalServerError, "Internal server error"

	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		status, message = fiber.StatusBadRequest, verr.Error()
	case errors.Is(err, services.ErrNotFound):
		status, message = fiber.StatusNotFound, "Not found"
	case errors.Is(err, services.ErrNoContent):
		status, message = fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrUnauthorized):
		status, message = fiber.StatusForbidden, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		status, message = fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrAlreadyResponded),
		errors.Is(err, services.ErrVersionConflict):
		status, message = fiber.StatusConflict, err.Error()
	case errors.Is(err, services.ErrConsentExpired):
		status, message = fiber.StatusGone, err.Error()
	default:
		slog.Error("request failed",
			"request_id", RequestID(c),
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// BadRequest answers 400 with message.
func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}

// Unauthorized answers 401 for a request without a usable principal.
func Unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
}

// ParamID parses the uuid path parameter name.
func ParamID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

// IfMatch reads the expected document version from the If-Match header.
// An absent header yields nil.
func IfMatch(c *fiber.Ctx) (*int, error) {
	raw := strings.TrimSpace(c.Get(fiber.HeaderIfMatch))
	if raw == "" {
		return nil, nil
	}
	raw = strings.Trim(strings.TrimPrefix(raw, "W/"), `"`)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New("If-Match must be a document version")
	}
	return &v, nil
}

func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
