package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/dto"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	store string
	ping  func() error
}

// NewHealthHandler reports on the store named driver. A nil ping means the
// store has no connection to check.
func NewHealthHandler(driver string, ping func() error) *HealthHandler {
	return &HealthHandler{store: driver, ping: ping}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if h.ping != nil {
		if err := h.ping(); err != nil {
			dbStatus = "unhealthy: " + err.Error()
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Store:     h.store,
	})
}
