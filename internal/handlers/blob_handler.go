package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/apps"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/blob"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// BlobHandler serves content from the local driver through HMAC-signed links.
type BlobHandler struct {
	local *blob.Local
}

func NewBlobHandler(local *blob.Local) *BlobHandler {
	return &BlobHandler{local: local}
}

func (h *BlobHandler) Download(c *fiber.Ctx) error {
	key := c.Params("*")
	if !h.local.Validate(key, c.Query("expires"), c.Query("signature")) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid or expired link",
		})
	}

	data, err := h.local.Get(c.UserContext(), key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Not found",
			})
		}
		return apps.RespondError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(data)
}
