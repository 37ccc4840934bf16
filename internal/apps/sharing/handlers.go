package sharing

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/apps"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/services"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/session"
	"github.com/gofiber/fiber/v2"
)

type ShareHandler struct {
	service *services.SharingService
}

func NewShareHandler(service *services.SharingService) *ShareHandler {
	return &ShareHandler{service: service}
}

func (h *ShareHandler) Create(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}
	docID, ok := apps.ParamID(c, "id")
	if !ok {
		return apps.BadRequest(c, "Invalid document ID")
	}

	var req CreateShareRequest
	if err := c.BodyParser(&req); err != nil {
		return apps.BadRequest(c, "Invalid request body")
	}

	share, err := h.service.Share(c.UserContext(), docID, p.UserID, req.SharedWith, req.ExpiryDays)
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(share)
}

func (h *ShareHandler) List(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}
	docID, ok := apps.ParamID(c, "id")
	if !ok {
		return apps.BadRequest(c, "Invalid document ID")
	}

	shares, err := h.service.ListByDocument(c.UserContext(), docID, p.UserID)
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(ShareListResponse{Shares: shares})
}

func (h *ShareHandler) Revoke(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}
	shareID, ok := apps.ParamID(c, "id")
	if !ok {
		return apps.BadRequest(c, "Invalid share ID")
	}

	if err := h.service.Revoke(c.UserContext(), shareID, p.UserID); err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Share revoked"})
}

// Redeem is the public side of a share code.
func (h *ShareHandler) Redeem(c *fiber.Ctx) error {
	access, err := h.service.Access(c.UserContext(), c.Params("code"))
	if err != nil {
		return apps.RespondError(c, err)
	}

	doc := access.Document
	return c.JSON(SharedDocumentResponse{
		DocumentID:       doc.ID.String(),
		OriginalFileName: doc.OriginalFileName,
		FileType:         doc.FileType,
		FileSize:         doc.FileSize,
		Category:         doc.Category,
		Status:           doc.Status,
		SharedWith:       access.Share.SharedWith,
		ExpiresAt:        access.Share.ExpiresAt.UTC().Format(time.RFC3339),
		AccessCount:      access.Share.AccessCount,
		DownloadURL:      access.DownloadURL,
	})
}
