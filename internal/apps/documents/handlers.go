package documents

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/apps"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/services"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/session"
	"github.com/gofiber/fiber/v2"
)

type DocumentHandler struct {
	service *services.DocumentService
}

func NewDocumentHandler(service *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}

	var req UploadRequest
	if err := c.BodyParser(&req); err != nil {
		return apps.BadRequest(c, "Invalid request body")
	}

	doc, err := h.service.Upload(c.UserContext(), p.UserID, services.FileMeta{
		Name:     req.FileName,
		MimeType: req.FileType,
		Size:     req.FileSize,
	}, req.Category)
	if err != nil {
		return apps.RespondError(c, err)
	}

	c.Set(fiber.HeaderETag, strconv.Quote(strconv.Itoa(doc.Version)))
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}

	var docs []models.Document
	if category := c.Query("category"); category != "" {
		docs, err = h.service.ListByCategory(c.UserContext(), p.UserID, models.Category(category))
	} else {
		docs, err = h.service.ListByOwner(c.UserContext(), p.UserID)
	}
	if err != nil {
		return apps.RespondError(c, err)
	}

	return c.JSON(DocumentListResponse{Documents: docs, Total: len(docs)})
}

func (h *DocumentHandler) Stats(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}

	stats, err := h.service.Stats(c.UserContext(), p.UserID)
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(stats)
}

func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}
	id, ok := apps.ParamID(c, "id")
	if !ok {
		return apps.BadRequest(c, "Invalid document ID")
	}

	doc, err := h.service.GetOwned(c.UserContext(), id, p.UserID)
	if err != nil {
		return apps.RespondError(c, err)
	}

	c.Set(fiber.HeaderETag, strconv.Quote(strconv.Itoa(doc.Version)))
	return c.JSON(doc)
}

func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}
	id, ok := apps.ParamID(c, "id")
	if !ok {
		return apps.BadRequest(c, "Invalid document ID")
	}
	version, err := apps.IfMatch(c)
	if err != nil {
		return apps.BadRequest(c, err.Error())
	}
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apps.BadRequest(c, "Invalid request body")
	}

	doc, err := h.service.Update(c.UserContext(), id, p.UserID, services.DocumentPatch{
		OriginalFileName: req.OriginalFileName,
		Category:         req.Category,
		Tags:             req.Tags,
		Metadata:         req.Metadata,
	}, version)
	if err != nil {
		return apps.RespondError(c, err)
	}

	c.Set(fiber.HeaderETag, strconv.Quote(strconv.Itoa(doc.Version)))
	return c.JSON(doc)
}

func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}
	id, ok := apps.ParamID(c, "id")
	if !ok {
		return apps.BadRequest(c, "Invalid document ID")
	}

	if err := h.service.Delete(c.UserContext(), id, p.UserID); err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Document deleted successfully"})
}

func (h *DocumentHandler) Activity(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}
	id, ok := apps.ParamID(c, "id")
	if !ok {
		return apps.BadRequest(c, "Invalid document ID")
	}

	entries, err := h.service.Activity(c.UserContext(), id, p.UserID)
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(ActivityResponse{Activity: entries})
}

// AttachContent stores the multipart "file" field as the document's bytes.
func (h *DocumentHandler) AttachContent(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}
	id, ok := apps.ParamID(c, "id")
	if !ok {
		return apps.BadRequest(c, "Invalid document ID")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return apps.BadRequest(c, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return apps.BadRequest(c, "Unable to read file")
	}
	defer f.Close()

	doc, err := h.service.AttachContent(c.UserContext(), id, p.UserID, fh.Header.Get(fiber.HeaderContentType), fh.Size, f)
	if err != nil {
		return apps.RespondError(c, err)
	}

	c.Set(fiber.HeaderETag, strconv.Quote(strconv.Itoa(doc.Version)))
	return c.Status(fiber.StatusAccepted).JSON(doc)
}

// ContentLink returns a short-lived download link for the owner.
func (h *DocumentHandler) ContentLink(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}
	id, ok := apps.ParamID(c, "id")
	if !ok {
		return apps.BadRequest(c, "Invalid document ID")
	}

	doc, err := h.service.GetOwned(c.UserContext(), id, p.UserID)
	if err != nil {
		return apps.RespondError(c, err)
	}
	if !doc.HasContent() {
		return apps.RespondError(c, services.ErrNoContent)
	}
	link, err := h.service.ContentURL(c.UserContext(), doc)
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(ContentLinkResponse{URL: link})
}
