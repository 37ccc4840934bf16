package verification

import (
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/apps"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/services"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type VerificationHandler struct {
	service *services.VerificationService
}

func NewVerificationHandler(service *services.VerificationService) *VerificationHandler {
	return &VerificationHandler{service: service}
}

func (h *VerificationHandler) Verify(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apps.BadRequest(c, "Invalid request body")
	}
	return h.verify(c, req)
}

// VerifyLink serves the link encoded in a document's QR code.
func (h *VerificationHandler) VerifyLink(c *fiber.Ctx) error {
	return h.verify(c, VerifyRequest{DocumentID: c.Query("document_id"), Code: c.Query("code")})
}

func (h *VerificationHandler) verify(c *fiber.Ctx, req VerifyRequest) error {
	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		return apps.BadRequest(c, "Invalid document ID")
	}

	valid, err := h.service.Verify(c.UserContext(), docID, req.Code)
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(ValidResponse{Valid: valid})
}

func (h *VerificationHandler) ValidateSignature(c *fiber.Ctx) error {
	var req SignatureRequest
	if err := c.BodyParser(&req); err != nil {
		return apps.BadRequest(c, "Invalid request body")
	}
	docID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		return apps.BadRequest(c, "Invalid document ID")
	}

	valid, err := h.service.ValidateSignature(c.UserContext(), docID, req.Signature)
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(ValidResponse{Valid: valid})
}

func (h *VerificationHandler) PublicKey(c *fiber.Ctx) error {
	pem, err := h.service.PublicKeyPEM()
	if err != nil {
		return apps.RespondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/x-pem-file")
	return c.SendString(pem)
}

func (h *VerificationHandler) Sign(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}
	docID, ok := apps.ParamID(c, "id")
	if !ok {
		return apps.BadRequest(c, "Invalid document ID")
	}

	doc, err := h.service.Sign(c.UserContext(), docID, p.UserID)
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(SignResponse{
		DocumentID:       doc.ID.String(),
		Checksum:         doc.Checksum,
		DigitalSignature: doc.DigitalSignature,
		Version:          doc.Version,
	})
}

func (h *VerificationHandler) Checksum(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}
	docID, ok := apps.ParamID(c, "id")
	if !ok {
		return apps.BadRequest(c, "Invalid document ID")
	}

	sum, err := h.service.DocumentChecksum(c.UserContext(), docID, p.UserID)
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(ChecksumResponse{DocumentID: docID.String(), Algorithm: "sha256", Checksum: sum})
}

// Link returns the URL a QR code for the document should encode.
func (h *VerificationHandler) Link(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}
	docID, ok := apps.ParamID(c, "id")
	if !ok {
		return apps.BadRequest(c, "Invalid document ID")
	}

	link, err := h.service.VerificationLink(c.UserContext(), docID, p.UserID)
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(LinkResponse{URL: link})
}

// Review records an institute officer's decision on a document found by its
// verification code.
func (h *VerificationHandler) Review(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}
	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apps.BadRequest(c, "Invalid request body")
	}

	doc, err := h.service.Review(c.UserContext(), c.Params("code"), p.UserID, p.Role, req.Status, req.Comments)
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(doc)
}
