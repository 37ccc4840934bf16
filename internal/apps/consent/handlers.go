package consent

import (
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/apps"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/services"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/session"
	"github.com/gofiber/fiber/v2"
)

type ConsentHandler struct {
	service *services.ConsentService
}

func NewConsentHandler(service *services.ConsentService) *ConsentHandler {
	return &ConsentHandler{service: service}
}

// Request files a consent request on behalf of the caller.
func (h *ConsentHandler) Request(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}
	docID, ok := apps.ParamID(c, "id")
	if !ok {
		return apps.BadRequest(c, "Invalid document ID")
	}

	var req CreateConsentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apps.BadRequest(c, "Invalid request body")
		}
	}

	name := req.RequestedByName
	if name == "" {
		name = p.Email
	}
	created, err := h.service.Request(c.UserContext(), docID, p.UserID.String(), name, req.ExpiryDays)
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ConsentHandler) ListByDocument(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}
	docID, ok := apps.ParamID(c, "id")
	if !ok {
		return apps.BadRequest(c, "Invalid document ID")
	}

	list, err := h.service.ListByDocument(c.UserContext(), docID, p.UserID)
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(ConsentListResponse{Requests: list})
}

func (h *ConsentHandler) Pending(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}

	list, err := h.service.ListPendingForUser(c.UserContext(), p.UserID)
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(ConsentListResponse{Requests: list})
}

func (h *ConsentHandler) Outgoing(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}

	list, err := h.service.ListByRequester(c.UserContext(), p.UserID.String())
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(ConsentListResponse{Requests: list})
}

func (h *ConsentHandler) Respond(c *fiber.Ctx) error {
	p, err := session.FromContext(c)
	if err != nil {
		return apps.Unauthorized(c)
	}
	reqID, ok := apps.ParamID(c, "id")
	if !ok {
		return apps.BadRequest(c, "Invalid consent request ID")
	}

	var req RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return apps.BadRequest(c, "Invalid request body")
	}

	updated, err := h.service.Respond(c.UserContext(), reqID, p.UserID, req.Status)
	if err != nil {
		return apps.RespondError(c, err)
	}
	return c.JSON(updated)
}
