package consent

import (
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ConsentPlugin struct {
	handler *ConsentHandler
}

func New(consents *services.ConsentService) *ConsentPlugin {
	return &ConsentPlugin{handler: NewConsentHandler(consents)}
}

func (p *ConsentPlugin) ID() string { return "consent" }

func (p *ConsentPlugin) RegisterRoutes(router fiber.Router) {
	h := p.handler

	router.Post("/documents/:id/consents", h.Request)
	router.Get("/documents/:id/consents", h.ListByDocument)
	router.Get("/consents/pending", h.Pending)
	router.Get("/consents/outgoing", h.Outgoing)
	router.Post("/consents/:id/respond", h.Respond)
}
