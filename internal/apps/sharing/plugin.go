package sharing

import (
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SharingPlugin struct {
	handler *ShareHandler
}

func New(sharing *services.SharingService) *SharingPlugin {
	return &SharingPlugin{handler: NewShareHandler(sharing)}
}

func (p *SharingPlugin) ID() string { return "sharing" }

func (p *SharingPlugin) RegisterRoutes(router fiber.Router) {
	router.Post("/documents/:id/shares", p.handler.Create)
	router.Get("/documents/:id/shares", p.handler.List)
	router.Delete("/shares/:id", p.handler.Revoke)
}

func (p *SharingPlugin) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/shared/:code", p.handler.Redeem)
}
