package documents

import (
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DocumentsPlugin struct {
	handler *DocumentHandler
}

func New(docs *services.DocumentService) *DocumentsPlugin {
	return &DocumentsPlugin{handler: NewDocumentHandler(docs)}
}

func (p *DocumentsPlugin) ID() string { return "documents" }

func (p *DocumentsPlugin) RegisterRoutes(router fiber.Router) {
	h := p.handler

	router.Post("/documents", h.Upload)
	router.Get("/documents", h.List)
	router.Get("/documents/stats", h.Stats)
	router.Get("/documents/:id", h.Get)
	router.Patch("/documents/:id", h.Update)
	router.Delete("/documents/:id", h.Delete)
	router.Get("/documents/:id/activity", h.Activity)
	router.Put("/documents/:id/content", h.AttachContent)
	router.Get("/documents/:id/content", h.ContentLink)
}
