package verification

import (
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/services"
	"github.com/gofiber/fiber/v2"
)

type VerificationPlugin struct {
	handler *VerificationHandler
}

func New(verify *services.VerificationService) *VerificationPlugin {
	return &VerificationPlugin{handler: NewVerificationHandler(verify)}
}

func (p *VerificationPlugin) ID() string { return "verification" }

func (p *VerificationPlugin) RegisterRoutes(router fiber.Router) {
	router.Post("/documents/:id/sign", p.handler.Sign)
	router.Get("/documents/:id/checksum", p.handler.Checksum)
	router.Get("/documents/:id/verification-link", p.handler.Link)
	router.Post("/verifications/:code/review", p.handler.Review)
}

func (p *VerificationPlugin) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/verify", p.handler.VerifyLink)
	router.Post("/verify", p.handler.Verify)
	router.Post("/verify/signature", p.handler.ValidateSignature)
	router.Get("/verify/public-key", p.handler.PublicKey)
}
