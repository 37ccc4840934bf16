package apps

import "github.com/gofiber/fiber/v2"

// Plugin is one feature area of the locker API.
type Plugin interface {
	// ID names the plugin in logs.
	ID() string

	// RegisterRoutes mounts owner routes on the given Fiber group.
	// The group is already prefixed with /api/p and has JWT middleware applied.
	RegisterRoutes(router fiber.Router)
}

// PublicPlugin extends Plugin with routes reachable without a token, such as
// share-code redemption and verification.
type PublicPlugin interface {
	Plugin

	// RegisterPublicRoutes mounts routes on the /api group.
	RegisterPublicRoutes(router fiber.Router)
}
