// Package session turns the verified JWT stored by the auth middleware into an
// explicit Principal that handlers pass to the services.
package session

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   models.Role
}

// FromClaims builds a Principal from the access token claims.
func FromClaims(claims jwt.MapClaims) (Principal, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return Principal{}, errors.New("missing sub claim")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return Principal{}, errors.New("invalid sub claim")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return Principal{UserID: id, Email: email, Role: models.Role(role)}, nil
}

// FromContext extracts the Principal from the JWT the middleware left in
// c.Locals("user").
func FromContext(c *fiber.Ctx) (Principal, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Principal{}, errors.New("invalid token in context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, errors.New("invalid claims")
	}
	return FromClaims(claims)
}
