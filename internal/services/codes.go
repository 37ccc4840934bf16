package services

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/base64"
	"fmt"
)

const (
	verificationCodeBytes = 10
	shareCodeBytes        = 16
)

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateCode returns a 16 character base32 verification code.
func GenerateCode() (string, error) {
	b := make([]byte, verificationCodeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return codeEncoding.EncodeToString(b), nil
}

// generateShareCode returns 128 random bits as unpadded base64url.
func generateShareCode() (string, error) {
	b := make([]byte, shareCodeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate share code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
