package verification

import "github.com/ahmetcoskunkizilkaya/doclocker/internal/models"

type VerifyRequest struct {
	DocumentID string `json:"document_id"`
	Code       string `json:"code"`
}

type SignatureRequest struct {
	DocumentID string `json:"document_id"`
	Signature  string `json:"signature"`
}

type ReviewRequest struct {
	Status   models.DocumentStatus `json:"status"`
	Comments string                `json:"comments"`
}

type ValidResponse struct {
	Valid bool `json:"valid"`
}

type ChecksumResponse struct {
	DocumentID string `json:"document_id"`
	Algorithm  string `json:"algorithm"`
	Checksum   string `json:"checksum"`
}

type SignResponse struct {
	DocumentID       string `json:"document_id"`
	Checksum         string `json:"checksum,omitempty"`
	DigitalSignature string `json:"digital_signature"`
	Version          int    `json:"version"`
}

type LinkResponse struct {
	URL string `json:"url"`
}
