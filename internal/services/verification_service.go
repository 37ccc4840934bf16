package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/doclocker/internal/models"
	"github.com/ahmetcoskunkizilkaya/doclocker/internal/store"
	"github.com/google/uuid"
)

// Signer produces and checks detached signatures over a payload.
type Signer interface {
	Sign(payload []byte) (string, error)
	Verify(payload []byte, signature string) bool
	PublicKeyPEM() (string, error)
}

type contentReader interface {
	Content(ctx context.Context, doc *models.Document) ([]byte, error)
}

type VerificationService struct {
	docs     store.Documents
	activity activityRecorder
	signer   Signer
	content  contentReader
	baseURL  string
	now      func() time.Time
}

func NewVerificationService(docs store.Documents, activities store.Activities, signer Signer, content contentReader, baseURL string) *VerificationService {
	return &VerificationService{
		docs:     docs,
		activity: activityRecorder{activities: activities},
		signer:   signer,
		content:  content,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}
}

func (s *VerificationService) GenerateCode() (string, error) {
	return GenerateCode()
}

// Verify compares code with the document's stored verification code in
// constant time and logs the attempt.
func (s *VerificationService) Verify(ctx context.Context, documentID uuid.UUID, code string) (bool, error) {
	doc, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return false, notFound("get document", err)
	}
	valid := subtle.ConstantTimeCompare([]byte(doc.VerificationCode), []byte(strings.TrimSpace(code))) == 1

	if err := s.activity.record(ctx, s.now(), documentID, nil, models.ActionVerify, map[string]interface{}{
		"valid": valid,
	}); err != nil {
		return false, err
	}
	return valid, nil
}

const maxReviewComments = 1000

// Review records an institute's decision on the document carrying code.
// decision must be verified or rejected. A later review replaces an earlier
// one.
func (s *VerificationService) Review(ctx context.Context, code string, reviewerID uuid.UUID, role models.Role, decision models.DocumentStatus, comments string) (*models.Document, error) {
	if role != models.RoleInstitute {
		return nil, ErrUnauthorized
	}
	if decision != models.StatusVerified && decision != models.StatusRejected {
		return nil, invalid("status", "must be verified or rejected")
	}
	comments = strings.TrimSpace(comments)
	if utf8.RuneCountInString(comments) > maxReviewComments {
		return nil, invalid("comments", "must be at most 1000 characters")
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, invalid("code", "is required")
	}

	found, err := s.docs.GetByVerificationCode(ctx, code)
	if err != nil {
		return nil, notFound("get document by verification code", err)
	}

	at := s.now().UTC()
	doc, err := mutateDocument(ctx, s.docs, found.ID, s.now, func(d *models.Document) error {
		d.Status = decision
		d.VerifiedBy = userRef(reviewerID)
		d.VerifiedAt = &at
		d.ReviewComments = comments
		return nil
	})
	if err != nil {
		return nil, err
	}

	details := map[string]interface{}{"decision": string(decision)}
	if comments != "" {
		details["comments"] = comments
	}
	if err := s.activity.record(ctx, at, doc.ID, userRef(reviewerID), models.ActionVerify, details); err != nil {
		return nil, err
	}
	return doc, nil
}

// Checksum is the hex SHA-256 of data.
func (s *VerificationService) Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DocumentChecksum digests the attached content, or the canonical payload
// when the document has none.
func (s *VerificationService) DocumentChecksum(ctx context.Context, documentID, requesterID uuid.UUID) (string, error) {
	doc, err := s.owned(ctx, documentID, requesterID)
	if err != nil {
		return "", err
	}
	if doc.HasContent() {
		data, err := s.content.Content(ctx, doc)
		if err != nil {
			return "", err
		}
		return s.Checksum(data), nil
	}
	return s.Checksum(signingPayload(doc)), nil
}

// Sign stores an RSA signature over the document's canonical payload. The
// checksum of attached content is refreshed first so the signature covers it.
func (s *VerificationService) Sign(ctx context.Context, documentID, ownerID uuid.UUID) (*models.Document, error) {
	doc, err := s.owned(ctx, documentID, ownerID)
	if err != nil {
		return nil, err
	}

	var checksum string
	if doc.HasContent() {
		data, err := s.content.Content(ctx, doc)
		if err != nil {
			return nil, err
		}
		checksum = s.Checksum(data)
	}
	contentKey := doc.ContentKey

	return mutateDocument(ctx, s.docs, documentID, s.now, func(d *models.Document) error {
		if d.ContentKey != contentKey {
			return ErrVersionConflict
		}
		d.Checksum = checksum
		sig, err := s.signer.Sign(signingPayload(d))
		if err != nil {
			return err
		}
		d.DigitalSignature = sig
		return nil
	})
}

// ValidateSignature checks signature against the document's current payload.
func (s *VerificationService) ValidateSignature(ctx context.Context, documentID uuid.UUID, signature string) (bool, error) {
	doc, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return false, notFound("get document", err)
	}
	if signature == "" {
		signature = doc.DigitalSignature
	}
	if signature == "" {
		return false, nil
	}
	return s.signer.Verify(signingPayload(doc), signature), nil
}

func (s *VerificationService) PublicKeyPEM() (string, error) {
	return s.signer.PublicKeyPEM()
}

// VerificationLink is the public link encoded in a document's QR code.
func (s *VerificationService) VerificationLink(ctx context.Context, documentID, ownerID uuid.UUID) (string, error) {
	doc, err := s.owned(ctx, documentID, ownerID)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("document_id", doc.ID.String())
	q.Set("code", doc.VerificationCode)
	return s.baseURL + "/api/verify?" + q.Encode(), nil
}

func (s *VerificationService) owned(ctx context.Context, documentID, requesterID uuid.UUID) (*models.Document, error) {
	doc, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return nil, notFound("get document", err)
	}
	if doc.OwnerID != requesterID {
		return nil, ErrUnauthorized
	}
	return doc, nil
}

// signedFields is the canonical signed form of a document. Field order is
// fixed by the struct and every value is JSON-escaped.
type signedFields struct {
	ID               string `json:"id"`
	OwnerID          string `json:"owner_id"`
	OriginalFileName string `json:"original_file_name"`
	FileType         string `json:"file_type"`
	FileSize         int64  `json:"file_size"`
	Category         string `json:"category"`
	Checksum         string `json:"checksum"`
}

func signingPayload(d *models.Document) []byte {
	// Marshal cannot fail for string and integer fields.
	b, _ := json.Marshal(signedFields{
		ID:               d.ID.String(),
		OwnerID:          d.OwnerID.String(),
		OriginalFileName: d.OriginalFileName,
		FileType:         d.FileType,
		FileSize:         d.FileSize,
		Category:         string(d.Category),
		Checksum:         d.Checksum,
	})
	return b
}
