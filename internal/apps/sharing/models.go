package sharing

import "github.com/ahmetcoskunkizilkaya/doclocker/internal/models"

type CreateShareRequest struct {
	SharedWith string `json:"shared_with"`
	ExpiryDays int    `json:"expiry_days"`
}

type ShareListResponse struct {
	Shares []models.SharedDocument `json:"shares"`
}

// SharedDocumentResponse is what a share-code holder sees. The verification
// code and signature stay with the owner.
type SharedDocumentResponse struct {
	DocumentID       string                `json:"document_id"`
	OriginalFileName string                `json:"original_file_name"`
	FileType         string                `json:"file_type"`
	FileSize         int64                 `json:"file_size"`
	Category         models.Category       `json:"category"`
	Status           models.DocumentStatus `json:"status"`
	SharedWith       string                `json:"shared_with"`
	ExpiresAt        string                `json:"expires_at"`
	AccessCount      int                   `json:"access_count"`
	DownloadURL      string                `json:"download_url,omitempty"`
}
