package documents

import "github.com/ahmetcoskunkizilkaya/doclocker/internal/models"

type UploadRequest struct {
	FileName string          `json:"file_name"`
	FileType string          `json:"file_type"`
	FileSize int64           `json:"file_size"`
	Category models.Category `json:"category"`
}

type UpdateRequest struct {
	OriginalFileName *string                `json:"original_file_name"`
	Category         *models.Category       `json:"category"`
	Tags             *[]string              `json:"tags"`
	Metadata         map[string]interface{} `json:"metadata"`
}

type DocumentListResponse struct {
	Documents []models.Document `json:"documents"`
	Total     int               `json:"total"`
}

type ActivityResponse struct {
	Activity []models.DocumentActivity `json:"activity"`
}

type ContentLinkResponse struct {
	URL string `json:"url"`
}
