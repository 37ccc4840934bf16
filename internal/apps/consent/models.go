package consent

import "github.com/ahmetcoskunkizilkaya/doclocker/internal/models"

type CreateConsentRequest struct {
	RequestedByName string `json:"requested_by_name"`
	ExpiryDays      int    `json:"expiry_days"`
}

type RespondRequest struct {
	Status models.ConsentStatus `json:"status"`
}

type ConsentListResponse struct {
	Requests []models.ConsentRequest `json:"requests"`
}
