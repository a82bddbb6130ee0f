package request

import "github.com/shopspring/decimal"

type CreateDonationRequest struct {
	CampaignID string          `json:"campaign_id" validate:"required,uuid"`
	Amount     decimal.Decimal `json:"amount" validate:"gt=0"`
	Message    *string         `json:"message,omitempty" validate:"omitempty,max=1000"`
}

type DonationListRequest struct {
	PaginatedRequest
	CampaignID string
}
