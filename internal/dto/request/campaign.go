package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateCampaignRequest struct {
	Title        string          `json:"title" validate:"required,max=255"`
	Content      string          `json:"content" validate:"required"`
	TargetAmount decimal.Decimal `json:"target_amount" validate:"min=1000"`
	CategoryID   *string         `json:"category_id,omitempty" validate:"omitempty,uuid"`
	TagIDs       []string        `json:"tag_ids,omitempty" validate:"omitempty,dive,uuid"`
	StartTime    *time.Time      `json:"start_time,omitempty"`
	EndTime      *time.Time      `json:"end_time,omitempty"`
	Images       []string        `json:"images,omitempty" validate:"omitempty,max=10,dive,url,max=500"`
}

// UpdateCampaignRequest is a partial update. TagIDs replaces the tag set when present.
type UpdateCampaignRequest struct {
	Title        *string          `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Content      *string          `json:"content,omitempty" validate:"omitempty,min=1"`
	TargetAmount *decimal.Decimal `json:"target_amount,omitempty" validate:"omitempty,min=1000"`
	CategoryID   *string          `json:"category_id,omitempty" validate:"omitempty,uuid"`
	TagIDs       *[]string        `json:"tag_ids,omitempty" validate:"omitempty,dive,uuid"`
	StartTime    *time.Time       `json:"start_time,omitempty"`
	EndTime      *time.Time       `json:"end_time,omitempty"`
}

type AddImageRequest struct {
	ImageURL string `json:"image_url" validate:"required,url,max=500"`
}

// CampaignListRequest holds the list query string.
type CampaignListRequest struct {
	PaginatedRequest
	AuthorID   string
	TagID      string
	CategoryID string
}
