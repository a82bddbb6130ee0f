package response

import (
	"time"

	"crowdfunding/internal/data/entity"
)

type ImageResponse struct {
	ID        string    `json:"id"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// AggregatesResponse holds the derived money and rating figures, never stored.
type AggregatesResponse struct {
	CurrentAmount     string `json:"current_amount"`
	FundingPercentage string `json:"funding_percentage"`
	AverageRating     string `json:"average_rating"`
	CanBeCanceled     bool   `json:"can_be_canceled"`
}

type CampaignResponse struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Content      string            `json:"content"`
	Author       *UserSummary      `json:"author"`
	Category     *CategoryResponse `json:"category"`
	Tags         []TagResponse     `json:"tags"`
	Images       []ImageResponse   `json:"images"`
	TargetAmount string            `json:"target_amount"`
	StartTime    *time.Time        `json:"start_time"`
	EndTime      *time.Time        `json:"end_time"`
	IsCanceled   bool              `json:"is_canceled"`
	CreatedAt    time.Time         `json:"created_at"`
	AggregatesResponse
}

type CampaignDetailResponse struct {
	CampaignResponse
	Comments  []CommentNode      `json:"comments"`
	Donations []DonationResponse `json:"donations"`
	Ratings   []RatingResponse   `json:"ratings"`
}

func ImageToResponse(image *entity.CampaignImage) ImageResponse {
	return ImageResponse{
		ID:        image.ID.String(),
		ImageURL:  image.ImageURL,
		CreatedAt: image.CreatedAt,
	}
}

func ImagesToResponse(images []*entity.CampaignImage) []ImageResponse {
	resp := make([]ImageResponse, 0, len(images))
	for _, image := range images {
		resp = append(resp, ImageToResponse(image))
	}
	return resp
}

// CampaignToResponse builds the list view. Nested collections default to empty.
func CampaignToResponse(campaign *entity.Campaign, author *entity.User, category *entity.Category,
	tags []*entity.Tag, images []*entity.CampaignImage, aggregates AggregatesResponse) CampaignResponse {
	resp := CampaignResponse{
		ID:                 campaign.ID.String(),
		Title:              campaign.Title,
		Content:            campaign.Content,
		Author:             UserToSummary(author),
		Tags:               TagsToResponse(tags),
		Images:             ImagesToResponse(images),
		TargetAmount:       campaign.TargetAmount.StringFixed(2),
		StartTime:          campaign.StartTime,
		EndTime:            campaign.EndTime,
		IsCanceled:         campaign.IsCanceled,
		CreatedAt:          campaign.CreatedAt,
		AggregatesResponse: aggregates,
	}
	if category != nil {
		c := CategoryToResponse(category)
		resp.Category = &c
	}
	return resp
}
