package response

import (
	"time"

	"crowdfunding/internal/data/entity"
)

type RatingResponse struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	UserID     string    `json:"user_id"`
	Value      int       `json:"value"`
	CreatedAt  time.Time `json:"created_at"`
}

func RatingToResponse(rating *entity.Rating) RatingResponse {
	return RatingResponse{
		ID:         rating.ID.String(),
		CampaignID: rating.CampaignID.String(),
		UserID:     rating.UserID.String(),
		Value:      rating.Value,
		CreatedAt:  rating.CreatedAt,
	}
}

func RatingsToResponse(ratings []*entity.Rating) []RatingResponse {
	resp := make([]RatingResponse, 0, len(ratings))
	for _, rating := range ratings {
		resp = append(resp, RatingToResponse(rating))
	}
	return resp
}
