package request

type CreateRatingRequest struct {
	CampaignID string `json:"campaign_id" validate:"required,uuid"`
	Value      int    `json:"value" validate:"required,min=1,max=5"`
}

type UpdateRatingRequest struct {
	Value int `json:"value" validate:"required,min=1,max=5"`
}
