package request

type CreateCommentRequest struct {
	CampaignID *string `json:"campaign_id"`
	ParentID   *string `json:"parent_id,omitempty"`
	Content    string  `json:"content" validate:"required,max=5000"`
}
