package entity

import "github.com/google/uuid"

type Rating struct {
	BaseSimple
	CampaignID uuid.UUID `db:"campaign_id"`
	UserID     uuid.UUID `db:"user_id"`
	Value      int       `db:"value"` // 1-5
}
