package entity

import "github.com/google/uuid"

type Comment struct {
	BaseSimple
	CampaignID uuid.UUID  `db:"campaign_id"`
	UserID     uuid.UUID  `db:"user_id"`
	ParentID   *uuid.UUID `db:"parent_id"`
	Content    string     `db:"content"`
}
