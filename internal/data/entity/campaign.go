package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Campaign struct {
	BaseEditable
	Title        string          `db:"title"`
	Content      string          `db:"content"`
	AuthorID     uuid.UUID       `db:"author_id"`
	CategoryID   *uuid.UUID      `db:"category_id"`
	TargetAmount decimal.Decimal `db:"target_amount"`
	StartTime    *time.Time      `db:"start_time"`
	EndTime      *time.Time      `db:"end_time"`
	IsCanceled   bool            `db:"is_canceled"`
}

type CampaignImage struct {
	BaseSimple
	CampaignID uuid.UUID `db:"campaign_id"`
	ImageURL   string    `db:"image_url"`
}
