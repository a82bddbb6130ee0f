package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Donation struct {
	BaseSimple
	CampaignID uuid.UUID       `db:"campaign_id"`
	UserID     *uuid.UUID      `db:"user_id"` // nil once the donor account is gone
	Amount     decimal.Decimal `db:"amount"`
	Message    *string         `db:"message"`
}
