package response

import (
	"time"

	"crowdfunding/internal/data/entity"
)

type DonationResponse struct {
	ID         string       `json:"id"`
	CampaignID string       `json:"campaign_id"`
	Donor      *UserSummary `json:"donor"`
	Amount     string       `json:"amount"`
	Message    *string      `json:"message"`
	CreatedAt  time.Time    `json:"created_at"`
}

func DonationToResponse(donation *entity.Donation, donor *entity.User) DonationResponse {
	return DonationResponse{
		ID:         donation.ID.String(),
		CampaignID: donation.CampaignID.String(),
		Donor:      UserToSummary(donor),
		Amount:     donation.Amount.StringFixed(2),
		Message:    donation.Message,
		CreatedAt:  donation.CreatedAt,
	}
}
