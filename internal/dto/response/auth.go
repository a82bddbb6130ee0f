package response

import (
	"time"

	"crowdfunding/pkg/token"
)

// TokenPairResponse is the session credential pair issued at login and refresh.
type TokenPairResponse struct {
	Access           string                 `json:"access"`
	Refresh          string                 `json:"refresh"`
	AccessExpiresAt  time.Time              `json:"access_expires_at"`
	RefreshExpiresAt time.Time              `json:"refresh_expires_at"`
	User             *token.ProfileSnapshot `json:"user"`
}
