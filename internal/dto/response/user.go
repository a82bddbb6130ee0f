package response

import (
	"time"

	"crowdfunding/internal/data/entity"
)

const DateLayout = "2006-01-02"

type UserResponse struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	ProfilePicture *string   `json:"profile_picture"`
	Verified       bool      `json:"verified"`
	Bio            string    `json:"bio"`
	Address        string    `json:"address"`
	BirthDate      *string   `json:"birth_date"`
	Phone          string    `json:"phone"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserSummary is the public author/donor view of a user.
type UserSummary struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	ProfilePicture *string `json:"profile_picture"`
}

func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:             user.ID.String(),
		Username:       user.Username,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		ProfilePicture: user.ProfilePicture,
		Verified:       user.Verified,
		Bio:            user.Bio,
		Address:        user.Address,
		BirthDate:      FormatDate(user.BirthDate),
		Phone:          user.Phone,
		CreatedAt:      user.CreatedAt,
	}
}

// UserToSummary returns nil for a missing user.
func UserToSummary(user *entity.User) *UserSummary {
	if user == nil {
		return nil
	}
	return &UserSummary{
		ID:             user.ID.String(),
		Username:       user.Username,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		ProfilePicture: user.ProfilePicture,
	}
}
