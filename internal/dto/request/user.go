package request

// UpdateProfileRequest is a partial update; nil fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName      *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName       *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	ProfilePicture *string `json:"profile_picture,omitempty" validate:"omitempty,url,max=500"`
	Bio            *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Address        *string `json:"address,omitempty" validate:"omitempty,max=255"`
	BirthDate      *string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Phone          *string `json:"phone,omitempty" validate:"omitempty,egphone"`
}
