package request

type RegisterRequest struct {
	Username       string  `json:"username" validate:"required,min=3,max=150"`
	Email          string  `json:"email" validate:"required,email,max=254"`
	Password       string  `json:"password" validate:"required"`
	Password2      string  `json:"password2" validate:"required,eqfield=Password"`
	FirstName      string  `json:"first_name" validate:"max=150"`
	LastName       string  `json:"last_name" validate:"max=150"`
	Phone          string  `json:"phone" validate:"required,egphone"`
	ProfilePicture *string `json:"profile_picture,omitempty" validate:"omitempty,url,max=500"`
	Address        string  `json:"address,omitempty" validate:"max=255"`
	BirthDate      string  `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh credential for refresh and logout.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password  string `json:"password" validate:"required"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}
