package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Email     string          `json:"email" validate:"required,email"`
	Phone     string          `json:"phone" validate:"required,egphone"`
	Password  string          `json:"password" validate:"required"`
	Password2 string          `json:"password2" validate:"required,eqfield=Password"`
	Amount    decimal.Decimal `json:"amount" validate:"gt=0"`
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("01012345678"))
	assert.True(t, IsValidPhone("01512345678"))
	assert.False(t, IsValidPhone("01312345678"))
	assert.False(t, IsValidPhone("0101234567"))
	assert.False(t, IsValidPhone("+201012345678"))
}

func TestValidateStruct(t *testing.T) {
	valid := sampleRequest{
		Email:     "a@x.com",
		Phone:     "01012345678",
		Password:  "Secret123!",
		Password2: "Secret123!",
		Amount:    decimal.RequireFromString("10.50"),
	}
	assert.Nil(t, ValidateStruct(valid))

	invalid := valid
	invalid.Phone = "12345"
	invalid.Password2 = "Other123!"
	invalid.Amount = decimal.Zero

	errs := ValidateStruct(invalid)
	assert.Len(t, errs, 3)
	assert.Equal(t, "Phone number must be a valid Egyptian mobile number.", errs["phone"])
	assert.Equal(t, "Passwords do not match.", errs["password2"])
	assert.Contains(t, errs, "amount")
}

func TestMoneyError(t *testing.T) {
	tests := []struct {
		amount string
		ok     bool
	}{
		{"0.01", true},
		{"10.50", true},
		{"10.500", true},
		{"9999999999.99", true},
		{"0.001", false},
		{"10.005", false},
		{"10000000000", false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			msg := MoneyError(decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.ok, msg == "", msg)
		})
	}
}
