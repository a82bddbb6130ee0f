package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	require.NoError(t, err)

	assert.NotEqual(t, "Secret123!", hash)
	assert.True(t, CheckPasswordHash("Secret123!", hash))
	assert.False(t, CheckPasswordHash("secret123!", hash))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		attrs    []string
		wantErr  bool
	}{
		{name: "valid", password: "Secret123!", attrs: []string{"alice", "a@x.com"}},
		{name: "too short", password: "Ab1!", wantErr: true},
		{name: "numeric", password: "9876543210", wantErr: true},
		{name: "common", password: "Password123", wantErr: true},
		{name: "contains username", password: "alice2024!", attrs: []string{"alice"}, wantErr: true},
		{name: "contains email local part", password: "bobby_rocks", attrs: []string{"bobby@example.com"}, wantErr: true},
		{name: "short attrs ignored", password: "Secret123!", attrs: []string{"a@x.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password, tt.attrs...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
