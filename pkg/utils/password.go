package utils

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "admin123": {},
	"letmein1": {}, "abc12345": {}, "trustno1": {}, "11111111": {}, "00000000": {},
	"passw0rd": {}, "superman": {}, "starwars": {}, "whatever": {}, "dragon123": {},
}

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPasswordHash compares a bcrypt hash with a plain password
func CheckPasswordHash(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ValidatePassword applies the platform password policy. attrs are user
// attributes (username, email) the password must not resemble.
func ValidatePassword(password string, attrs ...string) error {
	if len(password) < MinPasswordLength {
		return errors.New("This password is too short. It must contain at least 8 characters.")
	}
	if len(password) > MaxPasswordLength {
		return errors.New("This password is too long. It must not exceed 128 characters.")
	}

	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return errors.New("This password is entirely numeric.")
	}

	lower := strings.ToLower(password)
	if _, ok := commonPasswords[lower]; ok {
		return errors.New("This password is too common.")
	}

	for _, attr := range attrs {
		attr = strings.ToLower(attr)
		if i := strings.IndexByte(attr, '@'); i > 0 {
			attr = attr[:i]
		}
		if len(attr) < 3 {
			continue
		}
		if strings.Contains(lower, attr) || strings.Contains(attr, lower) {
			return errors.New("The password is too similar to your personal information.")
		}
	}

	return nil
}
