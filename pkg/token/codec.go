// Package token issues and verifies signed, purpose-tagged JWTs.
package token

import (
	"crowdfunding/pkg/apperrors"
	"crowdfunding/pkg/utils"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Purpose string

const (
	PurposeActivation    Purpose = "activation"
	PurposePasswordReset Purpose = "password_reset"
	PurposeAccess        Purpose = "access"
	PurposeRefresh       Purpose = "refresh"
)

// ProfileSnapshot is embedded in session tokens so handlers can render the
// caller's profile without a user lookup.
type ProfileSnapshot struct {
	Username       string  `json:"username"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Verified       bool    `json:"verified"`
	Bio            string  `json:"bio,omitempty"`
	BirthDate      *string `json:"birth_date,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

type Claims struct {
	Purpose   Purpose          `json:"type"`
	UserID    uuid.UUID        `json:"user_id"`
	SessionID uuid.UUID        `json:"sid,omitempty"`
	Profile   *ProfileSnapshot `json:"profile,omitempty"`
	jwt.RegisteredClaims
}

type Codec struct {
	secret []byte
	clock  utils.Clock
}

func NewCodec(secret string, clock utils.Clock) *Codec {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &Codec{secret: []byte(secret), clock: clock}
}

// Issue signs a token for subject with the given purpose and lifetime.
func (c *Codec) Issue(subject uuid.UUID, purpose Purpose, ttl time.Duration) (string, time.Time, error) {
	return c.IssueClaims(Claims{Purpose: purpose, UserID: subject}, ttl)
}

// IssueClaims signs caller-built claims, filling in the registered timestamps.
func (c *Codec) IssueClaims(claims Claims, ttl time.Duration) (string, time.Time, error) {
	if claims.Purpose == "" {
		return "", time.Time{}, errors.New("token purpose is required")
	}

	now := c.clock.Now()
	exp := now.Add(ttl)

	claims.Subject = claims.UserID.String()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(exp)
	if claims.SessionID != uuid.Nil {
		claims.ID = claims.SessionID.String()
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

// Verify returns the subject of a valid token carrying the expected purpose.
func (c *Codec) Verify(tokenStr string, purpose Purpose) (uuid.UUID, error) {
	claims, err := c.Parse(tokenStr, purpose)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

// Parse validates signature, expiry and purpose and returns the claims.
func (c *Codec) Parse(tokenStr string, purpose Purpose) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.clock.Now),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenMalformed, err)
	}
	if !tkn.Valid || claims.UserID == uuid.Nil {
		return nil, apperrors.ErrTokenMalformed
	}
	if claims.Purpose != purpose {
		return nil, apperrors.ErrPurposeMismatch
	}
	return claims, nil
}
