package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"crowdfunding/internal/dto/request"
	"crowdfunding/pkg/apperrors"
	"crowdfunding/pkg/mailer/templates"
	"crowdfunding/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerRequest() *request.RegisterRequest {
	return &request.RegisterRequest{
		Username:  "alice",
		Email:     "a@x.com",
		Password:  "Secret123!",
		Password2: "Secret123!",
		FirstName: "Alice",
		Phone:     "01012345678",
	}
}

func TestAuth_RegisterActivateLoginScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.svc.Auth.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.False(t, user.Verified)
	assert.Equal(t, 1, env.notifier.count(templates.Activation))

	login := &request.LoginRequest{Email: "a@x.com", Password: "Secret123!"}
	_, err = env.svc.Auth.Login(ctx, login, SessionMeta{})
	assert.ErrorIs(t, err, apperrors.ErrAccountNotVerified)

	already, err := env.svc.Auth.Activate(ctx, env.notifier.lastToken(t, templates.Activation))
	require.NoError(t, err)
	assert.False(t, already)

	pair, err := env.svc.Auth.Login(ctx, login, SessionMeta{UserAgent: "test", IPAddress: "127.0.0.1"})
	require.NoError(t, err)
	require.NotNil(t, pair.User)
	assert.True(t, pair.User.Verified)
	assert.Equal(t, "alice", pair.User.Username)

	claims, err := env.codec.Parse(pair.Access, token.PurposeAccess)
	require.NoError(t, err)
	require.NotNil(t, claims.Profile)
	assert.True(t, claims.Profile.Verified)
	assert.Contains(t, env.sessions.byID, claims.SessionID)
}

func TestAuth_RegisterStoresAddressAndBirthDate(t *testing.T) {
	env := newTestEnv(t)
	req := registerRequest()
	req.Address = "12 Nile St, Cairo"
	req.BirthDate = "1990-05-17"

	user, err := env.svc.Auth.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "12 Nile St, Cairo", user.Address)
	require.NotNil(t, user.BirthDate)
	assert.Equal(t, "1990-05-17", *user.BirthDate)

	bad := registerRequest()
	bad.Username, bad.Email = "bob", "b@x.com"
	bad.BirthDate = "17-05-1990"
	_, err = env.svc.Auth.Register(context.Background(), bad)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, apperrors.Fields(err), "birth_date")
}

func TestAuth_ActivateIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.svc.Auth.Register(ctx, registerRequest())
	require.NoError(t, err)
	first := env.notifier.lastToken(t, templates.Activation)
	second, _, err := env.codec.Issue(mustParseUUID(t, user.ID), token.PurposeActivation, time.Hour)
	require.NoError(t, err)

	already, err := env.svc.Auth.Activate(ctx, first)
	require.NoError(t, err)
	assert.False(t, already)

	already, err = env.svc.Auth.Activate(ctx, second)
	require.NoError(t, err)
	assert.True(t, already)

	require.NoError(t, env.svc.Auth.ResendActivation(ctx, &request.EmailRequest{Email: "a@x.com"}))
	assert.Equal(t, 1, env.notifier.count(templates.Activation), "verified users get no resend")

	u, _ := env.users.FindByEmail(ctx, "a@x.com")
	assert.True(t, u.Verified)
}

func TestAuth_ActivateRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Auth.Register(ctx, registerRequest())
	require.NoError(t, err)
	activation := env.notifier.lastToken(t, templates.Activation)

	_, err = env.svc.Auth.Activate(ctx, "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrTokenMalformed)

	require.NoError(t, env.svc.Auth.RequestPasswordReset(ctx, &request.EmailRequest{Email: "a@x.com"}))
	_, err = env.svc.Auth.Activate(ctx, env.notifier.lastToken(t, templates.PasswordReset))
	assert.ErrorIs(t, err, apperrors.ErrPurposeMismatch)

	env.clock.Advance(2 * time.Hour)
	_, err = env.svc.Auth.Activate(ctx, activation)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	u, _ := env.users.FindByEmail(ctx, "a@x.com")
	assert.False(t, u.Verified)
}

func TestAuth_RegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *request.RegisterRequest)
		field  string
	}{
		{"password mismatch", func(r *request.RegisterRequest) { r.Password2 = "Other123!" }, "password2"},
		{"bad phone", func(r *request.RegisterRequest) { r.Phone = "0123" }, "phone"},
		{"short password", func(r *request.RegisterRequest) { r.Password, r.Password2 = "abc", "abc" }, "password"},
		{"password like username", func(r *request.RegisterRequest) { r.Password, r.Password2 = "alice2024", "alice2024" }, "password"},
		{"missing email", func(r *request.RegisterRequest) { r.Email = "" }, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			req := registerRequest()
			tt.mutate(req)

			_, err := env.svc.Auth.Register(context.Background(), req)

			require.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Contains(t, apperrors.Fields(err), tt.field)
			assert.Empty(t, env.users.byID)
			assert.Zero(t, env.notifier.count(templates.Activation))
		})
	}
}

func TestAuth_RegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Auth.Register(ctx, registerRequest())
	require.NoError(t, err)

	again := registerRequest()
	again.Username = "alice2"
	_, err = env.svc.Auth.Register(ctx, again)
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, apperrors.Fields(err), "email")
}

func TestAuth_RegisterSurvivesEmailFailure(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.err = errSMTPDown

	user, err := env.svc.Auth.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.Contains(t, env.users.byID, mustParseUUID(t, user.ID))
}

func TestAuth_LoginFailures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "verified", true)
	env.seedUser(t, "pending", false)

	_, err := env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "verified@example.com", Password: "Wrong123!"}, SessionMeta{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "nobody@example.com", Password: "Secret123!"}, SessionMeta{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// unverified accounts are refused with or without the right password
	_, err = env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "pending@example.com", Password: "Wrong123!"}, SessionMeta{})
	assert.ErrorIs(t, err, apperrors.ErrAccountNotVerified)
	_, err = env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "pending@example.com", Password: "Secret123!"}, SessionMeta{})
	assert.ErrorIs(t, err, apperrors.ErrAccountNotVerified)
}

func TestAuth_LogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "bob", true)

	pair, err := env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "bob@example.com", Password: "Secret123!"}, SessionMeta{})
	require.NoError(t, err)
	claims, err := env.codec.Parse(pair.Refresh, token.PurposeRefresh)
	require.NoError(t, err)

	require.NoError(t, env.svc.Auth.Logout(ctx, &request.RefreshRequest{Refresh: pair.Refresh}))
	assert.NotNil(t, env.sessions.byID[claims.SessionID].RevokedAt)
	revoked, _ := env.revocations.IsRevoked(ctx, claims.SessionID)
	assert.True(t, revoked)

	err = env.svc.Auth.Logout(ctx, &request.RefreshRequest{Refresh: pair.Refresh})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)

	err = env.svc.Auth.Logout(ctx, &request.RefreshRequest{Refresh: pair.Access})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)

	_, err = env.svc.Auth.Refresh(ctx, &request.RefreshRequest{Refresh: pair.Refresh}, SessionMeta{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)
}

func TestAuth_RefreshRotatesSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "carol", true)

	pair, err := env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "carol@example.com", Password: "Secret123!"}, SessionMeta{})
	require.NoError(t, err)

	env.clock.Advance(time.Minute)
	next, err := env.svc.Auth.Refresh(ctx, &request.RefreshRequest{Refresh: pair.Refresh}, SessionMeta{})
	require.NoError(t, err)
	assert.NotEqual(t, pair.Refresh, next.Refresh)

	_, err = env.svc.Auth.Refresh(ctx, &request.RefreshRequest{Refresh: pair.Refresh}, SessionMeta{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredential)

	old, _ := env.codec.Parse(pair.Access, token.PurposeAccess)
	revoked, _ := env.revocations.IsRevoked(ctx, old.SessionID)
	assert.True(t, revoked)
}

func TestAuth_PasswordReset(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, "dave", true)

	// unknown addresses look the same to the caller
	require.NoError(t, env.svc.Auth.RequestPasswordReset(ctx, &request.EmailRequest{Email: "ghost@example.com"}))
	assert.Zero(t, env.notifier.count(templates.PasswordReset))

	require.NoError(t, env.svc.Auth.RequestPasswordReset(ctx, &request.EmailRequest{Email: "dave@example.com"}))
	resetToken := env.notifier.lastToken(t, templates.PasswordReset)

	err := env.svc.Auth.ResetPassword(ctx, resetToken, &request.ResetPasswordRequest{Password: "Brand-new-9", Password2: "Brand-new-8"})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, apperrors.Fields(err), "password2")

	require.NoError(t, env.svc.Auth.ResetPassword(ctx, resetToken, &request.ResetPasswordRequest{Password: "Brand-new-9", Password2: "Brand-new-9"}))

	_, err = env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "dave@example.com", Password: "Secret123!"}, SessionMeta{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = env.svc.Auth.Login(ctx, &request.LoginRequest{Email: "dave@example.com", Password: "Brand-new-9"}, SessionMeta{})
	assert.NoError(t, err)
}

func TestAuth_PasswordResetSurvivesEmailFailure(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "erin", true)
	env.notifier.err = errors.New("mailgun unavailable")

	err := env.svc.Auth.RequestPasswordReset(context.Background(), &request.EmailRequest{Email: "erin@example.com"})
	assert.NoError(t, err)
}
