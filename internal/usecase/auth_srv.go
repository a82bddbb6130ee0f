package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"crowdfunding/internal/data/entity"
	"crowdfunding/internal/data/repository"
	"crowdfunding/internal/dto/request"
	"crowdfunding/internal/dto/response"
	"crowdfunding/pkg/apperrors"
	"crowdfunding/pkg/cache"
	"crowdfunding/pkg/mailer"
	"crowdfunding/pkg/mailer/templates"
	"crowdfunding/pkg/token"
	"crowdfunding/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionMeta describes the client a session is issued to.
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	// Activate verifies the account. It reports true when the account was already active.
	Activate(ctx context.Context, activationToken string) (bool, error)
	ResendActivation(ctx context.Context, req *request.EmailRequest) error
	Login(ctx context.Context, req *request.LoginRequest, meta SessionMeta) (*response.TokenPairResponse, error)
	Refresh(ctx context.Context, req *request.RefreshRequest, meta SessionMeta) (*response.TokenPairResponse, error)
	Logout(ctx context.Context, req *request.RefreshRequest) error
	RequestPasswordReset(ctx context.Context, req *request.EmailRequest) error
	ResetPassword(ctx context.Context, resetToken string, req *request.ResetPasswordRequest) error
}

type authService struct {
	repo        *repository.Repository
	config      *utils.Config
	codec       *token.Codec
	notifier    mailer.Notifier
	revocations cache.RevocationStore
	clock       utils.Clock
	log         *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	codec *token.Codec,
	notifier mailer.Notifier,
	revocations cache.RevocationStore,
	clock utils.Clock,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:        repo,
		config:      config,
		codec:       codec,
		notifier:    notifier,
		revocations: revocations,
		clock:       clock,
		log:         log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	// 1. Field rules and password policy are reported together
	fields := utils.ValidateStruct(req)
	if fields == nil {
		fields = map[string]string{}
	}
	if _, bad := fields["password"]; !bad && req.Password != "" {
		if err := utils.ValidatePassword(req.Password, req.Username, req.Email, req.FirstName, req.LastName); err != nil {
			fields["password"] = err.Error()
		}
	}

	// 2. Uniqueness
	if _, bad := fields["email"]; !bad {
		existing, err := s.repo.User.FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if existing != nil {
			fields["email"] = "A user with that email already exists."
		}
	}
	if _, bad := fields["username"]; !bad {
		existing, err := s.repo.User.FindByUsername(ctx, req.Username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if existing != nil {
			fields["username"] = "A user with that username already exists."
		}
	}

	if len(fields) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", fields))
		return nil, apperrors.NewValidationError(fields)
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	// 3. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 4. Create unverified user
	now := s.clock.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:       req.Username,
		Email:          req.Email,
		PasswordHash:   hashedPassword,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		ProfilePicture: req.ProfilePicture,
		Address:        req.Address,
		BirthDate:      birthDate,
		Phone:          req.Phone,
		Verified:       false,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, err
	}

	// 5. Activation email, best-effort
	s.sendActivation(ctx, user)

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Activate(ctx context.Context, activationToken string) (bool, error) {
	userID, err := s.codec.Verify(activationToken, token.PurposeActivation)
	if err != nil {
		s.log.Warn("Activation token rejected", zap.Error(err))
		return false, err
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, apperrors.NotFound("user")
	}
	if user.Verified {
		return true, nil
	}

	changed, err := s.repo.User.MarkVerified(ctx, userID)
	if err != nil {
		return false, err
	}

	s.log.Info("Account activated", zap.String("user_id", userID.String()))
	return !changed, nil
}

func (s *authService) ResendActivation(ctx context.Context, req *request.EmailRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	user, err := s.repo.User.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return err
	}
	// Unknown and already verified addresses get the same answer
	if user == nil || user.Verified {
		s.log.Debug("Activation resend skipped", zap.String("email", req.Email))
		return nil
	}

	s.sendActivation(ctx, user)
	return nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, meta SessionMeta) (*response.TokenPairResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.log.Warn("Login for unknown email", zap.String("email", req.Email))
		return nil, apperrors.ErrInvalidCredentials
	}

	// Unverified accounts are refused before the password is looked at
	if !user.Verified {
		s.log.Warn("Login before activation", zap.String("user_id", user.ID.String()))
		return nil, apperrors.ErrAccountNotVerified
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.issueSession(ctx, user, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return pair, nil
}

func (s *authService) Refresh(ctx context.Context, req *request.RefreshRequest, meta SessionMeta) (*response.TokenPairResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	claims, err := s.codec.Parse(req.Refresh, token.PurposeRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidCredential, err)
	}

	session, err := s.repo.Session.FindByID(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	if session == nil || session.RevokedAt != nil || !session.ExpiresAt.After(now) {
		return nil, apperrors.ErrInvalidCredential
	}

	user, err := s.repo.User.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrInvalidCredential
	}

	// Rotate: the presented session dies, a new one is issued
	revoked, err := s.repo.Session.Revoke(ctx, session.ID, now)
	if err != nil {
		return nil, err
	}
	if !revoked {
		return nil, apperrors.ErrInvalidCredential
	}
	s.denySession(ctx, session.ID)

	pair, err := s.issueSession(ctx, user, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info("Session refreshed",
		zap.String("user_id", user.ID.String()),
		zap.String("old_session_id", session.ID.String()))
	return pair, nil
}

func (s *authService) Logout(ctx context.Context, req *request.RefreshRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	claims, err := s.codec.Parse(req.Refresh, token.PurposeRefresh)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidCredential, err)
	}

	revoked, err := s.repo.Session.Revoke(ctx, claims.SessionID, s.clock.Now())
	if err != nil {
		return err
	}
	if !revoked {
		return apperrors.ErrInvalidCredential
	}
	s.denySession(ctx, claims.SessionID)

	s.log.Info("User logged out",
		zap.String("user_id", claims.UserID.String()),
		zap.String("session_id", claims.SessionID.String()))
	return nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, req *request.EmailRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	user, err := s.repo.User.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return err
	}
	if user == nil {
		s.log.Debug("Password reset for unknown email", zap.String("email", req.Email))
		return nil
	}

	resetToken, expiresAt, err := s.codec.Issue(user.ID, token.PurposePasswordReset, s.config.Token.ResetTTL)
	if err != nil {
		s.log.Error("Failed to issue reset token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return err
	}

	s.notify(ctx, templates.PasswordReset, user, s.link("reset-password", resetToken), expiresAt)
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, resetToken string, req *request.ResetPasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	userID, err := s.codec.Verify(resetToken, token.PurposePasswordReset)
	if err != nil {
		s.log.Warn("Reset token rejected", zap.Error(err))
		return err
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("user")
	}

	if err := utils.ValidatePassword(req.Password, user.Username, user.Email, user.FirstName, user.LastName); err != nil {
		return apperrors.FieldValidation("password", err.Error())
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.User.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return err
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

// ==================== HELPER METHODS ====================

func ProfileSnapshot(user *entity.User) *token.ProfileSnapshot {
	return &token.ProfileSnapshot{
		Username:       user.Username,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Verified:       user.Verified,
		Bio:            user.Bio,
		BirthDate:      response.FormatDate(user.BirthDate),
		ProfilePicture: user.ProfilePicture,
	}
}

// issueSession records a session and signs its access/refresh pair.
func (s *authService) issueSession(ctx context.Context, user *entity.User, meta SessionMeta) (*response.TokenPairResponse, error) {
	now := s.clock.Now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		ExpiresAt: now.Add(s.config.JWT.RefreshTTL),
	}
	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	profile := ProfileSnapshot(user)

	access, accessExp, err := s.codec.IssueClaims(token.Claims{
		Purpose:   token.PurposeAccess,
		UserID:    user.ID,
		SessionID: session.ID,
		Profile:   profile,
	}, s.config.JWT.AccessTTL)
	if err != nil {
		s.log.Error("Failed to sign access token", zap.Error(err))
		return nil, err
	}

	refresh, refreshExp, err := s.codec.IssueClaims(token.Claims{
		Purpose:   token.PurposeRefresh,
		UserID:    user.ID,
		SessionID: session.ID,
	}, s.config.JWT.RefreshTTL)
	if err != nil {
		s.log.Error("Failed to sign refresh token", zap.Error(err))
		return nil, err
	}

	return &response.TokenPairResponse{
		Access:           access,
		Refresh:          refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
		User:             profile,
	}, nil
}

// denySession blocks the access tokens of a revoked session until they expire.
func (s *authService) denySession(ctx context.Context, sessionID uuid.UUID) {
	if s.revocations == nil {
		return
	}
	if err := s.revocations.Revoke(ctx, sessionID, s.config.JWT.AccessTTL); err != nil {
		s.log.Error("Failed to record revoked session",
			zap.String("session_id", sessionID.String()),
			zap.Error(err))
	}
}

func (s *authService) sendActivation(ctx context.Context, user *entity.User) {
	activationToken, expiresAt, err := s.codec.Issue(user.ID, token.PurposeActivation, s.config.Token.ActivationTTL)
	if err != nil {
		s.log.Error("Failed to issue activation token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return
	}
	s.notify(ctx, templates.Activation, user, s.link("activate", activationToken), expiresAt)
}

// notify sends an email. Failures are logged; the state change it reports is already committed.
func (s *authService) notify(ctx context.Context, template string, user *entity.User, actionURL string, expiresAt time.Time) {
	name := user.FirstName
	if name == "" {
		name = user.Username
	}
	data := map[string]any{
		"Name":          name,
		"AppName":       s.config.App.Name,
		"ActionURL":     actionURL,
		"ExpiresAtText": expiresAt.UTC().Format("2006-01-02 15:04 MST"),
		"SupportEmail":  s.config.Mail.SupportEmail,
	}

	if err := s.notifier.Send(ctx, template, user.Email, data); err != nil {
		s.log.Error("Failed to send email",
			zap.String("template", template),
			zap.String("user_id", user.ID.String()),
			zap.String("email", user.Email),
			zap.Error(fmt.Errorf("%w: %v", apperrors.ErrNotificationFailure, err)))
	}
}

func (s *authService) link(path, tokenStr string) string {
	return strings.TrimRight(s.config.App.FrontendURL, "/") + "/" + path + "/" + tokenStr
}
