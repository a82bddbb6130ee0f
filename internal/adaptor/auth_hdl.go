package adaptor

import (
	"encoding/json"
	"net"
	"net/http"

	"crowdfunding/internal/dto/request"
	"crowdfunding/internal/usecase"
	"crowdfunding/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "register")
		return
	}

	utils.ResponseCreated(w, "Registration successful. Check your email to activate the account.", user)
}

// Activate handles GET /api/auth/activate/{token}
func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	alreadyActive, err := h.service.Activate(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondError(w, h.log, err, "activate account")
		return
	}

	if alreadyActive {
		utils.ResponseSuccess(w, "Account is already activated", nil)
		return
	}
	utils.ResponseSuccess(w, "Account activated successfully", nil)
}

// ResendActivation handles POST /api/auth/activate/resend
func (h *AuthHandler) ResendActivation(w http.ResponseWriter, r *http.Request) {
	var req request.EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.ResendActivation(r.Context(), &req); err != nil {
		respondError(w, h.log, err, "resend activation")
		return
	}

	utils.ResponseSuccess(w, "If the account exists and is not active, an activation email has been sent", nil)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	pair, err := h.service.Login(r.Context(), &req, sessionMeta(r))
	if err != nil {
		respondError(w, h.log, err, "login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", pair)
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req request.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	pair, err := h.service.Refresh(r.Context(), &req, sessionMeta(r))
	if err != nil {
		respondError(w, h.log, err, "refresh session")
		return
	}

	utils.ResponseSuccess(w, "Token refreshed", pair)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req request.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.Logout(r.Context(), &req); err != nil {
		respondError(w, h.log, err, "logout")
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}

// RequestPasswordReset handles POST /api/auth/password-reset
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req request.EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), &req); err != nil {
		respondError(w, h.log, err, "request password reset")
		return
	}

	utils.ResponseSuccess(w, "If the account exists, a password reset email has been sent", nil)
}

// ResetPassword handles POST /api/auth/password-reset/{token}
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.ResetPassword(r.Context(), chi.URLParam(r, "token"), &req); err != nil {
		respondError(w, h.log, err, "reset password")
		return
	}

	utils.ResponseSuccess(w, "Password has been reset", nil)
}

func sessionMeta(r *http.Request) usecase.SessionMeta {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return usecase.SessionMeta{
		UserAgent: r.UserAgent(),
		IPAddress: ip,
	}
}
