package adaptor

import (
	"errors"
	"net/http"

	"crowdfunding/internal/usecase"
	"crowdfunding/pkg/apperrors"
	"crowdfunding/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Campaign *CampaignHandler
	Donation *DonationHandler
	Comment  *CommentHandler
	Rating   *RatingHandler
	Category *CategoryHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		User:     NewUserHandler(service.User, log),
		Campaign: NewCampaignHandler(service.Campaign, service.Comment, service.Rating, log),
		Donation: NewDonationHandler(service.Donation, log),
		Comment:  NewCommentHandler(service.Comment, log),
		Rating:   NewRatingHandler(service.Rating, log),
		Category: NewCategoryHandler(service.Category, log),
	}
}

// respondError maps service error kinds to HTTP responses.
func respondError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrMissingField),
		errors.Is(err, apperrors.ErrInvalidReference),
		errors.Is(err, apperrors.ErrDuplicateRating):
		log.Debug(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", apperrors.Fields(err))

	case errors.Is(err, apperrors.ErrTokenExpired):
		utils.ResponseBadRequest(w, "Token has expired", map[string]string{"token": "Token has expired."})

	case errors.Is(err, apperrors.ErrTokenMalformed),
		errors.Is(err, apperrors.ErrPurposeMismatch):
		utils.ResponseBadRequest(w, "Invalid token", map[string]string{"token": "Invalid token."})

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		log.Warn(operation+" failed - invalid credentials")
		utils.ResponseUnauthorized(w, "No active account found with the given credentials")

	case errors.Is(err, apperrors.ErrInvalidCredential):
		utils.ResponseUnauthorized(w, "Token is invalid or expired")

	case errors.Is(err, apperrors.ErrAccountNotVerified):
		utils.ResponseForbidden(w, "Account is not activated. Check your email for the activation link.")

	case errors.Is(err, apperrors.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, "You do not have permission to perform this action.")

	case errors.Is(err, apperrors.ErrNotFound):
		utils.ResponseNotFound(w, capitalize(err.Error()))

	case errors.Is(err, apperrors.ErrConflict):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, capitalize(err.Error()), nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
