package adaptor

import (
	"encoding/json"
	"net/http"

	"crowdfunding/internal/dto/request"
	"crowdfunding/internal/usecase"
	"crowdfunding/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RatingHandler struct {
	service usecase.RatingService
	log     *zap.Logger
}

func NewRatingHandler(service usecase.RatingService, log *zap.Logger) *RatingHandler {
	return &RatingHandler{
		service: service,
		log:     log.With(zap.String("handler", "rating")),
	}
}

// CreateRating handles POST /api/ratings
func (h *RatingHandler) CreateRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	rating, err := h.service.CreateRating(r.Context(), userID, &req)
	if err != nil {
		respondError(w, h.log, err, "create rating")
		return
	}

	utils.ResponseCreated(w, "Rating created", rating)
}

// UpdateRating handles PUT /api/ratings/{id} (owner only)
func (h *RatingHandler) UpdateRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	rating, err := h.service.UpdateRating(r.Context(), chi.URLParam(r, "id"), userID, &req)
	if err != nil {
		respondError(w, h.log, err, "update rating")
		return
	}

	utils.ResponseSuccess(w, "Rating updated", rating)
}

// DeleteRating handles DELETE /api/ratings/{id} (owner only)
func (h *RatingHandler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.DeleteRating(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		respondError(w, h.log, err, "delete rating")
		return
	}

	utils.ResponseNoContent(w)
}
