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

type CampaignHandler struct {
	service  usecase.CampaignService
	comments usecase.CommentService
	ratings  usecase.RatingService
	log      *zap.Logger
}

func NewCampaignHandler(service usecase.CampaignService, comments usecase.CommentService, ratings usecase.RatingService, log *zap.Logger) *CampaignHandler {
	return &CampaignHandler{
		service:  service,
		comments: comments,
		ratings:  ratings,
		log:      log.With(zap.String("handler", "campaign")),
	}
}

// CreateCampaign handles POST /api/campaigns (protected)
func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	campaign, err := h.service.CreateCampaign(r.Context(), userID, &req)
	if err != nil {
		respondError(w, h.log, err, "create campaign")
		return
	}

	utils.ResponseCreated(w, "Campaign created successfully", campaign)
}

// GetCampaigns handles GET /api/campaigns
func (h *CampaignHandler) GetCampaigns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.CampaignListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), request.DefaultPerPage),
		},
		AuthorID:   query.Get("author"),
		TagID:      query.Get("tag"),
		CategoryID: query.Get("category"),
	}

	campaigns, err := h.service.GetCampaigns(r.Context(), req)
	if err != nil {
		respondError(w, h.log, err, "get campaigns")
		return
	}

	utils.ResponseSuccess(w, "success", campaigns)
}

// GetCampaignByID handles GET /api/campaigns/{id}
func (h *CampaignHandler) GetCampaignByID(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.service.GetCampaignByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "get campaign")
		return
	}

	utils.ResponseSuccess(w, "success", campaign)
}

// UpdateCampaign handles PUT /api/campaigns/{id} (author only)
func (h *CampaignHandler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	campaign, err := h.service.UpdateCampaign(r.Context(), chi.URLParam(r, "id"), userID, &req)
	if err != nil {
		respondError(w, h.log, err, "update campaign")
		return
	}

	utils.ResponseSuccess(w, "Campaign updated successfully", campaign)
}

// DeleteCampaign handles DELETE /api/campaigns/{id} (author only)
func (h *CampaignHandler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.DeleteCampaign(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		respondError(w, h.log, err, "delete campaign")
		return
	}

	utils.ResponseNoContent(w)
}

// CancelCampaign handles POST /api/campaigns/{id}/cancel (author only)
func (h *CampaignHandler) CancelCampaign(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	campaign, err := h.service.CancelCampaign(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		respondError(w, h.log, err, "cancel campaign")
		return
	}

	utils.ResponseSuccess(w, "Campaign canceled", campaign)
}

// ==================== IMAGES ====================

// AddImage handles POST /api/campaigns/{id}/images (author only)
func (h *CampaignHandler) AddImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.AddImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	image, err := h.service.AddImage(r.Context(), chi.URLParam(r, "id"), userID, &req)
	if err != nil {
		respondError(w, h.log, err, "add campaign image")
		return
	}

	utils.ResponseCreated(w, "Image added", image)
}

// ListImages handles GET /api/campaigns/{id}/images
func (h *CampaignHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.service.ListImages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "list campaign images")
		return
	}

	utils.ResponseSuccess(w, "success", images)
}

// DeleteImage handles DELETE /api/campaigns/{id}/images/{imageID} (author only)
func (h *CampaignHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	err := h.service.DeleteImage(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "imageID"), userID)
	if err != nil {
		respondError(w, h.log, err, "delete campaign image")
		return
	}

	utils.ResponseNoContent(w)
}

// ==================== NESTED READS ====================

// GetComments handles GET /api/campaigns/{id}/comments?depth=N
func (h *CampaignHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	// depth <= 0 falls back to the service default
	depth := utils.ParseInt(r.URL.Query().Get("depth"), 0)

	comments, err := h.comments.GetCampaignComments(r.Context(), chi.URLParam(r, "id"), depth)
	if err != nil {
		respondError(w, h.log, err, "get campaign comments")
		return
	}

	utils.ResponseSuccess(w, "success", comments)
}

// GetRatings handles GET /api/campaigns/{id}/ratings
func (h *CampaignHandler) GetRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.ratings.GetCampaignRatings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "get campaign ratings")
		return
	}

	utils.ResponseSuccess(w, "success", ratings)
}
