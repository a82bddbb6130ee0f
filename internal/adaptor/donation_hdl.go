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

type DonationHandler struct {
	service usecase.DonationService
	log     *zap.Logger
}

func NewDonationHandler(service usecase.DonationService, log *zap.Logger) *DonationHandler {
	return &DonationHandler{
		service: service,
		log:     log.With(zap.String("handler", "donation")),
	}
}

// CreateDonation handles POST /api/donations
func (h *DonationHandler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	donation, err := h.service.CreateDonation(r.Context(), userID, &req)
	if err != nil {
		respondError(w, h.log, err, "create donation")
		return
	}

	utils.ResponseCreated(w, "Thank you for your donation", donation)
}

// GetDonations handles GET /api/donations: donations made to the caller's campaigns.
func (h *DonationHandler) GetDonations(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := &request.DonationListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), request.DefaultPerPage),
		},
		CampaignID: query.Get("campaign"),
	}

	donations, err := h.service.GetDonations(r.Context(), userID, req)
	if err != nil {
		respondError(w, h.log, err, "get donations")
		return
	}

	utils.ResponseSuccess(w, "success", donations)
}

// GetDonationByID handles GET /api/donations/{id}
func (h *DonationHandler) GetDonationByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	donation, err := h.service.GetDonationByID(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		respondError(w, h.log, err, "get donation")
		return
	}

	utils.ResponseSuccess(w, "success", donation)
}
