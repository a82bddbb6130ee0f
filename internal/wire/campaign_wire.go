package wire

import (
	"net/http"

	"crowdfunding/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCampaign(r chi.Router, campaignHandler *adaptor.CampaignHandler, auth func(http.Handler) http.Handler) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/campaigns", campaignHandler.GetCampaigns)
	r.Get("/api/campaigns/{id}", campaignHandler.GetCampaignByID)
	r.Get("/api/campaigns/{id}/images", campaignHandler.ListImages)
	r.Get("/api/campaigns/{id}/comments", campaignHandler.GetComments)
	r.Get("/api/campaigns/{id}/ratings", campaignHandler.GetRatings)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Post("/api/campaigns", campaignHandler.CreateCampaign)

		// Author only
		r.Put("/api/campaigns/{id}", campaignHandler.UpdateCampaign)
		r.Delete("/api/campaigns/{id}", campaignHandler.DeleteCampaign)
		r.Post("/api/campaigns/{id}/cancel", campaignHandler.CancelCampaign)
		r.Post("/api/campaigns/{id}/images", campaignHandler.AddImage)
		r.Delete("/api/campaigns/{id}/images/{imageID}", campaignHandler.DeleteImage)
	})
}
