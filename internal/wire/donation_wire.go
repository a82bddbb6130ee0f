package wire

import (
	"net/http"

	"crowdfunding/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireDonation(r chi.Router, donationHandler *adaptor.DonationHandler, auth func(http.Handler) http.Handler) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Post("/api/donations", donationHandler.CreateDonation)
		r.Get("/api/donations", donationHandler.GetDonations)
		r.Get("/api/donations/{id}", donationHandler.GetDonationByID)
	})
}
