package wire

import (
	"net/http"

	"crowdfunding/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireRating(r chi.Router, ratingHandler *adaptor.RatingHandler, auth func(http.Handler) http.Handler) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Post("/api/ratings", ratingHandler.CreateRating)
		r.Put("/api/ratings/{id}", ratingHandler.UpdateRating)
		r.Delete("/api/ratings/{id}", ratingHandler.DeleteRating)
	})
}
