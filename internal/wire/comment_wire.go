package wire

import (
	"net/http"

	"crowdfunding/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// Comment listing lives under the campaign routes.
func wireComment(r chi.Router, commentHandler *adaptor.CommentHandler, auth func(http.Handler) http.Handler) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Post("/api/comments", commentHandler.CreateComment)
		r.Delete("/api/comments/{id}", commentHandler.DeleteComment)
	})
}
