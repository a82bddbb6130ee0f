package wire

import (
	"net/http"

	"crowdfunding/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireCategory(r chi.Router, categoryHandler *adaptor.CategoryHandler, auth func(http.Handler) http.Handler) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/categories", categoryHandler.GetCategories)
	r.Get("/api/categories/{id}", categoryHandler.GetCategoryByID)
	r.Get("/api/tags", categoryHandler.GetTags)
	r.Get("/api/tags/{id}", categoryHandler.GetTagByID)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Post("/api/categories", categoryHandler.CreateCategory)
		r.Put("/api/categories/{id}", categoryHandler.UpdateCategory)
		r.Delete("/api/categories/{id}", categoryHandler.DeleteCategory)

		r.Post("/api/tags", categoryHandler.CreateTag)
		r.Put("/api/tags/{id}", categoryHandler.UpdateTag)
		r.Delete("/api/tags/{id}", categoryHandler.DeleteTag)
	})
}
