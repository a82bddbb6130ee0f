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

// CategoryHandler serves both categories and tags.
type CategoryHandler struct {
	service usecase.CategoryService
	log     *zap.Logger
}

func NewCategoryHandler(service usecase.CategoryService, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		log:     log.With(zap.String("handler", "category")),
	}
}

// ==================== CATEGORIES ====================

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req request.NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	category, err := h.service.CreateCategory(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "create category")
		return
	}

	utils.ResponseCreated(w, "Category created", category)
}

func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.GetCategories(r.Context())
	if err != nil {
		respondError(w, h.log, err, "get categories")
		return
	}

	utils.ResponseSuccess(w, "success", categories)
}

func (h *CategoryHandler) GetCategoryByID(w http.ResponseWriter, r *http.Request) {
	category, err := h.service.GetCategoryByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "get category")
		return
	}

	utils.ResponseSuccess(w, "success", category)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req request.NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondError(w, h.log, err, "update category")
		return
	}

	utils.ResponseSuccess(w, "Category updated", category)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.log, err, "delete category")
		return
	}

	utils.ResponseNoContent(w)
}

// ==================== TAGS ====================

func (h *CategoryHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req request.NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	tag, err := h.service.CreateTag(r.Context(), &req)
	if err != nil {
		respondError(w, h.log, err, "create tag")
		return
	}

	utils.ResponseCreated(w, "Tag created", tag)
}

func (h *CategoryHandler) GetTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.GetTags(r.Context())
	if err != nil {
		respondError(w, h.log, err, "get tags")
		return
	}

	utils.ResponseSuccess(w, "success", tags)
}

func (h *CategoryHandler) GetTagByID(w http.ResponseWriter, r *http.Request) {
	tag, err := h.service.GetTagByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.log, err, "get tag")
		return
	}

	utils.ResponseSuccess(w, "success", tag)
}

func (h *CategoryHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var req request.NameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	tag, err := h.service.UpdateTag(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondError(w, h.log, err, "update tag")
		return
	}

	utils.ResponseSuccess(w, "Tag updated", tag)
}

func (h *CategoryHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTag(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.log, err, "delete tag")
		return
	}

	utils.ResponseNoContent(w)
}
