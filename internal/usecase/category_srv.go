package usecase

import (
	"context"
	"strings"

	"crowdfunding/internal/data/entity"
	"crowdfunding/internal/data/repository"
	"crowdfunding/internal/dto/request"
	"crowdfunding/internal/dto/response"
	"crowdfunding/pkg/apperrors"
	"crowdfunding/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService manages the two lookup tables campaigns are classified by.
type CategoryService interface {
	// Categories
	CreateCategory(ctx context.Context, req *request.NameRequest) (*response.CategoryResponse, error)
	GetCategories(ctx context.Context) ([]response.CategoryResponse, error)
	GetCategoryByID(ctx context.Context, categoryID string) (*response.CategoryResponse, error)
	UpdateCategory(ctx context.Context, categoryID string, req *request.NameRequest) (*response.CategoryResponse, error)
	DeleteCategory(ctx context.Context, categoryID string) error

	// Tags
	CreateTag(ctx context.Context, req *request.NameRequest) (*response.TagResponse, error)
	GetTags(ctx context.Context) ([]response.TagResponse, error)
	GetTagByID(ctx context.Context, tagID string) (*response.TagResponse, error)
	UpdateTag(ctx context.Context, tagID string, req *request.NameRequest) (*response.TagResponse, error)
	DeleteTag(ctx context.Context, tagID string) error
}

type categoryService struct {
	repo  *repository.Repository
	clock utils.Clock
	log   *zap.Logger
}

func NewCategoryService(repo *repository.Repository, clock utils.Clock, log *zap.Logger) CategoryService {
	return &categoryService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "category")),
	}
}

func normalizeName(req *request.NameRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	return validate(req)
}

// ==================== CATEGORIES ====================

func (s *categoryService) CreateCategory(ctx context.Context, req *request.NameRequest) (*response.CategoryResponse, error) {
	if err := normalizeName(req); err != nil {
		return nil, err
	}

	category := &entity.Category{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: s.clock.Now()},
		Name:       req.Name,
	}
	if err := s.repo.Category.Create(ctx, category); err != nil {
		return nil, err
	}

	s.log.Info("Category created", zap.String("category_id", category.ID.String()), zap.String("name", category.Name))

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) GetCategories(ctx context.Context) ([]response.CategoryResponse, error) {
	categories, err := s.repo.Category.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]response.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, response.CategoryToResponse(c))
	}
	return resp, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, categoryID string) (*response.CategoryResponse, error) {
	category, err := s.findCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, categoryID string, req *request.NameRequest) (*response.CategoryResponse, error) {
	category, err := s.findCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if err := normalizeName(req); err != nil {
		return nil, err
	}

	category.Name = req.Name
	if err := s.repo.Category.Update(ctx, category); err != nil {
		return nil, err
	}

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, categoryID string) error {
	id, err := parseID(categoryID, "category")
	if err != nil {
		return err
	}
	return s.repo.Category.Delete(ctx, id)
}

func (s *categoryService) findCategory(ctx context.Context, categoryID string) (*entity.Category, error) {
	id, err := parseID(categoryID, "category")
	if err != nil {
		return nil, err
	}
	category, err := s.repo.Category.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperrors.NotFound("category")
	}
	return category, nil
}

// ==================== TAGS ====================

func (s *categoryService) CreateTag(ctx context.Context, req *request.NameRequest) (*response.TagResponse, error) {
	if err := normalizeName(req); err != nil {
		return nil, err
	}

	tag := &entity.Tag{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: s.clock.Now()},
		Name:       req.Name,
	}
	if err := s.repo.Tag.Create(ctx, tag); err != nil {
		return nil, err
	}

	s.log.Info("Tag created", zap.String("tag_id", tag.ID.String()), zap.String("name", tag.Name))

	resp := response.TagToResponse(tag)
	return &resp, nil
}

func (s *categoryService) GetTags(ctx context.Context) ([]response.TagResponse, error) {
	tags, err := s.repo.Tag.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return response.TagsToResponse(tags), nil
}

func (s *categoryService) GetTagByID(ctx context.Context, tagID string) (*response.TagResponse, error) {
	tag, err := s.findTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	resp := response.TagToResponse(tag)
	return &resp, nil
}

func (s *categoryService) UpdateTag(ctx context.Context, tagID string, req *request.NameRequest) (*response.TagResponse, error) {
	tag, err := s.findTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if err := normalizeName(req); err != nil {
		return nil, err
	}

	tag.Name = req.Name
	if err := s.repo.Tag.Update(ctx, tag); err != nil {
		return nil, err
	}

	resp := response.TagToResponse(tag)
	return &resp, nil
}

func (s *categoryService) DeleteTag(ctx context.Context, tagID string) error {
	id, err := parseID(tagID, "tag")
	if err != nil {
		return err
	}
	return s.repo.Tag.Delete(ctx, id)
}

func (s *categoryService) findTag(ctx context.Context, tagID string) (*entity.Tag, error) {
	id, err := parseID(tagID, "tag")
	if err != nil {
		return nil, err
	}
	tag, err := s.repo.Tag.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, apperrors.NotFound("tag")
	}
	return tag, nil
}
