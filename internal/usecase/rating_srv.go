package usecase

import (
	"context"

	"crowdfunding/internal/data/entity"
	"crowdfunding/internal/data/repository"
	"crowdfunding/internal/dto/request"
	"crowdfunding/internal/dto/response"
	"crowdfunding/pkg/apperrors"
	"crowdfunding/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RatingService interface {
	CreateRating(ctx context.Context, userID uuid.UUID, req *request.CreateRatingRequest) (*response.RatingResponse, error)
	GetCampaignRatings(ctx context.Context, campaignID string) ([]response.RatingResponse, error)
	UpdateRating(ctx context.Context, ratingID string, userID uuid.UUID, req *request.UpdateRatingRequest) (*response.RatingResponse, error)
	DeleteRating(ctx context.Context, ratingID string, userID uuid.UUID) error
}

type ratingService struct {
	repo  *repository.Repository
	clock utils.Clock
	log   *zap.Logger
}

func NewRatingService(repo *repository.Repository, clock utils.Clock, log *zap.Logger) RatingService {
	return &ratingService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "rating")),
	}
}

const duplicateRatingMessage = "You have already rated this post."

func (s *ratingService) CreateRating(ctx context.Context, userID uuid.UUID, req *request.CreateRatingRequest) (*response.RatingResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	campaignID, err := uuid.Parse(req.CampaignID)
	if err != nil {
		return nil, apperrors.NewFieldError(apperrors.ErrInvalidReference, "campaign_id", "Invalid campaign ID.")
	}
	campaign, err := s.repo.Campaign.FindByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, apperrors.NotFound("campaign")
	}

	// The unique index backs this check when two requests race
	existing, err := s.repo.Rating.FindByUserAndCampaign(ctx, userID, campaign.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewFieldError(apperrors.ErrDuplicateRating, "non_field_errors", duplicateRatingMessage)
	}

	rating := &entity.Rating{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.clock.Now(),
		},
		CampaignID: campaign.ID,
		UserID:     userID,
		Value:      req.Value,
	}

	if err := s.repo.Rating.Create(ctx, rating); err != nil {
		return nil, err
	}

	s.log.Info("Rating created",
		zap.String("rating_id", rating.ID.String()),
		zap.String("campaign_id", campaign.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("value", rating.Value),
	)

	resp := response.RatingToResponse(rating)
	return &resp, nil
}

func (s *ratingService) GetCampaignRatings(ctx context.Context, campaignID string) ([]response.RatingResponse, error) {
	id, err := parseID(campaignID, "campaign")
	if err != nil {
		return nil, err
	}
	campaign, err := s.repo.Campaign.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, apperrors.NotFound("campaign")
	}

	ratings, err := s.repo.Rating.FindByCampaignID(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}
	return response.RatingsToResponse(ratings), nil
}

func (s *ratingService) UpdateRating(ctx context.Context, ratingID string, userID uuid.UUID, req *request.UpdateRatingRequest) (*response.RatingResponse, error) {
	rating, err := s.findOwnedRating(ctx, ratingID, userID, "update rating")
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	rating.Value = req.Value
	if err := s.repo.Rating.Update(ctx, rating); err != nil {
		return nil, err
	}

	s.log.Info("Rating updated", zap.String("rating_id", rating.ID.String()), zap.Int("value", rating.Value))

	resp := response.RatingToResponse(rating)
	return &resp, nil
}

func (s *ratingService) DeleteRating(ctx context.Context, ratingID string, userID uuid.UUID) error {
	rating, err := s.findOwnedRating(ctx, ratingID, userID, "delete rating")
	if err != nil {
		return err
	}
	return s.repo.Rating.Delete(ctx, rating.ID)
}

func (s *ratingService) findOwnedRating(ctx context.Context, ratingID string, userID uuid.UUID, action string) (*entity.Rating, error) {
	id, err := parseID(ratingID, "rating")
	if err != nil {
		return nil, err
	}
	rating, err := s.repo.Rating.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rating == nil {
		return nil, apperrors.NotFound("rating")
	}
	if rating.UserID != userID {
		return nil, apperrors.Forbidden(action)
	}
	return rating, nil
}
