package usecase

import (
	"context"
	"fmt"
	"time"

	"crowdfunding/internal/data/entity"
	"crowdfunding/internal/data/repository"
	"crowdfunding/internal/dto/request"
	"crowdfunding/internal/dto/response"
	"crowdfunding/pkg/apperrors"
	"crowdfunding/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CampaignService interface {
	CreateCampaign(ctx context.Context, authorID uuid.UUID, req *request.CreateCampaignRequest) (*response.CampaignResponse, error)
	GetCampaigns(ctx context.Context, req *request.CampaignListRequest) (*response.PaginatedResponse[response.CampaignResponse], error)
	GetCampaignByID(ctx context.Context, campaignID string) (*response.CampaignDetailResponse, error)
	UpdateCampaign(ctx context.Context, campaignID string, userID uuid.UUID, req *request.UpdateCampaignRequest) (*response.CampaignResponse, error)
	DeleteCampaign(ctx context.Context, campaignID string, userID uuid.UUID) error
	CancelCampaign(ctx context.Context, campaignID string, userID uuid.UUID) (*response.CampaignResponse, error)

	// Images
	AddImage(ctx context.Context, campaignID string, userID uuid.UUID, req *request.AddImageRequest) (*response.ImageResponse, error)
	ListImages(ctx context.Context, campaignID string) ([]response.ImageResponse, error)
	DeleteImage(ctx context.Context, campaignID, imageID string, userID uuid.UUID) error
}

type campaignService struct {
	repo  *repository.Repository
	clock utils.Clock
	log   *zap.Logger
}

func NewCampaignService(repo *repository.Repository, clock utils.Clock, log *zap.Logger) CampaignService {
	return &campaignService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "campaign")),
	}
}

func (s *campaignService) CreateCampaign(ctx context.Context, authorID uuid.UUID, req *request.CreateCampaignRequest) (*response.CampaignResponse, error) {
	// 1. Field rules and time window
	fields := utils.ValidateStruct(req)
	if fields == nil {
		fields = map[string]string{}
	}
	checkMoney(fields, "target_amount", &req.TargetAmount)
	checkWindow(fields, req.StartTime, req.EndTime, req.EndTime != nil, s.clock.Now())
	if len(fields) > 0 {
		s.log.Warn("Create campaign validation failed", zap.Any("errors", fields))
		return nil, apperrors.NewValidationError(fields)
	}

	// 2. References
	categoryID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}
	tagIDs, err := s.resolveTags(ctx, req.TagIDs)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	campaign := &entity.Campaign{
		BaseEditable: entity.BaseEditable{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:        req.Title,
		Content:      req.Content,
		AuthorID:     authorID,
		CategoryID:   categoryID,
		TargetAmount: req.TargetAmount,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
	}

	images := make([]*entity.CampaignImage, 0, len(req.Images))
	for _, url := range req.Images {
		images = append(images, &entity.CampaignImage{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			CampaignID: campaign.ID,
			ImageURL:   url,
		})
	}

	// 3. Campaign, tags and images commit together
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Campaign.Create(ctx, campaign); err != nil {
			return err
		}
		if err := tx.Campaign.SetTags(ctx, campaign.ID, tagIDs); err != nil {
			return err
		}
		for _, image := range images {
			if err := tx.CampaignImage.Create(ctx, image); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("Failed to create campaign", zap.Error(err), zap.String("author_id", authorID.String()))
		return nil, err
	}

	s.log.Info("Campaign created",
		zap.String("campaign_id", campaign.ID.String()),
		zap.String("author_id", authorID.String()),
		zap.String("target_amount", campaign.TargetAmount.String()),
	)

	resp, err := s.buildOne(ctx, campaign)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *campaignService) GetCampaigns(ctx context.Context, req *request.CampaignListRequest) (*response.PaginatedResponse[response.CampaignResponse], error) {
	filter, err := campaignFilter(req)
	if err != nil {
		return nil, err
	}

	limit := req.Limit()
	offset := req.Offset()

	campaigns, err := s.repo.Campaign.FindAll(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Campaign.CountAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	data, err := s.buildMany(ctx, campaigns)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(data, req.CurrentPage(), limit, total), nil
}

func (s *campaignService) GetCampaignByID(ctx context.Context, campaignID string) (*response.CampaignDetailResponse, error) {
	campaign, err := s.findCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	base, err := s.buildOne(ctx, campaign)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.Comment.FindByCampaignID(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}
	donations, err := s.repo.Donation.FindByCampaignID(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}
	ratings, err := s.repo.Rating.FindByCampaignID(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}

	// one user lookup for commenters and donors
	userIDs := commentAuthorIDs(comments)
	for _, d := range donations {
		if d.UserID != nil {
			userIDs = append(userIDs, *d.UserID)
		}
	}
	users, err := s.repo.User.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	return &response.CampaignDetailResponse{
		CampaignResponse: *base,
		Comments:         BuildCommentTree(comments, users, DefaultCommentDepth),
		Donations:        donationsToResponse(donations, users),
		Ratings:          response.RatingsToResponse(ratings),
	}, nil
}

func (s *campaignService) UpdateCampaign(ctx context.Context, campaignID string, userID uuid.UUID, req *request.UpdateCampaignRequest) (*response.CampaignResponse, error) {
	campaign, err := s.findOwnedCampaign(ctx, campaignID, userID, "update campaign")
	if err != nil {
		return nil, err
	}

	fields := utils.ValidateStruct(req)
	if fields == nil {
		fields = map[string]string{}
	}

	checkMoney(fields, "target_amount", req.TargetAmount)

	if req.Title != nil {
		campaign.Title = *req.Title
	}
	if req.Content != nil {
		campaign.Content = *req.Content
	}
	if req.TargetAmount != nil {
		campaign.TargetAmount = *req.TargetAmount
	}
	if req.StartTime != nil {
		campaign.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		campaign.EndTime = req.EndTime
	}

	// a stored end_time already in the past is only rejected when it is being changed
	checkWindow(fields, campaign.StartTime, campaign.EndTime, req.EndTime != nil, s.clock.Now())
	if len(fields) > 0 {
		s.log.Warn("Update campaign validation failed", zap.Any("errors", fields))
		return nil, apperrors.NewValidationError(fields)
	}

	if req.CategoryID != nil {
		campaign.CategoryID, err = s.resolveCategory(ctx, req.CategoryID)
		if err != nil {
			return nil, err
		}
	}

	var tagIDs []uuid.UUID
	if req.TagIDs != nil {
		tagIDs, err = s.resolveTags(ctx, *req.TagIDs)
		if err != nil {
			return nil, err
		}
	}

	campaign.UpdatedAt = s.clock.Now()
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Campaign.Update(ctx, campaign); err != nil {
			return err
		}
		if req.TagIDs != nil {
			return tx.Campaign.SetTags(ctx, campaign.ID, tagIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Campaign updated", zap.String("campaign_id", campaign.ID.String()))
	return s.buildOne(ctx, campaign)
}

func (s *campaignService) DeleteCampaign(ctx context.Context, campaignID string, userID uuid.UUID) error {
	campaign, err := s.findOwnedCampaign(ctx, campaignID, userID, "delete campaign")
	if err != nil {
		return err
	}

	return s.repo.Campaign.Delete(ctx, campaign.ID)
}

// CancelCampaign closes a campaign to donations while it is below the cancel threshold.
func (s *campaignService) CancelCampaign(ctx context.Context, campaignID string, userID uuid.UUID) (*response.CampaignResponse, error) {
	campaign, err := s.findOwnedCampaign(ctx, campaignID, userID, "cancel campaign")
	if err != nil {
		return nil, err
	}
	if campaign.IsCanceled {
		return nil, fmt.Errorf("%w: campaign is already canceled", apperrors.ErrConflict)
	}

	aggregates, err := s.aggregatesFor(ctx, []*entity.Campaign{campaign})
	if err != nil {
		return nil, err
	}
	if !aggregates[campaign.ID].CanBeCanceled {
		return nil, fmt.Errorf("%w: campaign has reached %s%% of its target and can no longer be canceled",
			apperrors.ErrConflict, CancelThresholdPercent.String())
	}

	campaign.IsCanceled = true
	campaign.UpdatedAt = s.clock.Now()
	if err := s.repo.Campaign.Update(ctx, campaign); err != nil {
		return nil, err
	}

	s.log.Info("Campaign canceled", zap.String("campaign_id", campaign.ID.String()))
	return s.buildOne(ctx, campaign)
}

// ==================== IMAGES ====================

func (s *campaignService) AddImage(ctx context.Context, campaignID string, userID uuid.UUID, req *request.AddImageRequest) (*response.ImageResponse, error) {
	campaign, err := s.findOwnedCampaign(ctx, campaignID, userID, "add campaign image")
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	image := &entity.CampaignImage{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: s.clock.Now()},
		CampaignID: campaign.ID,
		ImageURL:   req.ImageURL,
	}
	if err := s.repo.CampaignImage.Create(ctx, image); err != nil {
		return nil, err
	}

	resp := response.ImageToResponse(image)
	return &resp, nil
}

func (s *campaignService) ListImages(ctx context.Context, campaignID string) ([]response.ImageResponse, error) {
	campaign, err := s.findCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	images, err := s.repo.CampaignImage.FindByCampaignID(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}
	return response.ImagesToResponse(images), nil
}

func (s *campaignService) DeleteImage(ctx context.Context, campaignID, imageID string, userID uuid.UUID) error {
	campaign, err := s.findOwnedCampaign(ctx, campaignID, userID, "delete campaign image")
	if err != nil {
		return err
	}

	id, err := parseID(imageID, "image")
	if err != nil {
		return err
	}
	image, err := s.repo.CampaignImage.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if image == nil || image.CampaignID != campaign.ID {
		return apperrors.NotFound("image")
	}

	return s.repo.CampaignImage.Delete(ctx, image.ID)
}

// ==================== HELPER METHODS ====================

// checkWindow adds time-window violations to fields. requireFutureEnd is set
// when end is a newly submitted value.
func checkWindow(fields map[string]string, start, end *time.Time, requireFutureEnd bool, now time.Time) {
	if requireFutureEnd && end != nil && !end.After(now) {
		fields["end_time"] = "End time must be in the future."
	}
	if start != nil && end != nil && start.After(*end) {
		fields["start_time"] = "Start time must be before end time."
	}
}

// checkMoney keeps an earlier tag failure for the field over the column fit.
func checkMoney(fields map[string]string, field string, amount *decimal.Decimal) {
	if amount == nil {
		return
	}
	if _, failed := fields[field]; failed {
		return
	}
	if msg := utils.MoneyError(*amount); msg != "" {
		fields[field] = msg
	}
}

func campaignFilter(req *request.CampaignListRequest) (repository.CampaignFilter, error) {
	var filter repository.CampaignFilter
	var err error
	if filter.AuthorID, err = utils.ParseOptionalUUID(req.AuthorID); err != nil {
		return filter, apperrors.FieldValidation("author", "Must be a valid UUID.")
	}
	if filter.TagID, err = utils.ParseOptionalUUID(req.TagID); err != nil {
		return filter, apperrors.FieldValidation("tag", "Must be a valid UUID.")
	}
	if filter.CategoryID, err = utils.ParseOptionalUUID(req.CategoryID); err != nil {
		return filter, apperrors.FieldValidation("category", "Must be a valid UUID.")
	}
	return filter, nil
}

func (s *campaignService) findCampaign(ctx context.Context, campaignID string) (*entity.Campaign, error) {
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
	return campaign, nil
}

func (s *campaignService) findOwnedCampaign(ctx context.Context, campaignID string, userID uuid.UUID, action string) (*entity.Campaign, error) {
	campaign, err := s.findCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.AuthorID != userID {
		s.log.Warn("Campaign access denied",
			zap.String("campaign_id", campaign.ID.String()),
			zap.String("user_id", userID.String()),
			zap.String("action", action))
		return nil, apperrors.Forbidden(action)
	}
	return campaign, nil
}

func (s *campaignService) resolveCategory(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, apperrors.NewFieldError(apperrors.ErrInvalidReference, "category_id", "Invalid category ID.")
	}
	category, err := s.repo.Category.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperrors.NewFieldError(apperrors.ErrInvalidReference, "category_id", "Invalid category ID.")
	}
	return &id, nil
}

func (s *campaignService) resolveTags(ctx context.Context, raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]struct{}, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, apperrors.NewFieldError(apperrors.ErrInvalidReference, "tag_ids", "Invalid tag ID.")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return ids, nil
	}

	tags, err := s.repo.Tag.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, apperrors.NewFieldError(apperrors.ErrInvalidReference, "tag_ids", "One or more tags do not exist.")
	}
	return ids, nil
}

func (s *campaignService) aggregatesFor(ctx context.Context, campaigns []*entity.Campaign) (map[uuid.UUID]CampaignAggregates, error) {
	ids := make([]uuid.UUID, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.ID)
	}

	amounts, err := s.repo.Donation.AmountsByCampaignIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	values, err := s.repo.Rating.ValuesByCampaignIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]CampaignAggregates, len(campaigns))
	for _, c := range campaigns {
		out[c.ID] = ComputeAggregates(c.TargetAmount, amounts[c.ID], values[c.ID])
	}
	return out, nil
}

func (s *campaignService) buildOne(ctx context.Context, campaign *entity.Campaign) (*response.CampaignResponse, error) {
	resp, err := s.buildMany(ctx, []*entity.Campaign{campaign})
	if err != nil {
		return nil, err
	}
	return &resp[0], nil
}

// buildMany assembles list views with batched author and aggregate lookups.
func (s *campaignService) buildMany(ctx context.Context, campaigns []*entity.Campaign) ([]response.CampaignResponse, error) {
	if len(campaigns) == 0 {
		return []response.CampaignResponse{}, nil
	}

	authorIDs := make([]uuid.UUID, 0, len(campaigns))
	for _, c := range campaigns {
		authorIDs = append(authorIDs, c.AuthorID)
	}
	authors, err := s.repo.User.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	aggregates, err := s.aggregatesFor(ctx, campaigns)
	if err != nil {
		return nil, err
	}

	categories := map[uuid.UUID]*entity.Category{}
	resp := make([]response.CampaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		var category *entity.Category
		if c.CategoryID != nil {
			cached, ok := categories[*c.CategoryID]
			if !ok {
				cached, err = s.repo.Category.FindByID(ctx, *c.CategoryID)
				if err != nil {
					return nil, err
				}
				categories[*c.CategoryID] = cached
			}
			category = cached
		}

		tags, err := s.repo.Tag.FindByCampaignID(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		images, err := s.repo.CampaignImage.FindByCampaignID(ctx, c.ID)
		if err != nil {
			return nil, err
		}

		resp = append(resp, response.CampaignToResponse(c, authors[c.AuthorID], category, tags, images, aggregates[c.ID].ToResponse()))
	}
	return resp, nil
}

func donationsToResponse(donations []*entity.Donation, users map[uuid.UUID]*entity.User) []response.DonationResponse {
	resp := make([]response.DonationResponse, 0, len(donations))
	for _, d := range donations {
		var donor *entity.User
		if d.UserID != nil {
			donor = users[*d.UserID]
		}
		resp = append(resp, response.DonationToResponse(d, donor))
	}
	return resp
}
