package usecase

import (
	"context"
	"fmt"

	"crowdfunding/internal/data/entity"
	"crowdfunding/internal/data/repository"
	"crowdfunding/internal/dto/request"
	"crowdfunding/internal/dto/response"
	"crowdfunding/pkg/apperrors"
	"crowdfunding/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DonationService interface {
	CreateDonation(ctx context.Context, userID uuid.UUID, req *request.CreateDonationRequest) (*response.DonationResponse, error)
	// GetDonations lists donations received by campaigns the caller authored.
	GetDonations(ctx context.Context, userID uuid.UUID, req *request.DonationListRequest) (*response.PaginatedResponse[response.DonationResponse], error)
	GetDonationByID(ctx context.Context, donationID string, userID uuid.UUID) (*response.DonationResponse, error)
}

type donationService struct {
	repo  *repository.Repository
	clock utils.Clock
	log   *zap.Logger
}

func NewDonationService(repo *repository.Repository, clock utils.Clock, log *zap.Logger) DonationService {
	return &donationService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "donation")),
	}
}

func (s *donationService) CreateDonation(ctx context.Context, userID uuid.UUID, req *request.CreateDonationRequest) (*response.DonationResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.FieldValidation("amount", "Ensure this value is greater than 0.")
	}
	if msg := utils.MoneyError(req.Amount); msg != "" {
		return nil, apperrors.FieldValidation("amount", msg)
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
	if campaign.IsCanceled {
		return nil, fmt.Errorf("%w: campaign is canceled and no longer accepts donations", apperrors.ErrConflict)
	}

	donation := &entity.Donation{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.clock.Now(),
		},
		CampaignID: campaign.ID,
		UserID:     &userID,
		Amount:     req.Amount,
		Message:    req.Message,
	}

	if err := s.repo.Donation.Create(ctx, donation); err != nil {
		return nil, err
	}

	donor, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Warn("Failed to load donor", zap.Error(err), zap.String("user_id", userID.String()))
	}

	s.log.Info("Donation created",
		zap.String("donation_id", donation.ID.String()),
		zap.String("campaign_id", campaign.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("amount", donation.Amount.StringFixed(2)),
	)

	resp := response.DonationToResponse(donation, donor)
	return &resp, nil
}

func (s *donationService) GetDonations(ctx context.Context, userID uuid.UUID, req *request.DonationListRequest) (*response.PaginatedResponse[response.DonationResponse], error) {
	campaignID, err := utils.ParseOptionalUUID(req.CampaignID)
	if err != nil {
		return nil, apperrors.FieldValidation("campaign", "Must be a valid UUID.")
	}

	limit := req.Limit()
	offset := req.Offset()

	donations, err := s.repo.Donation.FindForAuthor(ctx, userID, campaignID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Donation.CountForAuthor(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}

	donors, err := s.repo.User.FindByIDs(ctx, donorIDs(donations))
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(donationsToResponse(donations, donors), req.CurrentPage(), limit, total), nil
}

// GetDonationByID is visible to the donor and to the campaign author.
func (s *donationService) GetDonationByID(ctx context.Context, donationID string, userID uuid.UUID) (*response.DonationResponse, error) {
	id, err := parseID(donationID, "donation")
	if err != nil {
		return nil, err
	}

	donation, err := s.repo.Donation.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, apperrors.NotFound("donation")
	}

	isDonor := donation.UserID != nil && *donation.UserID == userID
	if !isDonor {
		campaign, err := s.repo.Campaign.FindByID(ctx, donation.CampaignID)
		if err != nil {
			return nil, err
		}
		if campaign == nil || campaign.AuthorID != userID {
			return nil, apperrors.NotFound("donation")
		}
	}

	var donor *entity.User
	if donation.UserID != nil {
		donor, err = s.repo.User.FindByID(ctx, *donation.UserID)
		if err != nil {
			return nil, err
		}
	}

	resp := response.DonationToResponse(donation, donor)
	return &resp, nil
}

func donorIDs(donations []*entity.Donation) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(donations))
	for _, d := range donations {
		if d.UserID != nil {
			ids = append(ids, *d.UserID)
		}
	}
	return ids
}
