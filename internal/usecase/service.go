package usecase

import (
	"crowdfunding/internal/data/repository"
	"crowdfunding/pkg/apperrors"
	"crowdfunding/pkg/cache"
	"crowdfunding/pkg/mailer"
	"crowdfunding/pkg/token"
	"crowdfunding/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	User     UserService
	Campaign CampaignService
	Donation DonationService
	Comment  CommentService
	Rating   RatingService
	Category CategoryService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	codec *token.Codec,
	notifier mailer.Notifier,
	revocations cache.RevocationStore,
	clock utils.Clock,
	log *zap.Logger,
) *Service {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &Service{
		Auth:     NewAuthService(repo, config, codec, notifier, revocations, clock, log),
		User:     NewUserService(repo, clock, log),
		Campaign: NewCampaignService(repo, clock, log),
		Donation: NewDonationService(repo, clock, log),
		Comment:  NewCommentService(repo, clock, log),
		Rating:   NewRatingService(repo, clock, log),
		Category: NewCategoryService(repo, clock, log),
	}
}

// validate runs the struct tags and returns a field-keyed ValidationError.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperrors.NewValidationError(errs)
	}
	return nil
}

// parseID parses a path identifier. A malformed id cannot match a row, so it
// reports the resource as not found.
func parseID(raw, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.NotFound(resource)
	}
	return id, nil
}
