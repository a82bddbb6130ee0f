package usecase

import (
	"context"
	"time"

	"crowdfunding/internal/data/repository"
	"crowdfunding/internal/dto/request"
	"crowdfunding/internal/dto/response"
	"crowdfunding/pkg/apperrors"
	"crowdfunding/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
}

type userService struct {
	repo  *repository.Repository
	clock utils.Clock
	log   *zap.Logger
}

func NewUserService(repo *repository.Repository, clock utils.Clock, log *zap.Logger) UserService {
	return &userService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// UpdateProfile changes the editable profile fields. Email and username stay fixed.
func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	// an empty string clears the field, so it skips the format rules
	clearPicture := takeEmpty(&req.ProfilePicture)
	clearBirthDate := takeEmpty(&req.BirthDate)

	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if clearPicture {
		user.ProfilePicture = nil
	} else if req.ProfilePicture != nil {
		user.ProfilePicture = req.ProfilePicture
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if clearBirthDate {
		user.BirthDate = nil
	} else if req.BirthDate != nil {
		if user.BirthDate, err = parseBirthDate(*req.BirthDate); err != nil {
			return nil, err
		}
	}

	user.UpdatedAt = us.clock.Now()
	if err := us.repo.User.Update(ctx, user); err != nil {
		return nil, err
	}

	us.log.Info("Profile updated", zap.String("user_id", userID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

// takeEmpty nils out a field holding "" and reports whether it did.
func takeEmpty(field **string) bool {
	if *field != nil && **field == "" {
		*field = nil
		return true
	}
	return false
}

func parseBirthDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	birthDate, err := time.Parse(response.DateLayout, raw)
	if err != nil {
		return nil, apperrors.FieldValidation("birth_date", "Date has wrong format. Use YYYY-MM-DD.")
	}
	return &birthDate, nil
}
