package repository

import (
	"context"
	"errors"
	"fmt"

	"crowdfunding/internal/data/entity"
	"crowdfunding/pkg/apperrors"
	"crowdfunding/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const ratingUniqueConstraint = "ratings_user_campaign_key"

type RatingRepository interface {
	Create(ctx context.Context, rating *entity.Rating) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Rating, error)
	FindByUserAndCampaign(ctx context.Context, userID, campaignID uuid.UUID) (*entity.Rating, error)
	FindByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*entity.Rating, error)
	ValuesByCampaignIDs(ctx context.Context, campaignIDs []uuid.UUID) (map[uuid.UUID][]int, error)
	Update(ctx context.Context, rating *entity.Rating) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ratingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewRatingRepository(db database.Querier, log *zap.Logger) RatingRepository {
	return &ratingRepository{
		db:  db,
		log: log.With(zap.String("repository", "rating")),
	}
}

// Create inserts the rating. A second rating by the same user on the same
// campaign fails with ErrDuplicateRating.
func (r *ratingRepository) Create(ctx context.Context, rating *entity.Rating) error {
	query := `
		INSERT INTO ratings (id, campaign_id, user_id, value, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		rating.ID,
		rating.CampaignID,
		rating.UserID,
		rating.Value,
		rating.CreatedAt,
	)

	if err != nil {
		if database.IsUniqueViolation(err, ratingUniqueConstraint) {
			return apperrors.NewFieldError(apperrors.ErrDuplicateRating, "non_field_errors", "You have already rated this post.")
		}
		r.log.Error("Failed to create rating",
			zap.Error(err),
			zap.String("campaign_id", rating.CampaignID.String()),
			zap.String("user_id", rating.UserID.String()),
		)
		return fmt.Errorf("failed to create rating: %w", err)
	}

	return nil
}

func scanRating(row pgx.Row) (*entity.Rating, error) {
	var rating entity.Rating
	if err := row.Scan(&rating.ID, &rating.CampaignID, &rating.UserID, &rating.Value, &rating.CreatedAt); err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Rating, error) {
	query := `SELECT id, campaign_id, user_id, value, created_at FROM ratings WHERE id = $1`

	rating, err := scanRating(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find rating", zap.Error(err), zap.String("rating_id", id.String()))
		return nil, fmt.Errorf("failed to find rating: %w", err)
	}

	return rating, nil
}

func (r *ratingRepository) FindByUserAndCampaign(ctx context.Context, userID, campaignID uuid.UUID) (*entity.Rating, error) {
	query := `
		SELECT id, campaign_id, user_id, value, created_at
		FROM ratings
		WHERE user_id = $1 AND campaign_id = $2
	`

	rating, err := scanRating(r.db.QueryRow(ctx, query, userID, campaignID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find rating by user and campaign",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("campaign_id", campaignID.String()),
		)
		return nil, fmt.Errorf("failed to find rating: %w", err)
	}

	return rating, nil
}

func (r *ratingRepository) FindByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*entity.Rating, error) {
	query := `
		SELECT id, campaign_id, user_id, value, created_at
		FROM ratings
		WHERE campaign_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, campaignID)
	if err != nil {
		r.log.Error("Failed to find campaign ratings",
			zap.Error(err),
			zap.String("campaign_id", campaignID.String()),
		)
		return nil, fmt.Errorf("failed to find ratings: %w", err)
	}
	defer rows.Close()

	ratings := []*entity.Rating{}
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			r.log.Error("Failed to scan rating row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return ratings, nil
}

func (r *ratingRepository) ValuesByCampaignIDs(ctx context.Context, campaignIDs []uuid.UUID) (map[uuid.UUID][]int, error) {
	values := make(map[uuid.UUID][]int, len(campaignIDs))
	if len(campaignIDs) == 0 {
		return values, nil
	}

	rows, err := r.db.Query(ctx, `SELECT campaign_id, value FROM ratings WHERE campaign_id = ANY($1)`, campaignIDs)
	if err != nil {
		r.log.Error("Failed to load rating values", zap.Error(err))
		return nil, fmt.Errorf("failed to load rating values: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			campaignID uuid.UUID
			value      int
		)
		if err := rows.Scan(&campaignID, &value); err != nil {
			r.log.Error("Failed to scan rating value", zap.Error(err))
			return nil, fmt.Errorf("failed to scan rating value: %w", err)
		}
		values[campaignID] = append(values[campaignID], value)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return values, nil
}

func (r *ratingRepository) Update(ctx context.Context, rating *entity.Rating) error {
	result, err := r.db.Exec(ctx, `UPDATE ratings SET value = $2 WHERE id = $1`, rating.ID, rating.Value)
	if err != nil {
		r.log.Error("Failed to update rating", zap.Error(err), zap.String("rating_id", rating.ID.String()))
		return fmt.Errorf("failed to update rating: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound("rating")
	}

	return nil
}

func (r *ratingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete rating", zap.Error(err), zap.String("rating_id", id.String()))
		return fmt.Errorf("failed to delete rating: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound("rating")
	}

	return nil
}
