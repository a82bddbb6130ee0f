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

type CampaignImageRepository interface {
	Create(ctx context.Context, image *entity.CampaignImage) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CampaignImage, error)
	FindByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*entity.CampaignImage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type campaignImageRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCampaignImageRepository(db database.Querier, log *zap.Logger) CampaignImageRepository {
	return &campaignImageRepository{
		db:  db,
		log: log.With(zap.String("repository", "campaign_image")),
	}
}

func (r *campaignImageRepository) Create(ctx context.Context, image *entity.CampaignImage) error {
	query := `
		INSERT INTO campaign_images (id, campaign_id, image_url, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query, image.ID, image.CampaignID, image.ImageURL, image.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create campaign image",
			zap.Error(err),
			zap.String("campaign_id", image.CampaignID.String()),
		)
		return fmt.Errorf("failed to create campaign image: %w", err)
	}

	return nil
}

func (r *campaignImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CampaignImage, error) {
	query := `SELECT id, campaign_id, image_url, created_at FROM campaign_images WHERE id = $1`

	var image entity.CampaignImage
	err := r.db.QueryRow(ctx, query, id).Scan(&image.ID, &image.CampaignID, &image.ImageURL, &image.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find campaign image", zap.Error(err), zap.String("image_id", id.String()))
		return nil, fmt.Errorf("failed to find campaign image: %w", err)
	}

	return &image, nil
}

func (r *campaignImageRepository) FindByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*entity.CampaignImage, error) {
	query := `
		SELECT id, campaign_id, image_url, created_at
		FROM campaign_images
		WHERE campaign_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, campaignID)
	if err != nil {
		r.log.Error("Failed to find campaign images",
			zap.Error(err),
			zap.String("campaign_id", campaignID.String()),
		)
		return nil, fmt.Errorf("failed to find campaign images: %w", err)
	}
	defer rows.Close()

	images := []*entity.CampaignImage{}
	for rows.Next() {
		var image entity.CampaignImage
		if err := rows.Scan(&image.ID, &image.CampaignID, &image.ImageURL, &image.CreatedAt); err != nil {
			r.log.Error("Failed to scan campaign image row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan campaign image: %w", err)
		}
		images = append(images, &image)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return images, nil
}

func (r *campaignImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM campaign_images WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete campaign image", zap.Error(err), zap.String("image_id", id.String()))
		return fmt.Errorf("failed to delete campaign image: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound("image")
	}

	return nil
}
