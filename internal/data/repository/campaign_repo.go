package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crowdfunding/internal/data/entity"
	"crowdfunding/pkg/apperrors"
	"crowdfunding/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CampaignFilter narrows campaign listings. Nil fields are ignored.
type CampaignFilter struct {
	AuthorID   *uuid.UUID
	TagID      *uuid.UUID
	CategoryID *uuid.UUID
}

type CampaignRepository interface {
	Create(ctx context.Context, campaign *entity.Campaign) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Campaign, error)
	FindAll(ctx context.Context, filter CampaignFilter, limit, offset int) ([]*entity.Campaign, error)
	CountAll(ctx context.Context, filter CampaignFilter) (int64, error)
	Update(ctx context.Context, campaign *entity.Campaign) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Tags
	SetTags(ctx context.Context, campaignID uuid.UUID, tagIDs []uuid.UUID) error
}

type campaignRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCampaignRepository(db database.Querier, log *zap.Logger) CampaignRepository {
	return &campaignRepository{
		db:  db,
		log: log.With(zap.String("repository", "campaign")),
	}
}

const campaignColumns = `c.id, c.title, c.content, c.author_id, c.category_id, c.target_amount,
		       c.start_time, c.end_time, c.is_canceled, c.created_at, c.updated_at`

func scanCampaign(row pgx.Row) (*entity.Campaign, error) {
	var campaign entity.Campaign
	err := row.Scan(
		&campaign.ID,
		&campaign.Title,
		&campaign.Content,
		&campaign.AuthorID,
		&campaign.CategoryID,
		&campaign.TargetAmount,
		&campaign.StartTime,
		&campaign.EndTime,
		&campaign.IsCanceled,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *campaignRepository) Create(ctx context.Context, campaign *entity.Campaign) error {
	query := `
		INSERT INTO campaigns (id, title, content, author_id, category_id, target_amount,
		                       start_time, end_time, is_canceled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		campaign.ID,
		campaign.Title,
		campaign.Content,
		campaign.AuthorID,
		campaign.CategoryID,
		campaign.TargetAmount,
		campaign.StartTime,
		campaign.EndTime,
		campaign.IsCanceled,
		campaign.CreatedAt,
		campaign.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create campaign",
			zap.Error(err),
			zap.String("title", campaign.Title),
			zap.String("author_id", campaign.AuthorID.String()),
		)
		return fmt.Errorf("failed to create campaign: %w", err)
	}

	return nil
}

func (r *campaignRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns c WHERE c.id = $1`

	campaign, err := scanCampaign(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find campaign by ID",
			zap.Error(err),
			zap.String("campaign_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find campaign: %w", err)
	}

	return campaign, nil
}

// buildCampaignFilter returns the WHERE clause (without leading AND) and its args.
func buildCampaignFilter(filter CampaignFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		conds = append(conds, fmt.Sprintf("c.author_id = $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conds = append(conds, fmt.Sprintf("c.category_id = $%d", len(args)))
	}
	if filter.TagID != nil {
		args = append(args, *filter.TagID)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM campaign_tags ct WHERE ct.campaign_id = c.id AND ct.tag_id = $%d)", len(args)))
	}

	if len(conds) == 0 {
		return "TRUE", args
	}
	return strings.Join(conds, " AND "), args
}

func (r *campaignRepository) FindAll(ctx context.Context, filter CampaignFilter, limit, offset int) ([]*entity.Campaign, error) {
	where, args := buildCampaignFilter(filter)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + campaignColumns + ` FROM campaigns c WHERE ` + where)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY c.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find all campaigns",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("failed to find campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := []*entity.Campaign{}
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			r.log.Error("Failed to scan campaign row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	r.log.Debug("Campaigns found",
		zap.Int("count", len(campaigns)),
		zap.Int("offset", offset),
		zap.Int("limit", limit),
	)

	return campaigns, nil
}

func (r *campaignRepository) CountAll(ctx context.Context, filter CampaignFilter) (int64, error) {
	where, args := buildCampaignFilter(filter)
	query := `SELECT COUNT(*) FROM campaigns c WHERE ` + where

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count campaigns", zap.Error(err))
		return 0, fmt.Errorf("failed to count campaigns: %w", err)
	}

	return total, nil
}

func (r *campaignRepository) Update(ctx context.Context, campaign *entity.Campaign) error {
	query := `
		UPDATE campaigns
		SET title = $2, content = $3, category_id = $4, target_amount = $5,
		    start_time = $6, end_time = $7, is_canceled = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		campaign.ID,
		campaign.Title,
		campaign.Content,
		campaign.CategoryID,
		campaign.TargetAmount,
		campaign.StartTime,
		campaign.EndTime,
		campaign.IsCanceled,
		campaign.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update campaign",
			zap.Error(err),
			zap.String("campaign_id", campaign.ID.String()),
		)
		return fmt.Errorf("failed to update campaign: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound("campaign")
	}

	return nil
}

// Delete removes the campaign; images, tags, donations, comments and ratings cascade.
func (r *campaignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete campaign",
			zap.Error(err),
			zap.String("campaign_id", id.String()),
		)
		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound("campaign")
	}

	r.log.Info("Campaign deleted", zap.String("campaign_id", id.String()))
	return nil
}

// SetTags replaces the campaign's tag set. Call inside a transaction.
func (r *campaignRepository) SetTags(ctx context.Context, campaignID uuid.UUID, tagIDs []uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM campaign_tags WHERE campaign_id = $1`, campaignID); err != nil {
		r.log.Error("Failed to clear campaign tags",
			zap.Error(err),
			zap.String("campaign_id", campaignID.String()),
		)
		return fmt.Errorf("failed to clear campaign tags: %w", err)
	}

	if len(tagIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO campaign_tags (campaign_id, tag_id)
		SELECT $1, UNNEST($2::uuid[])
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, campaignID, tagIDs); err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperrors.NewFieldError(apperrors.ErrInvalidReference, "tags", "One or more tags do not exist.")
		}
		r.log.Error("Failed to set campaign tags",
			zap.Error(err),
			zap.String("campaign_id", campaignID.String()),
		)
		return fmt.Errorf("failed to set campaign tags: %w", err)
	}

	return nil
}
