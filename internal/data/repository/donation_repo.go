package repository

import (
	"context"
	"errors"
	"fmt"

	"crowdfunding/internal/data/entity"
	"crowdfunding/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type DonationRepository interface {
	Create(ctx context.Context, donation *entity.Donation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error)
	FindByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*entity.Donation, error)
	// FindForAuthor lists donations made to campaigns authored by authorID.
	FindForAuthor(ctx context.Context, authorID uuid.UUID, campaignID *uuid.UUID, limit, offset int) ([]*entity.Donation, error)
	CountForAuthor(ctx context.Context, authorID uuid.UUID, campaignID *uuid.UUID) (int64, error)
	AmountsByCampaignIDs(ctx context.Context, campaignIDs []uuid.UUID) (map[uuid.UUID][]decimal.Decimal, error)
}

type donationRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewDonationRepository(db database.Querier, log *zap.Logger) DonationRepository {
	return &donationRepository{
		db:  db,
		log: log.With(zap.String("repository", "donation")),
	}
}

const donationColumns = `d.id, d.campaign_id, d.user_id, d.amount, d.message, d.created_at`

func scanDonation(row pgx.Row) (*entity.Donation, error) {
	var donation entity.Donation
	err := row.Scan(
		&donation.ID,
		&donation.CampaignID,
		&donation.UserID,
		&donation.Amount,
		&donation.Message,
		&donation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) Create(ctx context.Context, donation *entity.Donation) error {
	query := `
		INSERT INTO donations (id, campaign_id, user_id, amount, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		donation.ID,
		donation.CampaignID,
		donation.UserID,
		donation.Amount,
		donation.Message,
		donation.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create donation",
			zap.Error(err),
			zap.String("campaign_id", donation.CampaignID.String()),
		)
		return fmt.Errorf("failed to create donation: %w", err)
	}

	return nil
}

func (r *donationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations d WHERE d.id = $1`

	donation, err := scanDonation(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find donation", zap.Error(err), zap.String("donation_id", id.String()))
		return nil, fmt.Errorf("failed to find donation: %w", err)
	}

	return donation, nil
}

func (r *donationRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Donation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list donations", zap.Error(err))
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	defer rows.Close()

	donations := []*entity.Donation{}
	for rows.Next() {
		donation, err := scanDonation(rows)
		if err != nil {
			r.log.Error("Failed to scan donation row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan donation: %w", err)
		}
		donations = append(donations, donation)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return donations, nil
}

func (r *donationRepository) FindByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*entity.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations d WHERE d.campaign_id = $1 ORDER BY d.created_at DESC`
	return r.list(ctx, query, campaignID)
}

func (r *donationRepository) FindForAuthor(ctx context.Context, authorID uuid.UUID, campaignID *uuid.UUID, limit, offset int) ([]*entity.Donation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donations d
		JOIN campaigns c ON c.id = d.campaign_id
		WHERE c.author_id = $1 AND ($2::uuid IS NULL OR d.campaign_id = $2)
		ORDER BY d.created_at DESC
		LIMIT $3 OFFSET $4
	`
	return r.list(ctx, query, authorID, campaignID, limit, offset)
}

func (r *donationRepository) CountForAuthor(ctx context.Context, authorID uuid.UUID, campaignID *uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM donations d
		JOIN campaigns c ON c.id = d.campaign_id
		WHERE c.author_id = $1 AND ($2::uuid IS NULL OR d.campaign_id = $2)
	`

	var total int64
	if err := r.db.QueryRow(ctx, query, authorID, campaignID).Scan(&total); err != nil {
		r.log.Error("Failed to count donations", zap.Error(err), zap.String("author_id", authorID.String()))
		return 0, fmt.Errorf("failed to count donations: %w", err)
	}

	return total, nil
}

// AmountsByCampaignIDs returns donation amounts grouped by campaign for aggregate computation.
func (r *donationRepository) AmountsByCampaignIDs(ctx context.Context, campaignIDs []uuid.UUID) (map[uuid.UUID][]decimal.Decimal, error) {
	amounts := make(map[uuid.UUID][]decimal.Decimal, len(campaignIDs))
	if len(campaignIDs) == 0 {
		return amounts, nil
	}

	rows, err := r.db.Query(ctx, `SELECT campaign_id, amount FROM donations WHERE campaign_id = ANY($1)`, campaignIDs)
	if err != nil {
		r.log.Error("Failed to load donation amounts", zap.Error(err))
		return nil, fmt.Errorf("failed to load donation amounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			campaignID uuid.UUID
			amount     decimal.Decimal
		)
		if err := rows.Scan(&campaignID, &amount); err != nil {
			r.log.Error("Failed to scan donation amount", zap.Error(err))
			return nil, fmt.Errorf("failed to scan donation amount: %w", err)
		}
		amounts[campaignID] = append(amounts[campaignID], amount)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return amounts, nil
}
