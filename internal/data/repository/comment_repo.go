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

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
	// FindByCampaignID returns every comment of the campaign, oldest first.
	FindByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*entity.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type commentRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCommentRepository(db database.Querier, log *zap.Logger) CommentRepository {
	return &commentRepository{
		db:  db,
		log: log.With(zap.String("repository", "comment")),
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	query := `
		INSERT INTO comments (id, campaign_id, user_id, parent_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		comment.ID,
		comment.CampaignID,
		comment.UserID,
		comment.ParentID,
		comment.Content,
		comment.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create comment",
			zap.Error(err),
			zap.String("campaign_id", comment.CampaignID.String()),
		)
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	query := `SELECT id, campaign_id, user_id, parent_id, content, created_at FROM comments WHERE id = $1`

	var comment entity.Comment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.CampaignID,
		&comment.UserID,
		&comment.ParentID,
		&comment.Content,
		&comment.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find comment", zap.Error(err), zap.String("comment_id", id.String()))
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	return &comment, nil
}

func (r *commentRepository) FindByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]*entity.Comment, error) {
	query := `
		SELECT id, campaign_id, user_id, parent_id, content, created_at
		FROM comments
		WHERE campaign_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, campaignID)
	if err != nil {
		r.log.Error("Failed to find campaign comments",
			zap.Error(err),
			zap.String("campaign_id", campaignID.String()),
		)
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}
	defer rows.Close()

	comments := []*entity.Comment{}
	for rows.Next() {
		var comment entity.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.CampaignID,
			&comment.UserID,
			&comment.ParentID,
			&comment.Content,
			&comment.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan comment row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return comments, nil
}

// Delete removes the comment; replies cascade.
func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete comment", zap.Error(err), zap.String("comment_id", id.String()))
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound("comment")
	}

	return nil
}
