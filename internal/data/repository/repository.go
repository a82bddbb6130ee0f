package repository

import (
	"context"
	"fmt"

	"crowdfunding/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	db  database.Querier
	log *zap.Logger

	User          UserRepository
	Session       SessionRepository
	Category      CategoryRepository
	Tag           TagRepository
	Campaign      CampaignRepository
	CampaignImage CampaignImageRepository
	Donation      DonationRepository
	Comment       CommentRepository
	Rating        RatingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return newRepository(db, log)
}

func newRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		db:            db,
		log:           log,
		User:          NewUserRepository(db, log),
		Session:       NewSessionRepository(db, log),
		Category:      NewCategoryRepository(db, log),
		Tag:           NewTagRepository(db, log),
		Campaign:      NewCampaignRepository(db, log),
		CampaignImage: NewCampaignImageRepository(db, log),
		Donation:      NewDonationRepository(db, log),
		Comment:       NewCommentRepository(db, log),
		Rating:        NewRatingRepository(db, log),
	}
}

// WithTx runs fn against repositories bound to one transaction. The transaction
// commits when fn returns nil and rolls back otherwise. A Repository assembled
// without a database (in-memory fakes) runs fn directly.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(newRepository(tx, r.log)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			r.log.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
