package usecase

import (
	"context"
	"strings"

	"crowdfunding/internal/data/entity"
	"crowdfunding/internal/data/repository"
	"crowdfunding/internal/dto/request"
	"crowdfunding/internal/dto/response"
	"crowdfunding/pkg/apperrors"
	"crowdfunding/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxCommentDepth caps the depth a caller may request.
const MaxCommentDepth = 10

type CommentService interface {
	CreateComment(ctx context.Context, userID uuid.UUID, req *request.CreateCommentRequest) (*response.CommentNode, error)
	GetCampaignComments(ctx context.Context, campaignID string, depth int) ([]response.CommentNode, error)
	DeleteComment(ctx context.Context, commentID string, userID uuid.UUID) error
}

type commentService struct {
	repo  *repository.Repository
	clock utils.Clock
	log   *zap.Logger
}

func NewCommentService(repo *repository.Repository, clock utils.Clock, log *zap.Logger) CommentService {
	return &commentService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) CreateComment(ctx context.Context, userID uuid.UUID, req *request.CreateCommentRequest) (*response.CommentNode, error) {
	if req.CampaignID == nil || strings.TrimSpace(*req.CampaignID) == "" {
		return nil, apperrors.NewFieldError(apperrors.ErrMissingField, "campaign_id", "This field is required.")
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	campaignID, err := uuid.Parse(*req.CampaignID)
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

	var parentID *uuid.UUID
	if req.ParentID != nil && *req.ParentID != "" {
		id, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return nil, invalidParent()
		}
		parent, err := s.repo.Comment.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		// replies stay on the parent's campaign
		if parent == nil || parent.CampaignID != campaign.ID {
			return nil, invalidParent()
		}
		parentID = &id
	}

	comment := &entity.Comment{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: s.clock.Now(),
		},
		CampaignID: campaign.ID,
		UserID:     userID,
		ParentID:   parentID,
		Content:    req.Content,
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		return nil, err
	}

	author, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Warn("Failed to load comment author", zap.Error(err), zap.String("user_id", userID.String()))
	}

	s.log.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("campaign_id", campaign.ID.String()),
		zap.String("user_id", userID.String()),
	)

	node := newCommentNode(comment, author)
	return &node, nil
}

// GetCampaignComments returns the campaign's comment tree. depth <= 0 uses the default.
func (s *commentService) GetCampaignComments(ctx context.Context, campaignID string, depth int) ([]response.CommentNode, error) {
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

	if depth > MaxCommentDepth {
		depth = MaxCommentDepth
	}

	comments, err := s.repo.Comment.FindByCampaignID(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}
	authors, err := s.repo.User.FindByIDs(ctx, commentAuthorIDs(comments))
	if err != nil {
		return nil, err
	}

	return BuildCommentTree(comments, authors, depth), nil
}

// DeleteComment removes a comment and, through the foreign key, its replies.
func (s *commentService) DeleteComment(ctx context.Context, commentID string, userID uuid.UUID) error {
	id, err := parseID(commentID, "comment")
	if err != nil {
		return err
	}
	comment, err := s.repo.Comment.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return apperrors.NotFound("comment")
	}
	if comment.UserID != userID {
		return apperrors.Forbidden("delete comment")
	}

	if err := s.repo.Comment.Delete(ctx, comment.ID); err != nil {
		return err
	}

	s.log.Info("Comment deleted", zap.String("comment_id", comment.ID.String()))
	return nil
}

func invalidParent() error {
	return apperrors.NewFieldError(apperrors.ErrInvalidReference, "parent_id", "Invalid parent comment ID.")
}

// newCommentNode renders one comment with no replies.
func newCommentNode(comment *entity.Comment, author *entity.User) response.CommentNode {
	node := response.CommentNode{
		ID:        comment.ID.String(),
		User:      response.UserToSummary(author),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Replies:   []response.CommentNode{},
	}
	if comment.ParentID != nil {
		parent := comment.ParentID.String()
		node.ParentID = &parent
	}
	return node
}
