package usecase

import (
	"context"
	"testing"
	"time"

	"crowdfunding/internal/dto/request"
	"crowdfunding/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComment_CreateRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", true)
	campaign := env.seedCampaign(alice, "1000")
	other := env.seedCampaign(alice, "1000")

	_, err := env.svc.Comment.CreateComment(ctx, alice.ID, &request.CreateCommentRequest{Content: "no campaign"})
	require.ErrorIs(t, err, apperrors.ErrMissingField)
	assert.Equal(t, map[string]string{"campaign_id": "This field is required."}, apperrors.Fields(err))

	_, err = env.svc.Comment.CreateComment(ctx, alice.ID, &request.CreateCommentRequest{CampaignID: ptr(uuid.NewString()), Content: "x"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = env.svc.Comment.CreateComment(ctx, alice.ID, &request.CreateCommentRequest{CampaignID: ptr("not-a-uuid"), Content: "x"})
	require.ErrorIs(t, err, apperrors.ErrInvalidReference)
	assert.Equal(t, map[string]string{"campaign_id": "Invalid campaign ID."}, apperrors.Fields(err))

	_, err = env.svc.Comment.CreateComment(ctx, alice.ID, &request.CreateCommentRequest{CampaignID: ptr(campaign.ID.String())})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = env.svc.Comment.CreateComment(ctx, alice.ID, &request.CreateCommentRequest{
		CampaignID: ptr(campaign.ID.String()),
		ParentID:   ptr(uuid.NewString()),
		Content:    "reply to nothing",
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidReference)
	assert.Contains(t, apperrors.Fields(err), "parent_id")

	elsewhere, err := env.svc.Comment.CreateComment(ctx, alice.ID, &request.CreateCommentRequest{CampaignID: ptr(other.ID.String()), Content: "other"})
	require.NoError(t, err)
	_, err = env.svc.Comment.CreateComment(ctx, alice.ID, &request.CreateCommentRequest{
		CampaignID: ptr(campaign.ID.String()),
		ParentID:   &elsewhere.ID,
		Content:    "cross campaign",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidReference)

	assert.Len(t, env.comments.items, 1)
}

func TestComment_TreeDepthAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice", true)
	bob := env.seedUser(t, "bob", true)
	campaign := env.seedCampaign(alice, "1000")

	var parentID *string
	var ids []string
	for i := 0; i < 5; i++ {
		node, err := env.svc.Comment.CreateComment(ctx, alice.ID, &request.CreateCommentRequest{
			CampaignID: ptr(campaign.ID.String()),
			ParentID:   parentID,
			Content:    "nested",
		})
		require.NoError(t, err)
		ids = append(ids, node.ID)
		parentID = &node.ID
		env.clock.Advance(time.Second)
	}

	tree, err := env.svc.Comment.GetCampaignComments(ctx, campaign.ID.String(), 0)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	level3 := tree[0].Replies[0].Replies[0].Replies[0]
	assert.Equal(t, ids[3], level3.ID)
	assert.Empty(t, level3.Replies)

	tree, err = env.svc.Comment.GetCampaignComments(ctx, campaign.ID.String(), 1)
	require.NoError(t, err)
	assert.Empty(t, tree[0].Replies[0].Replies)

	assert.ErrorIs(t, env.svc.Comment.DeleteComment(ctx, ids[1], bob.ID), apperrors.ErrForbidden)
	require.NoError(t, env.svc.Comment.DeleteComment(ctx, ids[1], alice.ID))
	assert.Len(t, env.comments.items, 1, "replies are removed with their parent")

	_, err = env.svc.Comment.GetCampaignComments(ctx, uuid.NewString(), 3)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
