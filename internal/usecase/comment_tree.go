package usecase

import (
	"crowdfunding/internal/data/entity"
	"crowdfunding/internal/dto/response"

	"github.com/google/uuid"
)

// DefaultCommentDepth is the number of comment levels rendered when the caller gives none.
const DefaultCommentDepth = 3

// BuildCommentTree nests the campaign's comments. comments must be ordered by
// creation time ascending. Top-level comments render with maxDepth levels of
// replies budget; at each level the budget drops by one and a comment whose
// budget is exhausted gets an empty replies list. A non-positive maxDepth
// falls back to DefaultCommentDepth.
func BuildCommentTree(comments []*entity.Comment, authors map[uuid.UUID]*entity.User, maxDepth int) []response.CommentNode {
	if maxDepth <= 0 {
		maxDepth = DefaultCommentDepth
	}

	// arena: index -> comment, plus children lists keyed by parent id
	children := make(map[uuid.UUID][]int, len(comments))
	roots := make([]int, 0, len(comments))
	known := make(map[uuid.UUID]struct{}, len(comments))
	for _, c := range comments {
		known[c.ID] = struct{}{}
	}
	for i, c := range comments {
		if c.ParentID == nil {
			roots = append(roots, i)
			continue
		}
		if _, ok := known[*c.ParentID]; !ok {
			continue // parent outside this campaign; never rendered
		}
		children[*c.ParentID] = append(children[*c.ParentID], i)
	}

	var build func(idx, remaining int) response.CommentNode
	build = func(idx, remaining int) response.CommentNode {
		c := comments[idx]
		node := newCommentNode(c, authors[c.UserID])
		if remaining <= 0 {
			return node
		}
		for _, child := range children[c.ID] {
			node.Replies = append(node.Replies, build(child, remaining-1))
		}
		return node
	}

	tree := make([]response.CommentNode, 0, len(roots))
	for _, idx := range roots {
		tree = append(tree, build(idx, maxDepth))
	}
	return tree
}

// commentAuthorIDs lists the distinct authors of comments.
func commentAuthorIDs(comments []*entity.Comment) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(comments))
	ids := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		if _, ok := seen[c.UserID]; ok {
			continue
		}
		seen[c.UserID] = struct{}{}
		ids = append(ids, c.UserID)
	}
	return ids
}
