package response

import "time"

// CommentNode is one comment with its replies, nested up to the requested depth.
type CommentNode struct {
	ID        string        `json:"id"`
	User      *UserSummary  `json:"user"`
	ParentID  *string       `json:"parent_id"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
	Replies   []CommentNode `json:"replies"`
}
