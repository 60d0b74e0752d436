package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const CommentMaxLen = 500

// Comment represents a comment on a photo, or a reply to a top-level comment
type Comment struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Content       string               `json:"content" bson:"content"`
	PhotoID       primitive.ObjectID   `json:"photo" bson:"photo"`
	UserID        string               `json:"user" bson:"user"`
	Replies       []primitive.ObjectID `json:"replies" bson:"replies"`
	IsReply       bool                 `json:"isReply" bson:"isReply"`
	ParentComment *primitive.ObjectID  `json:"parentComment,omitempty" bson:"parentComment,omitempty"`
	Likes         []string             `json:"likes" bson:"likes"`
	CreatedAt     time.Time            `json:"createdAt" bson:"createdAt"`
}

func (c *Comment) HasLike(userID string) bool {
	return contains(c.Likes, userID)
}

// CommentView is a comment with its author and replies resolved
type CommentView struct {
	*Comment
	Author     *UserCompact  `json:"author,omitempty"`
	ReplyItems []CommentView `json:"replyItems,omitempty"`
	LikeCount  int           `json:"likeCount"`
}

// CommentCompact is the minimal comment shape embedded in notifications
type CommentCompact struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

func (c *Comment) ToCompact() CommentCompact {
	return CommentCompact{ID: c.ID.Hex(), Content: c.Content}
}

// CreateCommentRequest is used for both comments and replies
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}
