package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityType is one of the fixed action kinds kept in the activity log
type ActivityType string

const (
	ActivityLike         ActivityType = "like"
	ActivitySave         ActivityType = "save"
	ActivityFollow       ActivityType = "follow"
	ActivityCreateBoard  ActivityType = "create_board"
	ActivityAddPhoto     ActivityType = "add_photo"
	ActivityComment      ActivityType = "comment"
	ActivityCommentReply ActivityType = "comment_reply"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityLike, ActivitySave, ActivityFollow, ActivityCreateBoard,
		ActivityAddPhoto, ActivityComment, ActivityCommentReply:
		return true
	}
	return false
}

// Activity is an append-only record of something a user did (PostgreSQL)
type Activity struct {
	ID           string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ActorID      string       `json:"user" gorm:"type:varchar(36);not null;index:idx_activity_actor_created,priority:1"`
	Type         ActivityType `json:"type" gorm:"size:20;not null"`
	PhotoID      *string      `json:"photo,omitempty" gorm:"size:24"`
	BoardID      *string      `json:"board,omitempty" gorm:"size:24"`
	TargetUserID *string      `json:"targetUser,omitempty" gorm:"type:varchar(36)"`
	CommentID    *string      `json:"comment,omitempty" gorm:"size:24"`
	ReplyID      *string      `json:"reply,omitempty" gorm:"size:24"`
	CreatedAt    time.Time    `json:"createdAt" gorm:"index:idx_activity_actor_created,priority:2"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// ActivityRefs are the optional entity references of an activity
type ActivityRefs struct {
	PhotoID      string
	BoardID      string
	TargetUserID string
	CommentID    string
	// ReplyID is set for comment_reply; CommentID then names the parent
	ReplyID string
}

// ActivityView is an activity with its references resolved for display
type ActivityView struct {
	Activity
	Actor      *UserCompact  `json:"actor,omitempty"`
	Photo      *PhotoCompact `json:"photoInfo,omitempty"`
	Board      *BoardCompact `json:"boardInfo,omitempty"`
	TargetUser *UserCompact  `json:"targetUserInfo,omitempty"`
}

// BoardCompact is the minimal board shape embedded in activities
type BoardCompact struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// optionalRef maps "" to nil so empty references are stored as NULL
func optionalRef(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
