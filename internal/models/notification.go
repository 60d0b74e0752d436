package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType is one of the fixed notification kinds
type NotificationType string

const (
	NotificationLike         NotificationType = "like"
	NotificationComment      NotificationType = "comment"
	NotificationCommentReply NotificationType = "comment_reply"
	NotificationCommentLike  NotificationType = "comment_like"
	NotificationFollow       NotificationType = "follow"
	NotificationSave         NotificationType = "save"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationLike, NotificationComment, NotificationCommentReply,
		NotificationCommentLike, NotificationFollow, NotificationSave:
		return true
	}
	return false
}

// Notification represents a user notification (PostgreSQL). IsRead is the only mutable column.
type Notification struct {
	ID          string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RecipientID string           `json:"recipient" gorm:"type:varchar(36);not null;index:idx_notification_inbox,priority:1"`
	SenderID    string           `json:"sender" gorm:"type:varchar(36);not null"`
	Type        NotificationType `json:"type" gorm:"size:20;not null"`
	PhotoID     *string          `json:"photo,omitempty" gorm:"size:24"`
	CommentID   *string          `json:"comment,omitempty" gorm:"size:24"`
	ReplyID     *string          `json:"reply,omitempty" gorm:"size:24"`
	IsRead      bool             `json:"isRead" gorm:"default:false;not null;index:idx_notification_inbox,priority:2"`
	CreatedAt   time.Time        `json:"createdAt" gorm:"index:idx_notification_inbox,priority:3"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// NotificationRefs are the optional entity references of a notification
type NotificationRefs struct {
	PhotoID   string
	CommentID string
	ReplyID   string
}

// EnrichedNotification includes sender, photo and comment info
type EnrichedNotification struct {
	Notification
	Sender  *UserCompact    `json:"senderInfo,omitempty"`
	Photo   *PhotoCompact   `json:"photoInfo,omitempty"`
	Comment *CommentCompact `json:"commentInfo,omitempty"`
	Reply   *CommentCompact `json:"replyInfo,omitempty"`
}

// NewNotification builds an unread notification row
func NewNotification(recipient, sender string, typ NotificationType, refs NotificationRefs) *Notification {
	return &Notification{
		RecipientID: recipient,
		SenderID:    sender,
		Type:        typ,
		PhotoID:     optionalRef(refs.PhotoID),
		CommentID:   optionalRef(refs.CommentID),
		ReplyID:     optionalRef(refs.ReplyID),
	}
}

// NewActivity builds an activity row
func NewActivity(actor string, typ ActivityType, refs ActivityRefs) *Activity {
	return &Activity{
		ActorID:      actor,
		Type:         typ,
		PhotoID:      optionalRef(refs.PhotoID),
		BoardID:      optionalRef(refs.BoardID),
		TargetUserID: optionalRef(refs.TargetUserID),
		CommentID:    optionalRef(refs.CommentID),
		ReplyID:      optionalRef(refs.ReplyID),
	}
}
