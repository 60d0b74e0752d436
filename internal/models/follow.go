package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow is one edge of the follow graph (follower follows followee).
// Both the following and followers views of a user are read from this table.
type Follow struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FollowerID string    `json:"followerId" gorm:"type:varchar(36);not null;index:idx_follow_follower;uniqueIndex:idx_follow_pair"`
	FolloweeID string    `json:"followeeId" gorm:"type:varchar(36);not null;index:idx_follow_followee;uniqueIndex:idx_follow_pair"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Follow) TableName() string { return "follows" }

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// FollowStatus is returned by follow and unfollow
type FollowStatus struct {
	Following      bool  `json:"following"`
	FollowersCount int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
}
