package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BoardTitleMaxLen       = 50
	BoardDescriptionMaxLen = 200
)

// Board is an ordered collection of photo ids owned by one user
type Board struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description" bson:"description"`
	CoverPhoto  *primitive.ObjectID  `json:"coverPhoto" bson:"coverPhoto"`
	Photos      []primitive.ObjectID `json:"photos" bson:"photos"`
	UserID      string               `json:"user" bson:"user"`
	IsPrivate   bool                 `json:"isPrivate" bson:"isPrivate"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

func (b *Board) HasPhoto(id primitive.ObjectID) bool {
	for _, p := range b.Photos {
		if p == id {
			return true
		}
	}
	return false
}

// BoardDetail is a board with its owner and photos resolved
type BoardDetail struct {
	*Board
	Owner      *UserCompact   `json:"owner,omitempty"`
	PhotoItems []PhotoCompact `json:"photoItems"`
	CoverThumb string         `json:"coverThumb,omitempty"`
}

// BoardSummary is used in board listings
type BoardSummary struct {
	*Board
	CoverThumb string `json:"coverThumb,omitempty"`
}

type CreateBoardRequest struct {
	Title       string `json:"title" validate:"required,max=50"`
	Description string `json:"description" validate:"omitempty,max=200"`
	IsPrivate   bool   `json:"isPrivate"`
}

// UpdateBoardRequest uses pointers so absent fields are left untouched
type UpdateBoardRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=50"`
	Description *string `json:"description" validate:"omitempty,max=200"`
	IsPrivate   *bool   `json:"isPrivate"`
}

type AddPhotoToBoardRequest struct {
	PhotoID string `json:"photoId" validate:"required"`
}
