package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SourceType tells whether a photo was uploaded locally or imported from Unsplash
type SourceType string

const (
	SourceUserUpload SourceType = "user_upload"
	SourceUnsplash   SourceType = "unsplash"
)

// Photo is stored in MongoDB. Likes and Saves are user id sets mutated with $addToSet/$pull.
type Photo struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SourceType SourceType         `json:"sourceType" bson:"sourceType"`
	UnsplashID string             `json:"unsplashId,omitempty" bson:"unsplashId,omitempty"`
	Slug       string             `json:"slug,omitempty" bson:"slug,omitempty"`

	ImageURL    string `json:"imageUrl" bson:"imageUrl"`
	ThumbURL    string `json:"thumbUrl" bson:"thumbUrl"`
	DownloadURL string `json:"downloadUrl,omitempty" bson:"downloadUrl,omitempty"`

	Photographer      string `json:"photographer,omitempty" bson:"photographer,omitempty"`
	PhotographerURL   string `json:"photographerUrl,omitempty" bson:"photographerUrl,omitempty"`
	PhotographerImage string `json:"photographerImage,omitempty" bson:"photographerImage,omitempty"`

	UserID string   `json:"user,omitempty" bson:"user,omitempty"`
	Likes  []string `json:"likes" bson:"likes"`
	Saves  []string `json:"saves" bson:"saves"`

	Title       string   `json:"title,omitempty" bson:"title,omitempty"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Tags        []string `json:"tags" bson:"tags"`
	Width       int      `json:"width,omitempty" bson:"width,omitempty"`
	Height      int      `json:"height,omitempty" bson:"height,omitempty"`
	Color       string   `json:"color,omitempty" bson:"color,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Normalize fills the defaults a stored photo must carry
func (p *Photo) Normalize() {
	if p.SourceType == "" {
		p.SourceType = SourceUserUpload
	}
	if p.SourceType == SourceUserUpload && p.ThumbURL == "" {
		p.ThumbURL = p.ImageURL
	}
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Saves == nil {
		p.Saves = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
}

func (p *Photo) HasLike(userID string) bool {
	return contains(p.Likes, userID)
}

func (p *Photo) HasSave(userID string) bool {
	return contains(p.Saves, userID)
}

// PhotoView adds derived counts to a photo response
type PhotoView struct {
	*Photo
	LikeCount int `json:"likeCount"`
	SaveCount int `json:"saveCount"`
}

func (p *Photo) View() PhotoView {
	return PhotoView{Photo: p, LikeCount: len(p.Likes), SaveCount: len(p.Saves)}
}

// PhotoCompact is the minimal photo shape embedded in other responses
type PhotoCompact struct {
	ID           string `json:"id"`
	ImageURL     string `json:"imageUrl,omitempty"`
	ThumbURL     string `json:"thumbUrl,omitempty"`
	Photographer string `json:"photographer,omitempty"`
}

func (p *Photo) ToCompact() PhotoCompact {
	return PhotoCompact{ID: p.ID.Hex(), ImageURL: p.ImageURL, ThumbURL: p.ThumbURL, Photographer: p.Photographer}
}

// CreatePhotoRequest records a photo whose image is already hosted
type CreatePhotoRequest struct {
	ImageURL    string   `json:"imageUrl" validate:"required,url"`
	Title       string   `json:"title" validate:"omitempty,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Tags        []string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=30"`
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
