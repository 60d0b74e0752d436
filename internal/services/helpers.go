package services

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

func parseObjectID(hex, entity string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperrors.InvalidInput("Invalid " + entity + " id")
	}
	return id, nil
}

// findLocalPhoto looks a photo up by internal id, then by unsplash id, without calling the provider
func findLocalPhoto(ctx context.Context, photos repositories.PhotoRepository, ref string) (*models.Photo, error) {
	if objectIDPattern.MatchString(ref) {
		id, _ := primitive.ObjectIDFromHex(ref)
		p, err := photos.GetPhotoByID(ctx, id)
		if err == nil || apperrors.KindOf(err) != apperrors.KindNotFound {
			return p, err
		}
	}
	return photos.GetPhotoByUnsplashID(ctx, ref)
}

// requireText trims s and checks it is present and at most max runes long
func requireText(s, field string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperrors.InvalidInput(field + " is required")
	}
	return optionalText(s, field, max)
}

func optionalText(s, field string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > max {
		return "", apperrors.InvalidInput(field + " is too long")
	}
	return s, nil
}

// maxPage bounds page so the computed offset cannot overflow
const maxPage = 100000

// paginate normalises page and limit and returns the offset
func paginate(page, limit, defLimit, maxLimit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 {
		limit = defLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit, (page - 1) * limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func compactUsers(users []models.User) []models.UserCompact {
	out := make([]models.UserCompact, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToCompact())
	}
	return out
}
