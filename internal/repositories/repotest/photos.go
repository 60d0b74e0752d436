package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PhotoRepository is an in-memory repositories.PhotoRepository
type PhotoRepository struct {
	mu      sync.Mutex
	clock   *Clock
	photos  map[primitive.ObjectID]*models.Photo
	Inserts int
}

var _ repositories.PhotoRepository = (*PhotoRepository)(nil)

func NewPhotoRepository(clock *Clock) *PhotoRepository {
	return &PhotoRepository{clock: clock, photos: map[primitive.ObjectID]*models.Photo{}}
}

func (r *PhotoRepository) CreatePhoto(_ context.Context, photo *models.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertLocked(photo)
	return nil
}

func (r *PhotoRepository) insertLocked(photo *models.Photo) {
	photo.Normalize()
	if photo.ID.IsZero() {
		photo.ID = primitive.NewObjectID()
	}
	photo.CreatedAt = r.clock.Now()
	photo.UpdatedAt = photo.CreatedAt
	r.photos[photo.ID] = clonePhoto(photo)
	r.Inserts++
}

func (r *PhotoRepository) InsertIfAbsent(_ context.Context, photo *models.Photo) (*models.Photo, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.photos {
		if p.UnsplashID != "" && p.UnsplashID == photo.UnsplashID {
			return clonePhoto(p), false, nil
		}
	}
	r.insertLocked(photo)
	return clonePhoto(photo), true, nil
}

func (r *PhotoRepository) GetPhotoByID(_ context.Context, id primitive.ObjectID) (*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.photos[id]
	if !ok {
		return nil, apperrors.NotFound("Photo not found")
	}
	return clonePhoto(p), nil
}

func (r *PhotoRepository) GetPhotoByUnsplashID(_ context.Context, unsplashID string) (*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.photos {
		if p.UnsplashID == unsplashID {
			return clonePhoto(p), nil
		}
	}
	return nil, apperrors.NotFound("Photo not found")
}

func (r *PhotoRepository) GetPhotosByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[primitive.ObjectID]*models.Photo{}
	for _, id := range ids {
		if p, ok := r.photos[id]; ok {
			out[id] = clonePhoto(p)
		}
	}
	return out, nil
}

func (r *PhotoRepository) AddLike(_ context.Context, id primitive.ObjectID, userID string) error {
	return r.mutate(id, func(p *models.Photo) error {
		return addMember(&p.Likes, userID, "Photo already liked")
	})
}

func (r *PhotoRepository) RemoveLike(_ context.Context, id primitive.ObjectID, userID string) error {
	return r.mutate(id, func(p *models.Photo) error {
		return removeMember(&p.Likes, userID, "Photo not liked")
	})
}

func (r *PhotoRepository) AddSave(_ context.Context, id primitive.ObjectID, userID string) error {
	return r.mutate(id, func(p *models.Photo) error {
		return addMember(&p.Saves, userID, "Photo already saved")
	})
}

func (r *PhotoRepository) RemoveSave(_ context.Context, id primitive.ObjectID, userID string) error {
	return r.mutate(id, func(p *models.Photo) error {
		return removeMember(&p.Saves, userID, "Photo not saved")
	})
}

func (r *PhotoRepository) mutate(id primitive.ObjectID, fn func(*models.Photo) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.photos[id]
	if !ok {
		return apperrors.NotFound("Photo not found")
	}
	return fn(p)
}

func (r *PhotoRepository) ListPopular(ctx context.Context, limit int64) ([]models.Photo, error) {
	photos, _, err := r.SearchPhotos(ctx, "", repositories.SortPopular, 0, limit)
	return photos, err
}

func (r *PhotoRepository) SearchPhotos(_ context.Context, query string, sortBy repositories.PhotoSort, skip, limit int64) ([]models.Photo, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var out []models.Photo
	for _, p := range r.photos {
		if q == "" || photoMatches(p, q) {
			out = append(out, *clonePhoto(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		switch sortBy {
		case repositories.SortPopular:
			if len(out[i].Likes) != len(out[j].Likes) {
				return len(out[i].Likes) > len(out[j].Likes)
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		case repositories.SortOldest:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		default:
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
	})
	return page(out, skip, limit), int64(len(out)), nil
}

func (r *PhotoRepository) CountByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.photos {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}

func photoMatches(p *models.Photo, q string) bool {
	if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Photographer), q) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func clonePhoto(p *models.Photo) *models.Photo {
	c := *p
	c.Likes = append([]string{}, p.Likes...)
	c.Saves = append([]string{}, p.Saves...)
	c.Tags = append([]string{}, p.Tags...)
	return &c
}

func addMember(set *[]string, v, conflictMsg string) error {
	for _, s := range *set {
		if s == v {
			return apperrors.Conflict(conflictMsg)
		}
	}
	*set = append(*set, v)
	return nil
}

func removeMember(set *[]string, v, conflictMsg string) error {
	for i, s := range *set {
		if s == v {
			*set = append((*set)[:i:i], (*set)[i+1:]...)
			return nil
		}
	}
	return apperrors.Conflict(conflictMsg)
}

func page[T any](items []T, skip, limit int64) []T {
	if skip >= int64(len(items)) {
		return []T{}
	}
	end := int64(len(items))
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return items[skip:end]
}
