package services

import (
	"context"
	"strings"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/repositories"
	"github.com/anonto42/fotofolio/backend/internal/unsplash"
	"go.uber.org/zap"
)

// PhotoService owns photo lookup, import and the like/save sets
type PhotoService struct {
	photos   repositories.PhotoRepository
	provider unsplash.Provider
	recorder *Recorder
	logger   *zap.Logger
}

func NewPhotoService(photos repositories.PhotoRepository, provider unsplash.Provider, recorder *Recorder, logger *zap.Logger) *PhotoService {
	return &PhotoService{photos: photos, provider: provider, recorder: recorder, logger: logger}
}

// ResolvePhoto finds a photo by internal id or unsplash id, importing it from the
// provider on first reference. Later lookups of the same unsplash id stay local.
func (s *PhotoService) ResolvePhoto(ctx context.Context, ref string) (*models.Photo, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, apperrors.InvalidInput("Photo ID is required")
	}

	photo, err := findLocalPhoto(ctx, s.photos, ref)
	if err == nil || apperrors.KindOf(err) != apperrors.KindNotFound {
		return photo, err
	}

	if !unsplash.ValidID(ref) {
		return nil, apperrors.InvalidInput("Invalid Unsplash photo ID format")
	}
	if s.provider == nil {
		return nil, apperrors.NotFound("Photo not found")
	}

	remote, err := s.provider.FetchByID(ctx, ref)
	if err != nil {
		return nil, err
	}
	stored, created, err := s.photos.InsertIfAbsent(ctx, remote.ToModel())
	if err != nil {
		return nil, err
	}
	if created {
		s.logger.Info("imported unsplash photo", zap.String("unsplashId", ref), zap.String("photo", stored.ID.Hex()))
	}
	return stored, nil
}

func (s *PhotoService) GetPhoto(ctx context.Context, ref string) (*models.PhotoView, error) {
	photo, err := s.ResolvePhoto(ctx, ref)
	if err != nil {
		return nil, err
	}
	v := photo.View()
	return &v, nil
}

// CreatePhoto records a user upload whose image is already hosted at imageUrl
func (s *PhotoService) CreatePhoto(ctx context.Context, ownerID string, req models.CreatePhotoRequest) (*models.Photo, error) {
	imageURL := strings.TrimSpace(req.ImageURL)
	if imageURL == "" {
		return nil, apperrors.InvalidInput("Image URL is required")
	}
	title, err := optionalText(req.Title, "Title", 100)
	if err != nil {
		return nil, err
	}
	description, err := optionalText(req.Description, "Description", 500)
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(req.Tags))
	for _, t := range req.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	photo := &models.Photo{
		SourceType:  models.SourceUserUpload,
		UserID:      ownerID,
		ImageURL:    imageURL,
		Title:       title,
		Description: description,
		Tags:        tags,
	}
	if err := s.photos.CreatePhoto(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// LikePhoto adds the user to the like set. Liking an unseen unsplash photo imports it.
func (s *PhotoService) LikePhoto(ctx context.Context, userID, ref string) (*models.PhotoView, error) {
	photo, err := s.ResolvePhoto(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.photos.AddLike(ctx, photo.ID, userID); err != nil {
		return nil, err
	}

	photoID := photo.ID.Hex()
	s.recorder.trackActivity(ctx, userID, models.ActivityLike, models.ActivityRefs{PhotoID: photoID})
	s.recorder.trackNotification(ctx, photo.UserID, userID, models.NotificationLike, models.NotificationRefs{PhotoID: photoID})

	return s.reload(ctx, photo)
}

func (s *PhotoService) UnlikePhoto(ctx context.Context, userID, ref string) (*models.PhotoView, error) {
	photo, err := findLocalPhoto(ctx, s.photos, ref)
	if err != nil {
		return nil, err
	}
	if err := s.photos.RemoveLike(ctx, photo.ID, userID); err != nil {
		return nil, err
	}
	return s.reload(ctx, photo)
}

// SavePhoto adds the user to the save set
func (s *PhotoService) SavePhoto(ctx context.Context, userID, ref string) (*models.PhotoView, error) {
	photo, err := s.ResolvePhoto(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.photos.AddSave(ctx, photo.ID, userID); err != nil {
		return nil, err
	}

	photoID := photo.ID.Hex()
	s.recorder.trackActivity(ctx, userID, models.ActivitySave, models.ActivityRefs{PhotoID: photoID})
	s.recorder.trackNotification(ctx, photo.UserID, userID, models.NotificationSave, models.NotificationRefs{PhotoID: photoID})

	return s.reload(ctx, photo)
}

func (s *PhotoService) UnsavePhoto(ctx context.Context, userID, ref string) (*models.PhotoView, error) {
	photo, err := findLocalPhoto(ctx, s.photos, ref)
	if err != nil {
		return nil, err
	}
	if err := s.photos.RemoveSave(ctx, photo.ID, userID); err != nil {
		return nil, err
	}
	return s.reload(ctx, photo)
}

func (s *PhotoService) reload(ctx context.Context, photo *models.Photo) (*models.PhotoView, error) {
	fresh, err := s.photos.GetPhotoByID(ctx, photo.ID)
	if err != nil {
		return nil, err
	}
	v := fresh.View()
	return &v, nil
}

func (s *PhotoService) ListPopular(ctx context.Context, limit int) ([]models.PhotoView, error) {
	_, limit, _ = paginate(1, limit, 10, 50)
	photos, err := s.photos.ListPopular(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	views := make([]models.PhotoView, 0, len(photos))
	for i := range photos {
		views = append(views, photos[i].View())
	}
	return views, nil
}

// ProviderSearchResult is a page of provider photos mapped to the local shape, not persisted
type ProviderSearchResult struct {
	Photos     []*models.Photo `json:"photos"`
	Total      int             `json:"total"`
	TotalPages int             `json:"totalPages"`
}

func (s *PhotoService) SearchProvider(ctx context.Context, query string, page, perPage int) (*ProviderSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.InvalidInput("Please provide a search query")
	}
	if s.provider == nil {
		return nil, apperrors.UpstreamFailure(nil, "Photo provider is not configured")
	}
	page, perPage, _ = paginate(page, perPage, 20, 30)

	res, err := s.provider.Search(ctx, query, page, perPage)
	if err != nil {
		return nil, err
	}
	out := &ProviderSearchResult{Photos: make([]*models.Photo, 0, len(res.Results)), Total: res.Total, TotalPages: res.TotalPages}
	for i := range res.Results {
		p := res.Results[i].ToModel()
		p.Normalize()
		out.Photos = append(out.Photos, p)
	}
	return out, nil
}
