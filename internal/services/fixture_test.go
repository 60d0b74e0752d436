package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/repositories"
	"github.com/anonto42/fotofolio/backend/internal/repositories/repotest"
	"github.com/anonto42/fotofolio/backend/internal/services"
	"github.com/anonto42/fotofolio/backend/internal/unsplash"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeProvider struct {
	mu      sync.Mutex
	fetches map[string]int
	missing map[string]bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{fetches: map[string]int{}, missing: map[string]bool{}}
}

func (p *fakeProvider) FetchByID(_ context.Context, id string) (*unsplash.Photo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetches[id]++
	if p.missing[id] {
		return nil, apperrors.NotFound("Photo not found on Unsplash")
	}
	ph := &unsplash.Photo{ID: id, Slug: id + "-slug"}
	ph.URLs.Regular = "https://images.example/" + id + ".jpg"
	ph.URLs.Thumb = "https://images.example/" + id + "-thumb.jpg"
	ph.User.Name = "Photographer " + id
	return ph, nil
}

func (p *fakeProvider) Search(_ context.Context, query string, page, perPage int) (*unsplash.SearchResult, error) {
	res := &unsplash.SearchResult{Total: 1, TotalPages: 1}
	ph := unsplash.Photo{ID: query + "1"}
	ph.URLs.Regular = "https://images.example/r.jpg"
	res.Results = append(res.Results, ph)
	return res, nil
}

func (p *fakeProvider) fetchCount(id string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetches[id]
}

type fixture struct {
	db            *gorm.DB
	clock         *repotest.Clock
	users         repositories.UserRepository
	follows       repositories.FollowRepository
	activities    repositories.ActivityRepository
	notifications repositories.NotificationRepository
	photos        *repotest.PhotoRepository
	boards        *repotest.BoardRepository
	comments      *repotest.CommentRepository
	provider      *fakeProvider

	recorder *services.Recorder
	follow   *services.FollowService
	photo    *services.PhotoService
	board    *services.BoardService
	comment  *services.CommentService
	search   *services.SearchService
	stats    *services.StatsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := repotest.NewSQLiteDB(t)
	clock := repotest.NewClock()
	logger := zap.NewNop()

	f := &fixture{
		db:            db,
		clock:         clock,
		users:         repositories.NewPostgresUserRepository(db),
		follows:       repositories.NewPostgresFollowRepository(db),
		activities:    repositories.NewPostgresActivityRepository(db),
		notifications: repositories.NewPostgresNotificationRepository(db),
		photos:        repotest.NewPhotoRepository(clock),
		boards:        repotest.NewBoardRepository(clock),
		comments:      repotest.NewCommentRepository(clock),
		provider:      newFakeProvider(),
	}
	f.recorder = services.NewRecorder(services.RecorderDeps{
		Activities:    f.activities,
		Notifications: f.notifications,
		Users:         f.users,
		Photos:        f.photos,
		Boards:        f.boards,
		Comments:      f.comments,
	}, logger).WithClock(clock.Now)
	f.follow = services.NewFollowService(f.users, f.follows, f.recorder)
	f.photo = services.NewPhotoService(f.photos, f.provider, f.recorder, logger)
	f.board = services.NewBoardService(f.boards, f.photos, f.users, f.photo, f.recorder)
	f.comment = services.NewCommentService(f.comments, f.photos, f.users, f.recorder, logger)
	f.search = services.NewSearchService(f.photos, f.boards, f.users)
	f.stats = services.NewStatsService(f.boards, f.photos, f.follows, f.recorder)
	return f
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	return repotest.SeedUser(t, f.db, username)
}

func (f *fixture) upload(t *testing.T, owner *models.User, title string) *models.Photo {
	t.Helper()
	p, err := f.photo.CreatePhoto(context.Background(), owner.ID, models.CreatePhotoRequest{
		ImageURL: "https://cdn.example/" + title + ".jpg",
		Title:    title,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) activitiesOf(t *testing.T, userID string) []models.ActivityView {
	t.Helper()
	list, err := f.recorder.ListMyActivity(context.Background(), userID)
	require.NoError(t, err)
	return list
}

func (f *fixture) notificationsOf(t *testing.T, userID string) []models.EnrichedNotification {
	t.Helper()
	list, err := f.recorder.ListNotifications(context.Background(), userID)
	require.NoError(t, err)
	return list
}

func kindOf(err error) apperrors.Kind {
	return apperrors.KindOf(err)
}
