package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeThenUnlikeRestoresLikes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	photo := f.upload(t, alice, "sunset")
	_, err := f.photo.LikePhoto(ctx, alice.ID, photo.ID.Hex())
	require.NoError(t, err)

	before, err := f.photos.GetPhotoByID(ctx, photo.ID)
	require.NoError(t, err)

	view, err := f.photo.LikePhoto(ctx, bob.ID, photo.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 2, view.LikeCount)

	view, err = f.photo.UnlikePhoto(ctx, bob.ID, photo.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, before.Likes, view.Likes)
}

func TestLikeTwiceIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	photo := f.upload(t, alice, "sunset")

	_, err := f.photo.LikePhoto(ctx, bob.ID, photo.ID.Hex())
	require.NoError(t, err)
	_, err = f.photo.LikePhoto(ctx, bob.ID, photo.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, _ := f.photos.GetPhotoByID(ctx, photo.ID)
	assert.Len(t, stored.Likes, 1)
	assert.Len(t, f.notificationsOf(t, alice.ID), 1)
}

func TestUnlikeWithoutLikeIsConflict(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	photo := f.upload(t, alice, "sunset")

	_, err := f.photo.UnlikePhoto(context.Background(), alice.ID, photo.ID.Hex())
	assert.Equal(t, apperrors.KindConflict, kindOf(err))
}

func TestUnlikeUnknownPhotoIsNotFound(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	_, err := f.photo.UnlikePhoto(context.Background(), alice.ID, "never-seen")
	assert.Equal(t, apperrors.KindNotFound, kindOf(err))
	assert.Zero(t, f.provider.fetchCount("never-seen"))
}

func TestLikeNotifiesOwnerButNotSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	photo := f.upload(t, alice, "sunset")

	_, err := f.photo.LikePhoto(ctx, alice.ID, photo.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, f.notificationsOf(t, alice.ID))

	_, err = f.photo.LikePhoto(ctx, bob.ID, photo.ID.Hex())
	require.NoError(t, err)
	notes := f.notificationsOf(t, alice.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationLike, notes[0].Type)
	require.NotNil(t, notes[0].Photo)
	assert.Equal(t, photo.ThumbURL, notes[0].Photo.ThumbURL)

	acts := f.activitiesOf(t, bob.ID)
	require.Len(t, acts, 1)
	assert.Equal(t, models.ActivityLike, acts[0].Type)
}

func TestResolveExternalPhotoFillsCacheOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.photo.ResolvePhoto(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, 1, f.provider.fetchCount("abc123"))
	assert.Equal(t, 1, f.photos.Inserts)
	assert.Equal(t, models.SourceUnsplash, first.SourceType)
	assert.Equal(t, "abc123", first.UnsplashID)

	second, err := f.photo.ResolvePhoto(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, 1, f.provider.fetchCount("abc123"))
	assert.Equal(t, 1, f.photos.Inserts)
	assert.Equal(t, first.ID, second.ID)

	byID, err := f.photo.ResolvePhoto(ctx, first.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, first.ID, byID.ID)
	assert.Equal(t, 1, f.provider.fetchCount("abc123"))
}

func TestConcurrentImportsKeepOneLocalCopy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := f.photo.ResolvePhoto(ctx, "race1")
			if assert.NoError(t, err) {
				ids[i] = p.ID.Hex()
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 1, f.photos.Inserts)
}

func TestResolveRejectsUnsafeExternalIDs(t *testing.T) {
	f := newFixture(t)

	_, err := f.photo.ResolvePhoto(context.Background(), "../etc/passwd")
	assert.Equal(t, apperrors.KindInvalidInput, kindOf(err))
	assert.Zero(t, f.provider.fetchCount("../etc/passwd"))
}

func TestResolveUnknownExternalPhotoIsNotFound(t *testing.T) {
	f := newFixture(t)
	f.provider.missing["gone"] = true

	_, err := f.photo.ResolvePhoto(context.Background(), "gone")
	assert.Equal(t, apperrors.KindNotFound, kindOf(err))
	assert.Zero(t, f.photos.Inserts)
}

func TestLikingExternalPhotoImportsIt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := f.user(t, "bob")

	view, err := f.photo.LikePhoto(ctx, bob.ID, "xyz789")
	require.NoError(t, err)
	assert.Equal(t, 1, view.LikeCount)
	assert.Equal(t, "xyz789", view.UnsplashID)
	// imported photos have no owner to notify
	assert.Empty(t, f.notificationsOf(t, bob.ID))
}

func TestSaveAndUnsave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	photo := f.upload(t, alice, "sunset")

	view, err := f.photo.SavePhoto(ctx, bob.ID, photo.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, view.SaveCount)

	_, err = f.photo.SavePhoto(ctx, bob.ID, photo.ID.Hex())
	assert.Equal(t, apperrors.KindConflict, kindOf(err))

	view, err = f.photo.UnsavePhoto(ctx, bob.ID, photo.ID.Hex())
	require.NoError(t, err)
	assert.Zero(t, view.SaveCount)

	notes := f.notificationsOf(t, alice.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationSave, notes[0].Type)
}

func TestCreatePhotoDefaultsThumbToImage(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	p := f.upload(t, alice, "harbor")
	assert.Equal(t, models.SourceUserUpload, p.SourceType)
	assert.Equal(t, p.ImageURL, p.ThumbURL)
	assert.Equal(t, alice.ID, p.UserID)
}

func TestListPopularOrdersByLikes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	quiet := f.upload(t, alice, "quiet")
	loved := f.upload(t, alice, "loved")
	_, err := f.photo.LikePhoto(ctx, alice.ID, loved.ID.Hex())
	require.NoError(t, err)
	_, err = f.photo.LikePhoto(ctx, bob.ID, loved.ID.Hex())
	require.NoError(t, err)

	popular, err := f.photo.ListPopular(ctx, 10)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, loved.ID, popular[0].ID)
	assert.Equal(t, quiet.ID, popular[1].ID)
}

func TestSearchProviderMapsResults(t *testing.T) {
	f := newFixture(t)

	res, err := f.photo.SearchProvider(context.Background(), "lake", 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Photos, 1)
	assert.Equal(t, "lake1", res.Photos[0].UnsplashID)
	assert.Zero(t, f.photos.Inserts)

	_, err = f.photo.SearchProvider(context.Background(), "  ", 1, 10)
	assert.Equal(t, apperrors.KindInvalidInput, kindOf(err))
}
