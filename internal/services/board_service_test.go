package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newBoard(t *testing.T, f *fixture, owner *models.User, title string, private bool) *models.Board {
	t.Helper()
	b, err := f.board.CreateBoard(context.Background(), owner.ID, models.CreateBoardRequest{Title: title, IsPrivate: private})
	require.NoError(t, err)
	return b
}

func TestBoardCoverFollowsPhotoList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	p1, p2 := f.upload(t, alice, "p1"), f.upload(t, alice, "p2")
	board := newBoard(t, f, alice, "Travel", false)
	assert.Nil(t, board.CoverPhoto)

	b, err := f.board.AddPhotoToBoard(ctx, alice.ID, board.ID.Hex(), p1.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, b.CoverPhoto)
	assert.Equal(t, p1.ID, *b.CoverPhoto)

	b, err = f.board.AddPhotoToBoard(ctx, alice.ID, board.ID.Hex(), p2.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{p1.ID, p2.ID}, b.Photos)
	assert.Equal(t, p1.ID, *b.CoverPhoto)

	b, err = f.board.RemovePhotoFromBoard(ctx, alice.ID, board.ID.Hex(), p1.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{p2.ID}, b.Photos)
	require.NotNil(t, b.CoverPhoto)
	assert.Equal(t, p2.ID, *b.CoverPhoto)

	b, err = f.board.RemovePhotoFromBoard(ctx, alice.ID, board.ID.Hex(), p2.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, b.Photos)
	assert.Nil(t, b.CoverPhoto)
}

func TestAddPhotoTwiceIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	p := f.upload(t, alice, "p")
	board := newBoard(t, f, alice, "Travel", false)

	_, err := f.board.AddPhotoToBoard(ctx, alice.ID, board.ID.Hex(), p.ID.Hex())
	require.NoError(t, err)
	_, err = f.board.AddPhotoToBoard(ctx, alice.ID, board.ID.Hex(), p.ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	stored, err := f.boards.GetBoardByID(ctx, board.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Photos, 1)
}

func TestAddExternalPhotoToBoardImportsIt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	board := newBoard(t, f, alice, "Travel", false)

	b, err := f.board.AddPhotoToBoard(ctx, alice.ID, board.ID.Hex(), "mountain9")
	require.NoError(t, err)
	require.Len(t, b.Photos, 1)

	local, err := f.photos.GetPhotoByUnsplashID(ctx, "mountain9")
	require.NoError(t, err)
	assert.Equal(t, local.ID, b.Photos[0])
	assert.Equal(t, 1, f.provider.fetchCount("mountain9"))
}

func TestOnlyOwnerMayModifyBoard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	p := f.upload(t, alice, "p")
	board := newBoard(t, f, alice, "Travel", false)

	_, err := f.board.AddPhotoToBoard(ctx, bob.ID, board.ID.Hex(), p.ID.Hex())
	assert.Equal(t, apperrors.KindForbidden, kindOf(err))

	title := "Mine now"
	_, err = f.board.UpdateBoard(ctx, bob.ID, board.ID.Hex(), models.UpdateBoardRequest{Title: &title})
	assert.Equal(t, apperrors.KindForbidden, kindOf(err))

	err = f.board.DeleteBoard(ctx, bob.ID, board.ID.Hex())
	assert.Equal(t, apperrors.KindForbidden, kindOf(err))

	stored, err := f.boards.GetBoardByID(ctx, board.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Photos)
	assert.Equal(t, "Travel", stored.Title)
}

func TestPrivateBoardVisibleToOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	board := newBoard(t, f, alice, "Secret", true)

	_, err := f.board.GetBoard(ctx, board.ID.Hex(), bob.ID)
	assert.Equal(t, apperrors.KindForbidden, kindOf(err))

	_, err = f.board.GetBoard(ctx, board.ID.Hex(), "")
	assert.Equal(t, apperrors.KindForbidden, kindOf(err))

	detail, err := f.board.GetBoard(ctx, board.ID.Hex(), alice.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Owner)
	assert.Equal(t, "alice", detail.Owner.Username)
}

func TestGetBoardResolvesPhotosAndCover(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	p1, p2 := f.upload(t, alice, "p1"), f.upload(t, alice, "p2")
	board := newBoard(t, f, alice, "Travel", false)
	for _, p := range []*models.Photo{p1, p2} {
		_, err := f.board.AddPhotoToBoard(ctx, alice.ID, board.ID.Hex(), p.ID.Hex())
		require.NoError(t, err)
	}

	detail, err := f.board.GetBoard(ctx, board.ID.Hex(), "")
	require.NoError(t, err)
	require.Len(t, detail.PhotoItems, 2)
	assert.Equal(t, p1.ID.Hex(), detail.PhotoItems[0].ID)
	assert.Equal(t, p2.ID.Hex(), detail.PhotoItems[1].ID)
	assert.Equal(t, p1.ThumbURL, detail.CoverThumb)
}

func TestGetBoardWithBadIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.board.GetBoard(ctx, "not-an-id", "")
	assert.Equal(t, apperrors.KindInvalidInput, kindOf(err))

	_, err = f.board.GetBoard(ctx, primitive.NewObjectID().Hex(), "")
	assert.Equal(t, apperrors.KindNotFound, kindOf(err))
}

func TestCreateBoardValidatesTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")

	_, err := f.board.CreateBoard(ctx, alice.ID, models.CreateBoardRequest{Title: "   "})
	assert.Equal(t, apperrors.KindInvalidInput, kindOf(err))

	_, err = f.board.CreateBoard(ctx, alice.ID, models.CreateBoardRequest{Title: strings.Repeat("x", 51)})
	assert.Equal(t, apperrors.KindInvalidInput, kindOf(err))

	_, err = f.board.CreateBoard(ctx, alice.ID, models.CreateBoardRequest{
		Title:       "ok",
		Description: strings.Repeat("d", 201),
	})
	assert.Equal(t, apperrors.KindInvalidInput, kindOf(err))

	b, err := f.board.CreateBoard(ctx, alice.ID, models.CreateBoardRequest{Title: "  Travel  "})
	require.NoError(t, err)
	assert.Equal(t, "Travel", b.Title)
}

func TestBoardActivities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	p := f.upload(t, alice, "p")
	board := newBoard(t, f, alice, "Travel", false)
	_, err := f.board.AddPhotoToBoard(ctx, alice.ID, board.ID.Hex(), p.ID.Hex())
	require.NoError(t, err)

	acts := f.activitiesOf(t, alice.ID)
	require.Len(t, acts, 2)
	assert.Equal(t, models.ActivityAddPhoto, acts[0].Type)
	require.NotNil(t, acts[0].Board)
	assert.Equal(t, "Travel", acts[0].Board.Title)
	require.NotNil(t, acts[0].Photo)
	assert.Equal(t, p.ID.Hex(), acts[0].Photo.ID)
	assert.Equal(t, models.ActivityCreateBoard, acts[1].Type)
}

func TestUpdateAndDeleteBoard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	board := newBoard(t, f, alice, "Travel", false)

	title, private := "Trips", true
	updated, err := f.board.UpdateBoard(ctx, alice.ID, board.ID.Hex(), models.UpdateBoardRequest{
		Title:     &title,
		IsPrivate: &private,
	})
	require.NoError(t, err)
	assert.Equal(t, "Trips", updated.Title)
	assert.True(t, updated.IsPrivate)

	empty := " "
	_, err = f.board.UpdateBoard(ctx, alice.ID, board.ID.Hex(), models.UpdateBoardRequest{Title: &empty})
	assert.Equal(t, apperrors.KindInvalidInput, kindOf(err))

	require.NoError(t, f.board.DeleteBoard(ctx, alice.ID, board.ID.Hex()))
	_, err = f.boards.GetBoardByID(ctx, board.ID)
	assert.Equal(t, apperrors.KindNotFound, kindOf(err))
}

func TestListUserBoardsIncludesCoverThumb(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	p := f.upload(t, alice, "p")
	first := newBoard(t, f, alice, "First", false)
	newBoard(t, f, alice, "Second", true)
	_, err := f.board.AddPhotoToBoard(ctx, alice.ID, first.ID.Hex(), p.ID.Hex())
	require.NoError(t, err)

	list, err := f.board.ListUserBoards(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// adding a photo bumps updatedAt
	assert.Equal(t, "First", list[0].Title)
	assert.Equal(t, p.ThumbURL, list[0].CoverThumb)
	assert.Empty(t, list[1].CoverThumb)
}
