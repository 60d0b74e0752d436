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

func TestCommentAndReplyNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	photo := f.upload(t, alice, "harbor")

	c, err := f.comment.AddComment(ctx, bob.ID, photo.ID.Hex(), "nice shot")
	require.NoError(t, err)
	assert.False(t, c.IsReply)

	notes := f.notificationsOf(t, alice.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationComment, notes[0].Type)
	require.NotNil(t, notes[0].Comment)
	assert.Equal(t, "nice shot", notes[0].Comment.Content)

	r, err := f.comment.AddReply(ctx, alice.ID, c.ID.Hex(), "thanks")
	require.NoError(t, err)
	assert.True(t, r.IsReply)
	require.NotNil(t, r.ParentComment)
	assert.Equal(t, c.ID, *r.ParentComment)
	assert.Equal(t, photo.ID, r.PhotoID)

	parent, err := f.comments.GetCommentByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{r.ID}, parent.Replies)

	notes = f.notificationsOf(t, bob.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationCommentReply, notes[0].Type)
	require.NotNil(t, notes[0].Comment)
	require.NotNil(t, notes[0].Reply)
	assert.Equal(t, "nice shot", notes[0].Comment.Content)
	assert.Equal(t, "thanks", notes[0].Reply.Content)

	acts := f.activitiesOf(t, alice.ID)
	require.Len(t, acts, 1)
	assert.Equal(t, models.ActivityCommentReply, acts[0].Type)
	require.NotNil(t, acts[0].CommentID)
	assert.Equal(t, c.ID.Hex(), *acts[0].CommentID)
	require.NotNil(t, acts[0].ReplyID)
	assert.Equal(t, r.ID.Hex(), *acts[0].ReplyID)
	require.NotNil(t, acts[0].PhotoID)
	assert.Equal(t, photo.ID.Hex(), *acts[0].PhotoID)
}

func TestCommentOnOwnPhotoDoesNotNotify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	photo := f.upload(t, alice, "harbor")

	c, err := f.comment.AddComment(ctx, alice.ID, photo.ID.Hex(), "my favourite")
	require.NoError(t, err)
	_, err = f.comment.AddReply(ctx, alice.ID, c.ID.Hex(), "still is")
	require.NoError(t, err)

	assert.Empty(t, f.notificationsOf(t, alice.ID))
	assert.Len(t, f.activitiesOf(t, alice.ID), 2)
}

func TestDeletingParentRemovesReplies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	photo := f.upload(t, alice, "harbor")

	c, err := f.comment.AddComment(ctx, bob.ID, photo.ID.Hex(), "nice shot")
	require.NoError(t, err)
	r1, err := f.comment.AddReply(ctx, alice.ID, c.ID.Hex(), "thanks")
	require.NoError(t, err)
	r2, err := f.comment.AddReply(ctx, bob.ID, c.ID.Hex(), "welcome")
	require.NoError(t, err)
	other, err := f.comment.AddComment(ctx, alice.ID, photo.ID.Hex(), "unrelated")
	require.NoError(t, err)

	require.NoError(t, f.comment.DeleteComment(ctx, bob.ID, c.ID.Hex()))

	for _, id := range []primitive.ObjectID{c.ID, r1.ID, r2.ID} {
		_, err := f.comments.GetCommentByID(ctx, id)
		assert.Equal(t, apperrors.KindNotFound, kindOf(err))
	}
	_, err = f.comments.GetCommentByID(ctx, other.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, f.comments.Len())
}

func TestDeletingReplyDetachesItFromParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	photo := f.upload(t, alice, "harbor")
	c, err := f.comment.AddComment(ctx, bob.ID, photo.ID.Hex(), "nice shot")
	require.NoError(t, err)
	r, err := f.comment.AddReply(ctx, alice.ID, c.ID.Hex(), "thanks")
	require.NoError(t, err)

	require.NoError(t, f.comment.DeleteComment(ctx, alice.ID, r.ID.Hex()))

	parent, err := f.comments.GetCommentByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, parent.Replies)
	_, err = f.comments.GetCommentByID(ctx, r.ID)
	assert.Equal(t, apperrors.KindNotFound, kindOf(err))
}

func TestReplyToReplyIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	photo := f.upload(t, alice, "harbor")
	c, err := f.comment.AddComment(ctx, bob.ID, photo.ID.Hex(), "nice shot")
	require.NoError(t, err)
	r, err := f.comment.AddReply(ctx, alice.ID, c.ID.Hex(), "thanks")
	require.NoError(t, err)

	_, err = f.comment.AddReply(ctx, bob.ID, r.ID.Hex(), "nested")
	assert.Equal(t, apperrors.KindInvalidInput, kindOf(err))
	assert.Equal(t, 2, f.comments.Len())
}

func TestOnlyAuthorMayDeleteComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	photo := f.upload(t, alice, "harbor")
	c, err := f.comment.AddComment(ctx, bob.ID, photo.ID.Hex(), "nice shot")
	require.NoError(t, err)

	// owning the photo is not enough
	err = f.comment.DeleteComment(ctx, alice.ID, c.ID.Hex())
	assert.Equal(t, apperrors.KindForbidden, kindOf(err))
	assert.Equal(t, 1, f.comments.Len())
}

func TestCommentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	photo := f.upload(t, alice, "harbor")

	_, err := f.comment.AddComment(ctx, alice.ID, photo.ID.Hex(), "   ")
	assert.Equal(t, apperrors.KindInvalidInput, kindOf(err))

	_, err = f.comment.AddComment(ctx, alice.ID, photo.ID.Hex(), strings.Repeat("a", 501))
	assert.Equal(t, apperrors.KindInvalidInput, kindOf(err))

	_, err = f.comment.AddComment(ctx, alice.ID, primitive.NewObjectID().Hex(), "hello")
	assert.Equal(t, apperrors.KindNotFound, kindOf(err))

	_, err = f.comment.AddReply(ctx, alice.ID, "bogus", "hello")
	assert.Equal(t, apperrors.KindInvalidInput, kindOf(err))

	assert.Zero(t, f.comments.Len())
}

func TestCommentLikes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	photo := f.upload(t, alice, "harbor")
	c, err := f.comment.AddComment(ctx, bob.ID, photo.ID.Hex(), "nice shot")
	require.NoError(t, err)

	liked, err := f.comment.LikeComment(ctx, alice.ID, c.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, liked.Likes)

	_, err = f.comment.LikeComment(ctx, alice.ID, c.ID.Hex())
	assert.Equal(t, apperrors.KindConflict, kindOf(err))

	notes := f.notificationsOf(t, bob.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationCommentLike, notes[0].Type)

	unliked, err := f.comment.UnlikeComment(ctx, alice.ID, c.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, unliked.Likes)

	_, err = f.comment.UnlikeComment(ctx, alice.ID, c.ID.Hex())
	assert.Equal(t, apperrors.KindConflict, kindOf(err))
	assert.Len(t, f.notificationsOf(t, bob.ID), 1)
}

func TestListPhotoCommentsNestsReplies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	photo := f.upload(t, alice, "harbor")

	older, err := f.comment.AddComment(ctx, bob.ID, photo.ID.Hex(), "first")
	require.NoError(t, err)
	newer, err := f.comment.AddComment(ctx, alice.ID, photo.ID.Hex(), "second")
	require.NoError(t, err)
	_, err = f.comment.AddReply(ctx, alice.ID, older.ID.Hex(), "reply one")
	require.NoError(t, err)
	_, err = f.comment.AddReply(ctx, bob.ID, older.ID.Hex(), "reply two")
	require.NoError(t, err)

	list, err := f.comment.ListPhotoComments(ctx, photo.ID.Hex())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Empty(t, list[0].ReplyItems)

	assert.Equal(t, older.ID, list[1].ID)
	require.NotNil(t, list[1].Author)
	assert.Equal(t, "bob", list[1].Author.Username)
	require.Len(t, list[1].ReplyItems, 2)
	assert.Equal(t, "reply one", list[1].ReplyItems[0].Content)
	assert.Equal(t, "reply two", list[1].ReplyItems[1].Content)
	assert.Equal(t, "alice", list[1].ReplyItems[0].Author.Username)
}
