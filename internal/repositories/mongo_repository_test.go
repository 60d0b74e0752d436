package repositories_test

import (
	"context"
	"testing"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func updated(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

func found(ns string, docs ...bson.D) bson.D {
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, docs...)
}

// sentCommand pops the next command the client sent and checks its name
func sentCommand(mt *mtest.T, name string) bson.Raw {
	mt.Helper()
	evt := mt.GetStartedEvent()
	require.NotNil(mt, evt, "no %s command sent", name)
	require.Equal(mt, name, evt.CommandName)
	return evt.Command
}

func lookup(mt *mtest.T, doc bson.Raw, key ...string) bson.RawValue {
	mt.Helper()
	v, err := doc.LookupErr(key...)
	require.NoError(mt, err, "missing %v in %s", key, doc)
	return v
}

func TestPhotoSetMembership(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := primitive.NewObjectID()
	ns := "fotofolio.photos"

	mt.Run("added", func(mt *mtest.T) {
		repo := repositories.NewMongoPhotoRepository(mt.DB)
		mt.AddMockResponses(updated(1))
		assert.NoError(mt, repo.AddLike(context.Background(), id, "u1"))
	})

	mt.Run("already a member", func(mt *mtest.T) {
		repo := repositories.NewMongoPhotoRepository(mt.DB)
		mt.AddMockResponses(updated(0), found(ns, bson.D{{Key: "_id", Value: id}}))
		err := repo.AddLike(context.Background(), id, "u1")
		assert.ErrorIs(mt, err, apperrors.ErrConflict)
	})

	mt.Run("missing photo", func(mt *mtest.T) {
		repo := repositories.NewMongoPhotoRepository(mt.DB)
		mt.AddMockResponses(updated(0), found(ns))
		err := repo.RemoveSave(context.Background(), id, "u1")
		assert.ErrorIs(mt, err, apperrors.ErrNotFound)
	})

	mt.Run("not a member", func(mt *mtest.T) {
		repo := repositories.NewMongoPhotoRepository(mt.DB)
		mt.AddMockResponses(updated(0), found(ns, bson.D{{Key: "_id", Value: id}}))
		err := repo.RemoveLike(context.Background(), id, "u1")
		assert.ErrorIs(mt, err, apperrors.ErrConflict)
	})
}

func TestPhotoInsertIfAbsent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "fotofolio.photos"

	mt.Run("first import", func(mt *mtest.T) {
		repo := repositories.NewMongoPhotoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: primitive.NewObjectID()}}}},
		))
		mt.ClearEvents()
		p, created, err := repo.InsertIfAbsent(context.Background(), &models.Photo{SourceType: models.SourceUnsplash, UnsplashID: "abc"})
		require.NoError(mt, err)
		assert.True(mt, created)
		assert.False(mt, p.ID.IsZero())
		assert.NotNil(mt, p.Likes)

		cmd := sentCommand(mt, "update")
		assert.Equal(mt, "abc", lookup(mt, cmd, "updates", "0", "q", "unsplashId").StringValue())
		assert.True(mt, lookup(mt, cmd, "updates", "0", "upsert").Boolean())
		assert.Equal(mt, "abc", lookup(mt, cmd, "updates", "0", "u", "$setOnInsert", "unsplashId").StringValue())
		assert.Equal(mt, p.ID, lookup(mt, cmd, "updates", "0", "u", "$setOnInsert", "_id").ObjectID())
		assert.Equal(mt, bson.TypeArray, lookup(mt, cmd, "updates", "0", "u", "$setOnInsert", "likes").Type)
		_, err = cmd.LookupErr("updates", "0", "u", "$set")
		assert.Error(mt, err, "an existing import must never be overwritten")
	})

	mt.Run("already imported", func(mt *mtest.T) {
		repo := repositories.NewMongoPhotoRepository(mt.DB)
		existing := primitive.NewObjectID()
		mt.AddMockResponses(updated(1), found(ns, bson.D{
			{Key: "_id", Value: existing},
			{Key: "unsplashId", Value: "abc"},
		}))
		p, created, err := repo.InsertIfAbsent(context.Background(), &models.Photo{SourceType: models.SourceUnsplash, UnsplashID: "abc"})
		require.NoError(mt, err)
		assert.False(mt, created)
		assert.Equal(mt, existing, p.ID)
	})

	mt.Run("lost the race", func(mt *mtest.T) {
		repo := repositories.NewMongoPhotoRepository(mt.DB)
		winner := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key error"}),
			found(ns, bson.D{{Key: "_id", Value: winner}, {Key: "unsplashId", Value: "abc"}}),
		)
		mt.ClearEvents()
		p, created, err := repo.InsertIfAbsent(context.Background(), &models.Photo{SourceType: models.SourceUnsplash, UnsplashID: "abc"})
		require.NoError(mt, err)
		assert.False(mt, created)
		assert.Equal(mt, winner, p.ID)

		sentCommand(mt, "update")
		cmd := sentCommand(mt, "find")
		assert.Equal(mt, "abc", lookup(mt, cmd, "filter", "unsplashId").StringValue())
	})

	mt.Run("requires unsplash id", func(mt *mtest.T) {
		repo := repositories.NewMongoPhotoRepository(mt.DB)
		_, _, err := repo.InsertIfAbsent(context.Background(), &models.Photo{})
		assert.ErrorIs(mt, err, apperrors.ErrInvalidInput)
	})
}

func TestPhotoLookupNotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("by id", func(mt *mtest.T) {
		repo := repositories.NewMongoPhotoRepository(mt.DB)
		mt.AddMockResponses(found("fotofolio.photos"))
		_, err := repo.GetPhotoByID(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, apperrors.ErrNotFound)
	})
}

func TestBoardAddPhoto(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	boardID, photoID := primitive.NewObjectID(), primitive.NewObjectID()
	ns := "fotofolio.boards"

	mt.Run("sets cover", func(mt *mtest.T) {
		repo := repositories.NewMongoBoardRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: boardID},
			{Key: "title", Value: "Travel"},
			{Key: "photos", Value: bson.A{photoID}},
			{Key: "coverPhoto", Value: photoID},
		}}))
		mt.ClearEvents()
		b, err := repo.AddPhoto(context.Background(), boardID, photoID)
		require.NoError(mt, err)
		assert.Equal(mt, []primitive.ObjectID{photoID}, b.Photos)
		require.NotNil(mt, b.CoverPhoto)
		assert.Equal(mt, photoID, *b.CoverPhoto)

		cmd := sentCommand(mt, "findAndModify")
		assert.Equal(mt, boardID, lookup(mt, cmd, "query", "_id").ObjectID())
		assert.Equal(mt, photoID, lookup(mt, cmd, "query", "photos", "$ne").ObjectID())
		assert.True(mt, lookup(mt, cmd, "new").Boolean())

		set := lookup(mt, cmd, "update", "0", "$set").Document()
		assert.Equal(mt, "$photos", lookup(mt, set, "photos", "$concatArrays", "0", "$ifNull", "0").StringValue())
		assert.Equal(mt, photoID, lookup(mt, set, "photos", "$concatArrays", "1", "0").ObjectID())
		assert.Equal(mt, "$coverPhoto", lookup(mt, set, "coverPhoto", "$ifNull", "0").StringValue())
		assert.Equal(mt, photoID, lookup(mt, set, "coverPhoto", "$ifNull", "1").ObjectID())
	})

	mt.Run("duplicate photo", func(mt *mtest.T) {
		repo := repositories.NewMongoBoardRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			found(ns, bson.D{{Key: "_id", Value: boardID}}),
		)
		_, err := repo.AddPhoto(context.Background(), boardID, photoID)
		assert.ErrorIs(mt, err, apperrors.ErrConflict)
	})

	mt.Run("missing board", func(mt *mtest.T) {
		repo := repositories.NewMongoBoardRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			found(ns),
		)
		_, err := repo.AddPhoto(context.Background(), boardID, photoID)
		assert.ErrorIs(mt, err, apperrors.ErrNotFound)
	})
}

func TestBoardRemovePhotoClearsCover(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	boardID := primitive.NewObjectID()

	mt.Run("last photo", func(mt *mtest.T) {
		repo := repositories.NewMongoBoardRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: boardID},
			{Key: "photos", Value: bson.A{}},
			{Key: "coverPhoto", Value: nil},
		}}))
		photoID := primitive.NewObjectID()
		mt.ClearEvents()
		b, err := repo.RemovePhoto(context.Background(), boardID, photoID)
		require.NoError(mt, err)
		assert.Empty(mt, b.Photos)
		assert.Nil(mt, b.CoverPhoto)

		cmd := sentCommand(mt, "findAndModify")
		assert.Equal(mt, boardID, lookup(mt, cmd, "query", "_id").ObjectID())

		// stage 0 filters the id out of photos
		filter := lookup(mt, cmd, "update", "0", "$set", "photos", "$filter").Document()
		assert.Equal(mt, "$photos", lookup(mt, filter, "input", "$ifNull", "0").StringValue())
		assert.Equal(mt, "$$p", lookup(mt, filter, "cond", "$ne", "0").StringValue())
		assert.Equal(mt, photoID, lookup(mt, filter, "cond", "$ne", "1").ObjectID())
		_, err = cmd.LookupErr("update", "0", "$set", "coverPhoto")
		assert.Error(mt, err)

		// stage 1 reads the filtered list, so a removed cover falls to the new first photo or null
		cond := lookup(mt, cmd, "update", "1", "$set", "coverPhoto", "$cond")
		condDoc := cond.Array()
		assert.Equal(mt, "$coverPhoto", lookup(mt, condDoc, "0", "$eq", "0").StringValue())
		assert.Equal(mt, photoID, lookup(mt, condDoc, "0", "$eq", "1").ObjectID())
		assert.Equal(mt, "$photos", lookup(mt, condDoc, "1", "$ifNull", "0", "$arrayElemAt", "0").StringValue())
		assert.EqualValues(mt, 0, lookup(mt, condDoc, "1", "$ifNull", "0", "$arrayElemAt", "1").AsInt64())
		assert.Equal(mt, bson.TypeNull, lookup(mt, condDoc, "1", "$ifNull", "1").Type)
		assert.Equal(mt, "$coverPhoto", lookup(mt, condDoc, "2").StringValue())
	})
}

func TestCommentReplies(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	parent, reply := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("attach to missing parent", func(mt *mtest.T) {
		repo := repositories.NewMongoCommentRepository(mt.DB)
		mt.AddMockResponses(updated(0))
		err := repo.AttachReply(context.Background(), parent, reply)
		assert.ErrorIs(mt, err, apperrors.ErrNotFound)
	})

	mt.Run("cascade", func(mt *mtest.T) {
		repo := repositories.NewMongoCommentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}))
		n, err := repo.DeleteReplies(context.Background(), parent, nil)
		require.NoError(mt, err)
		assert.EqualValues(mt, 2, n)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := repositories.NewMongoCommentRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		err := repo.DeleteComment(context.Background(), reply)
		assert.ErrorIs(mt, err, apperrors.ErrNotFound)
	})
}
