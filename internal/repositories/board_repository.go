package repositories

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BoardPatch holds the editable board fields; nil fields are left untouched
type BoardPatch struct {
	Title       *string
	Description *string
	IsPrivate   *bool
}

// BoardRepository defines the interface for board data operations
type BoardRepository interface {
	CreateBoard(ctx context.Context, board *models.Board) error
	GetBoardByID(ctx context.Context, id primitive.ObjectID) (*models.Board, error)
	GetBoardsByUserID(ctx context.Context, userID string) ([]models.Board, error)
	GetBoardsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Board, error)
	UpdateBoard(ctx context.Context, id primitive.ObjectID, patch BoardPatch) (*models.Board, error)
	DeleteBoard(ctx context.Context, id primitive.ObjectID) error
	AddPhoto(ctx context.Context, boardID, photoID primitive.ObjectID) (*models.Board, error)
	RemovePhoto(ctx context.Context, boardID, photoID primitive.ObjectID) (*models.Board, error)
	SearchPublicBoards(ctx context.Context, query string, limit int64) ([]models.Board, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

// MongoBoardRepository implements BoardRepository for MongoDB
type MongoBoardRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoBoardRepository creates a new MongoBoardRepository
func NewMongoBoardRepository(db *mongo.Database) *MongoBoardRepository {
	return &MongoBoardRepository{collection: db.Collection(BoardsCollection), now: time.Now}
}

func (r *MongoBoardRepository) CreateBoard(ctx context.Context, board *models.Board) error {
	if board.ID.IsZero() {
		board.ID = primitive.NewObjectID()
	}
	if board.Photos == nil {
		board.Photos = []primitive.ObjectID{}
	}
	board.CreatedAt = r.now()
	board.UpdatedAt = board.CreatedAt
	if _, err := r.collection.InsertOne(ctx, board); err != nil {
		return apperrors.Internal(err, "create board")
	}
	return nil
}

func (r *MongoBoardRepository) GetBoardByID(ctx context.Context, id primitive.ObjectID) (*models.Board, error) {
	var board models.Board
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&board); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Board not found")
		}
		return nil, apperrors.Internal(err, "get board")
	}
	return &board, nil
}

// GetBoardsByUserID lists a user's boards, most recently updated first
func (r *MongoBoardRepository) GetBoardsByUserID(ctx context.Context, userID string) ([]models.Board, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	return r.find(ctx, bson.M{"user": userID}, findOptions)
}

func (r *MongoBoardRepository) GetBoardsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Board, error) {
	out := make(map[primitive.ObjectID]*models.Board, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	boards, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
	if err != nil {
		return nil, err
	}
	for i := range boards {
		out[boards[i].ID] = &boards[i]
	}
	return out, nil
}

func (r *MongoBoardRepository) UpdateBoard(ctx context.Context, id primitive.ObjectID, patch BoardPatch) (*models.Board, error) {
	set := bson.M{"updatedAt": r.now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.IsPrivate != nil {
		set["isPrivate"] = *patch.IsPrivate
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

// DeleteBoard removes the board document only; referenced photos are untouched
func (r *MongoBoardRepository) DeleteBoard(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.Internal(err, "delete board")
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("Board not found")
	}
	return nil
}

// AddPhoto appends photoID and, when the board has no cover yet, makes it the cover.
// Both happen in one pipeline update guarded by the photo not already being on the board.
func (r *MongoBoardRepository) AddPhoto(ctx context.Context, boardID, photoID primitive.ObjectID) (*models.Board, error) {
	filter := bson.M{"_id": boardID, "photos": bson.M{"$ne": photoID}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"photos": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$photos", bson.A{}}},
				bson.A{photoID},
			}},
			"coverPhoto": bson.M{"$ifNull": bson.A{"$coverPhoto", photoID}},
			"updatedAt":  r.now(),
		}}},
	}

	board, err := r.findOneAndUpdate(ctx, filter, update)
	if apperrors.KindOf(err) == apperrors.KindNotFound {
		return nil, missingOr(ctx, r.collection, boardID, "Board", "Photo already in this board")
	}
	return board, err
}

// RemovePhoto filters photoID out of the list. If it was the cover, the cover moves to the
// new first photo, or null when the board is now empty. Removing an absent id is a no-op.
func (r *MongoBoardRepository) RemovePhoto(ctx context.Context, boardID, photoID primitive.ObjectID) (*models.Board, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"photos": bson.M{"$filter": bson.M{
				"input": bson.M{"$ifNull": bson.A{"$photos", bson.A{}}},
				"as":    "p",
				"cond":  bson.M{"$ne": bson.A{"$$p", photoID}},
			}},
			"updatedAt": r.now(),
		}}},
		{{Key: "$set", Value: bson.M{
			"coverPhoto": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$coverPhoto", photoID}},
				bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$photos", 0}}, nil}},
				"$coverPhoto",
			}},
		}}},
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": boardID}, update)
}

// SearchPublicBoards matches title or description of non-private boards
func (r *MongoBoardRepository) SearchPublicBoards(ctx context.Context, query string, limit int64) ([]models.Board, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"isPrivate": false,
		"$or": bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		},
	}
	findOptions := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	return r.find(ctx, filter, findOptions)
}

func (r *MongoBoardRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, apperrors.Internal(err, "count boards")
	}
	return count, nil
}

func (r *MongoBoardRepository) findOneAndUpdate(ctx context.Context, filter bson.M, update any) (*models.Board, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var board models.Board
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&board); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Board not found")
		}
		return nil, apperrors.Internal(err, "update board")
	}
	return &board, nil
}

func (r *MongoBoardRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Board, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Internal(err, "find boards")
	}
	defer cursor.Close(ctx)

	boards := []models.Board{}
	if err = cursor.All(ctx, &boards); err != nil {
		return nil, apperrors.Internal(err, "decode boards")
	}
	return boards, nil
}
