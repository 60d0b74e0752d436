package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	GetCommentsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Comment, error)
	GetTopLevelByPhotoID(ctx context.Context, photoID primitive.ObjectID) ([]models.Comment, error)
	GetRepliesByParentIDs(ctx context.Context, parentIDs []primitive.ObjectID) ([]models.Comment, error)
	AttachReply(ctx context.Context, parentID, replyID primitive.ObjectID) error
	DetachReply(ctx context.Context, parentID, replyID primitive.ObjectID) error
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
	DeleteReplies(ctx context.Context, parentID primitive.ObjectID, replyIDs []primitive.ObjectID) (int64, error)
	AddLike(ctx context.Context, id primitive.ObjectID, userID string) error
	RemoveLike(ctx context.Context, id primitive.ObjectID, userID string) error
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection(CommentsCollection), now: time.Now}
}

func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	if comment.Replies == nil {
		comment.Replies = []primitive.ObjectID{}
	}
	if comment.Likes == nil {
		comment.Likes = []string{}
	}
	comment.CreatedAt = r.now()
	if _, err := r.collection.InsertOne(ctx, comment); err != nil {
		return apperrors.Internal(err, "create comment")
	}
	return nil
}

func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Comment not found")
		}
		return nil, apperrors.Internal(err, "get comment")
	}
	return &comment, nil
}

func (r *MongoCommentRepository) GetCommentsByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Comment, error) {
	out := make(map[primitive.ObjectID]*models.Comment, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	comments, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
	if err != nil {
		return nil, err
	}
	for i := range comments {
		out[comments[i].ID] = &comments[i]
	}
	return out, nil
}

// GetTopLevelByPhotoID lists a photo's non-reply comments, newest first
func (r *MongoCommentRepository) GetTopLevelByPhotoID(ctx context.Context, photoID primitive.ObjectID) ([]models.Comment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"photo": photoID, "isReply": false}, findOptions)
}

// GetRepliesByParentIDs lists the replies of the given parents, oldest first
func (r *MongoCommentRepository) GetRepliesByParentIDs(ctx context.Context, parentIDs []primitive.ObjectID) ([]models.Comment, error) {
	if len(parentIDs) == 0 {
		return []models.Comment{}, nil
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, bson.M{"parentComment": bson.M{"$in": parentIDs}}, findOptions)
}

func (r *MongoCommentRepository) AttachReply(ctx context.Context, parentID, replyID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": parentID}, bson.M{"$addToSet": bson.M{"replies": replyID}})
	if err != nil {
		return apperrors.Internal(err, "attach reply")
	}
	if res.MatchedCount == 0 {
		return apperrors.NotFound("Comment not found")
	}
	return nil
}

// DetachReply pulls replyID from the parent; a missing parent is tolerated
func (r *MongoCommentRepository) DetachReply(ctx context.Context, parentID, replyID primitive.ObjectID) error {
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": parentID}, bson.M{"$pull": bson.M{"replies": replyID}}); err != nil {
		return apperrors.Internal(err, "detach reply")
	}
	return nil
}

func (r *MongoCommentRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.Internal(err, "delete comment")
	}
	if res.DeletedCount == 0 {
		return apperrors.NotFound("Comment not found")
	}
	return nil
}

// DeleteReplies removes every reply of parentID, matched both by the parent's reply list and by
// the replies' back-reference so a reply missing from either side is still removed.
func (r *MongoCommentRepository) DeleteReplies(ctx context.Context, parentID primitive.ObjectID, replyIDs []primitive.ObjectID) (int64, error) {
	ids := append([]primitive.ObjectID{}, replyIDs...)
	filter := bson.M{"$or": bson.A{
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"parentComment": parentID},
	}}
	res, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, apperrors.Internal(err, "delete replies")
	}
	return res.DeletedCount, nil
}

func (r *MongoCommentRepository) AddLike(ctx context.Context, id primitive.ObjectID, userID string) error {
	return addToSet(ctx, r.collection, id, "likes", userID, "Comment", "Comment already liked")
}

func (r *MongoCommentRepository) RemoveLike(ctx context.Context, id primitive.ObjectID, userID string) error {
	return pullFromSet(ctx, r.collection, id, "likes", userID, "Comment", "Comment not liked")
}

func (r *MongoCommentRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Comment, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Internal(err, "find comments")
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, apperrors.Internal(err, "decode comments")
	}
	return comments, nil
}
