package repositories

import (
	"context"
	"errors"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// addToSet adds member to the set field of one document in a single conditional update.
// A document that matched nothing is either missing (NotFound) or already holds the member (Conflict).
func addToSet(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, field, member, entity, conflictMsg string) error {
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id, field: bson.M{"$ne": member}},
		bson.M{"$addToSet": bson.M{field: member}},
	)
	if err != nil {
		return apperrors.Internal(err, "update "+field)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	return missingOr(ctx, coll, id, entity, conflictMsg)
}

// pullFromSet is the inverse of addToSet; an absent member is a Conflict
func pullFromSet(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, field, member, entity, conflictMsg string) error {
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id, field: member},
		bson.M{"$pull": bson.M{field: member}},
	)
	if err != nil {
		return apperrors.Internal(err, "update "+field)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	return missingOr(ctx, coll, id, entity, conflictMsg)
}

func missingOr(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, entity, conflictMsg string) error {
	err := coll.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	switch {
	case err == nil:
		return apperrors.Conflict(conflictMsg)
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperrors.NotFound(entity + " not found")
	default:
		return apperrors.Internal(err, "find "+entity)
	}
}
