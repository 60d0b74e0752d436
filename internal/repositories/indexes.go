package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	PhotosCollection   = "photos"
	BoardsCollection   = "boards"
	CommentsCollection = "comments"
)

// EnsureIndexes creates the MongoDB indexes the repositories rely on.
// The unique partial index on unsplashId keeps at most one local copy per imported photo.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		PhotosCollection: {
			{
				Keys: bson.D{{Key: "unsplashId", Value: 1}},
				Options: options.Index().
					SetName("uniq_unsplash_id").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"unsplashId": bson.M{"$type": "string"}}),
			},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "tags", Value: 1}}},
		},
		BoardsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "updatedAt", Value: -1}}},
		},
		CommentsCollection: {
			{Keys: bson.D{{Key: "photo", Value: 1}, {Key: "isReply", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "parentComment", Value: 1}}},
		},
	}

	for name, idx := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}
