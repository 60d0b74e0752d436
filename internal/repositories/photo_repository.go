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

// PhotoSort selects the ordering of photo search results
type PhotoSort string

const (
	SortPopular PhotoSort = "popular"
	SortNewest  PhotoSort = "newest"
	SortOldest  PhotoSort = "oldest"
)

// PhotoRepository defines the interface for photo data operations
type PhotoRepository interface {
	CreatePhoto(ctx context.Context, photo *models.Photo) error
	// InsertIfAbsent stores an imported photo unless one with the same unsplash id exists.
	// It returns the stored copy and whether this call created it.
	InsertIfAbsent(ctx context.Context, photo *models.Photo) (*models.Photo, bool, error)
	GetPhotoByID(ctx context.Context, id primitive.ObjectID) (*models.Photo, error)
	GetPhotoByUnsplashID(ctx context.Context, unsplashID string) (*models.Photo, error)
	GetPhotosByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Photo, error)
	AddLike(ctx context.Context, id primitive.ObjectID, userID string) error
	RemoveLike(ctx context.Context, id primitive.ObjectID, userID string) error
	AddSave(ctx context.Context, id primitive.ObjectID, userID string) error
	RemoveSave(ctx context.Context, id primitive.ObjectID, userID string) error
	ListPopular(ctx context.Context, limit int64) ([]models.Photo, error)
	SearchPhotos(ctx context.Context, query string, sort PhotoSort, skip, limit int64) ([]models.Photo, int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

// MongoPhotoRepository implements PhotoRepository for MongoDB
type MongoPhotoRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoPhotoRepository creates a new MongoPhotoRepository
func NewMongoPhotoRepository(db *mongo.Database) *MongoPhotoRepository {
	return &MongoPhotoRepository{collection: db.Collection(PhotosCollection), now: time.Now}
}

// CreatePhoto inserts a new photo document
func (r *MongoPhotoRepository) CreatePhoto(ctx context.Context, photo *models.Photo) error {
	r.stamp(photo)
	if _, err := r.collection.InsertOne(ctx, photo); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict("Photo already exists")
		}
		return apperrors.Internal(err, "create photo")
	}
	return nil
}

func (r *MongoPhotoRepository) stamp(photo *models.Photo) {
	photo.Normalize()
	if photo.ID.IsZero() {
		photo.ID = primitive.NewObjectID()
	}
	now := r.now()
	photo.CreatedAt = now
	photo.UpdatedAt = now
}

// InsertIfAbsent upserts on unsplashId with $setOnInsert. When a concurrent import wins the
// race the unique index rejects the loser, which then reads the winner's document.
func (r *MongoPhotoRepository) InsertIfAbsent(ctx context.Context, photo *models.Photo) (*models.Photo, bool, error) {
	if photo.UnsplashID == "" {
		return nil, false, apperrors.InvalidInput("Missing unsplash id")
	}
	r.stamp(photo)

	filter := bson.M{"unsplashId": photo.UnsplashID}
	update := bson.M{"$setOnInsert": photo}
	res, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, false, apperrors.Internal(err, "import photo")
	}
	if err == nil && res.UpsertedCount == 1 {
		return photo, true, nil
	}

	existing, err := r.GetPhotoByUnsplashID(ctx, photo.UnsplashID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetPhotoByID retrieves a photo by ID
func (r *MongoPhotoRepository) GetPhotoByID(ctx context.Context, id primitive.ObjectID) (*models.Photo, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetPhotoByUnsplashID retrieves the local copy of an imported photo
func (r *MongoPhotoRepository) GetPhotoByUnsplashID(ctx context.Context, unsplashID string) (*models.Photo, error) {
	return r.findOne(ctx, bson.M{"unsplashId": unsplashID})
}

func (r *MongoPhotoRepository) findOne(ctx context.Context, filter bson.M) (*models.Photo, error) {
	var photo models.Photo
	if err := r.collection.FindOne(ctx, filter).Decode(&photo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("Photo not found")
		}
		return nil, apperrors.Internal(err, "get photo")
	}
	return &photo, nil
}

// GetPhotosByIDs loads photos in one query, keyed by id
func (r *MongoPhotoRepository) GetPhotosByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Photo, error) {
	out := make(map[primitive.ObjectID]*models.Photo, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var photos []models.Photo
	if err := r.findMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find(), &photos); err != nil {
		return nil, err
	}
	for i := range photos {
		out[photos[i].ID] = &photos[i]
	}
	return out, nil
}

func (r *MongoPhotoRepository) AddLike(ctx context.Context, id primitive.ObjectID, userID string) error {
	return addToSet(ctx, r.collection, id, "likes", userID, "Photo", "Photo already liked")
}

func (r *MongoPhotoRepository) RemoveLike(ctx context.Context, id primitive.ObjectID, userID string) error {
	return pullFromSet(ctx, r.collection, id, "likes", userID, "Photo", "Photo not liked")
}

func (r *MongoPhotoRepository) AddSave(ctx context.Context, id primitive.ObjectID, userID string) error {
	return addToSet(ctx, r.collection, id, "saves", userID, "Photo", "Photo already saved")
}

func (r *MongoPhotoRepository) RemoveSave(ctx context.Context, id primitive.ObjectID, userID string) error {
	return pullFromSet(ctx, r.collection, id, "saves", userID, "Photo", "Photo not saved")
}

// ListPopular returns the photos with the most likes
func (r *MongoPhotoRepository) ListPopular(ctx context.Context, limit int64) ([]models.Photo, error) {
	return r.aggregateByLikes(ctx, bson.M{}, 0, limit)
}

func (r *MongoPhotoRepository) aggregateByLikes(ctx context.Context, match bson.M, skip, limit int64) ([]models.Photo, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{"likeCount": bson.M{"$size": bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "likeCount", Value: -1}, {Key: "createdAt", Value: -1}}}},
	}
	if skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: skip}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperrors.Internal(err, "list popular photos")
	}
	defer cursor.Close(ctx)

	var photos []models.Photo
	if err = cursor.All(ctx, &photos); err != nil {
		return nil, apperrors.Internal(err, "decode photos")
	}
	return photos, nil
}

// SearchPhotos matches title, tags and photographer case-insensitively
func (r *MongoPhotoRepository) SearchPhotos(ctx context.Context, query string, sort PhotoSort, skip, limit int64) ([]models.Photo, int64, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"tags": pattern},
		bson.M{"photographer": pattern},
	}}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal(err, "count photos")
	}

	if sort == SortPopular {
		photos, err := r.aggregateByLikes(ctx, filter, skip, limit)
		return photos, total, err
	}

	order := -1
	if sort == SortOldest {
		order = 1
	}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: order}})
	var photos []models.Photo
	if err := r.findMany(ctx, filter, findOptions, &photos); err != nil {
		return nil, 0, err
	}
	return photos, total, nil
}

func (r *MongoPhotoRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, apperrors.Internal(err, "count photos")
	}
	return count, nil
}

func (r *MongoPhotoRepository) findMany(ctx context.Context, filter any, opts *options.FindOptions, out *[]models.Photo) error {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return apperrors.Internal(err, "find photos")
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, out); err != nil {
		return apperrors.Internal(err, "decode photos")
	}
	return nil
}
