package repositories

import (
	"context"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow edge operations
type FollowRepository interface {
	CreateFollow(ctx context.Context, followerID, followeeID string) error
	DeleteFollow(ctx context.Context, followerID, followeeID string) error
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	GetFollowers(ctx context.Context, userID string, offset, limit int) ([]models.User, error)
	GetFollowing(ctx context.Context, userID string, offset, limit int) ([]models.User, error)
	GetFollowersCount(ctx context.Context, userID string) (int64, error)
	GetFollowingCount(ctx context.Context, userID string) (int64, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// CreateFollow inserts the edge. An existing edge is reported as Conflict by the unique index,
// so concurrent duplicate follows cannot both succeed.
func (r *PostgresFollowRepository) CreateFollow(ctx context.Context, followerID, followeeID string) error {
	f := &models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	if res.Error != nil {
		return apperrors.Internal(res.Error, "create follow")
	}
	if res.RowsAffected == 0 {
		return apperrors.Conflict("Already following this user")
	}
	return nil
}

func (r *PostgresFollowRepository) DeleteFollow(ctx context.Context, followerID, followeeID string) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return apperrors.Internal(res.Error, "delete follow")
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("Not following this user")
	}
	return nil
}

func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, apperrors.Internal(err, "check follow")
	}
	return count > 0, nil
}

// GetFollowers lists the users following userID, most recent first
func (r *PostgresFollowRepository) GetFollowers(ctx context.Context, userID string, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.*").
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Order("follows.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, apperrors.Internal(err, "list followers")
	}
	return users, nil
}

// GetFollowing lists the users userID follows, most recent first
func (r *PostgresFollowRepository) GetFollowing(ctx context.Context, userID string, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.*").
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, apperrors.Internal(err, "list following")
	}
	return users, nil
}

func (r *PostgresFollowRepository) GetFollowersCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("followee_id = ?", userID).Count(&count).Error; err != nil {
		return 0, apperrors.Internal(err, "count followers")
	}
	return count, nil
}

func (r *PostgresFollowRepository) GetFollowingCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error; err != nil {
		return 0, apperrors.Internal(err, "count following")
	}
	return count, nil
}
