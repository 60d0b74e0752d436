package repositories

import (
	"context"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"gorm.io/gorm"
)

// ActivityRepository defines the interface for the activity log
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity *models.Activity) error
	GetByActorID(ctx context.Context, actorID string, limit int) ([]models.Activity, error)
	GetByFollowedActors(ctx context.Context, followerID string, limit int) ([]models.Activity, error)
}

type postgresActivityRepository struct {
	db *gorm.DB
}

func NewPostgresActivityRepository(db *gorm.DB) ActivityRepository {
	return &postgresActivityRepository{db: db}
}

func (r *postgresActivityRepository) CreateActivity(ctx context.Context, activity *models.Activity) error {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return apperrors.Internal(err, "create activity")
	}
	return nil
}

func (r *postgresActivityRepository) GetByActorID(ctx context.Context, actorID string, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, apperrors.Internal(err, "list activities")
	}
	return activities, nil
}

// GetByFollowedActors returns the newest activities of everyone followerID follows
func (r *postgresActivityRepository) GetByFollowedActors(ctx context.Context, followerID string, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.WithContext(ctx).
		Where("actor_id IN (?)",
			r.db.Table("follows").Select("followee_id").Where("follower_id = ?", followerID),
		).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, apperrors.Internal(err, "list following activities")
	}
	return activities, nil
}
