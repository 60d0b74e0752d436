package services

import (
	"context"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/repositories"
)

// FollowService maintains the follow edge set
type FollowService struct {
	users    repositories.UserRepository
	follows  repositories.FollowRepository
	recorder *Recorder
}

func NewFollowService(users repositories.UserRepository, follows repositories.FollowRepository, recorder *Recorder) *FollowService {
	return &FollowService{users: users, follows: follows, recorder: recorder}
}

// Follow adds the edge actor -> target. The unique edge insert decides Conflict atomically.
func (s *FollowService) Follow(ctx context.Context, actorID, targetID string) (*models.FollowStatus, error) {
	if actorID == targetID {
		return nil, apperrors.InvalidOperation("You cannot follow yourself")
	}
	if _, err := s.users.GetUserByID(ctx, targetID); err != nil {
		return nil, err
	}
	if err := s.follows.CreateFollow(ctx, actorID, targetID); err != nil {
		return nil, err
	}

	s.recorder.trackActivity(ctx, actorID, models.ActivityFollow, models.ActivityRefs{TargetUserID: targetID})
	s.recorder.trackNotification(ctx, targetID, actorID, models.NotificationFollow, models.NotificationRefs{})

	return s.status(ctx, targetID, true)
}

// Unfollow removes the edge; it emits nothing
func (s *FollowService) Unfollow(ctx context.Context, actorID, targetID string) (*models.FollowStatus, error) {
	if actorID == targetID {
		return nil, apperrors.InvalidOperation("You cannot unfollow yourself")
	}
	if err := s.follows.DeleteFollow(ctx, actorID, targetID); err != nil {
		return nil, err
	}
	return s.status(ctx, targetID, false)
}

func (s *FollowService) status(ctx context.Context, targetID string, following bool) (*models.FollowStatus, error) {
	followers, err := s.follows.GetFollowersCount(ctx, targetID)
	if err != nil {
		return nil, err
	}
	followingCount, err := s.follows.GetFollowingCount(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return &models.FollowStatus{Following: following, FollowersCount: followers, FollowingCount: followingCount}, nil
}

func (s *FollowService) IsFollowing(ctx context.Context, actorID, targetID string) (bool, error) {
	return s.follows.IsFollowing(ctx, actorID, targetID)
}

func (s *FollowService) ListFollowers(ctx context.Context, userID string, page, limit int) ([]models.UserCompact, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	_, limit, offset := paginate(page, limit, 20, 100)
	users, err := s.follows.GetFollowers(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return compactUsers(users), nil
}

func (s *FollowService) ListFollowing(ctx context.Context, userID string, page, limit int) ([]models.UserCompact, error) {
	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	_, limit, offset := paginate(page, limit, 20, 100)
	users, err := s.follows.GetFollowing(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return compactUsers(users), nil
}
