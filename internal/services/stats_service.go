package services

import (
	"context"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/repositories"
)

const statsRecentActivity = 5

type StatsService struct {
	boards   repositories.BoardRepository
	photos   repositories.PhotoRepository
	follows  repositories.FollowRepository
	recorder *Recorder
}

func NewStatsService(boards repositories.BoardRepository, photos repositories.PhotoRepository, follows repositories.FollowRepository, recorder *Recorder) *StatsService {
	return &StatsService{boards: boards, photos: photos, follows: follows, recorder: recorder}
}

// UserStats summarises a user's content; only the user may read it
func (s *StatsService) UserStats(ctx context.Context, callerID, userID string) (*models.UserStats, error) {
	if callerID != userID {
		return nil, apperrors.Forbidden("Not authorized to view these stats")
	}
	boards, err := s.boards.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	photos, err := s.photos.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	followers, err := s.follows.GetFollowersCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.recorder.ListRecentActivity(ctx, userID, statsRecentActivity)
	if err != nil {
		return nil, err
	}
	return &models.UserStats{
		BoardsCount:    boards,
		PhotosCount:    photos,
		FollowersCount: followers,
		RecentActivity: recent,
	}, nil
}
