package services

import (
	"context"
	"strings"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/repositories"
)

const globalSearchLimit = 10

// SearchService runs case-insensitive searches over photos, public boards and users
type SearchService struct {
	photos repositories.PhotoRepository
	boards repositories.BoardRepository
	users  repositories.UserRepository
}

func NewSearchService(photos repositories.PhotoRepository, boards repositories.BoardRepository, users repositories.UserRepository) *SearchService {
	return &SearchService{photos: photos, boards: boards, users: users}
}

func searchQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < 2 {
		return "", apperrors.InvalidInput("Search query must be at least 2 characters")
	}
	return q, nil
}

func (s *SearchService) GlobalSearch(ctx context.Context, query string) (*models.GlobalSearchResult, error) {
	q, err := searchQuery(query)
	if err != nil {
		return nil, err
	}

	photos, _, err := s.photos.SearchPhotos(ctx, q, repositories.SortNewest, 0, globalSearchLimit)
	if err != nil {
		return nil, err
	}
	boards, err := s.boards.SearchPublicBoards(ctx, q, globalSearchLimit)
	if err != nil {
		return nil, err
	}
	users, _, err := s.users.SearchUsers(ctx, q, 0, globalSearchLimit)
	if err != nil {
		return nil, err
	}

	out := &models.GlobalSearchResult{
		Photos: make([]models.PhotoView, 0, len(photos)),
		Boards: make([]models.BoardSummary, 0, len(boards)),
		Users:  compactUsers(users),
	}
	for i := range photos {
		out.Photos = append(out.Photos, photos[i].View())
	}
	for i := range boards {
		out.Boards = append(out.Boards, models.BoardSummary{Board: &boards[i]})
	}
	return out, nil
}

// SearchPhotos pages through matching photos ordered by sortBy (popular, newest or oldest)
func (s *SearchService) SearchPhotos(ctx context.Context, query, sortBy string, page, limit int) (*models.PhotoSearchResult, error) {
	q, err := searchQuery(query)
	if err != nil {
		return nil, err
	}
	order := repositories.PhotoSort(sortBy)
	switch order {
	case repositories.SortPopular, repositories.SortNewest, repositories.SortOldest:
	case "":
		order = repositories.SortNewest
	default:
		return nil, apperrors.InvalidInput("sortBy must be popular, newest or oldest")
	}

	page, limit, offset := paginate(page, limit, 20, 50)
	photos, total, err := s.photos.SearchPhotos(ctx, q, order, int64(offset), int64(limit))
	if err != nil {
		return nil, err
	}
	out := &models.PhotoSearchResult{
		Photos:     make([]models.PhotoView, 0, len(photos)),
		Pagination: models.Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages(total, limit)},
	}
	for i := range photos {
		out.Photos = append(out.Photos, photos[i].View())
	}
	return out, nil
}

func (s *SearchService) SearchUsers(ctx context.Context, query string, page, limit int) (*models.UserSearchResult, error) {
	q, err := searchQuery(query)
	if err != nil {
		return nil, err
	}
	page, limit, offset := paginate(page, limit, 20, 50)
	users, total, err := s.users.SearchUsers(ctx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	return &models.UserSearchResult{
		Users:      compactUsers(users),
		Pagination: models.Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages(total, limit)},
	}, nil
}
