package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BoardRepository is an in-memory repositories.BoardRepository
type BoardRepository struct {
	mu     sync.Mutex
	clock  *Clock
	boards map[primitive.ObjectID]*models.Board
}

var _ repositories.BoardRepository = (*BoardRepository)(nil)

func NewBoardRepository(clock *Clock) *BoardRepository {
	return &BoardRepository{clock: clock, boards: map[primitive.ObjectID]*models.Board{}}
}

func (r *BoardRepository) CreateBoard(_ context.Context, board *models.Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if board.ID.IsZero() {
		board.ID = primitive.NewObjectID()
	}
	if board.Photos == nil {
		board.Photos = []primitive.ObjectID{}
	}
	board.CreatedAt = r.clock.Now()
	board.UpdatedAt = board.CreatedAt
	r.boards[board.ID] = cloneBoard(board)
	return nil
}

func (r *BoardRepository) GetBoardByID(_ context.Context, id primitive.ObjectID) (*models.Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.boards[id]
	if !ok {
		return nil, apperrors.NotFound("Board not found")
	}
	return cloneBoard(b), nil
}

func (r *BoardRepository) GetBoardsByUserID(_ context.Context, userID string) ([]models.Board, error) {
	return r.filter(func(b *models.Board) bool { return b.UserID == userID }, 0), nil
}

func (r *BoardRepository) GetBoardsByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[primitive.ObjectID]*models.Board{}
	for _, id := range ids {
		if b, ok := r.boards[id]; ok {
			out[id] = cloneBoard(b)
		}
	}
	return out, nil
}

func (r *BoardRepository) UpdateBoard(_ context.Context, id primitive.ObjectID, patch repositories.BoardPatch) (*models.Board, error) {
	return r.mutate(id, func(b *models.Board) error {
		if patch.Title != nil {
			b.Title = *patch.Title
		}
		if patch.Description != nil {
			b.Description = *patch.Description
		}
		if patch.IsPrivate != nil {
			b.IsPrivate = *patch.IsPrivate
		}
		return nil
	})
}

func (r *BoardRepository) DeleteBoard(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.boards[id]; !ok {
		return apperrors.NotFound("Board not found")
	}
	delete(r.boards, id)
	return nil
}

func (r *BoardRepository) AddPhoto(_ context.Context, boardID, photoID primitive.ObjectID) (*models.Board, error) {
	return r.mutate(boardID, func(b *models.Board) error {
		if b.HasPhoto(photoID) {
			return apperrors.Conflict("Photo already in this board")
		}
		b.Photos = append(b.Photos, photoID)
		if b.CoverPhoto == nil {
			cover := photoID
			b.CoverPhoto = &cover
		}
		return nil
	})
}

func (r *BoardRepository) RemovePhoto(_ context.Context, boardID, photoID primitive.ObjectID) (*models.Board, error) {
	return r.mutate(boardID, func(b *models.Board) error {
		kept := make([]primitive.ObjectID, 0, len(b.Photos))
		for _, p := range b.Photos {
			if p != photoID {
				kept = append(kept, p)
			}
		}
		b.Photos = kept
		if b.CoverPhoto != nil && *b.CoverPhoto == photoID {
			b.CoverPhoto = nil
			if len(kept) > 0 {
				cover := kept[0]
				b.CoverPhoto = &cover
			}
		}
		return nil
	})
}

func (r *BoardRepository) SearchPublicBoards(_ context.Context, query string, limit int64) ([]models.Board, error) {
	q := strings.ToLower(query)
	return r.filter(func(b *models.Board) bool {
		return !b.IsPrivate &&
			(strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Description), q))
	}, limit), nil
}

func (r *BoardRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	boards, _ := r.GetBoardsByUserID(ctx, userID)
	return int64(len(boards)), nil
}

func (r *BoardRepository) mutate(id primitive.ObjectID, fn func(*models.Board) error) (*models.Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.boards[id]
	if !ok {
		return nil, apperrors.NotFound("Board not found")
	}
	if err := fn(b); err != nil {
		return nil, err
	}
	b.UpdatedAt = r.clock.Now()
	return cloneBoard(b), nil
}

func (r *BoardRepository) filter(keep func(*models.Board) bool, limit int64) []models.Board {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Board{}
	for _, b := range r.boards {
		if keep(b) {
			out = append(out, *cloneBoard(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return page(out, 0, limit)
}

func cloneBoard(b *models.Board) *models.Board {
	c := *b
	c.Photos = append([]primitive.ObjectID{}, b.Photos...)
	if b.CoverPhoto != nil {
		cover := *b.CoverPhoto
		c.CoverPhoto = &cover
	}
	return &c
}
