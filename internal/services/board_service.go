package services

import (
	"context"

	"github.com/anonto42/fotofolio/backend/internal/apperrors"
	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BoardService enforces board ownership and cover photo consistency
type BoardService struct {
	boards   repositories.BoardRepository
	photos   repositories.PhotoRepository
	users    repositories.UserRepository
	resolver *PhotoService
	recorder *Recorder
}

func NewBoardService(boards repositories.BoardRepository, photos repositories.PhotoRepository, users repositories.UserRepository, resolver *PhotoService, recorder *Recorder) *BoardService {
	return &BoardService{boards: boards, photos: photos, users: users, resolver: resolver, recorder: recorder}
}

func (s *BoardService) CreateBoard(ctx context.Context, ownerID string, req models.CreateBoardRequest) (*models.Board, error) {
	title, err := requireText(req.Title, "Title", models.BoardTitleMaxLen)
	if err != nil {
		return nil, err
	}
	description, err := optionalText(req.Description, "Description", models.BoardDescriptionMaxLen)
	if err != nil {
		return nil, err
	}

	board := &models.Board{
		Title:       title,
		Description: description,
		UserID:      ownerID,
		IsPrivate:   req.IsPrivate,
		Photos:      []primitive.ObjectID{},
	}
	if err := s.boards.CreateBoard(ctx, board); err != nil {
		return nil, err
	}

	s.recorder.trackActivity(ctx, ownerID, models.ActivityCreateBoard, models.ActivityRefs{BoardID: board.ID.Hex()})
	return board, nil
}

// ownedBoard loads a board and checks that callerID owns it
func (s *BoardService) ownedBoard(ctx context.Context, callerID, boardID string) (*models.Board, error) {
	id, err := parseObjectID(boardID, "board")
	if err != nil {
		return nil, err
	}
	board, err := s.boards.GetBoardByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if board.UserID != callerID {
		return nil, apperrors.Forbidden("Not authorized to modify this board")
	}
	return board, nil
}

// GetBoard returns a board with its owner and photos. Private boards are visible to their owner only.
func (s *BoardService) GetBoard(ctx context.Context, boardID, requesterID string) (*models.BoardDetail, error) {
	id, err := parseObjectID(boardID, "board")
	if err != nil {
		return nil, err
	}
	board, err := s.boards.GetBoardByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if board.IsPrivate && board.UserID != requesterID {
		return nil, apperrors.Forbidden("This board is private")
	}

	photos, err := s.photos.GetPhotosByIDs(ctx, board.Photos)
	if err != nil {
		return nil, err
	}
	detail := &models.BoardDetail{Board: board, PhotoItems: make([]models.PhotoCompact, 0, len(board.Photos))}
	for _, pid := range board.Photos {
		if p, ok := photos[pid]; ok {
			detail.PhotoItems = append(detail.PhotoItems, p.ToCompact())
		}
	}
	if board.CoverPhoto != nil {
		if p, ok := photos[*board.CoverPhoto]; ok {
			detail.CoverThumb = p.ThumbURL
		}
	}

	owner, err := s.users.GetUserByID(ctx, board.UserID)
	switch {
	case err == nil:
		c := owner.ToCompact()
		detail.Owner = &c
	case apperrors.KindOf(err) != apperrors.KindNotFound:
		return nil, err
	}
	return detail, nil
}

// ListUserBoards lists the owner's boards, most recently updated first
func (s *BoardService) ListUserBoards(ctx context.Context, ownerID string) ([]models.BoardSummary, error) {
	boards, err := s.boards.GetBoardsByUserID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var coverIDs []primitive.ObjectID
	for _, b := range boards {
		if b.CoverPhoto != nil {
			coverIDs = append(coverIDs, *b.CoverPhoto)
		}
	}
	covers, err := s.photos.GetPhotosByIDs(ctx, coverIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.BoardSummary, 0, len(boards))
	for i := range boards {
		summary := models.BoardSummary{Board: &boards[i]}
		if boards[i].CoverPhoto != nil {
			if p, ok := covers[*boards[i].CoverPhoto]; ok {
				summary.CoverThumb = p.ThumbURL
			}
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *BoardService) UpdateBoard(ctx context.Context, callerID, boardID string, req models.UpdateBoardRequest) (*models.Board, error) {
	board, err := s.ownedBoard(ctx, callerID, boardID)
	if err != nil {
		return nil, err
	}

	var patch repositories.BoardPatch
	if req.Title != nil {
		title, err := requireText(*req.Title, "Title", models.BoardTitleMaxLen)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if req.Description != nil {
		description, err := optionalText(*req.Description, "Description", models.BoardDescriptionMaxLen)
		if err != nil {
			return nil, err
		}
		patch.Description = &description
	}
	patch.IsPrivate = req.IsPrivate

	return s.boards.UpdateBoard(ctx, board.ID, patch)
}

func (s *BoardService) DeleteBoard(ctx context.Context, callerID, boardID string) error {
	board, err := s.ownedBoard(ctx, callerID, boardID)
	if err != nil {
		return err
	}
	return s.boards.DeleteBoard(ctx, board.ID)
}

// AddPhotoToBoard appends a photo and assigns the cover when the board has none
func (s *BoardService) AddPhotoToBoard(ctx context.Context, callerID, boardID, photoRef string) (*models.Board, error) {
	board, err := s.ownedBoard(ctx, callerID, boardID)
	if err != nil {
		return nil, err
	}
	photo, err := s.resolver.ResolvePhoto(ctx, photoRef)
	if err != nil {
		return nil, err
	}

	updated, err := s.boards.AddPhoto(ctx, board.ID, photo.ID)
	if err != nil {
		return nil, err
	}

	s.recorder.trackActivity(ctx, callerID, models.ActivityAddPhoto, models.ActivityRefs{
		PhotoID: photo.ID.Hex(),
		BoardID: board.ID.Hex(),
	})
	return updated, nil
}

// RemovePhotoFromBoard drops a photo id from the board; an id not on the board is a no-op
func (s *BoardService) RemovePhotoFromBoard(ctx context.Context, callerID, boardID, photoID string) (*models.Board, error) {
	board, err := s.ownedBoard(ctx, callerID, boardID)
	if err != nil {
		return nil, err
	}
	pid, err := parseObjectID(photoID, "photo")
	if err != nil {
		return nil, err
	}
	return s.boards.RemovePhoto(ctx, board.ID, pid)
}
