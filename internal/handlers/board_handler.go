package handlers

import (
	"net/http"

	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// BoardHandler handles board HTTP requests. Every board route requires a signed-in user.
type BoardHandler struct {
	boards *services.BoardService
}

func NewBoardHandler(boards *services.BoardService) *BoardHandler {
	return &BoardHandler{boards: boards}
}

// RegisterBoardRoutes registers routes under /boards
func (h *BoardHandler) RegisterBoardRoutes(g *echo.Group) {
	g.GET("", h.GetUserBoards)
	g.POST("", h.CreateBoard)
	g.GET("/:id", h.GetBoard)
	g.PUT("/:id", h.UpdateBoard)
	g.DELETE("/:id", h.DeleteBoard)
	g.POST("/:id/photos", h.AddPhoto)
	g.DELETE("/:id/photos/:photoId", h.RemovePhoto)
}

func (h *BoardHandler) GetUserBoards(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	boards, err := h.boards.ListUserBoards(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, boards)
}

func (h *BoardHandler) CreateBoard(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req models.CreateBoardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	board, err := h.boards.CreateBoard(c.Request().Context(), userID, req)
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusCreated, board)
}

// GetBoard returns a board with its photos; private boards only to their owner
func (h *BoardHandler) GetBoard(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	board, err := h.boards.GetBoard(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, board)
}

func (h *BoardHandler) UpdateBoard(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req models.UpdateBoardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	board, err := h.boards.UpdateBoard(c.Request().Context(), userID, c.Param("id"), req)
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, board)
}

func (h *BoardHandler) DeleteBoard(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.boards.DeleteBoard(c.Request().Context(), userID, c.Param("id")); err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, echo.Map{"message": "Board deleted"})
}

// AddPhoto accepts a local photo id or an unsplash id in the body
func (h *BoardHandler) AddPhoto(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req models.AddPhotoToBoardRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	board, err := h.boards.AddPhotoToBoard(c.Request().Context(), userID, c.Param("id"), req.PhotoID)
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, board)
}

func (h *BoardHandler) RemovePhoto(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	board, err := h.boards.RemovePhotoFromBoard(c.Request().Context(), userID, c.Param("id"), c.Param("photoId"))
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, board)
}
