package handlers

import (
	"net/http"

	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment routes. Photo comments hang off the photos group.
func (h *CommentHandler) RegisterCommentRoutes(photos, comments *echo.Group, protect echo.MiddlewareFunc) {
	photos.GET("/:id/comments", h.GetPhotoComments)
	photos.POST("/:id/comments", h.CreateComment, protect)

	comments.POST("/:commentId/replies", h.CreateReply, protect)
	comments.POST("/:commentId/like", h.LikeComment, protect)
	comments.DELETE("/:commentId/like", h.UnlikeComment, protect)
	comments.DELETE("/:commentId", h.DeleteComment, protect)
}

// GetPhotoComments returns top-level comments with their replies nested
func (h *CommentHandler) GetPhotoComments(c echo.Context) error {
	comments, err := h.comments.ListPhotoComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, comments)
}

func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.AddComment(c.Request().Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusCreated, comment)
}

func (h *CommentHandler) CreateReply(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	reply, err := h.comments.AddReply(c.Request().Context(), userID, c.Param("commentId"), req.Content)
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusCreated, reply)
}

func (h *CommentHandler) LikeComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	comment, err := h.comments.LikeComment(c.Request().Context(), userID, c.Param("commentId"))
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, comment)
}

func (h *CommentHandler) UnlikeComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	comment, err := h.comments.UnlikeComment(c.Request().Context(), userID, c.Param("commentId"))
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, comment)
}

// DeleteComment removes a comment and, for a top-level comment, its replies
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.comments.DeleteComment(c.Request().Context(), userID, c.Param("commentId")); err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, echo.Map{"message": "Comment deleted"})
}
