package handlers

import (
	"net/http"

	"github.com/anonto42/fotofolio/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves activity feeds
type FeedHandler struct {
	recorder *services.Recorder
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(recorder *services.Recorder) *FeedHandler {
	return &FeedHandler{recorder: recorder}
}

// RegisterFeedRoutes registers routes under /activity
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/me", h.GetMyActivity)
	g.GET("/following", h.GetFollowingActivity)
}

func (h *FeedHandler) GetMyActivity(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	feed, err := h.recorder.ListMyActivity(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, feed)
}

// GetFollowingActivity returns recent activity from users the caller follows
func (h *FeedHandler) GetFollowingActivity(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	feed, err := h.recorder.ListFollowingActivity(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, feed)
}
