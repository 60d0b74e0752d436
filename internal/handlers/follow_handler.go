package handlers

import (
	"net/http"

	"github.com/anonto42/fotofolio/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	follows *services.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(follows *services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// RegisterFollowRoutes registers follow-related routes under /users
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, protect echo.MiddlewareFunc) {
	g.POST("/:id/follow", h.FollowUser, protect)
	g.DELETE("/:id/follow", h.UnfollowUser, protect)
	g.GET("/:id/followers", h.GetFollowers)
	g.GET("/:id/following", h.GetFollowing)
}

// FollowUser follows a user
func (h *FollowHandler) FollowUser(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	status, err := h.follows.Follow(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, status)
}

// UnfollowUser unfollows a user
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	status, err := h.follows.Unfollow(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, status)
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	users, err := h.follows.ListFollowers(c.Request().Context(), c.Param("id"), queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, users)
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	users, err := h.follows.ListFollowing(c.Request().Context(), c.Param("id"), queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, users)
}
