package handlers

import (
	"net/http"

	"github.com/anonto42/fotofolio/backend/internal/middleware"
	"github.com/anonto42/fotofolio/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles search, public profiles and user stats
type UserHandler struct {
	auth   *services.AuthService
	search *services.SearchService
	stats  *services.StatsService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(auth *services.AuthService, search *services.SearchService, stats *services.StatsService) *UserHandler {
	return &UserHandler{auth: auth, search: search, stats: stats}
}

// RegisterStatsRoutes registers routes under /users
func (h *UserHandler) RegisterStatsRoutes(g *echo.Group, protect echo.MiddlewareFunc) {
	g.GET("/:id/stats", h.GetUserStats, protect)
}

// RegisterSearchRoutes registers routes under /search. The viewer is optional.
func (h *UserHandler) RegisterSearchRoutes(g *echo.Group) {
	g.GET("", h.GlobalSearch)
	g.GET("/photos", h.SearchPhotos)
	g.GET("/users", h.SearchUsers)
	g.GET("/users/:username", h.GetUserByUsername)
}

func (h *UserHandler) GlobalSearch(c echo.Context) error {
	res, err := h.search.GlobalSearch(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, res)
}

// SearchPhotos supports ?q=&sortBy=popular|newest|oldest&page=&limit=
func (h *UserHandler) SearchPhotos(c echo.Context) error {
	res, err := h.search.SearchPhotos(c.Request().Context(),
		c.QueryParam("q"),
		c.QueryParam("sortBy"),
		queryInt(c, "page", 1),
		queryInt(c, "limit", 20),
	)
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, res)
}

func (h *UserHandler) SearchUsers(c echo.Context) error {
	res, err := h.search.SearchUsers(c.Request().Context(), c.QueryParam("q"), queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, res)
}

// GetUserByUsername returns a public profile, with isFollowing set for a signed-in viewer
func (h *UserHandler) GetUserByUsername(c echo.Context) error {
	profile, err := h.auth.GetProfile(c.Request().Context(), c.Param("username"), middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, profile)
}

func (h *UserHandler) GetUserStats(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	stats, err := h.stats.UserStats(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, stats)
}
