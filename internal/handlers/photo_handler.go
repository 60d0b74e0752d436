package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/fotofolio/backend/internal/models"
	"github.com/anonto42/fotofolio/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PhotoHandler handles HTTP requests related to photos. A photo ref in the path
// is either a local id or an unsplash id.
type PhotoHandler struct {
	photos *services.PhotoService
}

// NewPhotoHandler creates a new PhotoHandler
func NewPhotoHandler(photos *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

// RegisterPhotoRoutes registers routes under /photos
func (h *PhotoHandler) RegisterPhotoRoutes(g *echo.Group, protect echo.MiddlewareFunc) {
	g.GET("/search", h.SearchPhotos)
	g.GET("/popular", h.GetPopularPhotos)
	g.POST("", h.CreatePhoto, protect)
	g.GET("/:id", h.GetPhoto)
	g.POST("/:id/like", h.LikePhoto, protect)
	g.DELETE("/:id/like", h.UnlikePhoto, protect)
	g.POST("/:id/save", h.SavePhoto, protect)
	g.DELETE("/:id/save", h.UnsavePhoto, protect)
}

// SearchPhotos proxies a search to the photo provider. Results are not stored.
func (h *PhotoHandler) SearchPhotos(c echo.Context) error {
	res, err := h.photos.SearchProvider(c.Request().Context(),
		c.QueryParam("query"),
		queryInt(c, "page", 1),
		queryInt(c, "per_page", 20),
	)
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, res)
}

func (h *PhotoHandler) GetPopularPhotos(c echo.Context) error {
	photos, err := h.photos.ListPopular(c.Request().Context(), queryInt(c, "limit", 20))
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, photos)
}

func (h *PhotoHandler) CreatePhoto(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req models.CreatePhotoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	photo, err := h.photos.CreatePhoto(c.Request().Context(), userID, req)
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusCreated, photo)
}

// GetPhoto returns a stored photo, importing it from the provider on first access
func (h *PhotoHandler) GetPhoto(c echo.Context) error {
	photo, err := h.photos.GetPhoto(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, photo)
}

func (h *PhotoHandler) LikePhoto(c echo.Context) error {
	return h.membership(c, h.photos.LikePhoto)
}

func (h *PhotoHandler) UnlikePhoto(c echo.Context) error {
	return h.membership(c, h.photos.UnlikePhoto)
}

func (h *PhotoHandler) SavePhoto(c echo.Context) error {
	return h.membership(c, h.photos.SavePhoto)
}

func (h *PhotoHandler) UnsavePhoto(c echo.Context) error {
	return h.membership(c, h.photos.UnsavePhoto)
}

type membershipFunc func(ctx context.Context, userID, ref string) (*models.PhotoView, error)

func (h *PhotoHandler) membership(c echo.Context, fn membershipFunc) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	photo, err := fn(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return ok(c, http.StatusOK, photo)
}
