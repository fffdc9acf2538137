package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/camp-registration/internal/repository"
)

// CampHandler serves the public read-only camp listing used by the
// registration pages.  Camp rows are managed outside this service; the
// listing is cache-friendly and sits behind the Redis response cache.
type CampHandler struct {
	Camps *repository.CampRepo
}

// NewCampHandler constructs a CampHandler.  The repository must be
// non-nil.
func NewCampHandler(camps *repository.CampRepo) *CampHandler {
	if camps == nil {
		panic("nil repository passed to NewCampHandler")
	}
	return &CampHandler{Camps: camps}
}

// ListActive handles GET /v1/camps.  It returns all active camps, newest
// season first.  When no camps exist it returns an empty array.
func (h *CampHandler) ListActive(c echo.Context) error {
	camps, err := h.Camps.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load camps"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": camps})
}
