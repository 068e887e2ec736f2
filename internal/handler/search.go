package handler

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lost-pet-registry/internal/search"
)

const defaultRadiusKm = 2

// SearchHandler serves the public proximity search. It talks only to the
// index, never to the record store, and returns hits in the order the index
// ranked them.
type SearchHandler struct {
	Index search.PetIndex
}

func NewSearchHandler(idx search.PetIndex) *SearchHandler {
	return &SearchHandler{Index: idx}
}

// PetsNear handles GET /pets-near?lat=&lng=&radiusKm=. Coordinates are
// validated before the index is contacted; a disabled index yields an empty
// list, not an error.
func (h *SearchHandler) PetsNear(c echo.Context) error {
	lat, errLat := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if errLat != nil || errLng != nil || !finite(lat) || !finite(lng) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_lat_lng"})
	}

	radiusKm := float64(defaultRadiusKm)
	if s := c.QueryParam("radiusKm"); s != "" {
		r, err := strconv.ParseFloat(s, 64)
		if err != nil || !finite(r) || r <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_radius"})
		}
		radiusKm = r
	}

	hits, err := h.Index.SearchNearby(c.Request().Context(), lat, lng, radiusKm*1000)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error"})
	}
	return c.JSON(http.StatusOK, hits)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
