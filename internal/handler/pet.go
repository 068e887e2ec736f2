package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lost-pet-registry/internal/model"
	"github.com/iliyamo/lost-pet-registry/internal/repository"
	"github.com/iliyamo/lost-pet-registry/internal/search"
	"github.com/iliyamo/lost-pet-registry/internal/uploader"
)

// PetHandler bundles the record store, index synchronizer and image
// uploader behind the owner-scoped pet endpoints. The store write always
// happens first; index propagation runs after it and its outcome never
// changes the response.
type PetHandler struct {
	Pets     *repository.PetRepo
	Sync     *search.Synchronizer
	Uploader uploader.ImageUploader
}

func NewPetHandler(pets *repository.PetRepo, sync *search.Synchronizer, up uploader.ImageUploader) *PetHandler {
	return &PetHandler{Pets: pets, Sync: sync, Uploader: up}
}

type createPetReq struct {
	Name         string   `json:"name"`
	Location     *string  `json:"location"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	ImageDataURI string   `json:"imageDataURI"`
}

type updatePetReq struct {
	Name         *string  `json:"name"`
	Location     *string  `json:"location"`
	Status       *string  `json:"status"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	ImageDataURI string   `json:"imageDataURI"`
}

// Create handles POST /pets. The pet is always persisted as lost; a missing
// or failed image upload never blocks creation.
func (h *PetHandler) Create(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createPetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing_name"})
	}
	if (req.Lat == nil) != (req.Lng == nil) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lat_lng_pair_required"})
	}

	var imageURL *string
	if req.ImageDataURI != "" {
		if url, err := h.Uploader.Upload(c.Request().Context(), req.ImageDataURI); err != nil {
			log.Printf("uploader: pet image upload failed: %v", err)
		} else if url != "" {
			imageURL = &url
		}
	}

	pet, err := h.Pets.Create(c.Request().Context(), uid, req.Name, req.Location,
		req.Lat, req.Lng, imageURL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error"})
	}

	h.Sync.Propagate(pet)

	return c.JSON(http.StatusCreated, pet)
}

// Update handles PUT /pets/:id. Only the owner may update; absent fields
// are left untouched. The pet is resolved before any side effect so a
// forbidden or missing-pet request never reaches the uploader. An
// imageDataURI that is not a data:image/ URI is skipped without signaling
// the caller.
func (h *PetHandler) Update(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_id"})
	}

	var req updatePetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_body"})
	}
	if req.Status != nil {
		s := strings.ToLower(strings.TrimSpace(*req.Status))
		if s != model.StatusLost && s != model.StatusFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_status"})
		}
		req.Status = &s
	}

	current, err := h.Pets.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error"})
	}
	if current.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	// COALESCE merges patch over stored values; the merged row must keep
	// coordinates paired, same as Create.
	if (req.Lat != nil || current.Lat != nil) != (req.Lng != nil || current.Lng != nil) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lat_lng_pair_required"})
	}

	patch := model.PetPatch{
		Name:     req.Name,
		Location: req.Location,
		Status:   req.Status,
		Lat:      req.Lat,
		Lng:      req.Lng,
	}
	if strings.HasPrefix(req.ImageDataURI, "data:image/") {
		if url, err := h.Uploader.Upload(c.Request().Context(), req.ImageDataURI); err != nil {
			log.Printf("uploader: pet image upload failed: %v", err)
		} else if url != "" {
			patch.ImageURL = &url
		}
	}

	pet, err := h.Pets.Update(c.Request().Context(), id, uid, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error"})
	}

	h.Sync.Propagate(pet)

	return c.JSON(http.StatusOK, pet)
}

// ListMine handles GET /my/pets; own pets, most recently created first.
func (h *PetHandler) ListMine(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	pets, err := h.Pets.ListByOwner(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error"})
	}
	return c.JSON(http.StatusOK, pets)
}
