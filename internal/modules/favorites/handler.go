package favorites

import (
	"errors"
	"net/http"
	"strconv"

	"adscope/internal/domain"
	"adscope/internal/pkg/response"
	"adscope/internal/upstream"

	"github.com/gin-gonic/gin"
)

// Handler exposes the favorites store over the dashboard API.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	favs := rg.Group("/favorites")
	{
		favs.GET("", h.ListFavorites)
		favs.PATCH("/:advertiserId/pin", h.SetPinned)
		favs.PUT("/:advertiserId/note", h.SetNote)
		favs.DELETE("/:advertiserId", h.RemoveFavorite)
	}
}

// ListFavorites returns the sorted favorites for ?category= (default "all").
func (h *Handler) ListFavorites(c *gin.Context) {
	category := domain.Category(c.DefaultQuery("category", string(domain.CategoryAll)))

	favs, err := h.store.List(c.Request.Context(), category)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ToFavoriteListResponse(favs, category))
}

func (h *Handler) SetPinned(c *gin.Context) {
	advertiserID, err := parseAdvertiserID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid advertiser ID")
		return
	}

	var req PinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "is_pinned is required")
		return
	}

	if err := h.store.SetPinned(c.Request.Context(), advertiserID, *req.IsPinned); err != nil {
		respondStoreError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"advertiser_id": advertiserID, "is_pinned": *req.IsPinned})
}

func (h *Handler) SetNote(c *gin.Context) {
	advertiserID, err := parseAdvertiserID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid advertiser ID")
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "notes is required")
		return
	}

	if err := h.store.SetNote(c.Request.Context(), advertiserID, *req.Notes); err != nil {
		respondStoreError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"advertiser_id": advertiserID})
}

// RemoveFavorite deletes a favorite. The confirm guard keeps the "are you
// sure" policy at the presentation boundary; the store has no such concept.
func (h *Handler) RemoveFavorite(c *gin.Context) {
	advertiserID, err := parseAdvertiserID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid advertiser ID")
		return
	}

	if c.Query("confirm") != "true" {
		response.Error(c, http.StatusBadRequest, "CONFIRM_REQUIRED", "Removal must be confirmed with ?confirm=true")
		return
	}

	if err := h.store.Remove(c.Request.Context(), advertiserID); err != nil {
		respondStoreError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseAdvertiserID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("advertiserId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// respondStoreError maps store/upstream failures onto inline-affordance
// error codes. Nothing here is fatal; the user retries the action.
func respondStoreError(c *gin.Context, err error) {
	var apiErr *upstream.APIError
	var netErr *upstream.NetworkError
	switch {
	case errors.Is(err, ErrInvalidCategory):
		response.Error(c, http.StatusBadRequest, "INVALID_CATEGORY", "Unknown favorites category")
	case errors.As(err, &apiErr):
		response.Error(c, http.StatusBadGateway, "UPSTREAM_REJECTED", apiErr.Message)
	case errors.As(err, &netErr):
		response.Error(c, http.StatusServiceUnavailable, "NETWORK_ERROR", "Backend unreachable, retry the action")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected failure")
	}
}
