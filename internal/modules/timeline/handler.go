package timeline

import (
	"errors"
	"net/http"
	"strconv"

	"adscope/internal/pkg/imageurl"
	"adscope/internal/pkg/response"
	"adscope/internal/upstream"

	"github.com/gin-gonic/gin"
)

// Handler exposes the timeline store over the dashboard API.
type Handler struct {
	store        *Store
	resolver     *imageurl.Resolver
	defaultLimit int
	maxLimit     int
}

func NewHandler(store *Store, resolver *imageurl.Resolver, defaultLimit, maxLimit int) *Handler {
	return &Handler{
		store:        store,
		resolver:     resolver,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	snaps := rg.Group("/snapshots")
	{
		snaps.GET("", h.ListSnapshots)
		snaps.POST("/:id/toggle", h.ToggleExpand)
		snaps.GET("/:id/details", h.GetDetails)
	}
	rg.POST("/images/broken", h.ReportBrokenImage)
}

// ListSnapshots returns the newest captures, ?limit= capped at maxLimit.
func (h *Handler) ListSnapshots(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.defaultLimit)))
	if limit < 1 {
		limit = h.defaultLimit
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	snaps, err := h.store.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ToSnapshotListResponse(snaps))
}

// ToggleExpand flips the expansion state of one snapshot and reports the
// resulting selection plus whatever detail state is already available.
func (h *Handler) ToggleExpand(c *gin.Context) {
	snapshotID, err := parseSnapshotID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid snapshot ID")
		return
	}

	expanded := h.store.ToggleExpand(c.Request.Context(), snapshotID)

	resp := ToggleResponse{
		SnapshotID: snapshotID,
		Expanded:   expanded,
		State:      DetailAbsent,
		Details:    []AdDetailView{},
	}
	if expanded {
		detail := h.detailResponse(snapshotID)
		resp.State = detail.State
		resp.Details = detail.Details
	}

	response.Success(c, http.StatusOK, resp)
}

// GetDetails reports the detail rows for a snapshot. A failed fetch comes
// back as state "failed" with 200: the affordance is inline, it never
// blocks the rest of the timeline.
func (h *Handler) GetDetails(c *gin.Context) {
	snapshotID, err := parseSnapshotID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid snapshot ID")
		return
	}

	response.Success(c, http.StatusOK, h.detailResponse(snapshotID))
}

// ReportBrokenImage registers a render-time image failure so subsequent
// reads fall back to the placeholder for that URL.
func (h *Handler) ReportBrokenImage(c *gin.Context) {
	var req BrokenImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "url is required")
		return
	}

	h.store.ReportBroken(req.URL)
	response.Success(c, http.StatusOK, gin.H{"url": req.URL})
}

func (h *Handler) detailResponse(snapshotID int64) DetailResponse {
	details, state := h.store.DetailOf(snapshotID)
	return DetailResponse{
		SnapshotID: snapshotID,
		State:      state,
		Details:    h.store.toDetailViews(h.resolver, details),
	}
}

func parseSnapshotID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid snapshot id")
	}
	return id, nil
}

func respondStoreError(c *gin.Context, err error) {
	var apiErr *upstream.APIError
	var netErr *upstream.NetworkError
	switch {
	case errors.As(err, &apiErr):
		response.Error(c, http.StatusBadGateway, "UPSTREAM_REJECTED", apiErr.Message)
	case errors.As(err, &netErr):
		response.Error(c, http.StatusServiceUnavailable, "NETWORK_ERROR", "Backend unreachable, retry the action")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected failure")
	}
}
