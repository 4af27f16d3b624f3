package favorites

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"adscope/internal/cache"
	"adscope/internal/domain"
	"adscope/internal/events"
	"adscope/internal/upstream"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type listEnvelope struct {
	Success bool                 `json:"success"`
	Data    FavoriteListResponse `json:"data"`
}

type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter(api *MockAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := NewStore(api, cache.New(), events.NewHub())
	handler := NewHandler(store)

	router := gin.New()
	v1 := router.Group("/api/v1")
	handler.RegisterRoutes(v1)
	return router
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestListFavoritesReturnsSortedList(t *testing.T) {
	api := new(MockAPI)
	api.On("ListFavorites", mock.Anything, domain.CategoryAll).Return([]domain.FavoriteAdvertiser{
		fav(1, "B", domain.CategoryCompeting, false),
		fav(2, "A", domain.CategoryMonitoring, true),
	}, nil)
	router := setupRouter(api)

	resp := performRequest(router, http.MethodGet, "/api/v1/favorites", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope listEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	require.Len(t, envelope.Data.Favorites, 2)
	assert.Equal(t, "A", envelope.Data.Favorites[0].AdvertiserName)
	assert.Equal(t, "B", envelope.Data.Favorites[1].AdvertiserName)
	assert.Equal(t, 2, envelope.Data.Total)
}

func TestListFavoritesRejectsUnknownCategory(t *testing.T) {
	router := setupRouter(new(MockAPI))

	resp := performRequest(router, http.MethodGet, "/api/v1/favorites?category=bogus", nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "INVALID_CATEGORY", envelope.Error.Code)
}

func TestSetPinnedRequiresBody(t *testing.T) {
	router := setupRouter(new(MockAPI))

	resp := performRequest(router, http.MethodPatch, "/api/v1/favorites/1/pin", gin.H{})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "INVALID_BODY", envelope.Error.Code)
}

func TestSetPinnedSurfacesUpstreamRejection(t *testing.T) {
	api := new(MockAPI)
	api.On("UpdateFavorite", mock.Anything, int64(1), mock.Anything).
		Return(nil, &upstream.APIError{StatusCode: 404, Code: "NOT_FOUND", Message: "unknown advertiser"})
	router := setupRouter(api)

	resp := performRequest(router, http.MethodPatch, "/api/v1/favorites/1/pin", gin.H{"is_pinned": true})
	require.Equal(t, http.StatusBadGateway, resp.Code)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "UPSTREAM_REJECTED", envelope.Error.Code)
	assert.Equal(t, "unknown advertiser", envelope.Error.Message)
}

func TestSetNoteAcceptsEmptyString(t *testing.T) {
	api := new(MockAPI)
	api.On("UpdateFavorite", mock.Anything, int64(2), mock.MatchedBy(func(p upstream.FavoritePatch) bool {
		return p.Notes != nil && *p.Notes == ""
	})).Return(&domain.FavoriteAdvertiser{}, nil)
	router := setupRouter(api)

	resp := performRequest(router, http.MethodPut, "/api/v1/favorites/2/note", gin.H{"notes": ""})
	require.Equal(t, http.StatusOK, resp.Code)
	api.AssertExpectations(t)
}

func TestRemoveRequiresConfirmation(t *testing.T) {
	api := new(MockAPI)
	router := setupRouter(api)

	resp := performRequest(router, http.MethodDelete, "/api/v1/favorites/1", nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "CONFIRM_REQUIRED", envelope.Error.Code)
	api.AssertNotCalled(t, "DeleteFavorite", mock.Anything, mock.Anything)
}

func TestRemoveWithConfirmation(t *testing.T) {
	api := new(MockAPI)
	api.On("DeleteFavorite", mock.Anything, int64(1)).Return(nil)
	router := setupRouter(api)

	resp := performRequest(router, http.MethodDelete, "/api/v1/favorites/1?confirm=true", nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	api.AssertExpectations(t)
}

func TestInvalidAdvertiserID(t *testing.T) {
	router := setupRouter(new(MockAPI))

	resp := performRequest(router, http.MethodDelete, "/api/v1/favorites/abc?confirm=true", nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "INVALID_ID", envelope.Error.Code)
}
