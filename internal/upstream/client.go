package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"adscope/internal/domain"
)

// API is the backend marketing API surface the stores depend on.
type API interface {
	ListFavorites(ctx context.Context, category domain.Category) ([]domain.FavoriteAdvertiser, error)
	UpdateFavorite(ctx context.Context, advertiserID int64, patch FavoritePatch) (*domain.FavoriteAdvertiser, error)
	DeleteFavorite(ctx context.Context, advertiserID int64) error
	ListSnapshots(ctx context.Context, limit int) ([]domain.Snapshot, error)
	GetSnapshot(ctx context.Context, id int64) (*SnapshotWithDetails, error)
}

// FavoritePatch is a partial update; nil fields are left untouched.
type FavoritePatch struct {
	Category *domain.Category `json:"category,omitempty"`
	Notes    *string          `json:"notes,omitempty"`
	IsPinned *bool            `json:"is_pinned,omitempty"`
}

// SnapshotWithDetails is the GET snapshot/{id} payload: the snapshot plus
// its nested ad details.
type SnapshotWithDetails struct {
	Snapshot domain.Snapshot   `json:"snapshot"`
	Details  []domain.AdDetail `json:"details"`
}

// Client is the HTTP implementation of API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) ListFavorites(ctx context.Context, category domain.Category) ([]domain.FavoriteAdvertiser, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", string(category))
	}
	var out struct {
		Favorites []domain.FavoriteAdvertiser `json:"favorites"`
	}
	if err := c.do(ctx, http.MethodGet, "/favorites", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Favorites, nil
}

func (c *Client) UpdateFavorite(ctx context.Context, advertiserID int64, patch FavoritePatch) (*domain.FavoriteAdvertiser, error) {
	var out struct {
		Favorite domain.FavoriteAdvertiser `json:"favorite"`
	}
	path := "/favorite/" + strconv.FormatInt(advertiserID, 10)
	if err := c.do(ctx, http.MethodPatch, path, nil, patch, &out); err != nil {
		return nil, err
	}
	return &out.Favorite, nil
}

func (c *Client) DeleteFavorite(ctx context.Context, advertiserID int64) error {
	path := "/favorite/" + strconv.FormatInt(advertiserID, 10)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) ListSnapshots(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	var out struct {
		Snapshots []domain.Snapshot `json:"snapshots"`
	}
	if err := c.do(ctx, http.MethodGet, "/snapshots", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Snapshots, nil
}

func (c *Client) GetSnapshot(ctx context.Context, id int64) (*SnapshotWithDetails, error) {
	var out SnapshotWithDetails
	path := "/snapshot/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one JSON request. Transport failures come back as
// *NetworkError, non-2xx statuses as *APIError with the decoded body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		if apiErr.Code == "" {
			apiErr.Code = body.Error.Code
		}
		if apiErr.Message == "" {
			apiErr.Message = body.Error.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = string(raw)
	}
	return apiErr
}
