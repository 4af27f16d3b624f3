package favorites

import "adscope/internal/domain"

// PinRequest toggles the pin flag. Pointer so "false" and "missing" differ.
type PinRequest struct {
	IsPinned *bool `json:"is_pinned" binding:"required"`
}

// NoteRequest saves a note. Empty string is a valid note (clears it);
// the pointer distinguishes it from an absent field.
type NoteRequest struct {
	Notes *string `json:"notes" binding:"required"`
}

type FavoriteListResponse struct {
	Favorites []domain.FavoriteAdvertiser `json:"favorites"`
	Total     int                         `json:"total"`
	Category  domain.Category             `json:"category"`
}

func ToFavoriteListResponse(favs []domain.FavoriteAdvertiser, category domain.Category) FavoriteListResponse {
	if favs == nil {
		favs = []domain.FavoriteAdvertiser{}
	}
	return FavoriteListResponse{
		Favorites: favs,
		Total:     len(favs),
		Category:  category,
	}
}
