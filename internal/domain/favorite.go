package domain

// Category classifies why an advertiser is in the user's favorites.
type Category string

const (
	CategoryMyAdvertiser Category = "my_advertiser"
	CategoryCompeting    Category = "competing"
	CategoryMonitoring   Category = "monitoring"
	CategoryInterested   Category = "interested"
	CategoryOther        Category = "other"

	// CategoryAll is a filter value only, never stored on a record.
	CategoryAll Category = "all"
)

// Valid reports whether c is a storable category (CategoryAll excluded).
func (c Category) Valid() bool {
	switch c {
	case CategoryMyAdvertiser, CategoryCompeting, CategoryMonitoring, CategoryInterested, CategoryOther:
		return true
	}
	return false
}

// FavoriteAdvertiser is the user's read/write projection of a favorite
// record. The backend owns the record; advertiser_id is unique within
// one user's favorite set.
type FavoriteAdvertiser struct {
	ID             int64    `json:"id"`
	AdvertiserID   int64    `json:"advertiser_id"`
	AdvertiserName string   `json:"advertiser_name"`
	BrandName      *string  `json:"brand_name,omitempty"`
	Category       Category `json:"category"`
	IsPinned       bool     `json:"is_pinned"`
	Notes          *string  `json:"notes,omitempty"`
	RecentAdCount  *int     `json:"recent_ad_count,omitempty"`
	TotalEstSpend  *float64 `json:"total_est_spend,omitempty"`
}
