package timeline

import (
	"adscope/internal/domain"
	"adscope/internal/pkg/imageurl"
)

type SnapshotListResponse struct {
	Snapshots []domain.Snapshot `json:"snapshots"`
	Total     int               `json:"total"`
}

func ToSnapshotListResponse(snaps []domain.Snapshot) SnapshotListResponse {
	if snaps == nil {
		snaps = []domain.Snapshot{}
	}
	return SnapshotListResponse{Snapshots: snaps, Total: len(snaps)}
}

// AdDetailView is an AdDetail plus its resolved display image.
type AdDetailView struct {
	domain.AdDetail
	DisplayImage string `json:"display_image"`
}

type DetailResponse struct {
	SnapshotID int64          `json:"snapshot_id"`
	State      DetailState    `json:"state"`
	Details    []AdDetailView `json:"details"`
}

type ToggleResponse struct {
	SnapshotID int64          `json:"snapshot_id"`
	Expanded   bool           `json:"expanded"`
	State      DetailState    `json:"state"`
	Details    []AdDetailView `json:"details"`
}

// BrokenImageRequest reports a display URL that 404ed or errored at render
// time.
type BrokenImageRequest struct {
	URL string `json:"url" binding:"required"`
}

func (s *Store) toDetailViews(resolver *imageurl.Resolver, details []domain.AdDetail) []AdDetailView {
	views := make([]AdDetailView, len(details))
	for i, d := range details {
		views[i] = AdDetailView{
			AdDetail:     d,
			DisplayImage: s.DisplayImage(resolver, d),
		}
	}
	return views
}
