package domain

import "time"

type Device string

const (
	DeviceMobile Device = "mobile"
	DevicePC     Device = "pc"
)

// Snapshot is one capture of a channel's ad inventory. Snapshots are
// append-only on the backend; the client never mutates one.
type Snapshot struct {
	ID             int64     `json:"id"`
	Channel        string    `json:"channel"`
	Device         Device    `json:"device"`
	AdCount        int       `json:"ad_count"`
	CapturedAt     time.Time `json:"captured_at"`
	ScreenshotPath *string   `json:"screenshot_path,omitempty"`
}

// AdDetail is a single ad observed inside a snapshot. Details belong to
// exactly one snapshot and are fetched only when that snapshot is expanded.
type AdDetail struct {
	ID                 int64   `json:"id"`
	AdvertiserNameRaw  *string `json:"advertiser_name_raw,omitempty"`
	AdText             *string `json:"ad_text,omitempty"`
	AdDescription      *string `json:"ad_description,omitempty"`
	AdType             *string `json:"ad_type,omitempty"`
	Position           *int    `json:"position,omitempty"`
	VerificationStatus *string `json:"verification_status,omitempty"`
	URL                *string `json:"url,omitempty"`
	DisplayURL         *string `json:"display_url,omitempty"`
	CreativeImagePath  *string `json:"creative_image_path,omitempty"`
	ScreenshotPath     *string `json:"screenshot_path,omitempty"`
}
