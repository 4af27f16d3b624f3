package timeline

import (
	"adscope/internal/domain"
	"adscope/internal/pkg/imageurl"
)

// Placeholder is the marker the UI renders when no usable image exists.
// It is a sentinel, not a URL; the front end maps it to its own asset.
const Placeholder = "placeholder"

// DisplayImage picks the image for one detail row. Two independent
// fallback layers:
//
//  1. binding time: creative_image_path if present, else screenshot_path,
//     else the placeholder marker;
//  2. render time: a URL the client reported broken (via ReportBroken)
//     resolves to the placeholder instead, without erroring.
func (s *Store) DisplayImage(resolver *imageurl.Resolver, d domain.AdDetail) string {
	path := ""
	switch {
	case d.CreativeImagePath != nil && *d.CreativeImagePath != "":
		path = *d.CreativeImagePath
	case d.ScreenshotPath != nil && *d.ScreenshotPath != "":
		path = *d.ScreenshotPath
	}
	if path == "" {
		return Placeholder
	}

	url := resolver.Resolve(path)
	if s.IsBroken(url) {
		return Placeholder
	}
	return url
}
