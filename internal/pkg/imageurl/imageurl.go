package imageurl

import "strings"

// Resolver turns the relative storage paths the backend returns into
// absolute fetchable URLs. The rest of the system treats this as an opaque
// string transform.
type Resolver struct {
	base string
}

func NewResolver(assetBaseURL string) *Resolver {
	return &Resolver{base: strings.TrimRight(assetBaseURL, "/")}
}

// Resolve maps a storage path to a URL. Absolute URLs pass through
// untouched; empty input stays empty.
func (r *Resolver) Resolve(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return r.base + "/" + strings.TrimLeft(path, "/")
}
