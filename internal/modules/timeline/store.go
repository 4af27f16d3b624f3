package timeline

import (
	"context"
	"strconv"
	"sync"
	"time"

	"adscope/internal/cache"
	"adscope/internal/domain"
	"adscope/internal/events"
	"adscope/internal/upstream"
)

const (
	kindSnapshots = "snapshots"
	kindDetail    = "snapshot_detail"
)

// DetailState is what the UI can observe for one snapshot's detail rows.
type DetailState string

const (
	DetailAbsent  DetailState = "absent"
	DetailLoading DetailState = "loading"
	DetailReady   DetailState = "ready"
	DetailFailed  DetailState = "failed"
)

// Store manages the capture-snapshot timeline: newest-first listing, a
// single expanded selection, and lazy per-snapshot ad-detail fetches.
//
// Detail requests are keyed by snapshot id, never by call order. There is
// no hard cancellation: an in-flight response for a snapshot the user has
// navigated away from still lands in that snapshot's own cache slot, but it
// can never overwrite the currently selected snapshot's details, and its
// failure is discarded silently rather than surfaced.
type Store struct {
	api   upstream.API
	cache *cache.Cache
	hub   *events.Hub

	mu         sync.Mutex
	expandedID *int64
	loading    map[int64]bool
	failed     map[int64]error
	broken     map[string]struct{}
}

func NewStore(api upstream.API, c *cache.Cache, hub *events.Hub) *Store {
	return &Store{
		api:     api,
		cache:   c,
		hub:     hub,
		loading: make(map[int64]bool),
		failed:  make(map[int64]error),
		broken:  make(map[string]struct{}),
	}
}

// ListRecent returns the newest-first snapshots, preserving server order.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	key := cache.Key(kindSnapshots, strconv.Itoa(limit))
	v, err := s.cache.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return s.api.ListSnapshots(ctx, limit)
	})
	if err != nil {
		return nil, err
	}

	cached := v.([]domain.Snapshot)
	out := make([]domain.Snapshot, len(cached))
	copy(out, cached)
	return out, nil
}

// ToggleExpand flips the single expansion slot: toggling the expanded
// snapshot collapses it, toggling another replaces the selection. Expanding
// triggers the detail fetch exactly once; a cached result is reused until
// invalidated. Returns whether snapshotID ended up expanded.
func (s *Store) ToggleExpand(ctx context.Context, snapshotID int64) bool {
	s.mu.Lock()

	if s.expandedID != nil && *s.expandedID == snapshotID {
		s.expandedID = nil
		s.mu.Unlock()
		s.hub.Publish(events.TopicTimeline)
		return false
	}

	id := snapshotID
	s.expandedID = &id
	delete(s.failed, snapshotID)

	needFetch := !s.loading[snapshotID] && !s.hasFreshDetail(snapshotID)
	if needFetch {
		s.loading[snapshotID] = true
	}
	s.mu.Unlock()

	if needFetch {
		// The fetch outlives the triggering request; only discarding, not
		// cancellation, handles a selection change mid-flight.
		go s.fetchDetail(context.WithoutCancel(ctx), snapshotID)
	}

	s.hub.Publish(events.TopicTimeline)
	return true
}

// ExpandedID returns the currently expanded snapshot, if any.
func (s *Store) ExpandedID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expandedID == nil {
		return 0, false
	}
	return *s.expandedID, true
}

// DetailOf reports the detail rows for a snapshot. Cached details are
// served for any snapshot; loading and failed states are only meaningful
// for the current selection, so a collapsed snapshot with an in-flight
// request reads as absent, not loading.
func (s *Store) DetailOf(snapshotID int64) ([]domain.AdDetail, DetailState) {
	if e, ok := s.cache.Read(detailKey(snapshotID)); ok && !e.Stale && e.Err == nil {
		return e.Value.([]domain.AdDetail), DetailReady
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expandedID == nil || *s.expandedID != snapshotID {
		return nil, DetailAbsent
	}
	if s.loading[snapshotID] {
		return nil, DetailLoading
	}
	if s.failed[snapshotID] != nil {
		return nil, DetailFailed
	}
	return nil, DetailAbsent
}

// DetailError returns the recorded fetch failure for a snapshot, if any.
func (s *Store) DetailError(snapshotID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed[snapshotID]
}

// ReportBroken records a display URL that failed to load on the client.
// Session-local by contract; a reload starts clean.
func (s *Store) ReportBroken(url string) {
	if url == "" {
		return
	}
	s.mu.Lock()
	s.broken[url] = struct{}{}
	s.mu.Unlock()
	s.hub.Publish(events.TopicTimeline)
}

// IsBroken reports whether a display URL was reported broken this session.
func (s *Store) IsBroken(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.broken[url]
	return ok
}

func (s *Store) fetchDetail(ctx context.Context, snapshotID int64) {
	res, err := s.api.GetSnapshot(ctx, snapshotID)

	s.mu.Lock()
	delete(s.loading, snapshotID)
	stillSelected := s.expandedID != nil && *s.expandedID == snapshotID
	if err != nil && stillSelected {
		// A failure for a snapshot the user already left is a
		// stale-selection race: discarded, never shown.
		s.failed[snapshotID] = err
	}
	s.mu.Unlock()

	if err == nil {
		details := res.Details
		if details == nil {
			details = []domain.AdDetail{}
		}
		s.cache.Write(detailKey(snapshotID), details, time.Now())
	}

	s.hub.Publish(events.TopicTimeline)
}

func (s *Store) hasFreshDetail(snapshotID int64) bool {
	e, ok := s.cache.Read(detailKey(snapshotID))
	return ok && !e.Stale && e.Err == nil
}

func detailKey(snapshotID int64) string {
	return cache.Key(kindDetail, strconv.FormatInt(snapshotID, 10))
}
