package favorites

import (
	"context"
	"sort"
	"sync"

	"adscope/internal/cache"
	"adscope/internal/domain"
	"adscope/internal/events"
	"adscope/internal/upstream"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// cacheKind prefixes every favorites query key, so one Invalidate call
// covers the full list and every category-filtered view at once.
const cacheKind = "favorites"

// Store keeps the favorite-advertiser list in sync with the backend.
//
// Mutations are refetch-consistent, not optimistic: nothing is written to
// the visible list until the server confirms, and a confirmed mutation
// invalidates the whole favorites cache group so every open category view
// refetches. A rejected mutation leaves prior state fully intact.
type Store struct {
	api   upstream.API
	cache *cache.Cache
	hub   *events.Hub

	mu         sync.Mutex
	editingID  *int64
	stagedNote string
}

func NewStore(api upstream.API, c *cache.Cache, hub *events.Hub) *Store {
	return &Store{api: api, cache: c, hub: hub}
}

// List returns the favorites for a category, "all" meaning the full set.
// The display sort is recomputed here on every call: pinned entries first,
// then names in ascending locale order. It is a display invariant, so it
// never relies on server ordering.
func (s *Store) List(ctx context.Context, category domain.Category) ([]domain.FavoriteAdvertiser, error) {
	if category == "" {
		category = domain.CategoryAll
	}
	if category != domain.CategoryAll && !category.Valid() {
		return nil, ErrInvalidCategory
	}

	key := cache.Key(cacheKind, string(category))
	v, err := s.cache.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return s.api.ListFavorites(ctx, category)
	})
	if err != nil {
		return nil, err
	}

	cached := v.([]domain.FavoriteAdvertiser)
	out := make([]domain.FavoriteAdvertiser, 0, len(cached))
	for _, f := range cached {
		if category == domain.CategoryAll || f.Category == category {
			out = append(out, f)
		}
	}
	sortForDisplay(out)
	return out, nil
}

// SetPinned updates the pin flag upstream, then invalidates the favorites
// group. Idempotent: repeating the same state is a harmless no-op upstream.
func (s *Store) SetPinned(ctx context.Context, advertiserID int64, pinned bool) error {
	_, err := s.api.UpdateFavorite(ctx, advertiserID, upstream.FavoritePatch{IsPinned: &pinned})
	if err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// SetNote saves a note. Empty string clears the note and is distinct from
// "no note". Edit mode for the advertiser ends only on server confirmation;
// a rejected save keeps the row editing with the staged text intact so the
// user can retry or cancel.
func (s *Store) SetNote(ctx context.Context, advertiserID int64, text string) error {
	_, err := s.api.UpdateFavorite(ctx, advertiserID, upstream.FavoritePatch{Notes: &text})
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.editingID != nil && *s.editingID == advertiserID {
		s.editingID = nil
		s.stagedNote = ""
	}
	s.mu.Unlock()

	s.invalidate()
	return nil
}

// Remove deletes the favorite. Confirmation is a presentation-layer policy;
// by the time this runs the user already said yes.
func (s *Store) Remove(ctx context.Context, advertiserID int64) error {
	if err := s.api.DeleteFavorite(ctx, advertiserID); err != nil {
		return err
	}

	s.mu.Lock()
	if s.editingID != nil && *s.editingID == advertiserID {
		s.editingID = nil
		s.stagedNote = ""
	}
	s.mu.Unlock()

	s.invalidate()
	return nil
}

// BeginEdit puts one row into note-editing mode, staging its current text.
// At most one row edits at a time; starting a new edit replaces the old one.
func (s *Store) BeginEdit(advertiserID int64, currentNote string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := advertiserID
	s.editingID = &id
	s.stagedNote = currentNote
}

// StageNote replaces the staged (not yet saved) text for the editing row.
func (s *Store) StageNote(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editingID != nil {
		s.stagedNote = text
	}
}

// CancelEdit leaves edit mode, discarding staged text.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingID = nil
	s.stagedNote = ""
}

// Editing reports the row currently in note-editing mode, if any.
func (s *Store) Editing() (advertiserID int64, staged string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editingID == nil {
		return 0, "", false
	}
	return *s.editingID, s.stagedNote, true
}

func (s *Store) invalidate() {
	s.cache.Invalidate(cacheKind)
	s.hub.Publish(events.TopicFavorites)
}

// sortForDisplay orders pinned entries first, ties broken by locale-collated
// advertiser name ascending.
func sortForDisplay(favs []domain.FavoriteAdvertiser) {
	col := collate.New(language.Und)
	sort.SliceStable(favs, func(i, j int) bool {
		return displayLess(col, favs[i], favs[j])
	})
}

func displayLess(col *collate.Collator, a, b domain.FavoriteAdvertiser) bool {
	if a.IsPinned != b.IsPinned {
		return a.IsPinned
	}
	return col.CompareString(a.AdvertiserName, b.AdvertiserName) < 0
}
