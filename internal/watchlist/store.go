package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/davidcollell/plataformes/internal/artwork"
	"github.com/davidcollell/plataformes/internal/database"
	"github.com/davidcollell/plataformes/internal/enrich"
)

// storageKey is the single fixed key the whole collection lives under.
const storageKey = "media_watchlist"

var (
	ErrEmptyQuery     = errors.New("query must not be empty")
	ErrBusy           = errors.New("an enrichment request is already in progress")
	ErrDuplicateTitle = errors.New("title already in watchlist")
	ErrNotFound       = errors.New("item not found")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

// Broadcaster pushes mutation events to connected clients.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

// Store owns the in-memory ordered collection (most-recent-first) and
// persists it in full after every mutation. Mutation and persistence are
// one unit: a failed write rolls the in-memory change back.
type Store struct {
	db       *database.DB
	provider enrich.Provider
	hub      Broadcaster
	logger   zerolog.Logger

	mu    sync.Mutex
	items []Item

	// adding gates the add pipeline: only one enrichment call may be in
	// flight at a time.
	adding atomic.Bool
}

// NewStore creates a store and loads the persisted collection. A missing
// storage key yields an empty collection.
func NewStore(db *database.DB, provider enrich.Provider, hub Broadcaster, logger zerolog.Logger) (*Store, error) {
	s := &Store{
		db:       db,
		provider: provider,
		hub:      hub,
		logger:   logger.With().Str("component", "watchlist").Logger(),
	}

	raw, ok, err := db.GetStorage(context.Background(), storageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &s.items); err != nil {
			return nil, fmt.Errorf("failed to decode stored watchlist: %w", err)
		}
	}

	s.logger.Info().Int("items", len(s.items)).Msg("watchlist loaded")
	return s, nil
}

// Add runs the enrichment pipeline for a free-text query and prepends the
// resulting record. A case-insensitive title match against the current
// collection aborts with ErrDuplicateTitle, leaving state unchanged.
func (s *Store) Add(ctx context.Context, query string) (*Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if !s.adding.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.adding.Store(false)

	details, err := s.provider.FetchDetails(ctx, query)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lowered := strings.ToLower(details.Title)
	for i := range s.items {
		if strings.ToLower(s.items[i].Title) == lowered {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTitle, details.Title)
		}
	}

	posterURL := details.PosterURL
	if strings.TrimSpace(posterURL) == "" {
		posterURL = artwork.FallbackPosterURL(details.Title, details.Year)
	}
	backdropURL := details.BackdropURL
	if strings.TrimSpace(backdropURL) == "" {
		backdropURL = artwork.FallbackBackdropURL(details.Title, details.Year)
	}

	item := Item{
		ID:                uuid.NewString(),
		Title:             details.Title,
		Year:              details.Year,
		Description:       details.Description,
		Type:              details.Type,
		Platform:          details.Platform,
		PlatformDomain:    details.PlatformDomain,
		Duration:          details.Duration,
		Seasons:           details.Seasons,
		EpisodesPerSeason: details.EpisodesPerSeason,
		PosterURL:         posterURL,
		BackdropURL:       backdropURL,
		Status:            StatusToWatch,
		AddedAt:           time.Now().UTC(),
	}

	s.items = append([]Item{item}, s.items...)
	if err := s.persist(ctx); err != nil {
		s.items = s.items[1:]
		return nil, err
	}

	s.logger.Info().Str("id", item.ID).Str("title", item.Title).Msg("added item")
	s.broadcast("item:added", item)

	return &item, nil
}

// SetStatus replaces the status of the matching item, preserving all
// other fields.
func (s *Store) SetStatus(ctx context.Context, id string, status Status) (*Item, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return nil, ErrNotFound
	}

	prev := s.items[idx].Status
	s.items[idx].Status = status
	if err := s.persist(ctx); err != nil {
		s.items[idx].Status = prev
		return nil, err
	}

	item := s.items[idx]
	s.logger.Info().Str("id", id).Str("status", string(status)).Msg("updated item status")
	s.broadcast("item:updated", item)

	return &item, nil
}

// SetRating replaces the user rating (1-5) of the matching item.
func (s *Store) SetRating(ctx context.Context, id string, rating int) (*Item, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRating, rating)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return nil, ErrNotFound
	}

	prev := s.items[idx].UserRating
	s.items[idx].UserRating = rating
	if err := s.persist(ctx); err != nil {
		s.items[idx].UserRating = prev
		return nil, err
	}

	item := s.items[idx]
	s.logger.Info().Str("id", id).Int("rating", rating).Msg("updated item rating")
	s.broadcast("item:updated", item)

	return &item, nil
}

// Remove deletes the matching item. An absent id is a no-op, reported
// through the boolean rather than an error.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return false, nil
	}

	removed := s.items[idx]
	items := make([]Item, 0, len(s.items)-1)
	items = append(items, s.items[:idx]...)
	items = append(items, s.items[idx+1:]...)

	prev := s.items
	s.items = items
	if err := s.persist(ctx); err != nil {
		s.items = prev
		return false, err
	}

	s.logger.Info().Str("id", id).Str("title", removed.Title).Msg("removed item")
	s.broadcast("item:removed", removed)

	return true, nil
}

// List returns a derived view of the collection: filtered by status tab,
// type category and free-text search, then ordered. The view is a full
// recomputation over the collection on every call.
func (s *Store) List(opts ListOptions) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Item, 0, len(s.items))
	search := strings.ToLower(strings.TrimSpace(opts.Search))

	for _, item := range s.items {
		if opts.Status != "" && item.Status != opts.Status {
			continue
		}
		if opts.Type != "" && item.Type != opts.Type {
			continue
		}
		if search != "" && !matchesSearch(item, search) {
			continue
		}
		items = append(items, item)
	}

	switch opts.Sort {
	case SortRating:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].UserRating > items[j].UserRating
		})
	case SortYear:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Year > items[j].Year
		})
	default:
		// SortRecent: insertion order, most recent first.
	}

	return items
}

// Counts returns per-status totals over the whole collection.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()

	var c Counts
	for i := range s.items {
		switch s.items[i].Status {
		case StatusWatched:
			c.Watched++
		default:
			c.ToWatch++
		}
	}
	return c
}

// Len returns the collection size.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return nil, ErrNotFound
	}
	item := s.items[idx]
	return &item, nil
}

// Export writes the collection as indented JSON, in storage order.
func (s *Store) Export(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.items)
}

// matchesSearch reports whether item matches a lowercased search term
// over title, year, platform and description.
func matchesSearch(item Item, search string) bool {
	return strings.Contains(strings.ToLower(item.Title), search) ||
		strings.Contains(strconv.Itoa(item.Year), search) ||
		strings.Contains(strings.ToLower(item.Platform), search) ||
		strings.Contains(strings.ToLower(item.Description), search)
}

// indexOf returns the position of id in the collection, or -1.
// Caller must hold s.mu.
func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// persist re-serializes the full collection to the storage substrate.
// Caller must hold s.mu.
func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("failed to encode watchlist: %w", err)
	}
	if err := s.db.PutStorage(ctx, storageKey, string(data)); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist watchlist")
		return err
	}
	return nil
}

// broadcast pushes a mutation event when a hub is attached.
func (s *Store) broadcast(msgType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	if err := s.hub.Broadcast(msgType, payload); err != nil {
		s.logger.Warn().Err(err).Str("type", msgType).Msg("failed to broadcast event")
	}
}
