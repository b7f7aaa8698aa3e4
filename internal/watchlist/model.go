package watchlist

import (
	"time"

	"github.com/davidcollell/plataformes/internal/enrich"
)

// Status is the viewing state of an item. Transitions are unconstrained:
// either direction, any number of times.
type Status string

const (
	StatusToWatch Status = "towatch"
	StatusWatched Status = "watched"
)

// Valid returns true for a known status value.
func (s Status) Valid() bool {
	return s == StatusToWatch || s == StatusWatched
}

// Item is the persisted watchlist record. The JSON field names are the
// storage format: the whole collection round-trips as one array.
type Item struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Year              int              `json:"year"`
	Description       string           `json:"description"`
	Type              enrich.MediaType `json:"type"`
	Platform          string           `json:"platform"`
	PlatformDomain    string           `json:"platformDomain,omitempty"`
	Duration          int              `json:"duration,omitempty"`          // minutes, movies only
	Seasons           int              `json:"seasons,omitempty"`           // series only
	EpisodesPerSeason []int            `json:"episodesPerSeason,omitempty"` // series only
	PosterURL         string           `json:"posterUrl"`
	BackdropURL       string           `json:"backdropUrl"`
	Status            Status           `json:"status"`
	UserRating        int              `json:"userRating,omitempty"` // 1-5, user-set only
	AddedAt           time.Time        `json:"addedAt"`
}

// SortOption selects the ordering of a listed view.
type SortOption string

const (
	SortRecent SortOption = "recent"
	SortRating SortOption = "rating"
	SortYear   SortOption = "year"
)

// ListOptions filters and orders the derived view of the collection.
// Zero values mean "no filter".
type ListOptions struct {
	Status Status
	Type   enrich.MediaType
	Search string
	Sort   SortOption
}

// Counts holds per-status item totals.
type Counts struct {
	ToWatch int `json:"towatch"`
	Watched int `json:"watched"`
}
