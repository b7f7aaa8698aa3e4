package enrich

import (
	"context"
	"errors"
)

var (
	// ErrProvider indicates the enrichment provider call itself failed
	// (network error, non-2xx status, empty response).
	ErrProvider = errors.New("enrichment provider failure")

	// ErrNoPayload indicates the provider response text contained no
	// brace-delimited payload at all.
	ErrNoPayload = errors.New("no structured payload in provider response")

	// ErrInvalidPayload indicates a candidate payload was found but could
	// not be parsed.
	ErrInvalidPayload = errors.New("invalid payload in provider response")
)

// MediaType is the closed movie-or-series classification of a record.
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
)

// MediaDetails is a normalized media record returned by a provider.
type MediaDetails struct {
	Title             string    `json:"title"`
	Year              int       `json:"year"`
	Description       string    `json:"description"`
	Type              MediaType `json:"type"`
	Platform          string    `json:"platform"`
	PlatformDomain    string    `json:"platformDomain,omitempty"`
	Duration          int       `json:"duration,omitempty"`          // minutes, movies only
	Seasons           int       `json:"seasons,omitempty"`           // series only
	EpisodesPerSeason []int     `json:"episodesPerSeason,omitempty"` // series only
	PosterURL         string    `json:"posterUrl,omitempty"`
	BackdropURL       string    `json:"backdropUrl,omitempty"`
}

// Provider defines the interface for enrichment providers.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// IsConfigured returns true if the provider has required configuration.
	IsConfigured() bool

	// FetchDetails resolves a free-text query into a media record.
	// A single attempt is made per call; retrying is the caller's decision.
	FetchDetails(ctx context.Context, query string) (*MediaDetails, error)
}
