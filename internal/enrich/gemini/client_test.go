package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/davidcollell/plataformes/internal/config"
	"github.com/davidcollell/plataformes/internal/enrich"
)

func newTestClient(server *httptest.Server) *Client {
	cfg := config.GeminiConfig{
		APIKey:       "test-api-key",
		Model:        "gemini-test",
		BaseURL:      server.URL,
		Timeout:      5,
		EnableSearch: true,
	}
	return NewClient(cfg, zerolog.Nop())
}

func textResponse(t *testing.T, w http.ResponseWriter, text string) {
	t.Helper()
	resp := generateResponse{
		Candidates: []candidate{
			{Content: content{Parts: []part{{Text: text}}}},
		},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
}

func TestClient_Name(t *testing.T) {
	client := NewClient(config.GeminiConfig{}, zerolog.Nop())
	if client.Name() != "gemini" {
		t.Errorf("Name() = %q, want %q", client.Name(), "gemini")
	}
}

func TestClient_IsConfigured(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
		want   bool
	}{
		{"with key", "abc123", true},
		{"without key", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(config.GeminiConfig{APIKey: tt.apiKey}, zerolog.Nop())
			if got := client.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClient_FetchDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-test:generateContent" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-api-key" {
			t.Errorf("missing API key header")
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 {
			t.Fatalf("unexpected request shape: %+v", req)
		}
		if len(req.Tools) != 1 || req.Tools[0].GoogleSearch == nil {
			t.Errorf("search tool not enabled in request")
		}

		textResponse(t, w, `{"title":"Oppenheimer","year":2023,"type":"movie","description":"La bomba.","platform":"Netflix","platformDomain":"netflix.com","duration":180}`)
	}))
	defer server.Close()

	client := newTestClient(server)
	details, err := client.FetchDetails(context.Background(), "Oppenheimer")
	if err != nil {
		t.Fatalf("FetchDetails() error = %v", err)
	}

	if details.Title != "Oppenheimer" {
		t.Errorf("Title = %q, want %q", details.Title, "Oppenheimer")
	}
	if details.Year != 2023 {
		t.Errorf("Year = %d, want 2023", details.Year)
	}
	if details.Type != enrich.MediaTypeMovie {
		t.Errorf("Type = %q, want movie", details.Type)
	}
	if details.Duration != 180 {
		t.Errorf("Duration = %d, want 180", details.Duration)
	}
	if details.PosterURL != "" {
		t.Errorf("PosterURL = %q, want empty", details.PosterURL)
	}
}

func TestClient_FetchDetails_SurroundingNoise(t *testing.T) {
	// Extraction must tolerate prose before the brace and a trailing fence.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		textResponse(t, w, "Here is the information you asked for:\n"+
			`{"title":"Gavina","year":"2024","type":"Sèrie","seasons":"2","episodesPerSeason":[8,"10"]}`+
			"\n```")
	}))
	defer server.Close()

	client := newTestClient(server)
	details, err := client.FetchDetails(context.Background(), "Gavina")
	if err != nil {
		t.Fatalf("FetchDetails() error = %v", err)
	}

	if details.Type != enrich.MediaTypeSeries {
		t.Errorf("Type = %q, want series", details.Type)
	}
	if details.Year != 2024 {
		t.Errorf("Year = %d, want 2024", details.Year)
	}
	if details.Seasons != 2 {
		t.Errorf("Seasons = %d, want 2", details.Seasons)
	}
	if !reflect.DeepEqual(details.EpisodesPerSeason, []int{8, 10}) {
		t.Errorf("EpisodesPerSeason = %v, want [8 10]", details.EpisodesPerSeason)
	}
}

func TestClient_FetchDetails_NoPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		textResponse(t, w, "I could not find any information about that title.")
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.FetchDetails(context.Background(), "asdfghjkl")
	if !errors.Is(err, enrich.ErrNoPayload) {
		t.Errorf("FetchDetails() error = %v, want ErrNoPayload", err)
	}
}

func TestClient_FetchDetails_InvalidPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		textResponse(t, w, `{"title": "Broken", "year": }`)
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.FetchDetails(context.Background(), "Broken")
	if !errors.Is(err, enrich.ErrInvalidPayload) {
		t.Errorf("FetchDetails() error = %v, want ErrInvalidPayload", err)
	}
}

func TestClient_FetchDetails_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": 500, "message": "internal error", "status": "INTERNAL"},
		})
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.FetchDetails(context.Background(), "Dune")
	if !errors.Is(err, enrich.ErrProvider) {
		t.Errorf("FetchDetails() error = %v, want ErrProvider", err)
	}
}

func TestClient_FetchDetails_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{})
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.FetchDetails(context.Background(), "Dune")
	if !errors.Is(err, enrich.ErrProvider) {
		t.Errorf("FetchDetails() error = %v, want ErrProvider", err)
	}
}

func TestClient_FetchDetails_NotConfigured(t *testing.T) {
	client := NewClient(config.GeminiConfig{}, zerolog.Nop())
	_, err := client.FetchDetails(context.Background(), "Dune")
	if !errors.Is(err, enrich.ErrProvider) {
		t.Errorf("FetchDetails() error = %v, want ErrProvider", err)
	}
}
