package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/davidcollell/plataformes/internal/config"
	"github.com/davidcollell/plataformes/internal/enrich"
)

// Client is an enrichment client backed by the Gemini generateContent API.
type Client struct {
	httpClient *http.Client
	config     config.GeminiConfig
	logger     zerolog.Logger
}

// NewClient creates a new Gemini client.
func NewClient(cfg config.GeminiConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "gemini").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "gemini"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// FetchDetails resolves a free-text query into a normalized media record.
// The provider returns free text; the structured payload is extracted by
// brace matching, cleaned of stray code fences, parsed and normalized.
func (c *Client) FetchDetails(ctx context.Context, query string) (*enrich.MediaDetails, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("%w: API key is not configured", enrich.ErrProvider)
	}

	text, err := c.generate(ctx, buildPrompt(query))
	if err != nil {
		return nil, err
	}

	candidate, ok := extractPayload(text)
	if !ok {
		c.logger.Warn().Str("query", query).Msg("provider response contained no payload")
		return nil, enrich.ErrNoPayload
	}

	var raw rawDetails
	if err := json.Unmarshal([]byte(stripFences(candidate)), &raw); err != nil {
		c.logger.Warn().Err(err).Str("query", query).Msg("provider payload failed to parse")
		return nil, fmt.Errorf("%w: %v", enrich.ErrInvalidPayload, err)
	}

	details := normalize(raw)

	c.logger.Debug().
		Str("query", query).
		Str("title", details.Title).
		Int("year", details.Year).
		Str("type", string(details.Type)).
		Msg("fetched media details")

	return details, nil
}

// generate performs the generateContent call and returns the concatenated
// response text of the first candidate.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	if c.config.EnableSearch {
		reqBody.Tools = []tool{{GoogleSearch: &googleSearch{}}}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.config.BaseURL, c.config.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("model", c.config.Model).Msg("HTTP request failed")
		return "", fmt.Errorf("%w: %v", enrich.ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("message", errResp.Error.Message).
				Msg("Gemini API error")
		}
		return "", fmt.Errorf("%w: status %d", enrich.ErrProvider, resp.StatusCode)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", enrich.ErrProvider, err)
	}

	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("%w: response has no candidates", enrich.ErrProvider)
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// buildPrompt embeds the user query in the fixed instructional prompt.
func buildPrompt(query string) string {
	return fmt.Sprintf(`You are a high-quality movie and TV show database API.
Search for detailed information about: %q.

Return ONLY a valid JSON object with the following schema:
{
  "title": "Official title in Catalan or Spanish",
  "year": 2024,
  "description": "Short plot summary in Catalan (max 2 sentences)",
  "type": "Pel·lícula" or "Sèrie",
  "platform": "Primary streaming platform in Spain (Netflix, HBO Max, Disney+, etc.)",
  "platformDomain": "The official domain of that platform (e.g. netflix.com, max.com, disneyplus.com, primevideo.com)",
  "duration": 120,
  "seasons": 1,
  "episodesPerSeason": [10, 10],
  "posterUrl": "A direct URL to a vertical poster image",
  "backdropUrl": "A direct URL to a horizontal high-quality representative scene or wallpaper"
}

"duration" is a number and applies to movies only. "seasons" and
"episodesPerSeason" apply to series only.

IMPORTANT: Do not wrap the JSON in markdown code blocks. Do not add any
conversational text. Just the raw JSON object starting with '{' and
ending with '}'.`, query)
}
