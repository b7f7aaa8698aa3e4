package gemini

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/davidcollell/plataformes/internal/enrich"
)

// extractPayload returns the substring from the first '{' to the last '}'
// of text. This is a greedy brace-delimited extraction, not a parser: it
// tolerates prose before the opening brace and trailing noise after the
// closing one.
func extractPayload(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// stripFences removes markdown code-fence markers that the provider may
// emit despite being told not to.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	return strings.ReplaceAll(s, "```", "")
}

// movieTokens and seriesTokens classify the free-form type value in
// either supported language (e.g. "movie", "Pel·lícula", "Sèrie").
var (
	movieTokens  = []string{"movie", "pel", "film"}
	seriesTokens = []string{"serie", "sèr", "tv", "show"}
)

// normalizeType classifies a raw type string into the closed
// movie-or-series tag. Unrecognized values default to movie; the
// function is total and never fails.
func normalizeType(raw string) enrich.MediaType {
	lowered := strings.ToLower(raw)
	for _, tok := range movieTokens {
		if strings.Contains(lowered, tok) {
			return enrich.MediaTypeMovie
		}
	}
	for _, tok := range seriesTokens {
		if strings.Contains(lowered, tok) {
			return enrich.MediaTypeSeries
		}
	}
	return enrich.MediaTypeMovie
}

// coerceInt accepts a JSON number or a numeric string and returns its
// integer value. Absent or unusable values yield zero.
func coerceInt(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
	}

	return 0
}

// coerceIntSlice accepts a JSON array of numbers or numeric strings.
// A present but non-array value yields an empty slice rather than an
// error (defensive normalization).
func coerceIntSlice(raw json.RawMessage) []int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []int{}
	}

	values := make([]int, len(items))
	for i, item := range items {
		values[i] = coerceInt(item)
	}
	return values
}

// normalize applies field-level coercion to a parsed payload. Each
// sub-step is total, so partial malformation never aborts the whole
// normalization.
func normalize(raw rawDetails) *enrich.MediaDetails {
	return &enrich.MediaDetails{
		Title:             strings.TrimSpace(raw.Title),
		Year:              coerceInt(raw.Year),
		Description:       strings.TrimSpace(raw.Description),
		Type:              normalizeType(raw.Type),
		Platform:          strings.TrimSpace(raw.Platform),
		PlatformDomain:    strings.TrimSpace(raw.PlatformDomain),
		Duration:          coerceInt(raw.Duration),
		Seasons:           coerceInt(raw.Seasons),
		EpisodesPerSeason: coerceIntSlice(raw.EpisodesPerSeason),
		PosterURL:         strings.TrimSpace(raw.PosterURL),
		BackdropURL:       strings.TrimSpace(raw.BackdropURL),
	}
}
