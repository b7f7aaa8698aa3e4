package gemini

import "encoding/json"

// generateRequest is the request body for models/{model}:generateContent.
type generateRequest struct {
	Contents []content `json:"contents"`
	Tools    []tool    `json:"tools,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// tool enables provider-side augmentation. The search tool is an empty
// object per the API contract.
type tool struct {
	GoogleSearch *googleSearch `json:"google_search,omitempty"`
}

type googleSearch struct{}

// generateResponse is the subset of the generateContent response we read.
type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// ErrorResponse is the error envelope returned on non-2xx statuses.
type ErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// rawDetails mirrors the payload schema the prompt asks for, with the
// fields the model is most likely to mangle left loosely typed so
// coercion can happen as total sub-steps.
type rawDetails struct {
	Title             string          `json:"title"`
	Year              json.RawMessage `json:"year"`
	Description       string          `json:"description"`
	Type              string          `json:"type"`
	Platform          string          `json:"platform"`
	PlatformDomain    string          `json:"platformDomain"`
	Duration          json.RawMessage `json:"duration"`
	Seasons           json.RawMessage `json:"seasons"`
	EpisodesPerSeason json.RawMessage `json:"episodesPerSeason"`
	PosterURL         string          `json:"posterUrl"`
	BackdropURL       string          `json:"backdropUrl"`
}
