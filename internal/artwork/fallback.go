package artwork

import (
	"fmt"
	"net/url"
)

// Type represents the type of artwork.
type Type string

const (
	TypePoster   Type = "poster"
	TypeBackdrop Type = "backdrop"
)

// Fallback art is synthesized through an image-generation service when
// the enrichment provider supplies no usable URL. The prompt templates
// and dimensions (vertical 400x600 poster, horizontal 800x450 backdrop)
// are fixed; only the URL-encoded title and year vary.
const (
	fallbackBase   = "https://image.pollinations.ai/prompt"
	posterPrompt   = "movie poster key art for %s %d vertical high quality"
	posterParams   = "width=400&height=600&nologo=true"
	backdropPrompt = "cinematic wide shot scene from the movie or show %s %d highly detailed masterpiece"
	backdropParams = "width=800&height=450&nologo=true"
)

// FallbackPosterURL returns the synthesized poster URL for a title/year.
func FallbackPosterURL(title string, year int) string {
	prompt := fmt.Sprintf(posterPrompt, title, year)
	return fmt.Sprintf("%s/%s?%s", fallbackBase, url.PathEscape(prompt), posterParams)
}

// FallbackBackdropURL returns the synthesized backdrop URL for a title/year.
func FallbackBackdropURL(title string, year int) string {
	prompt := fmt.Sprintf(backdropPrompt, title, year)
	return fmt.Sprintf("%s/%s?%s", fallbackBase, url.PathEscape(prompt), backdropParams)
}
