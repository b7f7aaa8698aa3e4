package artwork

import (
	"strings"
	"testing"
)

func TestFallbackPosterURL(t *testing.T) {
	url := FallbackPosterURL("Oppenheimer", 2023)

	if !strings.HasPrefix(url, "https://image.pollinations.ai/prompt/") {
		t.Errorf("unexpected base: %s", url)
	}
	if !strings.Contains(url, "Oppenheimer") {
		t.Errorf("URL does not contain title: %s", url)
	}
	if !strings.Contains(url, "2023") {
		t.Errorf("URL does not contain year: %s", url)
	}
	if !strings.Contains(url, "width=400&height=600") {
		t.Errorf("URL does not request poster dimensions: %s", url)
	}
}

func TestFallbackBackdropURL(t *testing.T) {
	url := FallbackBackdropURL("Oppenheimer", 2023)

	if !strings.Contains(url, "Oppenheimer") {
		t.Errorf("URL does not contain title: %s", url)
	}
	if !strings.Contains(url, "width=800&height=450") {
		t.Errorf("URL does not request backdrop dimensions: %s", url)
	}
}

func TestFallbackURL_EncodesTitle(t *testing.T) {
	url := FallbackPosterURL("La Casa de Papel", 2017)

	if strings.Contains(url[len("https://"):], " ") {
		t.Errorf("URL contains unencoded spaces: %s", url)
	}
	if !strings.Contains(url, "La%20Casa%20de%20Papel") {
		t.Errorf("title not URL-encoded as expected: %s", url)
	}
}
