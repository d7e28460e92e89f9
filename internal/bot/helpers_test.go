package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContrastNote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hex  string
		want string
	}{
		{"#111827", "Use white text"},
		{"#FFFFFF", "Use black text"},
		{"#F8FAFC", "Use black text"},
		{"#0A0A0A", "Use white text"},
		{"not-a-color", "Use black text"},
		{"#ZZZZZZ", "Use black text"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, contrastNote(tt.hex), tt.hex)
	}
}

func TestMakePaletteMatchesPreset(t *testing.T) {
	t.Parallel()

	got := makePalette("something friendly fintech flavored")
	assert.Contains(t, got, "#0B3D2E")
	assert.Contains(t, got, "#14B8A6")
	assert.Contains(t, got, "Use white text")
}

func TestMakePaletteUnknownVibeFallsBackToFirstPreset(t *testing.T) {
	t.Parallel()

	got := makePalette("circus maximalism")
	assert.Contains(t, got, `Palette for "circus maximalism":`)
	assert.Contains(t, got, "#111827")
}

func TestSuggestFonts(t *testing.T) {
	t.Parallel()

	got := suggestFonts("modern, trustworthy")
	assert.Contains(t, got, `Font pairing ideas for "modern, trustworthy":`)
	assert.Contains(t, got, "Headline: Poppins")
	assert.Contains(t, got, "Body: Source Serif 4")
}

func TestLogoPrompts(t *testing.T) {
	t.Parallel()

	got := logoPrompts("minimal owl, navy")
	assert.Equal(t, 5, strings.Count(got, "minimal owl, navy"))
	assert.True(t, strings.HasPrefix(got, "Logo prompt ideas:"))
}

func TestWebsiteOutline(t *testing.T) {
	t.Parallel()

	got := websiteOutline("Florista")
	assert.Contains(t, got, "Sitemap for Florista:")
	assert.Contains(t, got, "Hero - one-liner + CTA")
}
