package bot

import (
	"fmt"
	"strconv"
	"strings"
)

// Local no-model helpers: fast brand utilities and the greeting menu. These
// answer instantly without touching the completion backend.

const greetingMenu = "\U0001F44B hey! i'm your assistant.\n\n" +
	"base skills:\n" +
	"\u2022 brand colors: <vibe>\n" +
	"\u2022 font pairing for <personality>\n" +
	"\u2022 logo prompts: <brief>\n" +
	"\u2022 website outline: <name>\n\n" +
	"assistant skills:\n" +
	"\u2022 plan: <goal>\n" +
	"\u2022 draft: <thing>\n\n" +
	"controls:\n" +
	"\u2022 remember: <company/product/tone>\n" +
	"\u2022 forget\n" +
	"\u2022 qa on | qa off\n" +
	"\u2022 council on | council off\n" +
	"\u2022 council roles: Assistant, BrandExpert, Copywriter, ContractWriter\n" +
	"\u2022 persona: Assistant | BrandExpert | ContractWriter | Copywriter\n" +
	"...or just tell me what you need."

type palettePreset struct {
	key    string
	colors []string
}

var palettePresets = []palettePreset{
	{"modern tech", []string{"#111827", "#0EA5E9", "#22D3EE", "#F1F5F9", "#94A3B8"}},
	{"friendly fintech", []string{"#0B3D2E", "#14B8A6", "#A7F3D0", "#F59E0B", "#F8FAFC"}},
	{"minimal black & white", []string{"#0A0A0A", "#1F2937", "#6B7280", "#E5E7EB", "#FFFFFF"}},
	{"playful startup", []string{"#1D4ED8", "#60A5FA", "#10B981", "#F59E0B", "#FDE68A"}},
	{"calm premium", []string{"#0F172A", "#334155", "#94A3B8", "#E2E8F0", "#F8FAFC"}},
}

// contrastNote recommends a text colour from relative luminance.
func contrastNote(hex string) string {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != 6 {
		return "Use black text"
	}
	r, errR := strconv.ParseUint(h[0:2], 16, 8)
	g, errG := strconv.ParseUint(h[2:4], 16, 8)
	b, errB := strconv.ParseUint(h[4:6], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		return "Use black text"
	}
	luminance := 0.2126*float64(r)/255 + 0.7152*float64(g)/255 + 0.0722*float64(b)/255
	if luminance < 0.5 {
		return "Use white text"
	}
	return "Use black text"
}

func makePalette(vibe string) string {
	colors := palettePresets[0].colors
	lower := strings.ToLower(vibe)
	for _, preset := range palettePresets {
		if strings.Contains(lower, preset.key) {
			colors = preset.colors
			break
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\U0001F3A8 Palette for %q:\n", vibe)
	for i, hex := range colors {
		fmt.Fprintf(&b, "%d) %s - %s\n", i+1, hex, contrastNote(hex))
	}
	return strings.TrimSpace(b.String())
}

func suggestFonts(personality string) string {
	pairs := []struct {
		name, head, body, notes string
	}{
		{"Modern/Product", "Inter", "Inter", "Dashboards/apps. 700-900 headings, 400-500 body."},
		{"Tech + Editorial", "Poppins", "Source Serif 4", "Geometric + serif credibility."},
		{"Clean Corporate", "IBM Plex Sans", "IBM Plex Sans", "Neutral tone, readable docs."},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Font pairing ideas for %q:\n", personality)
	for _, p := range pairs {
		fmt.Fprintf(&b, "\n\u2022 %s\n  Headline: %s\n  Body: %s\n  Notes: %s", p.name, p.head, p.body, p.notes)
	}
	return strings.TrimSpace(b.String())
}

func logoPrompts(brief string) string {
	lines := []string{
		fmt.Sprintf("Minimal symbol, flat vector, %s, single-color mark", brief),
		fmt.Sprintf("Geometric animal/icon, %s, bold lines, monochrome", brief),
		fmt.Sprintf("Abstract forward shape, %s, flat, solid fills", brief),
		fmt.Sprintf("Wordmark with custom cut letter, %s, display weight", brief),
		fmt.Sprintf("Mascot simplified, %s, brand icon, black on white", brief),
	}
	return "Logo prompt ideas:\n\u2022 " + strings.Join(lines, "\n\u2022 ")
}

func websiteOutline(name string) string {
	return strings.Join([]string{
		fmt.Sprintf("Sitemap for %s:", name),
		"\u2022 Home \u2022 Solutions \u2022 Pricing \u2022 About \u2022 Blog \u2022 Contact",
		"",
		"Home sections:",
		"1) Hero - one-liner + CTA",
		"2) Problem -> Solution - bullets",
		"3) How it works - 3 steps",
		"4) Use cases - 3 tiles",
		"5) Social proof - testimonials/logos",
		"6) Pricing teaser - link",
		"7) Final CTA - start/contact",
	}, "\n")
}
