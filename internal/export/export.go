// Package export renders palettes into interchange formats.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format is a palette interchange format.
type Format string

const (
	FormatURL   Format = "url"
	FormatCSS   Format = "css"
	FormatSVG   Format = "svg"
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatEmbed Format = "embed"
)

// Swatch geometry used by the SVG format.
const (
	svgSwatchWidth  = 100
	svgSwatchHeight = 100
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatURL, FormatCSS, FormatSVG, FormatText, FormatJSON, FormatEmbed}
}

// ParseFormat resolves a case-insensitive format name. Unknown names resolve to FormatText,
// matching the fallback in Serialize.
func ParseFormat(name string) Format {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Formats() {
		if f == known {
			return f
		}
	}
	return FormatText
}

// Options carries caller-supplied context for formats that need it.
type Options struct {
	// BaseURL is prefixed to shareable palette links, e.g. "https://example.com".
	// An empty BaseURL yields a root-relative path.
	BaseURL string
}

// Serialize renders colors in the requested format. Colors are expected in canonical
// '#rrggbb' form and are emitted as given. Unknown formats fall back to FormatText.
func Serialize(colors []string, format Format, opts Options) string {
	switch format {
	case FormatURL:
		return paletteURL(colors, opts.BaseURL)
	case FormatCSS:
		return css(colors)
	case FormatSVG:
		return svg(colors)
	case FormatJSON:
		return jsonArray(colors)
	case FormatEmbed:
		return fmt.Sprintf(`<iframe src="%s" style="width: 100%%; height: 100px; border: none;"></iframe>`,
			paletteURL(colors, opts.BaseURL))
	default:
		return strings.Join(colors, ", ")
	}
}

func paletteURL(colors []string, baseURL string) string {
	ids := make([]string, len(colors))
	for i, c := range colors {
		ids[i] = strings.TrimPrefix(c, "#")
	}
	return strings.TrimSuffix(baseURL, "/") + "/palette/" + strings.Join(ids, "-")
}

func css(colors []string) string {
	var sb strings.Builder
	sb.WriteString(":root {\n")
	for i, c := range colors {
		fmt.Fprintf(&sb, "  --color-%d: %s;\n", i+1, c)
	}
	sb.WriteString("}")
	return sb.String()
}

func svg(colors []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`,
		len(colors)*svgSwatchWidth, svgSwatchHeight)
	for i, c := range colors {
		fmt.Fprintf(&sb, `<rect x="%d" y="0" width="%d" height="%d" fill="%s"/>`,
			i*svgSwatchWidth, svgSwatchWidth, svgSwatchHeight, c)
	}
	sb.WriteString("</svg>")
	return sb.String()
}

func jsonArray(colors []string) string {
	if colors == nil {
		colors = []string{}
	}
	// Marshalling a []string cannot fail.
	b, _ := json.Marshal(colors)
	return string(b)
}
