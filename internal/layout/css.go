package layout

import (
	"fmt"
	"strings"
)

// HomologationWatermark is printed across invoices issued with tpAmb=2.
const HomologationWatermark = "SEM VALOR FISCAL"

const (
	watermarkFontSize = "6rem"
	watermarkColor    = "#b00000"
	watermarkOpacity  = 0.15
	watermarkAngle    = -35.0
)

// watermarkCSS generates CSS for a diagonal background watermark.
// position:fixed repeats it on every printed page.
func watermarkCSS(text string) string {
	if text == "" {
		return ""
	}

	return fmt.Sprintf(`
body::before {
  content: "%s";
  position: fixed;
  top: 50%%;
  left: 50%%;
  transform: translate(-50%%, -50%%) rotate(%.1fdeg);
  font-size: %s;
  font-weight: bold;
  color: %s;
  opacity: %.2f;
  z-index: 1000;
  pointer-events: none;
  white-space: nowrap;
  font-family: sans-serif;
}
`, escapeCSSString(text), watermarkAngle, watermarkFontSize, watermarkColor, watermarkOpacity)
}

// escapeCSSString escapes s for use inside a double-quoted CSS string.
func escapeCSSString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\A `)
	s = strings.ReplaceAll(s, "\r", "")
	return sanitizeCSS(s)
}

// sanitizeCSS escapes sequences that could close the <style> element.
// html/template trusts template.CSS values, so this is the only guard
// against a custom stylesheet breaking out of it.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
