package report

import "strings"

// MeasureFunc returns the rendered width of s in the current font.
type MeasureFunc func(s string) float64

// WrapText breaks text into lines no wider than maxWidth, breaking only at
// whitespace. Explicit newlines always start a new line and blank lines are
// kept. A single word wider than maxWidth is placed alone on its own line
// unmodified. The result is never empty: blank input yields one empty line.
// A non-positive maxWidth or a nil measure disables wrapping.
func WrapText(text string, maxWidth float64, measure MeasureFunc) []string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return []string{""}
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		if maxWidth <= 0 || measure == nil {
			lines = append(lines, strings.Join(words, " "))
			continue
		}
		lines = append(lines, wrapWords(words, maxWidth, measure)...)
	}
	return lines
}

func wrapWords(words []string, maxWidth float64, measure MeasureFunc) []string {
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = w
	}
	return append(lines, current)
}
