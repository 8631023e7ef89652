package utils

import (
	"regexp"
	"strings"
)

var (
	scriptBlock   = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	iframeBlock   = regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe\s*>`)
	openTag       = regexp.MustCompile(`(?i)</?(script|iframe)\b[^>]*>`)
	jsScheme      = regexp.MustCompile(`(?i)javascript\s*:`)
	inlineHandler = regexp.MustCompile(`(?i)\s*on\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	markup        = regexp.MustCompile(`(?i)<script|javascript:|<iframe`)
)

// SanitizeHTML strips script/iframe blocks, javascript: URLs and inline event
// handlers from free text. Other text is kept as-is.
func SanitizeHTML(value string) string {
	if value == "" {
		return value
	}
	// a removal can splice a new match together; repeat until stable
	out := value
	for {
		next := stripOnce(out)
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}

func stripOnce(value string) string {
	out := scriptBlock.ReplaceAllString(value, "")
	out = iframeBlock.ReplaceAllString(out, "")
	out = openTag.ReplaceAllString(out, "")
	out = jsScheme.ReplaceAllString(out, "")
	return inlineHandler.ReplaceAllString(out, "")
}

// ContainsMarkup reports whether value carries script, iframe or javascript: content.
func ContainsMarkup(value string) bool {
	return markup.MatchString(value)
}
