package feed

import (
	"strings"

	"golang.org/x/net/html"
)

// stripHTML reduces an HTML fragment to its text content with whitespace
// collapsed. Shopify body_html routinely carries nested markup and
// entities, so this tokenizes properly instead of regex-stripping tags.
func stripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}

	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	var parts []string

	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			break
		}
		if tokenType == html.TextToken {
			text := strings.TrimSpace(tokenizer.Token().Data)
			if text != "" {
				parts = append(parts, text)
			}
		}
	}

	return strings.Join(parts, " ")
}

// truncate bounds s to max runes so downstream text stays small.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
