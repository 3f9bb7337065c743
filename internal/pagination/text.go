package pagination

import (
	"regexp"
	"strings"
)

// PreviewLength is the number of characters kept by GeneratePreview.
const PreviewLength = 150

// DefaultWordsPerMinute is the reading speed assumed by ReadingTime.
const DefaultWordsPerMinute = 200

const ellipsis = "..."

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripMarkup replaces every tag with a space, collapses whitespace runs to a
// single space and trims the result.
func StripMarkup(markup string) string {
	if markup == "" {
		return ""
	}
	return strings.Join(strings.Fields(tagPattern.ReplaceAllString(markup, " ")), " ")
}

// CountWords returns the number of whitespace-delimited tokens left after
// StripMarkup. It is the only word counting rule used for page budgets and live
// word counters.
func CountWords(markup string) int {
	if markup == "" {
		return 0
	}
	return len(strings.Fields(tagPattern.ReplaceAllString(markup, " ")))
}

// GeneratePreview returns the stripped text of markup, cut to PreviewLength
// characters with a trailing "..." when it was longer.
func GeneratePreview(markup string) string {
	plain := StripMarkup(markup)
	runes := []rune(plain)
	if len(runes) <= PreviewLength {
		return plain
	}
	return string(runes[:PreviewLength]) + ellipsis
}

// ReadingTime estimates reading time in whole minutes, rounded up.
func ReadingTime(content string, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	words := CountWords(content)
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
