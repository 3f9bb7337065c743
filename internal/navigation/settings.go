package navigation

import "strings"

// Font size policy range, in points.
const (
	MinFontSize     = 8
	MaxFontSize     = 72
	DefaultFontSize = 16
)

// DefaultFontFamily is used when an unknown family is requested.
const DefaultFontFamily = "arial"

// FontFamilies lists the families the editing surface can render.
var FontFamilies = []string{"avenir", "arial", "georgia", "times-new-roman", "helvetica", "calibri"}

// ClampFontSize forces n into [MinFontSize, MaxFontSize].
func ClampFontSize(n int) int {
	return min(max(n, MinFontSize), MaxFontSize)
}

// NormalizeFontFamily returns the whitelisted family matching name, or
// DefaultFontFamily.
func NormalizeFontFamily(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range FontFamilies {
		if f == name {
			return f
		}
	}
	return DefaultFontFamily
}
