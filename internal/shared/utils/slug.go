package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// GenerateSlug derives a URL slug from a title.
// "Đường vào Gò" -> "duong-vao-go", "Hello, World!" -> "hello-world"
func GenerateSlug(input string) string {
	// Step 1: Fold accented characters to ASCII
	ascii := RemoveDiacritics(input)

	// Step 2: Lowercase
	lower := strings.ToLower(ascii)

	// Step 3: Replace spaces with hyphens
	hyphenated := strings.ReplaceAll(lower, " ", "-")

	// Step 4: Drop everything outside a-z, 0-9, hyphens
	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")

	// Step 5: Collapse consecutive hyphens
	normalized := slugHyphenRuns.ReplaceAllString(cleaned, "-")

	// Step 6: Trim leading/trailing hyphens
	return strings.Trim(normalized, "-")
}

// RemoveDiacritics strips combining marks after NFD decomposition, so
// any accented latin character folds to its base letter.
func RemoveDiacritics(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, input)
	if err != nil {
		return input
	}

	// đ/Đ carry no combining mark, NFD leaves them alone
	folded = strings.ReplaceAll(folded, "đ", "d")
	folded = strings.ReplaceAll(folded, "Đ", "D")

	return folded
}
