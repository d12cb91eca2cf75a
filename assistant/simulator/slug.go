package simulator

import (
	"regexp"
	"strings"
)

const maxSlugLength = 70

var (
	// \s alone misses \v, NBSP and the other Unicode spaces
	whitespaceRun = regexp.MustCompile(`[\s\x0b\p{Zs}\x{feff}\x{2028}\x{2029}]+`)
	nonSlugChars  = regexp.MustCompile(`[^\w-]+`)
)

// Slugify lower-cases s, turns whitespace runs into hyphens, drops anything
// that is not a word character or hyphen and truncates to 70 characters.
func Slugify(s string) string {
	slug := strings.ToLower(s)
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	slug = nonSlugChars.ReplaceAllString(slug, "")
	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
	}
	return slug
}
