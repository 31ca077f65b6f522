package course

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWordPattern  = regexp.MustCompile(`[^\w\s-]`)
	separatorRuns   = regexp.MustCompile(`[\s_-]+`)
	edgeHyphens     = regexp.MustCompile(`^-+|-+$`)
	diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slugify derives a URL-safe identifier from a title: diacritics are
// folded to their base letters, the result is lowercased, non-word
// characters are stripped, and runs of whitespace/underscores/hyphens
// collapse to a single hyphen. The derivation is deterministic so
// re-running the pipeline yields the same slugs.
func Slugify(text string) string {
	folded, _, err := transform.String(diacriticFolder, text)
	if err != nil {
		folded = text
	}
	s := strings.ToLower(strings.TrimSpace(folded))
	s = nonWordPattern.ReplaceAllString(s, "")
	s = separatorRuns.ReplaceAllString(s, "-")
	return edgeHyphens.ReplaceAllString(s, "")
}

// SlugRegistry resolves slug collisions within one batch. The first
// claimant of a base slug keeps it; later claimants receive a numeric
// suffix ("-2", "-3", ...). Claims must be made in a deterministic
// order (the batch driver sorts by source filename) so output is
// reproducible across runs.
//
// SlugRegistry is not safe for concurrent use; the batch driver is the
// single writer.
type SlugRegistry struct {
	counts map[string]int
}

// NewSlugRegistry returns an empty registry.
func NewSlugRegistry() *SlugRegistry {
	return &SlugRegistry{counts: make(map[string]int)}
}

// Claim reserves a unique slug derived from base. An empty base is
// replaced with "untitled" so every entity ends up addressable.
func (r *SlugRegistry) Claim(base string) string {
	if base == "" {
		base = "untitled"
	}
	r.counts[base]++
	n := r.counts[base]
	if n == 1 {
		return base
	}
	suffixed := fmt.Sprintf("%s-%d", base, n)
	// The suffixed form could itself collide with an explicit title
	// like "Introduction 2"; keep bumping until free.
	for r.counts[suffixed] > 0 {
		n++
		r.counts[base] = n
		suffixed = fmt.Sprintf("%s-%d", base, n)
	}
	r.counts[suffixed]++
	return suffixed
}
