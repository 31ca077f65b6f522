// Package classify derives course-level metadata — level, category,
// tags, prerequisites, credits — from the source filename and extracted
// text. All derivations are pure functions over ordered rule tables; no
// I/O happens here.
package classify

import (
	"math"
	"regexp"
	"strings"
)

// Result carries everything the classifier derives for one course.
type Result struct {
	Level         string
	Category      string
	Tags          []string
	Prerequisites []string
}

var levelPattern = regexp.MustCompile(`Level\s+([2-4])`)

// DetectLevel pattern-matches "Level <n>" in the filename. Documents
// without an explicit level are Foundation courses.
func DetectLevel(filename string) string {
	if m := levelPattern.FindStringSubmatch(filename); m != nil {
		return "Level " + m[1]
	}
	return "Foundation"
}

// DetectCategory runs the ordered category table: filename rules first,
// then content rules, then the fallback category.
func DetectCategory(filename, content string) string {
	nameLower := strings.ToLower(filename)
	contentLower := strings.ToLower(content)
	for _, rule := range categoryRules {
		subject := nameLower
		if rule.scope == scopeContent {
			subject = contentLower
		}
		for _, kw := range rule.keywords {
			if strings.Contains(subject, kw) {
				return rule.category
			}
		}
	}
	return FallbackCategory
}

// ExtractTags unions level-derived, subject-keyword and content-keyword
// tags, deduplicated, preserving rule-table order.
func ExtractTags(level, filename, content string) []string {
	var tags []string
	seen := make(map[string]bool)

	add := func(ts []string) {
		for _, t := range ts {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}

	add(levelTags[level])

	nameLower := strings.ToLower(filename)
	for _, rule := range subjectTagRules {
		for _, kw := range rule.keywords {
			if strings.Contains(nameLower, kw) {
				add(rule.tags)
				break
			}
		}
	}

	contentLower := strings.ToLower(content)
	for _, rule := range contentTagRules {
		for _, kw := range rule.keywords {
			if strings.Contains(contentLower, kw) {
				add(rule.tags)
				break
			}
		}
	}

	return tags
}

// Prerequisites evaluates the prerequisite table for the given level
// and category. Targets are weak references by slug; a missing target
// course in the batch is validated downstream, not here.
func Prerequisites(level, category string) []string {
	var slugs []string
	for _, rule := range prerequisiteRules {
		if rule.level != "" && rule.level != level {
			continue
		}
		if rule.category != "" && rule.category != category {
			continue
		}
		slugs = append(slugs, rule.slugs...)
	}
	return slugs
}

// Credits derives accreditation credits from total duration: 5 credits
// per started 10-hour block, scaled by the level multiplier. Rounding
// of the fractional multiplier result happens once, after scaling.
func Credits(level string, durationHours int) int {
	base := math.Ceil(float64(durationHours)/10) * 5
	mult, ok := creditMultipliers[level]
	if !ok {
		mult = 1.0
	}
	return int(math.Round(base * mult))
}

// DurationHours converts summed module minutes to whole hours, rounded
// up.
func DurationHours(totalMinutes int) int {
	return int(math.Ceil(float64(totalMinutes) / 60))
}

// Classify bundles the individual derivations for one document.
func Classify(filename, content string) Result {
	level := DetectLevel(filename)
	category := DetectCategory(filename, content)
	return Result{
		Level:         level,
		Category:      category,
		Tags:          ExtractTags(level, filename, content),
		Prerequisites: Prerequisites(level, category),
	}
}
