// Package segment recovers curriculum structure from normalized plain
// text: heading-delimited sections, lesson-sized units within sections,
// and enumerated assessment questions.
//
// Every heuristic is an ordered list of matchers applied with a strict
// first-matcher-wins policy: the first tier that yields at least one
// match anywhere in the input wins for the whole input, and tiers are
// never mixed. Zero matches is not an error; each extractor has a
// documented fallback.
package segment

import (
	"regexp"
	"strings"
)

// Document is the segmented view of one source document.
type Document struct {
	Title    string    // from a leading "# Title" line, empty if absent
	Preamble string    // text before the first section heading
	Sections []Section // ordered, in document order
}

// Section is one heading-delimited block. Body runs from immediately
// after the heading to immediately before the next heading.
type Section struct {
	Title           string
	Body            string
	QuestionBearing bool // title mentions "question" or "essay"
}

// sectionMatcher is one tier of the prioritized heading detection.
// match returns the section title when the line opens a section.
type sectionMatcher struct {
	name  string
	match func(line string) (title string, ok bool)
}

var (
	markdownHeading = regexp.MustCompile(`^#{1,6}\s+(\S.*)$`)
	labeledHeading  = regexp.MustCompile(`(?i)^(?:module|chapter|section|unit|part)\s+\d+\s*[:.\-\s]\s*(\S.*)$`)
	titleCaseLine   = regexp.MustCompile(`^[A-Z][A-Za-z&' ]{2,58}$`)
	documentTitle   = regexp.MustCompile(`^#\s+(\S.*)$`)
)

// sectionMatchers are tried in priority order. Explicit markup beats
// labeled headers beats bare title-case lines.
var sectionMatchers = []sectionMatcher{
	{
		name: "markdown",
		match: func(line string) (string, bool) {
			m := markdownHeading.FindStringSubmatch(line)
			if m == nil {
				return "", false
			}
			return strings.TrimSpace(m[1]), true
		},
	},
	{
		name: "labeled",
		match: func(line string) (string, bool) {
			m := labeledHeading.FindStringSubmatch(line)
			if m == nil {
				return "", false
			}
			return strings.TrimSpace(m[1]), true
		},
	},
	{
		name: "titlecase",
		match: func(line string) (string, bool) {
			if !titleCaseLine.MatchString(line) {
				return "", false
			}
			// Short capitalized phrase, no terminal punctuation, at
			// most eight words. Longer lines are prose, not headings.
			if len(strings.Fields(line)) > 8 {
				return "", false
			}
			return line, true
		},
	},
}

// questionKeywords flag a section title as question-bearing.
var questionKeywords = []string{"question", "essay"}

// Split segments normalized text into an ordered sequence of titled
// sections. A leading "# Title" line is extracted once as the document
// title before section matching runs. The first matcher tier that
// yields at least one match anywhere in the document wins for the whole
// document; if no tier matches, the entire document becomes a single
// section titled by its first non-empty line.
func Split(text string) Document {
	lines := strings.Split(text, "\n")

	var doc Document
	start := 0

	// Pull the document title off the top: the first non-empty line,
	// when it is a level-1 markdown heading.
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if m := documentTitle.FindStringSubmatch(trimmed); m != nil {
			doc.Title = strings.TrimSpace(m[1])
			start = i + 1
		}
		break
	}
	lines = lines[start:]

	matcher := selectMatcher(lines)
	if matcher == nil {
		return fallbackSplit(doc, lines)
	}

	var (
		sections []Section
		current  *Section
		body     strings.Builder
		preamble strings.Builder
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(body.String())
		sections = append(sections, *current)
		body.Reset()
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if title, ok := matcher.match(trimmed); ok {
			flush()
			current = &Section{
				Title:           title,
				QuestionBearing: isQuestionBearing(title),
			}
			continue
		}
		if current == nil {
			preamble.WriteString(line)
			preamble.WriteString("\n")
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}
	flush()

	doc.Preamble = strings.TrimSpace(preamble.String())
	doc.Sections = sections
	return doc
}

// selectMatcher returns the highest-priority tier with at least one
// match anywhere in the document, or nil when none match.
func selectMatcher(lines []string) *sectionMatcher {
	for i := range sectionMatchers {
		for _, line := range lines {
			if _, ok := sectionMatchers[i].match(strings.TrimSpace(line)); ok {
				return &sectionMatchers[i]
			}
		}
	}
	return nil
}

// fallbackSplit turns an unstructured document into a single section
// titled by its first non-empty line, with the remainder as body.
func fallbackSplit(doc Document, lines []string) Document {
	title := ""
	rest := lines
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			title = strings.TrimSpace(line)
			rest = lines[i+1:]
			break
		}
	}
	if title == "" {
		return doc // nothing but whitespace
	}
	doc.Sections = []Section{{
		Title:           title,
		Body:            strings.TrimSpace(strings.Join(rest, "\n")),
		QuestionBearing: isQuestionBearing(title),
	}}
	return doc
}

func isQuestionBearing(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range questionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
