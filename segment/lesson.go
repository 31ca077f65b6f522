package segment

import (
	"math"
	"regexp"
	"strings"
)

// Unit is one lesson-sized block extracted from a section body.
type Unit struct {
	Title           string
	Content         string
	Type            string // text, video, interactive, quiz
	DurationMinutes int
}

// ReadingRate is the assumed reading speed used for duration estimates,
// in words per minute.
const ReadingRate = 200

// MinLessonMinutes floors every duration estimate so trivially short
// units still register as real lessons.
const MinLessonMinutes = 5

// FallbackLessonTitle names the single lesson synthesized when no
// lesson pattern matches a section body.
const FallbackLessonTitle = "Introduction"

var (
	lessonLabel  = regexp.MustCompile(`(?i)^(?:lesson|topic)\s+\d+\s*[:.\-\s]\s*(\S.*)$`)
	numberedItem = regexp.MustCompile(`^\d+\.\s+(\S.*)$`)
	bulletItem   = regexp.MustCompile(`^[-*\x{2022}]\s+(\S.*)$`)
)

// lessonMatchers mirror the section tiers at a finer grain: explicit
// lesson/topic labels, then numbered list items, then bullets.
var lessonMatchers = []*regexp.Regexp{lessonLabel, numberedItem, bulletItem}

// contentTypeRule classifies a lesson body by keyword presence. Rules
// are evaluated top to bottom; the first hit wins.
type contentTypeRule struct {
	keywords   []string
	lessonType string
}

var contentTypeRules = []contentTypeRule{
	{[]string{"video", "watch"}, "video"},
	{[]string{"quiz", "question"}, "quiz"},
	{[]string{"interactive", "exercise"}, "interactive"},
}

// Lessons segments a section body into an ordered sequence of lesson
// units. The first matcher tier with at least one match wins for the
// whole section; with no match the entire body becomes a single
// "Introduction" lesson. Every unit is classified and given a reading
// duration; the result is never empty for a non-empty body.
func Lessons(body string) []Unit {
	lines := strings.Split(body, "\n")

	matcher := selectLessonMatcher(lines)
	if matcher == nil {
		return []Unit{makeUnit(FallbackLessonTitle, body)}
	}

	var (
		units   []Unit
		title   string
		content strings.Builder
		started bool
	)

	flush := func() {
		if !started {
			return
		}
		units = append(units, makeUnit(title, strings.TrimSpace(content.String())))
		content.Reset()
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if m := matcher.FindStringSubmatch(trimmed); m != nil {
			flush()
			title = strings.TrimSpace(m[1])
			started = true
			continue
		}
		if started {
			content.WriteString(line)
			content.WriteString("\n")
		}
	}
	flush()

	if len(units) == 0 {
		return []Unit{makeUnit(FallbackLessonTitle, body)}
	}
	return units
}

func selectLessonMatcher(lines []string) *regexp.Regexp {
	for _, re := range lessonMatchers {
		for _, line := range lines {
			if re.MatchString(strings.TrimSpace(line)) {
				return re
			}
		}
	}
	return nil
}

func makeUnit(title, content string) Unit {
	// A list-item lesson often has no body of its own; fall back to the
	// title so the lesson still carries a text payload.
	payload := content
	if payload == "" {
		payload = title
	}
	return Unit{
		Title:           title,
		Content:         payload,
		Type:            ClassifyContent(title + "\n" + content),
		DurationMinutes: EstimateDuration(payload),
	}
}

// ClassifyContent assigns a lesson content type by keyword scan,
// defaulting to "text".
func ClassifyContent(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range contentTypeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.lessonType
			}
		}
	}
	return "text"
}

// EstimateDuration converts a text payload to minutes of reading at
// ReadingRate words per minute, rounded up, floored at
// MinLessonMinutes.
func EstimateDuration(text string) int {
	words := len(strings.Fields(text))
	minutes := int(math.Ceil(float64(words) / float64(ReadingRate)))
	if minutes < MinLessonMinutes {
		return MinLessonMinutes
	}
	return minutes
}
