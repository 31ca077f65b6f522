// Package assemble composes segmented sections, lesson units,
// assessments and classifier output into one validated Course tree.
// Assembly is the only place slugs and order indices are assigned, and
// the only component allowed to reject a document outright.
package assemble

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leaacademy/coursegen/classify"
	"github.com/leaacademy/coursegen/course"
	"github.com/leaacademy/coursegen/segment"
)

// ErrInvalidStructure is the sentinel all StructureErrors unwrap to.
var ErrInvalidStructure = errors.New("coursegen: invalid course structure")

// StructureError reports an invariant violation in an assembled course
// tree. It always names the offending document and the invariant so the
// failure is actionable without re-running with debug instrumentation.
type StructureError struct {
	Document  string
	Invariant string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("coursegen: invalid course structure in %q: %s", e.Document, e.Invariant)
}

func (e *StructureError) Unwrap() error { return ErrInvalidStructure }

// Input is everything the assembler needs for one document.
type Input struct {
	SourceFile string
	Title      string // resolved course title
	Text       string // full normalized document text
	Doc        segment.Document
	Class      classify.Result
	Slugs      *course.SlugRegistry // batch-scoped; never nil
}

// FinalLessonTitle names the lesson synthesized to host a course-level
// final assessment.
const FinalLessonTitle = "Final Assessment"

// Build assembles and validates the Course tree for one document. Order
// indices are contiguous at every level in document order; slugs are
// claimed from the batch registry in that same order so collision
// suffixes are deterministic. The returned course is complete or the
// error is a *StructureError — Build never emits a half-populated tree.
func Build(in Input) (*course.Course, error) {
	if len(in.Doc.Sections) == 0 {
		return nil, &StructureError{Document: in.SourceFile, Invariant: "course has no modules"}
	}

	c := &course.Course{
		Title:         in.Title,
		Slug:          in.Slugs.Claim(course.Slugify(in.Title)),
		Description:   describe(in.Text),
		Level:         in.Class.Level,
		Category:      in.Class.Category,
		Prerequisites: emptyNotNil(in.Class.Prerequisites),
		Tags:          emptyNotNil(in.Class.Tags),
		PassingScore:  course.DefaultPassingScore,
		SourceFile:    in.SourceFile,
	}

	for i, sec := range in.Doc.Sections {
		c.Modules = append(c.Modules, buildModule(in, sec, i))
	}

	attachFinal(c, in)

	totalMinutes := 0
	for _, m := range c.Modules {
		totalMinutes += m.DurationMinutes
	}
	c.DurationHours = classify.DurationHours(totalMinutes)
	c.Credits = classify.Credits(c.Level, c.DurationHours)

	if err := validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// buildModule turns one section into a module. In question-bearing
// sections the enumerated question lines are claimed by the assessment
// first, then lessons are extracted from what remains.
func buildModule(in Input, sec segment.Section, order int) course.Module {
	body := sec.Body
	var questions []string
	if sec.QuestionBearing {
		body, questions = segment.StripQuestions(body)
	}

	mod := course.Module{
		Title:           sec.Title,
		Slug:            in.Slugs.Claim(course.Slugify(sec.Title)),
		Description:     describe(sec.Body),
		Order:           order,
		DurationMinutes: segment.EstimateDuration(sec.Body),
		IsRequired:      true,
		Assessments:     []course.Assessment{}, // serializes as [], never null
	}

	for i, unit := range segment.Lessons(body) {
		mod.Lessons = append(mod.Lessons, course.Lesson{
			Title:           unit.Title,
			Slug:            in.Slugs.Claim(course.Slugify(unit.Title)),
			Content:         unit.Content,
			Type:            unit.Type,
			Order:           i,
			DurationMinutes: unit.DurationMinutes,
			IsRequired:      true,
		})
	}

	// A flagged section with zero extractable questions yields no
	// assessment at all; empty assessments are never constructed.
	if len(questions) > 0 {
		quiz := segment.NewQuiz(sec.Title, questions)
		quiz.Order = 0
		mod.Assessments = append(mod.Assessments, quiz)
	}

	return mod
}

// attachFinal appends a course-level final exam built from
// document-wide questions (enumerated lines outside any section). The
// exam lands on the last module, alongside a synthesized lesson that
// hosts it.
func attachFinal(c *course.Course, in Input) {
	questions := segment.Questions(in.Doc.Preamble)
	if len(questions) == 0 {
		return
	}

	last := &c.Modules[len(c.Modules)-1]

	hasFinalLesson := false
	for _, l := range last.Lessons {
		if l.Title == FinalLessonTitle {
			hasFinalLesson = true
			break
		}
	}
	if !hasFinalLesson {
		last.Lessons = append(last.Lessons, course.Lesson{
			Title:           FinalLessonTitle,
			Slug:            in.Slugs.Claim(course.Slugify(FinalLessonTitle)),
			Content:         "Complete the final assessment to demonstrate your understanding.",
			Type:            course.LessonQuiz,
			Order:           len(last.Lessons),
			DurationMinutes: segment.FinalTimeLimit,
			IsRequired:      true,
		})
	}

	exam := segment.NewFinalExam(c.Title, questions)
	exam.Order = len(last.Assessments)
	last.Assessments = append(last.Assessments, exam)
}

// validate enforces the tree invariants. By construction most hold
// already; this is the engine's last line of defence before a course
// reaches the batch output.
func validate(c *course.Course) error {
	fail := func(format string, args ...any) error {
		return &StructureError{Document: c.Title, Invariant: fmt.Sprintf(format, args...)}
	}

	if c.Slug == "" {
		return fail("course slug is empty")
	}
	if c.PassingScore < 0 {
		return fail("passingScore %d is negative", c.PassingScore)
	}
	if c.Credits < 0 {
		return fail("credits %d is negative", c.Credits)
	}
	if c.DurationHours < 0 {
		return fail("durationHours %d is negative", c.DurationHours)
	}

	for i, m := range c.Modules {
		if m.Order != i {
			return fail("module %q has order %d, want %d", m.Title, m.Order, i)
		}
		if len(m.Lessons) == 0 {
			return fail("module %q has no lessons", m.Title)
		}
		for j, l := range m.Lessons {
			if l.Order != j {
				return fail("lesson %q in module %q has order %d, want %d", l.Title, m.Title, l.Order, j)
			}
		}
		for _, a := range m.Assessments {
			if len(a.Questions) == 0 {
				return fail("assessment %q in module %q has no questions", a.Title, m.Title)
			}
		}
	}
	return nil
}

// describe derives a short description: the first paragraph, cut at 200
// characters on a word boundary.
func describe(text string) string {
	para := strings.TrimSpace(text)
	if idx := strings.Index(para, "\n\n"); idx >= 0 {
		para = strings.TrimSpace(para[:idx])
	}
	para = strings.Join(strings.Fields(para), " ")
	if len(para) <= 200 {
		return para
	}
	cut := strings.LastIndex(para[:200], " ")
	if cut <= 0 {
		cut = 200
	}
	return para[:cut] + "..."
}

func emptyNotNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
