package coursegen

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leaacademy/coursegen/course"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTestEngine(t *testing.T, cfg Config) Engine {
	t.Helper()
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

// ---------------------------------------------------------------------------
// End-to-end pipeline
// ---------------------------------------------------------------------------

func TestParseFileQuizExtraction(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"safety.md": `# Safety Basics

## Infection Control
Wash your hands before every procedure and sterilize all equipment.

## Knowledge Questions
1. What is the first step of infection control?
2. Explain the chain of infection.
3. Name two methods of sterilization.
`,
	})

	e := newTestEngine(t, Config{})
	c, err := e.ParseFile(context.Background(), filepath.Join(dir, "safety.md"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if c.Title != "Safety Basics" {
		t.Errorf("Title = %q, want %q (document heading wins)", c.Title, "Safety Basics")
	}
	if len(c.Modules) != 2 {
		t.Fatalf("len(Modules) = %d, want 2", len(c.Modules))
	}

	quizMod := c.Modules[1]
	if len(quizMod.Assessments) != 1 {
		t.Fatalf("len(Assessments) = %d, want 1", len(quizMod.Assessments))
	}
	quiz := quizMod.Assessments[0]
	if quiz.Type != course.AssessmentQuiz {
		t.Errorf("assessment Type = %q, want quiz", quiz.Type)
	}
	if len(quiz.Questions) != 3 {
		t.Errorf("len(Questions) = %d, want 3", len(quiz.Questions))
	}
	if quiz.PassingScore != 70 || quiz.TimeLimitMinutes != 30 || quiz.MaxAttempts != 3 {
		t.Errorf("quiz defaults = %d/%d/%d, want 70/30/3",
			quiz.PassingScore, quiz.TimeLimitMinutes, quiz.MaxAttempts)
	}
}

func TestParseFileUnstructuredProse(t *testing.T) {
	var prose strings.Builder
	prose.WriteString("aesthetics practice requires attention to client safety at every stage.\n")
	for i := 0; i < 30; i++ {
		prose.WriteString("each consultation begins with a full medical history and informed consent discussion.\n")
	}

	dir := writeFiles(t, map[string]string{"notes.md": prose.String()})

	e := newTestEngine(t, Config{})
	c, err := e.ParseFile(context.Background(), filepath.Join(dir, "notes.md"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if len(c.Modules) != 1 {
		t.Fatalf("len(Modules) = %d, want 1 for headingless prose", len(c.Modules))
	}
	mod := c.Modules[0]
	if len(mod.Lessons) != 1 {
		t.Fatalf("len(Lessons) = %d, want 1", len(mod.Lessons))
	}
	if mod.Lessons[0].Type != course.LessonText {
		t.Errorf("lesson Type = %q, want text", mod.Lessons[0].Type)
	}
	// ~330 words reads in under five minutes; the floor applies.
	if mod.Lessons[0].DurationMinutes != 5 {
		t.Errorf("DurationMinutes = %d, want the 5-minute floor", mod.Lessons[0].DurationMinutes)
	}
	if len(mod.Assessments) != 0 {
		t.Errorf("len(Assessments) = %d, want 0", len(mod.Assessments))
	}
}

func TestParseFileClassification(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"2. A&P Level 3.md": `## Facial Anatomy
The muscles of facial expression and their vascular supply.
`,
	})

	e := newTestEngine(t, Config{})
	c, err := e.ParseFile(context.Background(), filepath.Join(dir, "2. A&P Level 3.md"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if c.Title != "A&P Level 3" {
		t.Errorf("Title = %q, want %q (ordering prefix stripped)", c.Title, "A&P Level 3")
	}
	if c.Slug != "ap-level-3" {
		t.Errorf("Slug = %q, want %q", c.Slug, "ap-level-3")
	}
	if c.Level != course.Level3 {
		t.Errorf("Level = %q, want %q", c.Level, course.Level3)
	}
	if c.Category != "Anatomy & Physiology" {
		t.Errorf("Category = %q, want %q", c.Category, "Anatomy & Physiology")
	}
	if len(c.Prerequisites) != 1 || c.Prerequisites[0] != "anatomy-physiology-level-2" {
		t.Errorf("Prerequisites = %v, want [anatomy-physiology-level-2]", c.Prerequisites)
	}
	if c.SourceFile != "2. A&P Level 3.md" {
		t.Errorf("SourceFile = %q", c.SourceFile)
	}
}

func TestParseFileFlaggedSectionWithoutQuestions(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"course.md": `## Discussion Questions
Think about the material covered so far and discuss it with your mentor.
`,
	})

	e := newTestEngine(t, Config{})
	c, err := e.ParseFile(context.Background(), filepath.Join(dir, "course.md"))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if len(c.Modules[0].Assessments) != 0 {
		t.Errorf("len(Assessments) = %d, want 0 for a flagged section with no enumerated questions",
			len(c.Modules[0].Assessments))
	}
}

func TestParseFileUnsupportedFormat(t *testing.T) {
	dir := writeFiles(t, map[string]string{"deck.pptx": "binary junk"})

	e := newTestEngine(t, Config{})
	_, err := e.ParseFile(context.Background(), filepath.Join(dir, "deck.pptx"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

// ---------------------------------------------------------------------------
// Batch processing
// ---------------------------------------------------------------------------

func TestParseDirectorySlugCollisions(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a course.md": "## Introduction\nLesson 1: Alpha\nFirst course content.\n",
		"b course.md": "## Introduction\nLesson 1: Beta\nSecond course content.\n",
	})

	e := newTestEngine(t, Config{})
	result, err := e.ParseDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("ParseDirectory: %v", err)
	}

	if result.Succeeded != 2 {
		t.Fatalf("Succeeded = %d, want 2", result.Succeeded)
	}

	slugs := make(map[string]string)
	record := func(slug, owner string) {
		if prev, ok := slugs[slug]; ok {
			t.Errorf("slug %q claimed by both %s and %s", slug, prev, owner)
		}
		slugs[slug] = owner
	}
	for _, c := range result.Courses {
		record(c.Slug, c.SourceFile)
		for _, m := range c.Modules {
			record(m.Slug, c.SourceFile)
			for _, l := range m.Lessons {
				record(l.Slug, c.SourceFile)
			}
		}
	}

	// Sorted filename order: a course.md claims the bare slug.
	if result.Courses[0].Modules[0].Slug != "introduction" {
		t.Errorf("first module slug = %q, want %q", result.Courses[0].Modules[0].Slug, "introduction")
	}
	if result.Courses[1].Modules[0].Slug != "introduction-2" {
		t.Errorf("second module slug = %q, want %q", result.Courses[1].Modules[0].Slug, "introduction-2")
	}
}

func TestParseDirectoryFailureIsolation(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"good.md":      "## Module One\nUseful course content for the good document.\n",
		"corrupt.docx": "this is not a zip archive",
	})

	e := newTestEngine(t, Config{})
	result, err := e.ParseDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("ParseDirectory: %v", err)
	}

	if result.Attempted != 2 {
		t.Errorf("Attempted = %d, want 2", result.Attempted)
	}
	if result.Succeeded != 1 {
		t.Errorf("Succeeded = %d, want 1", result.Succeeded)
	}
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	if len(result.Failures) != 1 || result.Failures[0].Filename != "corrupt.docx" {
		t.Errorf("Failures = %+v, want one entry for corrupt.docx", result.Failures)
	}
	if len(result.Courses) != 1 {
		t.Errorf("len(Courses) = %d, want 1", len(result.Courses))
	}
}

func TestParseDirectorySkipsUnsupported(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"course.md":  "## Module One\nContent here.\n",
		"notes.pptx": "ignored",
		"data.csv":   "ignored",
	})

	e := newTestEngine(t, Config{})
	result, err := e.ParseDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("ParseDirectory: %v", err)
	}

	if result.Attempted != 1 {
		t.Errorf("Attempted = %d, want 1 (unsupported formats skipped)", result.Attempted)
	}
}

func TestParseDirectoryIdempotent(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.md": "## Introduction\nShared content one.\n\n## Questions\n1. What is asepsis?\n",
		"b.md": "## Introduction\nShared content two.\n",
	})

	run := func() []byte {
		e := newTestEngine(t, Config{})
		result, err := e.ParseDirectory(context.Background(), dir)
		if err != nil {
			t.Fatalf("ParseDirectory: %v", err)
		}
		out := filepath.Join(t.TempDir(), "out.json")
		if err := e.WriteOutput(result.Courses, out); err != nil {
			t.Fatalf("WriteOutput: %v", err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	first := run()
	second := run()
	if !bytes.Equal(first, second) {
		t.Error("re-running the pipeline on identical input changed the output bytes")
	}
}

func TestParseDirectoryManifest(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"good.md":      "## Module One\nContent for the ledger test.\n",
		"corrupt.docx": "not a zip",
	})

	e := newTestEngine(t, Config{
		ManifestPath: filepath.Join(t.TempDir(), "ledger.db"),
	})
	if _, err := e.ParseDirectory(context.Background(), dir); err != nil {
		t.Fatalf("ParseDirectory: %v", err)
	}

	eng := e.(*engine)
	docs, err := eng.ledger.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("len(docs) = %d, want 2", len(docs))
	}

	byName := make(map[string]string)
	for _, d := range docs {
		byName[d.Filename] = d.Status
	}
	if byName["good.md"] != "parsed" {
		t.Errorf("good.md status = %q, want parsed", byName["good.md"])
	}
	if byName["corrupt.docx"] != "failed" {
		t.Errorf("corrupt.docx status = %q, want failed", byName["corrupt.docx"])
	}
}

// ---------------------------------------------------------------------------
// Output
// ---------------------------------------------------------------------------

func TestWriteOutputValidates(t *testing.T) {
	e := newTestEngine(t, Config{})

	// A course violating the schema (empty slug) must be rejected.
	bad := []course.Course{{
		Title:         "Broken",
		Slug:          "",
		Level:         "Foundation",
		Category:      "Foundation Studies",
		Prerequisites: []string{},
		Tags:          []string{},
		PassingScore:  70,
		Modules: []course.Module{{
			Title: "M", Slug: "m", IsRequired: true,
			Lessons: []course.Lesson{{
				Title: "L", Slug: "l", Content: "c", Type: "text", IsRequired: true,
			}},
			Assessments: []course.Assessment{},
		}},
	}}

	out := filepath.Join(t.TempDir(), "out.json")
	err := e.WriteOutput(bad, out)
	if !errors.Is(err, ErrOutputInvalid) {
		t.Errorf("err = %v, want ErrOutputInvalid", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("invalid output must not be written to disk")
	}
}

func TestWriteOutputEmptyBatch(t *testing.T) {
	e := newTestEngine(t, Config{})
	out := filepath.Join(t.TempDir(), "out.json")

	if err := e.WriteOutput(nil, out); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty batch output = %q, want []", data)
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestTitleFromFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2. A&P Level 3.md", "A&P Level 3"},
		{"safety in medicine.docx", "safety in medicine"},
		{"10.Course Outline.xlsx", "Course Outline"},
		{"plain.md", "plain"},
	}
	for _, tt := range tests {
		if got := titleFromFilename(tt.in); got != tt.want {
			t.Errorf("titleFromFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/dir/course.MD", "md"},
		{"course.docx", "docx"},
		{"noext", ""},
	}
	for _, tt := range tests {
		if got := formatOf(tt.in); got != tt.want {
			t.Errorf("formatOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
