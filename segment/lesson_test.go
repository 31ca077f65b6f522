package segment

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Lesson extraction
// ---------------------------------------------------------------------------

func TestLessonsLabeled(t *testing.T) {
	body := `Lesson 1: Hand Hygiene
Wash thoroughly for twenty seconds.

Lesson 2: Sterile Fields
Keep the field sterile at all times.
`

	units := Lessons(body)

	if len(units) != 2 {
		t.Fatalf("len(units) = %d, want 2", len(units))
	}
	if units[0].Title != "Hand Hygiene" {
		t.Errorf("units[0].Title = %q, want %q", units[0].Title, "Hand Hygiene")
	}
	if units[1].Title != "Sterile Fields" {
		t.Errorf("units[1].Title = %q, want %q", units[1].Title, "Sterile Fields")
	}
	if !strings.Contains(units[0].Content, "twenty seconds") {
		t.Errorf("units[0].Content = %q, want the lesson body", units[0].Content)
	}
}

func TestLessonsBullets(t *testing.T) {
	body := `- First aid basics
- Recovery position
- Calling emergency services
`

	units := Lessons(body)

	if len(units) != 3 {
		t.Fatalf("len(units) = %d, want 3", len(units))
	}
	// A bare list item carries its title as content.
	if units[0].Content != "First aid basics" {
		t.Errorf("units[0].Content = %q, want title fallback", units[0].Content)
	}
}

func TestLessonsFallback(t *testing.T) {
	body := "Plain prose with no list structure at all, just sentences."

	units := Lessons(body)

	if len(units) != 1 {
		t.Fatalf("len(units) = %d, want 1", len(units))
	}
	if units[0].Title != FallbackLessonTitle {
		t.Errorf("units[0].Title = %q, want %q", units[0].Title, FallbackLessonTitle)
	}
	if units[0].Type != "text" {
		t.Errorf("units[0].Type = %q, want %q", units[0].Type, "text")
	}
	if units[0].Content != body {
		t.Errorf("units[0].Content = %q, want full body", units[0].Content)
	}
}

func TestLessonsLabelBeatsNumbered(t *testing.T) {
	body := `Lesson 1: Overview
1. this numbered line is lesson content, not a lesson
`

	units := Lessons(body)

	if len(units) != 1 {
		t.Fatalf("len(units) = %d, want 1", len(units))
	}
	if units[0].Title != "Overview" {
		t.Errorf("units[0].Title = %q, want %q", units[0].Title, "Overview")
	}
}

func TestClassifyContent(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"video keyword", "Watch the demonstration video before class.", "video"},
		{"quiz keyword", "Answer each question in full sentences.", "quiz"},
		{"interactive keyword", "Complete the interactive exercise.", "interactive"},
		{"default text", "Anatomy of the facial muscles.", "text"},
		{"video beats quiz", "Watch the video then answer the question.", "video"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyContent(tt.text); got != tt.want {
				t.Errorf("ClassifyContent(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestEstimateDuration(t *testing.T) {
	tests := []struct {
		name  string
		words int
		want  int
	}{
		{"empty floors at minimum", 0, MinLessonMinutes},
		{"short floors at minimum", 300, MinLessonMinutes},
		{"exactly at floor", 1000, MinLessonMinutes},
		{"rounds up", 1001, 6},
		{"long content", 2400, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.TrimSpace(strings.Repeat("word ", tt.words))
			if got := EstimateDuration(text); got != tt.want {
				t.Errorf("EstimateDuration(%d words) = %d, want %d", tt.words, got, tt.want)
			}
		})
	}
}
