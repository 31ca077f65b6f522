// Package course defines the curriculum data model produced by the
// parsing pipeline: a Course tree of Modules, Lessons, Assessments and
// Questions, plus the deterministic slug machinery that keeps
// identifiers unique within a batch.
//
// JSON field names are part of the contract with the downstream seeding
// process and must not change.
package course

// Course levels.
const (
	LevelFoundation = "Foundation"
	Level2          = "Level 2"
	Level3          = "Level 3"
	Level4          = "Level 4"
)

// Lesson content types.
const (
	LessonText        = "text"
	LessonVideo       = "video"
	LessonInteractive = "interactive"
	LessonQuiz        = "quiz"
)

// Assessment types.
const (
	AssessmentQuiz       = "quiz"
	AssessmentExam       = "exam"
	AssessmentPractical  = "practical"
	AssessmentAssignment = "assignment"
)

// Question types.
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionEssay          = "essay"
	QuestionTrueFalse      = "true_false"
	QuestionShortAnswer    = "short_answer"
)

// DefaultPassingScore is the course-level passing score applied when no
// other rule overrides it.
const DefaultPassingScore = 70

// Course is one fully assembled curriculum tree derived from a single
// source document. It is immutable once assembled; re-running the
// pipeline recomputes rather than mutates.
type Course struct {
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description"`
	Level         string   `json:"level"`
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory,omitempty"`
	Prerequisites []string `json:"prerequisites"`
	DurationHours int      `json:"durationHours"`
	Credits       int      `json:"credits"`
	Tags          []string `json:"tags"`
	PassingScore  int      `json:"passingScore"`
	Modules       []Module `json:"modules"`

	// SourceFile is the originating document filename, carried for
	// traceability and batch reporting. Not part of the seeded tree.
	SourceFile string `json:"sourceFile,omitempty"`
}

// Module is a heading-delimited block of the source document.
type Module struct {
	Title           string       `json:"title"`
	Slug            string       `json:"slug"`
	Description     string       `json:"description"`
	Order           int          `json:"order"`
	DurationMinutes int          `json:"durationMinutes"`
	IsRequired      bool         `json:"isRequired"`
	Lessons         []Lesson     `json:"lessons"`
	Assessments     []Assessment `json:"assessments"`
}

// Lesson is a sub-block of a module.
type Lesson struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Content         string `json:"content"`
	Type            string `json:"type"`
	Order           int    `json:"order"`
	DurationMinutes int    `json:"durationMinutes"`
	IsRequired      bool   `json:"isRequired"`
}

// Assessment is a quiz, exam, practical or assignment attached to a
// module. Empty assessments (zero questions) are invalid and are never
// constructed.
type Assessment struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Type             string     `json:"type"`
	Questions        []Question `json:"questions"`
	PassingScore     int        `json:"passingScore"`
	TimeLimitMinutes int        `json:"timeLimitMinutes,omitempty"`
	MaxAttempts      int        `json:"maxAttempts"`
	IsRequired       bool       `json:"isRequired"`
	Order            int        `json:"order"`
}

// Question is a single assessment item.
type Question struct {
	ID            string   `json:"id"`
	QuestionText  string   `json:"questionText"`
	Type          string   `json:"type"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
	Points        int      `json:"points"`
	Explanation   string   `json:"explanation,omitempty"`
}
