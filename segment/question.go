package segment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/leaacademy/coursegen/course"
)

// Assessment defaults. Per-module quizzes and the course-level final
// carry different pass marks, time limits and attempt budgets.
const (
	QuizPassingScore = 70
	QuizTimeLimit    = 30
	QuizMaxAttempts  = 3

	FinalPassingScore = 75
	FinalTimeLimit    = 60
	FinalMaxAttempts  = 2
)

// QuestionPoints is the default score weight per extracted question.
const QuestionPoints = 10

// questionLine matches enumerated question lines: "<int>. <text>".
var questionLine = regexp.MustCompile(`^\d+\.\s*(\S.*)$`)

// essayKeywords promote a question from short_answer to essay.
var essayKeywords = []string{"explain", "describe"}

// questionNamespace seeds deterministic (SHA-1/v5) question IDs so
// re-running the pipeline reproduces identical identifiers.
var questionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("coursegen/question"))

// Questions scans text line by line for enumerated question lines and
// returns the question texts with the leading numbers stripped. Zero
// matches is a normal outcome, not an error.
func Questions(text string) []string {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		if m := questionLine.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			questions = append(questions, strings.TrimSpace(m[1]))
		}
	}
	return questions
}

// StripQuestions removes enumerated question lines from text and
// returns the remaining content plus the extracted questions. Used on
// question-bearing sections so the numbered-item lesson matcher cannot
// misread questions as lessons.
func StripQuestions(text string) (string, []string) {
	var (
		kept      []string
		questions []string
	)
	for _, line := range strings.Split(text, "\n") {
		if m := questionLine.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			questions = append(questions, strings.TrimSpace(m[1]))
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n")), questions
}

// BuildQuestions converts raw question texts into model questions.
// Question type is inferred from wording: "explain"/"describe" marks an
// essay, anything else a short answer. IDs are stable across runs.
func BuildQuestions(scope string, texts []string) []course.Question {
	questions := make([]course.Question, 0, len(texts))
	for i, text := range texts {
		questions = append(questions, course.Question{
			ID:           questionID(scope, i),
			QuestionText: text,
			Type:         questionType(text),
			Points:       QuestionPoints,
			Explanation:  fmt.Sprintf("Question %d from course material", i+1),
		})
	}
	return questions
}

// NewQuiz synthesizes a per-module quiz from a question-bearing
// section. The caller must not invoke it with zero questions; empty
// assessments are invalid and are never constructed.
func NewQuiz(sectionTitle string, texts []string) course.Assessment {
	title := sectionTitle + " Assessment"
	return course.Assessment{
		Title:            title,
		Description:      fmt.Sprintf("Knowledge assessment for %s", sectionTitle),
		Type:             course.AssessmentQuiz,
		Questions:        BuildQuestions(title, texts),
		PassingScore:     QuizPassingScore,
		TimeLimitMinutes: QuizTimeLimit,
		MaxAttempts:      QuizMaxAttempts,
		IsRequired:       true,
	}
}

// NewFinalExam synthesizes the course-level final from document-wide
// questions found outside per-module sections.
func NewFinalExam(courseTitle string, texts []string) course.Assessment {
	title := courseTitle + " Final Exam"
	return course.Assessment{
		Title:            title,
		Description:      fmt.Sprintf("Comprehensive assessment for %s", courseTitle),
		Type:             course.AssessmentExam,
		Questions:        BuildQuestions(title, texts),
		PassingScore:     FinalPassingScore,
		TimeLimitMinutes: FinalTimeLimit,
		MaxAttempts:      FinalMaxAttempts,
		IsRequired:       true,
	}
}

func questionType(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range essayKeywords {
		if strings.Contains(lower, kw) {
			return course.QuestionEssay
		}
	}
	return course.QuestionShortAnswer
}

func questionID(scope string, index int) string {
	key := fmt.Sprintf("%s/%d", course.Slugify(scope), index)
	return uuid.NewSHA1(questionNamespace, []byte(key)).String()
}
