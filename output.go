package coursegen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"

	"github.com/leaacademy/coursegen/course"
)

// outputSchema is the contract the serialized batch must satisfy before
// it is written. The downstream seeder consumes this shape verbatim, so
// validation failures here are engine bugs, not input problems.
const outputSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["title", "slug", "description", "level", "category", "prerequisites", "durationHours", "credits", "tags", "passingScore", "modules"],
    "properties": {
      "title": {"type": "string", "minLength": 1},
      "slug": {"type": "string", "minLength": 1, "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"},
      "description": {"type": "string"},
      "level": {"type": "string", "enum": ["Foundation", "Level 2", "Level 3", "Level 4"]},
      "category": {"type": "string", "minLength": 1},
      "subcategory": {"type": "string"},
      "prerequisites": {"type": "array", "items": {"type": "string"}},
      "durationHours": {"type": "integer", "minimum": 0},
      "credits": {"type": "integer", "minimum": 0},
      "tags": {"type": "array", "items": {"type": "string"}},
      "passingScore": {"type": "integer", "minimum": 0, "maximum": 100},
      "sourceFile": {"type": "string"},
      "modules": {
        "type": "array",
        "minItems": 1,
        "items": {
          "type": "object",
          "required": ["title", "slug", "description", "order", "durationMinutes", "isRequired", "lessons"],
          "properties": {
            "title": {"type": "string", "minLength": 1},
            "slug": {"type": "string", "minLength": 1},
            "description": {"type": "string"},
            "order": {"type": "integer", "minimum": 0},
            "durationMinutes": {"type": "integer", "minimum": 0},
            "isRequired": {"type": "boolean"},
            "lessons": {
              "type": "array",
              "minItems": 1,
              "items": {
                "type": "object",
                "required": ["title", "slug", "content", "type", "order", "durationMinutes", "isRequired"],
                "properties": {
                  "title": {"type": "string", "minLength": 1},
                  "slug": {"type": "string", "minLength": 1},
                  "content": {"type": "string"},
                  "type": {"type": "string", "enum": ["text", "video", "interactive", "quiz"]},
                  "order": {"type": "integer", "minimum": 0},
                  "durationMinutes": {"type": "integer", "minimum": 0},
                  "isRequired": {"type": "boolean"}
                }
              }
            },
            "assessments": {
              "type": "array",
              "items": {
                "type": "object",
                "required": ["title", "description", "type", "questions", "passingScore", "maxAttempts", "isRequired", "order"],
                "properties": {
                  "title": {"type": "string", "minLength": 1},
                  "description": {"type": "string"},
                  "type": {"type": "string", "enum": ["quiz", "exam", "practical", "assignment"]},
                  "questions": {
                    "type": "array",
                    "minItems": 1,
                    "items": {
                      "type": "object",
                      "required": ["id", "questionText", "type", "points"],
                      "properties": {
                        "id": {"type": "string", "minLength": 1},
                        "questionText": {"type": "string", "minLength": 1},
                        "type": {"type": "string", "enum": ["multiple_choice", "essay", "true_false", "short_answer"]},
                        "options": {"type": "array", "items": {"type": "string"}},
                        "correctAnswer": {"type": "string"},
                        "points": {"type": "integer", "minimum": 0},
                        "explanation": {"type": "string"}
                      }
                    }
                  },
                  "passingScore": {"type": "integer", "minimum": 0, "maximum": 100},
                  "timeLimitMinutes": {"type": "integer", "minimum": 1},
                  "maxAttempts": {"type": "integer", "minimum": 1},
                  "isRequired": {"type": "boolean"},
                  "order": {"type": "integer", "minimum": 0}
                }
              }
            }
          }
        }
      }
    }
  }
}`

// WriteOutput serializes the course collection as 2-space-indented JSON,
// validates it against the output schema, and writes it atomically via
// a temp file in the target directory.
func (e *engine) WriteOutput(courses []course.Course, path string) error {
	if courses == nil {
		courses = []course.Course{}
	}

	data, err := json.MarshalIndent(courses, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling courses: %w", err)
	}
	data = append(data, '\n')

	if !e.cfg.SkipOutputValidation {
		if err := validateOutput(data); err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".coursegen-*.json")
	if err != nil {
		return fmt.Errorf("creating temp output: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming output: %w", err)
	}

	e.logger.Info("output written", "path", path, "courses", len(courses), "bytes", len(data))
	return nil
}

// validateOutput checks serialized JSON against the output schema.
func validateOutput(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(outputSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutputInvalid, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("%w: %v", ErrOutputInvalid, msgs)
	}
	return nil
}
