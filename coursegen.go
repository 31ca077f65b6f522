// Package coursegen turns unstructured instructional documents into
// structured course trees ready for LMS seeding. It extracts plain text
// from markdown, DOCX, PDF and XLSX sources, recovers the curriculum
// structure with ordered heuristics, classifies each course, and
// serializes the batch as JSON.
//
// The pipeline is deterministic: the same input set always produces
// byte-identical output, including slug collision suffixes and question
// identifiers.
package coursegen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/leaacademy/coursegen/assemble"
	"github.com/leaacademy/coursegen/classify"
	"github.com/leaacademy/coursegen/course"
	"github.com/leaacademy/coursegen/extract"
	"github.com/leaacademy/coursegen/manifest"
	"github.com/leaacademy/coursegen/segment"
)

// Engine is the top-level API for parsing course documents.
type Engine interface {
	// ParseFile parses a single source document into a course.
	ParseFile(ctx context.Context, path string) (*course.Course, error)

	// ParseDirectory parses every supported document in a directory.
	// One failing document never aborts the batch.
	ParseDirectory(ctx context.Context, dir string) (*BatchResult, error)

	// WriteOutput serializes courses as indented JSON, validates the
	// result against the output schema, and writes it to path.
	WriteOutput(courses []course.Course, path string) error

	// Close releases engine resources.
	Close() error
}

// Failure records one document that could not be parsed.
type Failure struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// BatchResult summarizes one ParseDirectory invocation.
type BatchResult struct {
	Courses   []course.Course `json:"courses"`
	Attempted int             `json:"attempted"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Failures  []Failure       `json:"failures,omitempty"`
}

type engine struct {
	cfg        Config
	extractors *extract.Registry
	ledger     *manifest.Manifest // nil when no manifest path configured
	logger     *slog.Logger
}

// New creates an Engine from the given configuration.
func New(cfg Config) (Engine, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = DefaultConfig().OutputPath
	}

	e := &engine{
		cfg:        cfg,
		extractors: extract.NewRegistry(),
		logger:     slog.Default(),
	}

	if cfg.ManifestPath != "" {
		ledger, err := manifest.Open(cfg.ManifestPath)
		if err != nil {
			return nil, fmt.Errorf("opening manifest: %w", err)
		}
		e.ledger = ledger
	}

	return e, nil
}

func (e *engine) Close() error {
	if e.ledger != nil {
		return e.ledger.Close()
	}
	return nil
}

// ParseFile runs the full pipeline on one document with a private slug
// registry. Slugs are collision-free within the returned course but not
// against other ParseFile results; use ParseDirectory for batch-unique
// slugs.
func (e *engine) ParseFile(ctx context.Context, path string) (*course.Course, error) {
	text, _, err := e.extractText(ctx, path)
	if err != nil {
		return nil, err
	}
	return e.buildCourse(path, text, course.NewSlugRegistry())
}

// ParseDirectory discovers supported documents, extracts them in
// parallel, then assembles courses sequentially in sorted filename
// order so slug collision suffixes are reproducible across runs.
func (e *engine) ParseDirectory(ctx context.Context, dir string) (*BatchResult, error) {
	started := time.Now()

	paths, err := e.discover(dir)
	if err != nil {
		return nil, err
	}

	e.logger.Info("batch started",
		"dir", dir,
		"documents", len(paths),
		"concurrency", e.cfg.Concurrency)

	extractions := e.extractAll(ctx, paths)

	result := &BatchResult{Attempted: len(paths)}
	slugs := course.NewSlugRegistry()

	for i, path := range paths {
		ex := extractions[i]

		var c *course.Course
		buildErr := ex.err
		if buildErr == nil {
			c, buildErr = e.buildCourse(path, ex.text, slugs)
		}

		if buildErr != nil {
			e.logger.Warn("document failed",
				"file", filepath.Base(path),
				"error", buildErr)
			result.Failed++
			result.Failures = append(result.Failures, Failure{
				Filename: filepath.Base(path),
				Reason:   buildErr.Error(),
			})
			e.recordDocument(ctx, path, ex.hash, "", buildErr)
			continue
		}

		e.logger.Info("document parsed",
			"file", filepath.Base(path),
			"course", c.Slug,
			"modules", len(c.Modules))
		result.Succeeded++
		result.Courses = append(result.Courses, *c)
		e.recordDocument(ctx, path, ex.hash, c.Slug, nil)
	}

	if e.ledger != nil {
		if err := e.ledger.RecordRun(ctx, manifest.Run{
			SourceDir: dir,
			Attempted: result.Attempted,
			Succeeded: result.Succeeded,
			Failed:    result.Failed,
			StartedAt: started,
		}); err != nil {
			e.logger.Warn("recording run failed", "error", err)
		}
	}

	e.logger.Info("batch finished",
		"attempted", result.Attempted,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"elapsed", time.Since(started).Round(time.Millisecond))

	return result, nil
}

// discover lists supported documents under dir, sorted by filename.
func (e *engine) discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	supported := make(map[string]bool)
	for _, f := range e.extractors.Formats() {
		supported[f] = true
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if supported[formatOf(entry.Name())] {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// extraction is the per-document output of the parallel phase.
type extraction struct {
	text string
	hash string
	err  error
}

// extractAll converts all documents to text with bounded parallelism.
// Results are indexed by position so downstream assembly keeps sorted
// order regardless of completion order.
func (e *engine) extractAll(ctx context.Context, paths []string) []extraction {
	results := make([]extraction, len(paths))
	sem := make(chan struct{}, e.cfg.Concurrency)
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			text, hash, err := e.extractText(ctx, path)
			results[i] = extraction{text: text, hash: hash, err: err}
		}(i, path)
	}
	wg.Wait()

	return results
}

// extractText resolves the extractor for the path's format, runs it and
// normalizes the output. The content hash feeds the manifest ledger.
func (e *engine) extractText(ctx context.Context, path string) (string, string, error) {
	format := formatOf(path)
	extractor, err := e.extractors.Get(format)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	hash, err := fileHash(path)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	text, err := extractor.Extract(ctx, path)
	if err != nil {
		return "", hash, fmt.Errorf("%w: %s: %v", ErrExtractionFailed, filepath.Base(path), err)
	}

	return extract.Normalize(text), hash, nil
}

// buildCourse runs segmentation, classification and assembly on
// extracted text.
func (e *engine) buildCourse(path, text string, slugs *course.SlugRegistry) (*course.Course, error) {
	filename := filepath.Base(path)

	doc := segment.Split(text)
	title := doc.Title
	if title == "" {
		title = titleFromFilename(filename)
	}

	return assemble.Build(assemble.Input{
		SourceFile: filename,
		Title:      title,
		Text:       text,
		Doc:        doc,
		Class:      classify.Classify(filename, text),
		Slugs:      slugs,
	})
}

// recordDocument upserts one parse outcome into the ledger, when
// configured. Ledger failures are logged, never fatal.
func (e *engine) recordDocument(ctx context.Context, path, hash, slug string, parseErr error) {
	if e.ledger == nil {
		return
	}

	doc := manifest.Document{
		Path:        path,
		Filename:    filepath.Base(path),
		Format:      formatOf(path),
		ContentHash: hash,
		CourseSlug:  slug,
		Status:      manifest.StatusParsed,
	}
	if parseErr != nil {
		doc.Status = manifest.StatusFailed
		doc.Error = parseErr.Error()
	}

	if _, err := e.ledger.UpsertDocument(ctx, doc); err != nil {
		e.logger.Warn("recording document failed", "file", doc.Filename, "error", err)
	}
}

var orderPrefix = regexp.MustCompile(`^\d+\.\s*`)

// titleFromFilename derives a course title from a filename by dropping
// the extension and any leading ordering prefix ("2. A&P Level 3.md"
// becomes "A&P Level 3").
func titleFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = orderPrefix.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// formatOf returns the lowercase extension without the dot.
func formatOf(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// fileHash computes the SHA-256 of a file's raw bytes.
func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
