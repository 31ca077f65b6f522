// Command coursegen parses a directory of instructional documents into
// a structured course collection for LMS seeding.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/leaacademy/coursegen"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	srcDir := flag.String("src", "", "Directory of source course documents")
	outPath := flag.String("out", "", "Output JSON path (default courses.json)")
	manifestPath := flag.String("manifest", "", "SQLite manifest path (empty disables the ledger)")
	concurrency := flag.Int("concurrency", 0, "Parallel extraction workers (default 4)")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	cfg := coursegen.DefaultConfig()
	if *configPath != "" {
		loaded, err := coursegen.LoadConfig(*configPath)
		if err != nil {
			slog.Error("loading config", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Override from environment variables.
	if v := os.Getenv("COURSEGEN_SOURCE_DIR"); v != "" {
		cfg.SourceDir = v
	}
	if v := os.Getenv("COURSEGEN_OUTPUT_PATH"); v != "" {
		cfg.OutputPath = v
	}
	if v := os.Getenv("COURSEGEN_MANIFEST_PATH"); v != "" {
		cfg.ManifestPath = v
	}
	if v := os.Getenv("COURSEGEN_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Concurrency = n
		}
	}

	// Flags win over config file and environment.
	if *srcDir != "" {
		cfg.SourceDir = *srcDir
	}
	if *outPath != "" {
		cfg.OutputPath = *outPath
	}
	if *manifestPath != "" {
		cfg.ManifestPath = *manifestPath
	}
	if *concurrency > 0 {
		cfg.Concurrency = *concurrency
	}

	if cfg.SourceDir == "" {
		slog.Error("no source directory; pass -src or set source_dir in config")
		os.Exit(1)
	}

	engine, err := coursegen.New(cfg)
	if err != nil {
		slog.Error("creating engine", "error", err)
		os.Exit(1)
	}
	defer engine.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result, err := engine.ParseDirectory(ctx, cfg.SourceDir)
	if err != nil {
		slog.Error("parsing directory", "dir", cfg.SourceDir, "error", err)
		os.Exit(1)
	}

	for _, c := range result.Courses {
		slog.Info("course",
			"slug", c.Slug,
			"level", c.Level,
			"category", c.Category,
			"modules", len(c.Modules),
			"durationHours", c.DurationHours,
			"credits", c.Credits)
	}
	for _, f := range result.Failures {
		slog.Warn("failure", "file", f.Filename, "reason", f.Reason)
	}

	if err := engine.WriteOutput(result.Courses, cfg.OutputPath); err != nil {
		slog.Error("writing output", "path", cfg.OutputPath, "error", err)
		os.Exit(1)
	}

	if result.Failed > 0 {
		os.Exit(2)
	}
}
