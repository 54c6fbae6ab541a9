// Package batch validates many graph documents concurrently.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

// DocumentValidator is the part of jsongraph.Validator a batch needs.
type DocumentValidator interface {
	Validate(ctx context.Context, graph, schema jsongraph.Source) (*jsongraph.Result, error)
}

// FileResult is the outcome for one file. Exactly one of Result and Error is set.
type FileResult struct {
	Path   string            `json:"path"`
	Graphs int               `json:"graphs"`
	Result *jsongraph.Result `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`

	err error
}

// Err returns the failure that prevented validation, if any.
func (f FileResult) Err() error {
	return f.err
}

// Report summarizes a batch. Files keep the order they were given in.
type Report struct {
	Files      []FileResult `json:"files"`
	Valid      int          `json:"valid"`
	Invalid    int          `json:"invalid"`
	Failed     int          `json:"failed"`
	DurationMs int64        `json:"duration_ms"`
}

// AllValid reports whether every file was validated and conforms.
func (r *Report) AllValid() bool {
	return r.Invalid == 0 && r.Failed == 0
}

// Runner validates files with a bounded number of workers.
type Runner struct {
	validator DocumentValidator
	workers   int
	logger    *slog.Logger
}

// NewRunner creates a Runner. Non-positive workers means one.
func NewRunner(v DocumentValidator, workers int, logger *slog.Logger) *Runner {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{validator: v, workers: workers, logger: logger}
}

// ValidateFiles validates every path against schema, collecting all
// violations per file. An explicit schema is resolved once and shared.
//
// The report is always returned. The error aggregates the files that could
// not be validated at all, and is nil when each file produced a Result.
// Schema problems that affect every file are returned immediately.
func (r *Runner) ValidateFiles(ctx context.Context, paths []string, schema jsongraph.Source) (*Report, error) {
	start := time.Now()

	if !schema.IsZero() {
		doc, err := jsongraph.Resolve(schema)
		if err != nil {
			return nil, fmt.Errorf("resolving schema: %w", err)
		}
		schema = jsongraph.FromValue(doc)
	}

	files := make([]FileResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, path := range paths {
		g.Go(func() error {
			files[i] = r.validateFile(ctx, path, schema)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Files: files}
	var merr *multierror.Error
	for _, f := range files {
		switch {
		case f.err != nil:
			report.Failed++
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", f.Path, f.err))
		case f.Result.Valid:
			report.Valid++
		default:
			report.Invalid++
		}
	}
	report.DurationMs = time.Since(start).Milliseconds()

	r.logger.Info("batch validation completed",
		slog.Int("files", len(files)),
		slog.Int("valid", report.Valid),
		slog.Int("invalid", report.Invalid),
		slog.Int("failed", report.Failed),
		slog.Int64("duration_ms", report.DurationMs),
	)

	return report, merr.ErrorOrNil()
}

func (r *Runner) validateFile(ctx context.Context, path string, schema jsongraph.Source) FileResult {
	fr := FileResult{Path: path}

	if err := ctx.Err(); err != nil {
		fr.err = err
		fr.Error = err.Error()
		return fr
	}

	doc, err := jsongraph.Resolve(jsongraph.FromPath(path))
	if err == nil {
		fr.Graphs = jsongraph.Count(doc)
		fr.Result, err = r.validator.Validate(ctx, jsongraph.FromValue(doc), schema)
	}
	if err != nil {
		r.logger.Debug("file not validated",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		fr.Result = nil
		fr.err = err
		fr.Error = err.Error()
	}
	return fr
}

// documentExts are the extensions CollectFiles picks up inside directories.
var documentExts = []string{".json", ".yaml", ".yml"}

// CollectFiles expands arguments into a sorted, de-duplicated list of files.
// Directories are walked for JSON and YAML documents, glob patterns are
// expanded, and plain paths are kept as given so that a missing file is
// reported by validation rather than silently dropped.
func CollectFiles(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		if strings.ContainsAny(arg, "*?[") {
			matches, err := filepath.Glob(arg)
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			add(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && slices.Contains(documentExts, strings.ToLower(filepath.Ext(p))) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}

	slices.Sort(out)
	return out, nil
}
