// Package fixer drives a repair run: it discovers the relative imports of
// each source file, resolves them through a resolve.Engine, and writes the
// substitutions back unless the run is a dry run.
//
// Failures are isolated. A bad reference is recorded and the rest of its file
// is still processed; an unreadable file is recorded and the rest of the run
// continues.
package fixer

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/l3aro/importfix/internal/log"
	"github.com/l3aro/importfix/pkg/extractor"
	"github.com/l3aro/importfix/pkg/pathutil"
	"github.com/l3aro/importfix/pkg/plan"
	"github.com/l3aro/importfix/pkg/resolve"
	"github.com/l3aro/importfix/pkg/rewrite"
	"github.com/l3aro/importfix/pkg/types"
)

// Options configures a Fixer.
type Options struct {
	DryRun          bool // Report changes without writing files
	StripExtensions bool // Drop .ts/.tsx/.d.ts from rewritten specifiers
	Concurrency     int  // Files processed at once (minimum 1)
}

// Fixer repairs imports in source files.
type Fixer struct {
	engine *resolve.Engine
	logger log.Logger
	opts   Options
}

// New creates a Fixer. A nil logger discards output.
func New(engine *resolve.Engine, logger log.Logger, opts Options) *Fixer {
	if logger == nil {
		logger = log.Discard()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Fixer{engine: engine, logger: logger, opts: opts}
}

// Summary aggregates a run.
type Summary struct {
	Files       int
	FailedFiles int
	Written     int
	References  int
	Rewritten   int
	Unresolved  int
	Failed      int
	Reports     []types.FileReport
}

func (s *Summary) add(r types.FileReport) {
	s.Files++
	if r.Err != "" {
		s.FailedFiles++
	}
	if r.Written {
		s.Written++
	}
	s.References += r.References
	s.Rewritten += len(r.Changes)
	s.Unresolved += len(r.Unresolved)
	s.Failed += len(r.Failures)
	s.Reports = append(s.Reports, r)
}

// Run processes every source file. Reports are returned in the order of
// sources. The error is non-nil only when ctx is cancelled.
func (f *Fixer) Run(ctx context.Context, sources []string) (*Summary, error) {
	reports := make([]types.FileReport, len(sources))
	done := make([]bool, len(sources))

	f.logger.Debug("starting run", "files", len(sources), "candidates", f.engine.UniverseSize(), "concurrency", f.opts.Concurrency)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.Concurrency)

	for i, path := range sources {
		if gctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			reports[i] = f.FixFile(gctx, path)
			done[i] = true
			return nil
		})
	}
	_ = g.Wait()

	summary := &Summary{}
	for i, r := range reports {
		if done[i] {
			summary.add(r)
		}
	}

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("run interrupted: %w", err)
	}
	return summary, nil
}

// FixFile repairs a single file and reports what happened.
func (f *Fixer) FixFile(ctx context.Context, path string) types.FileReport {
	report := types.FileReport{Path: path}
	f.logger.Info("processing file", "path", path)

	info, err := os.Stat(path)
	if err != nil {
		return f.fail(report, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return f.fail(report, err)
	}
	report.Hash = plan.Hash(content)

	parser := extractor.NewImportParser()
	defer parser.Close()

	imports, err := parser.ParseImportsFromBytes(ctx, content, path)
	if err != nil {
		return f.fail(report, err)
	}

	for _, imp := range imports {
		if !pathutil.IsRelative(imp.Module) {
			f.logger.Debug("skipping non-relative import", "path", path, "module", imp.Module)
			continue
		}
		report.References++
		f.resolveImport(ctx, &report, imp)
	}

	if !report.Changed() || f.opts.DryRun {
		return report
	}

	updated, err := rewrite.Apply(content, rewrite.FromChanges(report.Changes))
	if err != nil {
		return f.fail(report, err)
	}
	if err := os.WriteFile(path, updated, info.Mode().Perm()); err != nil {
		return f.fail(report, err)
	}
	report.Written = true
	f.logger.Info("wrote file", "path", path, "changes", len(report.Changes))

	return report
}

// resolveImport resolves one relative import and records the outcome.
func (f *Fixer) resolveImport(ctx context.Context, report *types.FileReport, imp types.Import) {
	res, err := f.engine.Resolve(ctx, imp.Reference(report.Path))
	if err != nil {
		if resolve.IsStructuralInput(err) {
			f.logger.Error("could not process reference", "path", report.Path, "reference", imp.Module, "line", imp.LineNumber, "error", err)
		} else {
			f.logger.Warn("reference interrupted", "path", report.Path, "reference", imp.Module, "error", err)
		}
		report.Failures = append(report.Failures, types.Unresolved{
			LineNumber: imp.LineNumber,
			Specifier:  imp.Module,
			Reason:     err.Error(),
		})
		return
	}

	switch res.Status {
	case resolve.StatusIntact:
		f.logger.Debug("reference resolves", "reference", imp.Module, "target", res.Target)
	case resolve.StatusNotFound:
		f.logger.Warn("no match found", "path", report.Path, "reference", imp.Module, "line", imp.LineNumber)
		report.Unresolved = append(report.Unresolved, types.Unresolved{
			LineNumber: imp.LineNumber,
			Specifier:  imp.Module,
			Reason:     "no match found",
		})
	case resolve.StatusResolved:
		to := f.specifierFor(res, imp.Module)
		if to == imp.Module {
			f.logger.Debug("replacement equals original", "reference", imp.Module)
			return
		}
		f.logger.Info("rewrote reference", "from", imp.Module, "to", to, "line", imp.LineNumber)
		report.Changes = append(report.Changes, types.Change{
			LineNumber: imp.LineNumber,
			Start:      imp.Start,
			End:        imp.End,
			From:       imp.Module,
			To:         to,
			Target:     res.Target,
		})
	}
}

// specifierFor turns a resolution into the text written into the source.
func (f *Fixer) specifierFor(res resolve.Resolution, original string) string {
	to := pathutil.ToSlash(res.Path)
	if f.opts.StripExtensions {
		to = pathutil.StripTypeScriptExtension(to)
	}
	return to + pathutil.QuerySuffix(original)
}

func (f *Fixer) fail(report types.FileReport, err error) types.FileReport {
	f.logger.Error("could not process file", "path", report.Path, "error", err)
	report.Err = err.Error()
	return report
}
