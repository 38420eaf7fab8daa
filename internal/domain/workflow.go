package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/DervexDev/wally-package-types/internal/adapter"
	"github.com/DervexDev/wally-package-types/internal/controller"
	m "github.com/DervexDev/wally-package-types/internal/model"
)

// indexDirName is the reserved directory that holds nested package
// installs: each of its immediate subdirectories is a package whose files
// are independent thunks.
const indexDirName = "_Index"

const thunkFileMode = 0o644

// ErrDrift is returned by Check when at least one thunk would be
// rewritten.
var ErrDrift = errors.New("package links are out of date")

// FixArgs parameterizes a fixing run.
type FixArgs struct {
	Sourcemap m.Path
	Packages  m.Path
	Workers   int
}

// CheckArgs parameterizes a dry run. Report, when set, receives a YAML
// drift report.
type CheckArgs struct {
	Sourcemap m.Path
	Packages  m.Path
	Workers   int
	Report    m.Path
}

// ListArgs parameterizes a listing run.
type ListArgs struct {
	Sourcemap m.Path
	Packages  m.Path
	Workers   int
}

// Workflow drives the whole pipeline: sourcemap loading and
// normalization, thunk discovery, and the per-thunk
// analyze-resolve-mutate steps.
type Workflow interface {
	// Fix rewrites every drifted thunk in place.
	Fix(ctx context.Context, args FixArgs) error

	// Check reports drift without writing; it fails with ErrDrift when
	// any thunk would change.
	Check(ctx context.Context, args CheckArgs) error

	// List displays every discovered thunk with its resolved target.
	List(ctx context.Context, args ListArgs) error
}

type linkWorkflow struct {
	fs         adapter.SourceFSAdapter
	sourcemaps adapter.SourcemapAdapter
	luau       adapter.LuauFileAdapter
	ui         controller.UI
}

// NewWorkflow constructs a Workflow backed by the provided adapters.
func NewWorkflow(
	fs adapter.SourceFSAdapter,
	sourcemaps adapter.SourcemapAdapter,
	luau adapter.LuauFileAdapter,
	ui controller.UI,
) Workflow {
	return &linkWorkflow{
		fs:         fs,
		sourcemaps: sourcemaps,
		luau:       luau,
		ui:         ui,
	}
}

// Fix rewrites every drifted thunk in place.
func (w *linkWorkflow) Fix(ctx context.Context, args FixArgs) error {
	if err := w.ui.Start(ctx, controller.WithFixMode()); err != nil {
		return err
	}
	defer w.ui.Close(ctx)

	reports, err := w.run(ctx, args.Sourcemap, args.Packages, args.Workers, true)
	if err != nil {
		return err
	}

	return w.ui.DisplaySummary(ctx, reports)
}

// Check runs the pipeline without writing and fails on drift.
func (w *linkWorkflow) Check(ctx context.Context, args CheckArgs) error {
	if err := w.ui.Start(ctx, controller.WithCheckMode()); err != nil {
		return err
	}
	defer w.ui.Close(ctx)

	reports, err := w.run(ctx, args.Sourcemap, args.Packages, args.Workers, false)
	if err != nil {
		return err
	}

	if err := w.ui.DisplaySummary(ctx, reports); err != nil {
		return err
	}

	if args.Report != "" {
		if err := w.writeReport(args.Report, reports); err != nil {
			return err
		}
	}

	drifted := 0

	for _, report := range reports {
		if report.Outcome == m.OutcomeChanged {
			drifted++
		}
	}

	if drifted > 0 {
		return fmt.Errorf("%w: %d thunk(s) need rewriting", ErrDrift, drifted)
	}

	return nil
}

// List displays every discovered thunk with its resolved target.
func (w *linkWorkflow) List(ctx context.Context, args ListArgs) error {
	if err := w.ui.Start(ctx, controller.WithListMode()); err != nil {
		return err
	}
	defer w.ui.Close(ctx)

	reports, err := w.run(ctx, args.Sourcemap, args.Packages, args.Workers, false)
	if err != nil {
		return err
	}

	return w.ui.DisplaySummary(ctx, reports)
}

// run executes the shared pipeline. The hierarchy is normalized once and
// read-only afterwards, so the per-thunk work fans out across workers
// without locking; the first error cancels the run.
func (w *linkWorkflow) run(ctx context.Context, sourcemap, packages m.Path, workers int, apply bool) ([]m.LinkReport, error) {
	root, err := w.sourcemaps.Load(sourcemap)
	if err != nil {
		slog.Error("Failed to load sourcemap", "path", sourcemap, "error", err)
		return nil, err
	}

	if err := NormalizeSourcemap(root, w.fs.Canonicalize); err != nil {
		slog.Error("Failed to normalize sourcemap", "path", sourcemap, "error", err)
		return nil, err
	}

	thunks, err := w.collectThunks(packages)
	if err != nil {
		return nil, err
	}

	if workers < 1 {
		workers = 1
	}

	w.ui.DisplayRunInfo(ctx, workers, len(thunks))

	reports := make([]m.LinkReport, len(thunks))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i, path := range thunks {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			report, err := w.processThunk(root, path, apply)
			if err != nil {
				return err
			}

			reports[i] = report
			w.ui.DisplayThunkResult(groupCtx, report)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

// collectThunks enumerates the packages directory: direct file entries
// are thunks, and files inside the reserved index directory's package
// subdirectories are thunks. Each file is visited exactly once.
func (w *linkWorkflow) collectThunks(packages m.Path) ([]m.Path, error) {
	entries, err := w.fs.DirEntries(packages)
	if err != nil {
		return nil, fmt.Errorf("read packages directory %s: %w", packages, err)
	}

	var thunks []m.Path

	for _, entry := range entries {
		path := m.Path(filepath.Join(string(packages), entry.Name()))

		if entry.IsDir() && entry.Name() == indexDirName {
			indexed, err := w.collectIndexThunks(path)
			if err != nil {
				return nil, err
			}

			thunks = append(thunks, indexed...)

			continue
		}

		thunks = append(thunks, path)
	}

	return thunks, nil
}

func (w *linkWorkflow) collectIndexThunks(index m.Path) ([]m.Path, error) {
	packages, err := w.fs.DirEntries(index)
	if err != nil {
		return nil, fmt.Errorf("read index directory %s: %w", index, err)
	}

	var thunks []m.Path

	for _, pkg := range packages {
		if !pkg.IsDir() {
			continue
		}

		pkgPath := m.Path(filepath.Join(string(index), pkg.Name()))

		files, err := w.fs.DirEntries(pkgPath)
		if err != nil {
			return nil, fmt.Errorf("read package directory %s: %w", pkgPath, err)
		}

		for _, file := range files {
			if file.IsDir() {
				continue
			}

			thunks = append(thunks, m.Path(filepath.Join(string(pkgPath), file.Name())))
		}
	}

	return thunks, nil
}

// processThunk runs one file through analyze, resolve and mutate. Files
// without a statically resolvable require are skipped; every other
// failure aborts the run.
func (w *linkWorkflow) processThunk(root *m.SourcemapNode, path m.Path, apply bool) (m.LinkReport, error) {
	canonical, err := w.fs.Canonicalize(path)
	if err != nil {
		return m.LinkReport{}, fmt.Errorf("canonicalize thunk %s: %w", path, err)
	}

	src, err := w.fs.ReadFile(path)
	if err != nil {
		return m.LinkReport{}, fmt.Errorf("read thunk %s: %w", path, err)
	}

	thunk, err := w.luau.ParseThunk(src)
	if err != nil {
		return m.LinkReport{}, fmt.Errorf("parse thunk %s: %w", path, err)
	}

	link, err := AnalyzeRequire(thunk)
	if errors.Is(err, ErrNotApplicable) {
		slog.Debug("No resolvable require, skipping", "thunk", path)

		return m.LinkReport{Thunk: path, Outcome: m.OutcomeSkipped}, nil
	}

	if err != nil {
		return m.LinkReport{}, fmt.Errorf("analyze thunk %s: %w", path, err)
	}

	target, err := ResolveLink(root, canonical, link.Components)
	if err != nil {
		return m.LinkReport{}, fmt.Errorf("resolve link of %s: %w", path, err)
	}

	targetSrc, err := w.fs.ReadFile(target)
	if err != nil {
		return m.LinkReport{}, fmt.Errorf("read target %s: %w", target, err)
	}

	exports, err := w.luau.ExportedTypes(targetSrc)
	if err != nil {
		return m.LinkReport{}, fmt.Errorf("scan types of %s: %w", target, err)
	}

	outcome, err := MutateLink(thunk, link, exports)
	if err != nil {
		return m.LinkReport{}, fmt.Errorf("mutate thunk %s: %w", path, err)
	}

	if outcome.Kind == m.OutcomeChanged && apply {
		if err := w.fs.WriteFile(path, outcome.Source, thunkFileMode); err != nil {
			return m.LinkReport{}, fmt.Errorf("write thunk %s: %w", path, err)
		}

		slog.Debug("Rewrote thunk link", "thunk", path, "target", target)
	}

	return m.LinkReport{Thunk: path, Target: target, Outcome: outcome.Kind}, nil
}

func (w *linkWorkflow) writeReport(path m.Path, reports []m.LinkReport) error {
	contents, err := yaml.Marshal(reports)
	if err != nil {
		return fmt.Errorf("encode drift report: %w", err)
	}

	if err := w.fs.WriteFile(path, contents, thunkFileMode); err != nil {
		return fmt.Errorf("write drift report %s: %w", path, err)
	}

	return nil
}
