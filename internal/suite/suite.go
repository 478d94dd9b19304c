// Package suite is the regression harness: it runs the pipeline over a
// directory of sample templates and compares every result with the stored
// expected output and baseline.
package suite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/grindlemire/ngflow/internal/logging"
)

// Output is what the pipeline produced for one file, as a command would
// report it.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Pipeline turns one input file into an Output. It is treated as opaque.
type Pipeline func(ctx context.Context, path, input string) Output

// Status classifies a file's result.
type Status int

const (
	StatusPass Status = iota
	StatusChanged
	StatusNew
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusChanged:
		return "CHANGED"
	case StatusNew:
		return "NEW"
	case StatusFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Options configures a run.
type Options struct {
	SampleDir    string
	OutputDir    string
	BaselinePath string
	Extensions   []string
	// Jobs bounds how many files run at once. Values below 1 mean 1.
	Jobs int
	// Update rewrites every expected-output artifact and the baseline.
	Update bool
	Logger *zap.Logger
	// Now stamps baseline entries. Defaults to time.Now.
	Now func() time.Time
}

// FileResult is the outcome for one sample.
type FileResult struct {
	Name   string
	Status Status
	Output Output
	// Expected is the stored artifact, when there was one.
	Expected *string
	// Previous is the baseline entry, when there was one.
	Previous *Entry
}

// Report collects the results of a run in file name order.
type Report struct {
	SampleDir string
	OutputDir string
	Baseline  string
	Results   []FileResult
	Updated   bool
}

// Count returns how many results have status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// OK reports whether no file changed or failed.
func (r *Report) OK() bool {
	return r.Count(StatusChanged) == 0 && r.Count(StatusFailed) == 0
}

// Result returns the result for the sample file called name.
func (r *Report) Result(name string) (FileResult, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return FileResult{}, false
}

// Discover lists the sample files in dir whose extension is in exts,
// sorted by name.
func Discover(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("sample directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range exts {
			if ext == strings.ToLower(want) {
				files = append(files, e.Name())
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// ArtifactPath is where the expected output for a sample is stored.
func ArtifactPath(outputDir, name string) string {
	return filepath.Join(outputDir, name+".txt")
}

// Run executes the pipeline on every sample and classifies the results.
// Only I/O problems with the harness's own files are returned as errors;
// pipeline failures are reported as StatusFailed.
func Run(ctx context.Context, opts Options, pipeline Pipeline) (*Report, error) {
	log := logging.OrNop(opts.Logger)
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	files, err := Discover(opts.SampleDir, opts.Extensions)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	baseline, err := LoadBaseline(opts.BaselinePath)
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, name := range files {
		var previous *Entry
		if e, ok := baseline[name]; ok {
			previous = &e
		}
		g.Go(func() error {
			res, err := runOne(gctx, opts, pipeline, name, previous)
			if err != nil {
				return err
			}
			log.Debug("sample finished",
				zap.String("file", name),
				zap.Stringer("status", res.Status),
				zap.Int("exit_code", res.Output.ExitCode))
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		SampleDir: opts.SampleDir,
		OutputDir: opts.OutputDir,
		Baseline:  opts.BaselinePath,
		Results:   results,
	}

	// New files are recorded on every run so the next run can compare them.
	dirty := false
	stamp := now()
	for _, res := range results {
		if opts.Update || res.Previous == nil || res.Expected == nil {
			baseline[res.Name] = entryFor(res.Output, stamp)
			dirty = true
		}
	}
	if dirty {
		if err := baseline.Save(opts.BaselinePath); err != nil {
			return nil, err
		}
		report.Updated = opts.Update
	}
	return report, nil
}

func runOne(ctx context.Context, opts Options, pipeline Pipeline, name string, previous *Entry) (FileResult, error) {
	res := FileResult{Name: name, Previous: previous}

	input, err := os.ReadFile(filepath.Join(opts.SampleDir, name))
	if err != nil {
		return res, fmt.Errorf("failed to read sample: %w", err)
	}
	res.Output = pipeline(ctx, filepath.Join(opts.SampleDir, name), string(input))

	artifact := ArtifactPath(opts.OutputDir, name)
	data, err := os.ReadFile(artifact)
	switch {
	case err == nil:
		expected := string(data)
		res.Expected = &expected
	case !errors.Is(err, os.ErrNotExist):
		return res, fmt.Errorf("failed to read expected output: %w", err)
	}

	res.Status = classify(res)

	if opts.Update || res.Expected == nil {
		if err := os.WriteFile(artifact, []byte(res.Output.Stdout), 0o644); err != nil {
			return res, fmt.Errorf("failed to write expected output: %w", err)
		}
	}
	return res, nil
}

func classify(res FileResult) Status {
	if res.Output.ExitCode != 0 {
		return StatusFailed
	}
	if res.Previous == nil || res.Expected == nil {
		return StatusNew
	}
	if res.Output.Stdout != *res.Expected ||
		hash(res.Output.Stderr) != res.Previous.StderrHash ||
		res.Output.ExitCode != res.Previous.ExitCode {
		return StatusChanged
	}
	return StatusPass
}
