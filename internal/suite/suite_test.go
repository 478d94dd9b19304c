package suite

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	opts Options
}

func newFixture(t *testing.T, samples map[string]string) *fixture {
	t.Helper()
	root := t.TempDir()
	sampleDir := filepath.Join(root, "samples")
	require.NoError(t, os.MkdirAll(sampleDir, 0o755))
	for name, content := range samples {
		require.NoError(t, os.WriteFile(filepath.Join(sampleDir, name), []byte(content), 0o644))
	}
	return &fixture{opts: Options{
		SampleDir:    sampleDir,
		OutputDir:    filepath.Join(root, "expected"),
		BaselinePath: filepath.Join(root, "baseline.yaml"),
		Extensions:   []string{".html", ".htm", ".xml"},
		Now:          func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	}}
}

func (f *fixture) run(t *testing.T, pipeline Pipeline) *Report {
	t.Helper()
	report, err := Run(context.Background(), f.opts, pipeline)
	require.NoError(t, err)
	return report
}

func statuses(r *Report) map[string]Status {
	m := make(map[string]Status, len(r.Results))
	for _, res := range r.Results {
		m[res.Name] = res.Status
	}
	return m
}

// upper is a stand-in pipeline. Inputs containing "BAD" fail.
func upper(_ context.Context, _ string, input string) Output {
	if strings.Contains(input, "BAD") {
		return Output{Stderr: "error: bad input\n", ExitCode: 1}
	}
	return Output{Stdout: strings.ToUpper(input)}
}

func TestRun_Lifecycle(t *testing.T) {
	f := newFixture(t, map[string]string{
		"a.html": "@if (a) {x}",
		"b.xml":  "<b/>",
	})

	first := f.run(t, upper)
	assert.Equal(t, map[string]Status{"a.html": StatusNew, "b.xml": StatusNew}, statuses(first))
	assert.True(t, first.OK())

	artifact, err := os.ReadFile(ArtifactPath(f.opts.OutputDir, "a.html"))
	require.NoError(t, err)
	assert.Equal(t, "@IF (A) {X}", string(artifact))

	baseline, err := LoadBaseline(f.opts.BaselinePath)
	require.NoError(t, err)
	require.Contains(t, baseline, "a.html")
	assert.Equal(t, hash("@IF (A) {X}"), baseline["a.html"].StdoutHash)
	assert.Equal(t, 0, baseline["a.html"].ExitCode)

	second := f.run(t, upper)
	assert.Equal(t, map[string]Status{"a.html": StatusPass, "b.xml": StatusPass}, statuses(second))

	changed := func(ctx context.Context, path, input string) Output {
		out := upper(ctx, path, input)
		if strings.HasSuffix(path, "a.html") {
			out.Stdout += "\n"
		}
		return out
	}
	third := f.run(t, changed)
	assert.Equal(t, map[string]Status{"a.html": StatusChanged, "b.xml": StatusPass}, statuses(third))
	assert.False(t, third.OK())

	// Without --update the stored artifact is untouched.
	artifact, err = os.ReadFile(ArtifactPath(f.opts.OutputDir, "a.html"))
	require.NoError(t, err)
	assert.Equal(t, "@IF (A) {X}", string(artifact))

	f.opts.Update = true
	updated := f.run(t, changed)
	assert.True(t, updated.Updated)
	f.opts.Update = false

	fourth := f.run(t, changed)
	assert.Equal(t, map[string]Status{"a.html": StatusPass, "b.xml": StatusPass}, statuses(fourth))
}

func TestRun_Failed(t *testing.T) {
	f := newFixture(t, map[string]string{
		"good.html": "ok",
		"bad.html":  "BAD",
	})

	report := f.run(t, upper)
	assert.Equal(t, StatusFailed, statuses(report)["bad.html"])
	assert.Equal(t, StatusNew, statuses(report)["good.html"])
	assert.False(t, report.OK())
	assert.Equal(t, 1, report.Count(StatusFailed))

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, report))
	out := buf.String()
	assert.Contains(t, out, "bad.html (exit code 1)")
	assert.Contains(t, out, "error: bad input")
}

func TestRun_StderrChange(t *testing.T) {
	f := newFixture(t, map[string]string{"a.html": "x"})
	f.run(t, upper)

	noisy := func(ctx context.Context, path, input string) Output {
		out := upper(ctx, path, input)
		out.Stderr = "warning: something\n"
		return out
	}
	report := f.run(t, noisy)
	assert.Equal(t, StatusChanged, statuses(report)["a.html"])

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, report))
	assert.Contains(t, buf.String(), "error output changed")
}

func TestRun_ParallelKeepsOrder(t *testing.T) {
	samples := map[string]string{}
	for _, name := range []string{"e.html", "a.html", "d.htm", "c.xml", "b.html"} {
		samples[name] = name
	}
	f := newFixture(t, samples)
	f.opts.Jobs = 3

	var running, peak int32
	slow := func(ctx context.Context, path, input string) Output {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return upper(ctx, path, input)
	}

	report := f.run(t, slow)
	var names []string
	for _, res := range report.Results {
		names = append(names, res.Name)
	}
	assert.Equal(t, []string{"a.html", "b.html", "c.xml", "d.htm", "e.html"}, names)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.html", "a.XML", "notes.txt", "c.htm"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.html"), 0o755))

	files, err := Discover(dir, []string{".html", ".htm", ".xml"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.XML", "b.html", "c.htm"}, files)

	_, err = Discover(filepath.Join(dir, "missing"), []string{".html"})
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	report := &Report{
		SampleDir: "samples",
		OutputDir: "expected",
		Baseline:  "baseline.yaml",
		Results: []FileResult{
			{Name: "a.html", Status: StatusPass},
			{Name: "b.html", Status: StatusNew},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, report))
	out := buf.String()

	assert.Contains(t, out, "Sample directory: samples")
	assert.Contains(t, out, "a.html")
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "NEW")
	assert.Contains(t, out, "Total files tested: 2")
	assert.NotContains(t, out, "Baseline updated")
}

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, &Report{SampleDir: "samples"}))
	assert.Contains(t, buf.String(), "No sample files found in samples")
}

func TestRender_ShowOutput(t *testing.T) {
	report := &Report{
		SampleDir: "samples",
		Results: []FileResult{
			{Name: "a.html", Status: StatusPass, Output: Output{Stdout: "@if (a) {x}\n"}},
			{Name: "b.html", Status: StatusFailed, Output: Output{Stderr: "error: boom\n", ExitCode: 1}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderDetail(&buf, report, "b.html"))
	out := buf.String()
	assert.Contains(t, out, "Detailed output for b.html:")
	assert.Contains(t, out, "Exit code: 1")
	assert.Contains(t, out, "Stdout hash: "+hash(""))
	assert.Contains(t, out, "Stderr hash: "+hash("error: boom\n"))
	assert.Contains(t, out, "STDERR:\nerror: boom")
	assert.NotContains(t, out, "STDOUT:")

	buf.Reset()
	require.NoError(t, RenderDetail(&buf, report, "a.html"))
	assert.Contains(t, buf.String(), "STDOUT:\n@if (a) {x}")
	assert.NotContains(t, buf.String(), "STDERR:")

	err := RenderDetail(&buf, report, "missing.html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no result for "missing.html"`)
}

func TestBaseline_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.yaml")

	empty, err := LoadBaseline(path)
	require.NoError(t, err)
	assert.Empty(t, empty)

	stamp := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	b := Baseline{"a.html": entryFor(Output{Stdout: "x", ExitCode: 2}, stamp)}
	require.NoError(t, b.Save(path))

	loaded, err := LoadBaseline(path)
	require.NoError(t, err)
	assert.Equal(t, b, loaded)

	require.NoError(t, os.WriteFile(path, []byte("a.html: [\n"), 0o644))
	_, err = LoadBaseline(path)
	require.Error(t, err)
}
