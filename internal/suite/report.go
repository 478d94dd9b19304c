package suite

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	bold, pass, changed, added, failed lipgloss.Style
}

// newPalette picks styles for w. Writers that are not terminals get plain
// text.
func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		bold:    r.NewStyle().Bold(true),
		pass:    r.NewStyle().Foreground(lipgloss.Color("10")),
		changed: r.NewStyle().Foreground(lipgloss.Color("11")),
		added:   r.NewStyle().Foreground(lipgloss.Color("14")),
		failed:  r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (p palette) status(s Status) string {
	switch s {
	case StatusPass:
		return p.pass.Render(s.String())
	case StatusChanged:
		return p.changed.Render(s.String())
	case StatusNew:
		return p.added.Render(s.String())
	default:
		return p.failed.Render(s.String())
	}
}

// Render prints a per-file status list followed by a summary and the
// details of changed and failed files.
func Render(w io.Writer, r *Report) error {
	p := newPalette(w)
	var b strings.Builder
	rule := strings.Repeat("-", 60)

	fmt.Fprintf(&b, "%s\n", p.bold.Render("Running ngflow regression suite"))
	fmt.Fprintf(&b, "Sample directory: %s\n", r.SampleDir)
	fmt.Fprintf(&b, "Expected output directory: %s\n", r.OutputDir)
	fmt.Fprintf(&b, "Baseline file: %s\n", r.Baseline)
	fmt.Fprintf(&b, "%s\n", rule)

	if len(r.Results) == 0 {
		fmt.Fprintf(&b, "No sample files found in %s\n", r.SampleDir)
		_, err := io.WriteString(w, b.String())
		return err
	}

	for _, res := range r.Results {
		fmt.Fprintf(&b, "%-40s %s\n", res.Name, p.status(res.Status))
	}

	fmt.Fprintf(&b, "\n%s\n", p.bold.Render("Summary:"))
	fmt.Fprintf(&b, "Total files tested: %d\n", len(r.Results))
	for _, s := range []Status{StatusPass, StatusNew, StatusChanged, StatusFailed} {
		fmt.Fprintf(&b, "%-8s %d\n", s.String()+":", r.Count(s))
	}

	for _, res := range r.Results {
		switch res.Status {
		case StatusChanged:
			fmt.Fprintf(&b, "\n%s %s\n", p.status(res.Status), res.Name)
			writeChange(&b, r.OutputDir, res)
		case StatusFailed:
			fmt.Fprintf(&b, "\n%s %s (exit code %d)\n", p.status(res.Status), res.Name, res.Output.ExitCode)
			if s := strings.TrimSpace(res.Output.Stderr); s != "" {
				fmt.Fprintf(&b, "  %s\n", truncate(s, 200))
			}
		}
	}

	if r.Updated {
		fmt.Fprintf(&b, "\n%s\n", p.pass.Render("Baseline updated with current results."))
	}
	fmt.Fprintf(&b, "%s\n", rule)

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderDetail prints the exit status, output hashes and full output of the
// named file from r.
func RenderDetail(w io.Writer, r *Report, name string) error {
	res, ok := r.Result(name)
	if !ok {
		return fmt.Errorf("no result for %q in %s", name, r.SampleDir)
	}

	p := newPalette(w)
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", p.bold.Render("Detailed output for "+res.Name+":"))
	fmt.Fprintf(&b, "Status: %s\n", p.status(res.Status))
	fmt.Fprintf(&b, "Exit code: %d\n", res.Output.ExitCode)
	fmt.Fprintf(&b, "Stdout hash: %s\n", hash(res.Output.Stdout))
	fmt.Fprintf(&b, "Stderr hash: %s\n", hash(res.Output.Stderr))
	if res.Output.Stdout != "" {
		fmt.Fprintf(&b, "\n%s\n%s\n", p.added.Render("STDOUT:"), strings.TrimRight(res.Output.Stdout, "\n"))
	}
	if res.Output.Stderr != "" {
		fmt.Fprintf(&b, "\n%s\n%s\n", p.failed.Render("STDERR:"), strings.TrimRight(res.Output.Stderr, "\n"))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeChange(b *strings.Builder, outputDir string, res FileResult) {
	prev := res.Previous
	if prev != nil && prev.ExitCode != res.Output.ExitCode {
		fmt.Fprintf(b, "  exit code: %d -> %d\n", prev.ExitCode, res.Output.ExitCode)
	}
	if res.Expected != nil && *res.Expected != res.Output.Stdout {
		fmt.Fprintf(b, "  output differs from %s\n", ArtifactPath(outputDir, res.Name))
		fmt.Fprintf(b, "    expected hash: %s\n", hash(*res.Expected)[:8])
		fmt.Fprintf(b, "    current hash:  %s\n", hash(res.Output.Stdout)[:8])
	}
	if prev != nil && prev.StderrHash != hash(res.Output.Stderr) {
		fmt.Fprintf(b, "  error output changed\n")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
