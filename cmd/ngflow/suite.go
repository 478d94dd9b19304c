package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grindlemire/ngflow/internal/suite"
)

func newSuiteCmd(a *app) *cobra.Command {
	var (
		samples  string
		expected string
		baseline string
		jobs     int
		update   bool
		show     string
	)

	cmd := &cobra.Command{
		Use:   "suite",
		Short: "Run the regression harness over the sample directory",
		Long: `suite restores every sample template, compares the result with the
stored expected output and baseline, and reports PASS, CHANGED, NEW or
FAILED per file. It exits non-zero when any file changed or failed.
--show prints the full output of one sample after the report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Suite
			if cmd.Flags().Changed("samples") {
				cfg.Samples = samples
			}
			if cmd.Flags().Changed("expected") {
				cfg.Expected = expected
			}
			if cmd.Flags().Changed("baseline") {
				cfg.Baseline = baseline
			}
			if cmd.Flags().Changed("jobs") {
				cfg.Jobs = jobs
			}

			report, err := suite.Run(cmd.Context(), suite.Options{
				SampleDir:    cfg.Samples,
				OutputDir:    cfg.Expected,
				BaselinePath: cfg.Baseline,
				Extensions:   cfg.Extensions,
				Jobs:         cfg.Jobs,
				Update:       update,
				Logger:       a.logger.Named("suite"),
			}, a.pipeline())
			if err != nil {
				return err
			}
			if err := suite.Render(a.stdout, report); err != nil {
				return err
			}
			if show != "" {
				if err := suite.RenderDetail(a.stdout, report, show); err != nil {
					return err
				}
			}
			if !report.OK() {
				return fmt.Errorf("%d file(s) changed, %d file(s) failed",
					report.Count(suite.StatusChanged), report.Count(suite.StatusFailed))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&samples, "samples", "", "directory of sample templates")
	cmd.Flags().StringVar(&expected, "expected", "", "directory of expected-output artifacts")
	cmd.Flags().StringVar(&baseline, "baseline", "", "baseline file")
	cmd.Flags().IntVar(&jobs, "jobs", 1, "files processed at once")
	cmd.Flags().BoolVar(&update, "update", false, "rewrite expected output and baseline")
	cmd.Flags().StringVar(&show, "show", "", "print the detailed output of one sample file")
	return cmd
}

// pipeline runs a restore the way the root command would and reports it as
// stdout, stderr and exit status.
func (a *app) pipeline() suite.Pipeline {
	tr := a.transcoder()
	return func(ctx context.Context, path, input string) suite.Output {
		restored, err := tr.Restore(ctx, filepath.Base(path), input)
		if err != nil {
			return suite.Output{Stderr: fmt.Sprintf("error: %v\n", err), ExitCode: 1}
		}
		return suite.Output{Stdout: restored}
	}
}
