package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/grindlemire/ngflow/internal/ctrlflow"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [path...]",
		Short: "Check control-flow structure without reformatting",
		Long: `check scans and parses templates and reports lexical and structural
errors. Paths may be files, directories, or dir/... for a recursive walk.
With no paths the current directory is checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(args)
		},
	}
}

// runCheck parses every template and reports each failure on stderr.
func (a *app) runCheck(paths []string) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := collectTemplates(paths, a.cfg.Suite.Extensions)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no template files found")
	}

	var errorCount int
	for _, path := range files {
		a.logger.Debug("checking", zap.String("file", path))
		if err := checkFile(path); err != nil {
			fmt.Fprintf(a.stderr, "%v\n", err)
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("%d file(s) had errors", errorCount)
	}
	fmt.Fprintf(a.stdout, "All %d file(s) passed checks\n", len(files))
	return nil
}

func checkFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	_, err = ctrlflow.Parse(path, string(source))
	return err
}

// collectTemplates expands paths into template files. A directory is read
// one level deep; dir/... walks it recursively. Explicit file arguments are
// kept whatever their extension.
func collectTemplates(paths, exts []string) ([]string, error) {
	var files []string
	matches := func(name string) bool {
		ext := strings.ToLower(filepath.Ext(name))
		for _, want := range exts {
			if ext == strings.ToLower(want) {
				return true
			}
		}
		return false
	}

	for _, path := range paths {
		if strings.HasSuffix(path, "/...") {
			root := strings.TrimSuffix(path, "/...")
			if root == "" {
				root = "."
			}
			err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && matches(p) {
					files = append(files, p)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("walking %s: %w", root, err)
			}
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && matches(entry.Name()) {
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
	}
	return files, nil
}
