package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// runRestore implements the root command: read, transcode and print.
func (a *app) runRestore(cmd *cobra.Command, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	restored, err := a.transcoder().Restore(cmd.Context(), filepath.Base(path), string(source))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(a.stdout, restored)
	return err
}

func newEncodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <template>",
		Short: "Print the intermediate XML for a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}
			encoded, err := a.transcoder().Encode(filepath.Base(args[0]), string(source))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(a.stdout, encoded)
			return err
		},
	}
}

func newDecodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file>",
		Short: "Print the template described by reformatter output",
		Long: `decode reads intermediate XML, or the outline a reformatter printed for
it, and prints the template. Select the dialect with --format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}
			decoded, err := a.transcoder().Decode(string(text))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			_, err = fmt.Fprint(a.stdout, decoded)
			return err
		},
	}
}
