// Package commands wires the achfile CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/obsfin/achfile/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "achfile",
		Short:   "NACHA ACH file ingestion and bookkeeping",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newSyncCommand())
	rootCmd.AddCommand(newReportCommand())

	return rootCmd
}
