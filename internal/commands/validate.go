package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/obsfin/achfile"
)

func newValidateCommand() *cobra.Command {
	var errorsOnly bool

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate every line of an ACH file",
		Long: `Validate checks each line of an ACH file against the NACHA field layout
for its record type and prints a per-line ledger. Lines are checked exactly
as given; a wrong length is reported, not repaired.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readFileContent(args[0])
			if err != nil {
				return err
			}

			results := achfile.ParseAndValidate(content)

			out := cmd.OutOrStdout()
			invalid := 0
			for _, result := range results {
				if !result.IsValid {
					invalid++
				}
				if errorsOnly && result.IsValid {
					continue
				}
				status := "ok"
				if !result.IsValid {
					status = strings.Join(result.Errors, "; ")
				}
				fmt.Fprintf(out, "line %4d [%s]: %s\n", result.LineNumber, result.RecordType, status)
			}
			fmt.Fprintf(out, "%d lines, %d invalid\n", len(results), invalid)

			if invalid > 0 {
				return fmt.Errorf("%d invalid lines", invalid)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&errorsOnly, "errors-only", false, "print only invalid lines")

	return cmd
}
