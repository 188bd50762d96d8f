package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/obsfin/achfile"
	"github.com/obsfin/achfile/internal/report"
)

func newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Reconcile entry amounts against declared control totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readFileContent(args[0])
			if err != nil {
				return err
			}

			r := report.Reconcile(achfile.ParseFileContent(content))

			out := cmd.OutOrStdout()
			for _, batch := range r.Batches {
				status := "no control record"
				if batch.HasControl {
					if batch.Balanced {
						status = "balanced"
					} else {
						status = fmt.Sprintf("MISMATCH (control debit %s credit %s)",
							batch.ControlDebitTotal.StringFixed(2), batch.ControlCreditTotal.StringFixed(2))
					}
				}
				fmt.Fprintf(out, "batch %d: %d entries, debit %s, credit %s (%s)\n",
					batch.BatchNumber, batch.EntryCount,
					batch.DebitTotal.StringFixed(2), batch.CreditTotal.StringFixed(2), status)
			}

			fileStatus := "no control record"
			if r.File.HasControl {
				if r.File.Balanced {
					fileStatus = "balanced"
				} else {
					fileStatus = fmt.Sprintf("MISMATCH (control debit %s credit %s)",
						r.File.ControlDebitTotal.StringFixed(2), r.File.ControlCreditTotal.StringFixed(2))
				}
			}
			fmt.Fprintf(out, "file: %d entries, debit %s, credit %s (%s)\n",
				r.File.EntryCount, r.File.DebitTotal.StringFixed(2),
				r.File.CreditTotal.StringFixed(2), fileStatus)

			return nil
		},
	}

	return cmd
}
