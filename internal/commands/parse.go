package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/obsfin/achfile"
)

func newParseCommand() *cobra.Command {
	var xlsxPath string
	var parquetPath string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse an ACH file into typed record buckets",
		Long: `Parse decodes an ACH file (plain or gzip/bzip2/xz/zstd compressed,
detected from the extension) into its six record buckets and prints the
bucket counts. The buckets can also be exported as an Excel workbook or the
entry details as a Parquet file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readFileContent(args[0])
			if err != nil {
				return err
			}

			parsed := achfile.ParseFileContent(content)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "file headers:    %d\n", len(parsed.FileHeaders))
			fmt.Fprintf(out, "batch headers:   %d\n", len(parsed.BatchHeaders))
			fmt.Fprintf(out, "entry details:   %d\n", len(parsed.EntryDetails))
			fmt.Fprintf(out, "addendas:        %d\n", len(parsed.Addendas))
			fmt.Fprintf(out, "batch controls:  %d\n", len(parsed.BatchControls))
			fmt.Fprintf(out, "file controls:   %d\n", len(parsed.FileControls))

			if xlsxPath != "" {
				if err := exportXLSX(xlsxPath, parsed); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", xlsxPath)
			}
			if parquetPath != "" {
				if err := exportParquet(parquetPath, parsed); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", parquetPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "export all buckets to an Excel workbook")
	cmd.Flags().StringVar(&parquetPath, "parquet", "", "export entry details to a Parquet file")

	return cmd
}

func readFileContent(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	content, err := achfile.ReadAll(f, path)
	if err != nil {
		return "", err
	}
	return content, nil
}

func exportXLSX(path string, parsed *achfile.ParsedFile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := achfile.WriteXLSX(f, achfile.ToTableSet(parsed)); err != nil {
		return fmt.Errorf("exporting XLSX: %w", err)
	}
	return nil
}

func exportParquet(path string, parsed *achfile.ParsedFile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := achfile.WriteParquet(f, achfile.ToTableSet(parsed).EntryDetails); err != nil {
		return fmt.Errorf("exporting Parquet: %w", err)
	}
	return nil
}
