package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/bmireport/internal/store"
	"github.com/KaramelBytes/bmireport/internal/utils"
)

var (
	expFormat string
	expOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the dataset as the original CSV or as a SQLite table",
	Long: `Export the loaded dataset.

--format csv writes the file exactly as it was read (to stdout unless -o is set).
--format sqlite writes the records to the bmi_records table of the -o database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(strings.TrimSpace(expFormat))
		if format != "csv" && format != "sqlite" {
			return fmt.Errorf("unsupported --format: %s (use csv or sqlite)", expFormat)
		}
		if format == "sqlite" && expOutput == "" {
			return fmt.Errorf("--format sqlite requires -o <file>")
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		ds := s.Dataset()

		if format == "sqlite" {
			n, err := store.ExportSQLite(cmd.Context(), expOutput, ds)
			if err != nil {
				return err
			}
			logger.Info("exported sqlite", zap.String("path", expOutput), zap.Int("rows", n))
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d rows to %s (table %s)\n", n, expOutput, store.Table)
			return nil
		}

		if expOutput == "" {
			_, err := ds.WriteCSV(cmd.OutOrStdout())
			return err
		}
		var buf bytes.Buffer
		if _, err := ds.WriteCSV(&buf); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(expOutput, buf.Bytes()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s (%d bytes)\n", expOutput, buf.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&expFormat, "format", "csv", "export format: csv|sqlite")
	exportCmd.Flags().StringVarP(&expOutput, "output", "o", "", "output file")
}
