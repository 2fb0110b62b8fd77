package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/bmireport/internal/bmi"
	"github.com/KaramelBytes/bmireport/internal/report"
	"github.com/KaramelBytes/bmireport/internal/utils"
)

var (
	repFormat   string
	repOutput   string
	repPersonal personalFlags
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the full BMI dashboard as Markdown or JSON",
	Long: `Build every view of the dashboard: dataset sample, trends, category
distributions, reference lines and summary. Passing --country together with
the other calculator flags adds a personal comparison; all five are
required once any is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var buf bytes.Buffer
		w, err := report.NewWriter(repFormat, &buf)
		if err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		personal, err := repPersonal.requested(cmd)
		if err != nil {
			return err
		}
		var in *bmi.Input
		if personal {
			v := repPersonal.input()
			in = &v
		}
		d, err := s.Build(cmd.Context(), in)
		if err != nil {
			return err
		}
		if err := w.Write(d); err != nil {
			return err
		}

		if repOutput == "" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := utils.SafeWriteFile(repOutput, buf.Bytes()); err != nil {
			return err
		}
		logger.Info("report written", zap.String("path", repOutput), zap.String("dashboard_id", d.ID))
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", repOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&repFormat, "format", report.FormatMarkdown, "output format: markdown|json")
	reportCmd.Flags().StringVarP(&repOutput, "output", "o", "", "write to file instead of stdout")
	repPersonal.register(reportCmd)
}
