package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/bmireport/internal/report"
)

var (
	distYears []int
	distJSON  bool
)

var distributionCmd = &cobra.Command{
	Use:   "distribution",
	Short: "Share of countries in each BMI category for the given years",
	Example: `  bmireport distribution
  bmireport distribution --year 1990 --year 2016`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		ds, err := s.Distributions(cmd.Context(), distYears...)
		if err != nil {
			return err
		}
		if distJSON {
			return report.NewJSONWriter(cmd.OutOrStdout()).WriteValue(ds)
		}
		return report.NewMarkdownWriter(cmd.OutOrStdout()).WriteDistributions(ds)
	},
}

func init() {
	rootCmd.AddCommand(distributionCmd)
	distributionCmd.Flags().IntSliceVar(&distYears, "year", nil, "year to show (repeatable; default from config distribution_years)")
	distributionCmd.Flags().BoolVar(&distJSON, "json", false, "print JSON instead of Markdown")
}
