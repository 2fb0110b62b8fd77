package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/bmireport/internal/report"
)

var trendsJSON bool

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Average BMI per year, globally and by region, age group and sex",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		tr, err := s.Trends(cmd.Context())
		if err != nil {
			return err
		}
		if trendsJSON {
			return report.NewJSONWriter(cmd.OutOrStdout()).WriteValue(tr)
		}
		return report.NewMarkdownWriter(cmd.OutOrStdout()).WriteTrends(tr)
	},
}

func init() {
	rootCmd.AddCommand(trendsCmd)
	trendsCmd.Flags().BoolVar(&trendsJSON, "json", false, "print JSON instead of Markdown")
}
