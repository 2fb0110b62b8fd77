package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/bmireport/internal/analysis"
	"github.com/KaramelBytes/bmireport/internal/report"
)

var (
	anaGroupBy []string
	anaJSON    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Average BMI grouped by any combination of columns",
	Example: `  bmireport analyze --group-by year,region
  bmireport analyze --group-by country --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := analysis.ParseFields(anaGroupBy)
		if err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		rows, err := s.Groups(cmd.Context(), keys)
		if err != nil {
			return err
		}
		if anaJSON {
			return report.NewJSONWriter(cmd.OutOrStdout()).WriteValue(rows)
		}
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = string(k)
		}
		title := "Average BMI"
		if len(names) > 0 {
			title = fmt.Sprintf("Average BMI by %s", strings.Join(names, ", "))
		}
		return report.NewMarkdownWriter(cmd.OutOrStdout()).WriteGroups(title, rows)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringSliceVar(&anaGroupBy, "group-by", []string{"year"}, "columns to group by: year, country, region, sex, age_group")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "print JSON instead of Markdown")
}
