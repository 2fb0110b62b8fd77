package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/bmireport/internal/report"
)

var (
	dsRows int
	dsJSON bool
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Show the first rows of the dataset and the values it offers",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		ds := s.Dataset()
		n := s.Options().SampleRows
		if cmd.Flags().Changed("rows") {
			n = dsRows
		}
		out := cmd.OutOrStdout()
		if dsJSON {
			return report.NewJSONWriter(out).WriteValue(map[string]any{
				"source":     ds.Name(),
				"rows":       ds.Len(),
				"header":     ds.Header(),
				"records":    ds.Head(n),
				"countries":  ds.Countries(),
				"sexes":      ds.Sexes(),
				"regions":    ds.Regions(),
				"age_groups": ds.AgeGroups(),
				"years":      ds.Years(),
			})
		}

		fmt.Fprintf(out, "Source: %s (%d rows)\n\n", ds.Name(), ds.Len())
		if err := report.NewMarkdownWriter(out).WriteRecords(ds.Head(n)); err != nil {
			return err
		}
		years := ds.Years()
		if len(years) > 0 {
			fmt.Fprintf(out, "Years: %d - %d (%d distinct)\n", years[0], years[len(years)-1], len(years))
		}
		fmt.Fprintf(out, "Countries: %d\n", len(ds.Countries()))
		fmt.Fprintf(out, "Regions: %s\n", strings.Join(ds.Regions(), ", "))
		fmt.Fprintf(out, "Sexes: %s\n", strings.Join(ds.Sexes(), ", "))
		fmt.Fprintf(out, "Age groups: %s\n", strings.Join(ds.AgeGroups(), ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.Flags().IntVarP(&dsRows, "rows", "n", 0, "number of rows to show (default from config sample_rows)")
	datasetCmd.Flags().BoolVar(&dsJSON, "json", false, "print JSON instead of Markdown")
}
