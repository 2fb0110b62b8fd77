package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/bmireport/internal/bmi"
	"github.com/KaramelBytes/bmireport/internal/report"
)

// personalFlags are the calculator inputs shared by calc and report.
type personalFlags struct {
	country   string
	sex       string
	birthYear int
	heightCM  float64
	weightKG  float64
}

func (p *personalFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.country, "country", "", "country of residence (as in the dataset)")
	cmd.Flags().StringVar(&p.sex, "sex", "", "sex (as in the dataset, e.g. female or male)")
	cmd.Flags().IntVar(&p.birthYear, "birth-year", 0, "year of birth")
	cmd.Flags().Float64Var(&p.heightCM, "height", 0, "height in centimetres")
	cmd.Flags().Float64Var(&p.weightKG, "weight", 0, "weight in kilograms")
}

var personalFlagNames = []string{"country", "sex", "birth-year", "height", "weight"}

// requested reports whether the calculator flags were given. Setting only
// some of them is an error naming the first one missing.
func (p *personalFlags) requested(cmd *cobra.Command) (bool, error) {
	set, missing := 0, ""
	for _, name := range personalFlagNames {
		if cmd.Flags().Changed(name) {
			set++
		} else if missing == "" {
			missing = name
		}
	}
	if set == 0 {
		return false, nil
	}
	if missing != "" {
		return false, fmt.Errorf("--%s is required", missing)
	}
	return true, nil
}

func (p *personalFlags) input() bmi.Input {
	return bmi.Input{
		Country:   p.country,
		Sex:       p.sex,
		BirthYear: p.birthYear,
		HeightCM:  p.heightCM,
		WeightKG:  p.weightKG,
	}
}

var (
	calcFlags personalFlags
	calcJSON  bool
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate your BMI and compare it with your country and the world",
	Example: `  bmireport calc --country Japan --sex female --birth-year 1990 --height 165 --weight 58
  bmireport calc --country France --sex male --birth-year 1970 --height 180 --weight 92 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := calcFlags.requested(cmd)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("--%s is required", personalFlagNames[0])
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		c, err := s.Personal(cmd.Context(), calcFlags.input())
		if err != nil {
			var iie *bmi.InvalidInputError
			if errors.As(err, &iie) {
				return fmt.Errorf("%w (see 'bmireport dataset' for valid values)", err)
			}
			return err
		}
		if calcJSON {
			return report.NewJSONWriter(cmd.OutOrStdout()).WriteValue(c)
		}
		return report.NewMarkdownWriter(cmd.OutOrStdout()).WriteComparison(c)
	},
}

func init() {
	rootCmd.AddCommand(calcCmd)
	calcFlags.register(calcCmd)
	calcCmd.Flags().BoolVar(&calcJSON, "json", false, "print JSON instead of Markdown")
}
