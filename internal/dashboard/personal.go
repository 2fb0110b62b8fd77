package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KaramelBytes/bmireport/internal/analysis"
	"github.com/KaramelBytes/bmireport/internal/bmi"
	"github.com/KaramelBytes/bmireport/internal/dataset"
)

// Comparison places one person's BMI against the dataset.
type Comparison struct {
	Input          bmi.Input           `json:"input"`
	AgeGroup       bmi.AgeGroup        `json:"age_group"`
	BMI            float64             `json:"bmi"`
	Category       bmi.Category        `json:"category"`
	WorldLabel     string              `json:"world_label"`
	World          []analysis.Point    `json:"world"`
	CountryLabel   string              `json:"country_label"`
	Country        []analysis.Point    `json:"country"`
	ReferenceLines []bmi.ReferenceLine `json:"reference_lines"`
}

// Personal validates in, computes the person's BMI and age group, and returns
// the world and country mean-BMI series for their sex and age group.
// Invalid input is reported as *bmi.InvalidInputError.
func (s *Session) Personal(ctx context.Context, in bmi.Input) (*Comparison, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.limits.Validate(in); err != nil {
		return nil, err
	}
	country, ok := s.ds.ResolveCountry(in.Country)
	if !ok {
		return nil, &bmi.InvalidInputError{Field: "country", Value: in.Country, Reason: "not in dataset"}
	}
	sex, ok := s.ds.ResolveSex(in.Sex)
	if !ok {
		return nil, &bmi.InvalidInputError{Field: "sex", Value: in.Sex, Reason: fmt.Sprintf("must be one of %v", s.ds.Sexes())}
	}
	in.Country, in.Sex = country, sex

	value, err := bmi.Calculate(in.HeightCM, in.WeightKG)
	if err != nil {
		return nil, err
	}
	category, err := bmi.Classify(value)
	if err != nil {
		return nil, err
	}
	age := bmi.AgeGroupFor(in.BirthYear, s.opts.ReferenceYear)

	world, err := analysis.GroupMean(
		s.ds.Filter(func(r dataset.Record) bool { return r.Sex == sex && r.AgeGroup == string(age) }),
		[]analysis.Field{analysis.FieldYear, analysis.FieldSex, analysis.FieldAgeGroup},
		analysis.MeanBMI,
	)
	if err != nil {
		return nil, err
	}
	local, err := analysis.GroupMean(
		s.ds.Filter(func(r dataset.Record) bool {
			return r.Country == country && r.Sex == sex && r.AgeGroup == string(age)
		}),
		[]analysis.Field{analysis.FieldYear, analysis.FieldCountry, analysis.FieldSex, analysis.FieldAgeGroup},
		analysis.MeanBMI,
	)
	if err != nil {
		return nil, err
	}

	title := cases.Title(language.English)
	c := &Comparison{
		Input:          in,
		AgeGroup:       age,
		BMI:            value,
		Category:       category,
		WorldLabel:     fmt.Sprintf("World Average (%s & %d)", title.String(sex), in.BirthYear),
		World:          analysis.Series(world, nil),
		CountryLabel:   fmt.Sprintf("%s BMI (%s & %d)", title.String(country), title.String(sex), in.BirthYear),
		Country:        analysis.Series(local, nil),
		ReferenceLines: bmi.ReferenceLines(),
	}
	s.logger.Debug("personal comparison",
		zap.String("country", country),
		zap.String("age_group", string(age)),
		zap.Int("world_points", len(c.World)),
		zap.Int("country_points", len(c.Country)),
	)
	return c, nil
}
