package analysis

import (
	"errors"

	"github.com/KaramelBytes/bmireport/internal/bmi"
	"github.com/KaramelBytes/bmireport/internal/dataset"
)

// ErrNoData is returned when a view needs at least one record.
var ErrNoData = errors.New("no records")

// Point is one value of a yearly series.
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Series picks the rows accepted by match and returns their means in row order.
func Series(rows []Row, match func(Key) bool) []Point {
	var out []Point
	for _, r := range rows {
		if match == nil || match(r.Key) {
			out = append(out, Point{Year: r.Year, Value: r.Mean})
		}
	}
	return out
}

// Ranked is the leader of a ranking.
type Ranked struct {
	Name     string       `json:"name"`
	Mean     float64      `json:"mean_bmi"`
	Category bmi.Category `json:"category"`
}

// Summary holds the headline figures of the dataset.
type Summary struct {
	FirstYear    int          `json:"first_year"`
	LastYear     int          `json:"last_year"`
	FirstMean    float64      `json:"first_mean_bmi"`
	LastMean     float64      `json:"last_mean_bmi"`
	ChangePct    float64      `json:"change_pct"`
	LastCategory bmi.Category `json:"last_category"`
	TopCountry   Ranked       `json:"top_country"`
	TopRegion    Ranked       `json:"top_region"`
	First        Distribution `json:"first_distribution"`
	Last         Distribution `json:"last_distribution"`
}

// Summarize compares the first and last year of the records.
func Summarize(records []dataset.Record) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrNoData
	}
	byYear, err := GroupMean(records, []Field{FieldYear}, MeanBMI)
	if err != nil {
		return Summary{}, err
	}
	first, last := byYear[0], byYear[len(byYear)-1]
	s := Summary{
		FirstYear: first.Year,
		LastYear:  last.Year,
		FirstMean: first.Mean,
		LastMean:  last.Mean,
	}
	if first.Mean != 0 {
		s.ChangePct = (last.Mean - first.Mean) / first.Mean * 100
	}
	if s.LastCategory, err = bmi.Classify(last.Mean); err != nil {
		return Summary{}, err
	}

	var inLast []dataset.Record
	for _, r := range records {
		if r.Year == s.LastYear {
			inLast = append(inLast, r)
		}
	}
	if s.TopCountry, err = top(inLast, FieldCountry); err != nil {
		return Summary{}, err
	}
	if s.TopRegion, err = top(inLast, FieldRegion); err != nil {
		return Summary{}, err
	}
	if s.First, err = CategoryDistribution(records, s.FirstYear); err != nil {
		return Summary{}, err
	}
	if s.Last, err = CategoryDistribution(records, s.LastYear); err != nil {
		return Summary{}, err
	}
	return s, nil
}

// top returns the group with the highest mean. Ties go to the first name in sort order.
func top(records []dataset.Record, f Field) (Ranked, error) {
	rows, err := GroupMean(records, []Field{f}, MeanBMI)
	if err != nil || len(rows) == 0 {
		return Ranked{}, err
	}
	best := rows[0]
	for _, r := range rows[1:] {
		if r.Mean > best.Mean {
			best = r
		}
	}
	name := best.Country
	if f == FieldRegion {
		name = best.Region
	}
	c, err := bmi.Classify(best.Mean)
	if err != nil {
		return Ranked{}, err
	}
	return Ranked{Name: name, Mean: best.Mean, Category: c}, nil
}
