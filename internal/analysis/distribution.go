package analysis

import (
	"fmt"

	"github.com/KaramelBytes/bmireport/internal/bmi"
	"github.com/KaramelBytes/bmireport/internal/dataset"
)

// Bucket is one category of a Distribution.
type Bucket struct {
	Category   bmi.Category `json:"category"`
	Count      int          `json:"count"`
	Percentage float64      `json:"percentage"`
}

// Distribution is the share of countries per weight category in one year.
// Buckets always holds every category, in bmi.Categories order.
type Distribution struct {
	Year      int      `json:"year"`
	Countries int      `json:"countries"`
	Buckets   []Bucket `json:"buckets"`
}

// Bucket returns the entry for c.
func (d Distribution) Bucket(c bmi.Category) Bucket {
	for _, b := range d.Buckets {
		if b.Category == c {
			return b
		}
	}
	return Bucket{Category: c}
}

// CategoryDistribution classifies each country by its mean BMI across all of
// its rows for year and reports the count and percentage of countries per
// category. A year without rows yields all-zero buckets.
func CategoryDistribution(records []dataset.Record, year int) (Distribution, error) {
	var inYear []dataset.Record
	for _, r := range records {
		if r.Year == year {
			inYear = append(inYear, r)
		}
	}
	perCountry, err := GroupMean(inYear, []Field{FieldCountry}, MeanBMI)
	if err != nil {
		return Distribution{}, err
	}
	counts := map[bmi.Category]int{}
	for _, row := range perCountry {
		c, err := bmi.Classify(row.Mean)
		if err != nil {
			return Distribution{}, fmt.Errorf("classify %s in %d: %w", row.Country, year, err)
		}
		counts[c]++
	}
	d := Distribution{Year: year, Countries: len(perCountry)}
	for _, c := range bmi.Categories() {
		b := Bucket{Category: c, Count: counts[c]}
		if d.Countries > 0 {
			b.Percentage = float64(b.Count) * 100 / float64(d.Countries)
		}
		d.Buckets = append(d.Buckets, b)
	}
	return d, nil
}
