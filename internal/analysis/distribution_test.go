package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/KaramelBytes/bmireport/internal/bmi"
	"github.com/KaramelBytes/bmireport/internal/dataset"
)

func TestCategoryDistributionTwoCountries(t *testing.T) {
	recs := []dataset.Record{
		{Country: "A", Year: 2016, Sex: "female", AgeGroup: "25-34", Region: "R1", MeanBMI: 24.0},
		{Country: "B", Year: 2016, Sex: "female", AgeGroup: "25-34", Region: "R1", MeanBMI: 31.0},
	}
	got, err := CategoryDistribution(recs, 2016)
	if err != nil {
		t.Fatalf("CategoryDistribution: %v", err)
	}
	want := Distribution{
		Year:      2016,
		Countries: 2,
		Buckets: []Bucket{
			{Category: bmi.Underweight, Count: 0, Percentage: 0},
			{Category: bmi.Healthy, Count: 1, Percentage: 50},
			{Category: bmi.Overweight, Count: 0, Percentage: 0},
			{Category: bmi.Obese, Count: 1, Percentage: 50},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("distribution mismatch (-want +got):\n%s", diff)
	}
}

func TestCategoryDistributionAveragesCountryRowsFirst(t *testing.T) {
	// Tonga 2016: (34 + 31) / 2 = 32.5 -> obese; Japan 22.5 -> healthy; Chad 20.5 -> healthy
	d, err := CategoryDistribution(fixture(), 2016)
	if err != nil {
		t.Fatalf("CategoryDistribution: %v", err)
	}
	if d.Countries != 3 {
		t.Fatalf("countries = %d, want 3", d.Countries)
	}
	if b := d.Bucket(bmi.Healthy); b.Count != 2 {
		t.Fatalf("healthy = %#v", b)
	}
	if b := d.Bucket(bmi.Obese); b.Count != 1 {
		t.Fatalf("obese = %#v", b)
	}

	// 1975: Chad 18.0 underweight, Japan 21.5 healthy, Tonga 28.0 overweight
	d, err = CategoryDistribution(fixture(), 1975)
	if err != nil {
		t.Fatalf("CategoryDistribution: %v", err)
	}
	for _, c := range []bmi.Category{bmi.Underweight, bmi.Healthy, bmi.Overweight} {
		if b := d.Bucket(c); b.Count != 1 {
			t.Fatalf("%s = %#v", c, b)
		}
	}
}

func TestCategoryDistributionPercentagesSumTo100(t *testing.T) {
	recs := []dataset.Record{}
	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	values := []float64{17, 19, 22, 26, 27, 33, 24.95}
	for i, n := range names {
		recs = append(recs, dataset.Record{Country: n, Year: 2000, Sex: "male", AgeGroup: "25-34", Region: "R", MeanBMI: values[i]})
	}
	d, err := CategoryDistribution(recs, 2000)
	if err != nil {
		t.Fatalf("CategoryDistribution: %v", err)
	}
	if len(d.Buckets) != 4 {
		t.Fatalf("buckets = %d, want 4", len(d.Buckets))
	}
	var sum float64
	var count int
	for i, b := range d.Buckets {
		if b.Category != bmi.Categories()[i] {
			t.Fatalf("bucket %d = %s, want %s", i, b.Category, bmi.Categories()[i])
		}
		sum += b.Percentage
		count += b.Count
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("percentages sum = %v, want 100", sum)
	}
	if count != len(names) {
		t.Fatalf("counts sum = %d, want %d", count, len(names))
	}
}

func TestCategoryDistributionEmptyYear(t *testing.T) {
	d, err := CategoryDistribution(fixture(), 1990)
	if err != nil {
		t.Fatalf("CategoryDistribution: %v", err)
	}
	if d.Countries != 0 || len(d.Buckets) != 4 {
		t.Fatalf("distribution = %#v", d)
	}
	for _, b := range d.Buckets {
		if b.Count != 0 || b.Percentage != 0 {
			t.Fatalf("bucket = %#v, want zero", b)
		}
	}
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(fixture())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.FirstYear != 1975 || s.LastYear != 2016 {
		t.Fatalf("years = %d..%d", s.FirstYear, s.LastYear)
	}
	wantFirst := (21.0 + 22 + 28 + 18) / 4
	wantLast := (21.5 + 23.5 + 34 + 31 + 20.5) / 5
	if math.Abs(s.FirstMean-wantFirst) > 1e-9 || math.Abs(s.LastMean-wantLast) > 1e-9 {
		t.Fatalf("means = %v, %v", s.FirstMean, s.LastMean)
	}
	if math.Abs(s.ChangePct-(wantLast-wantFirst)/wantFirst*100) > 1e-9 {
		t.Fatalf("change = %v", s.ChangePct)
	}
	if s.TopCountry.Name != "Tonga" || s.TopCountry.Category != bmi.Obese {
		t.Fatalf("top country = %#v", s.TopCountry)
	}
	if s.TopRegion.Name != "Pacific" || s.TopRegion.Mean != 32.5 {
		t.Fatalf("top region = %#v", s.TopRegion)
	}
	if s.First.Year != 1975 || s.Last.Year != 2016 {
		t.Fatalf("distributions = %d, %d", s.First.Year, s.Last.Year)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if _, err := Summarize(nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}
