// Package analysis computes the aggregate views of the BMI dataset: grouped
// means, per-year category distributions and the headline summary.
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/bmireport/internal/dataset"
)

// Field is a grouping dimension.
type Field string

const (
	FieldYear     Field = dataset.ColYear
	FieldCountry  Field = dataset.ColCountry
	FieldRegion   Field = dataset.ColRegion
	FieldSex      Field = dataset.ColSex
	FieldAgeGroup Field = dataset.ColAgeGroup
)

// canonical is the order used for sorting and for rendering keys.
var canonical = []Field{FieldYear, FieldCountry, FieldRegion, FieldSex, FieldAgeGroup}

// ParseField accepts a column name (case-insensitive).
func ParseField(s string) (Field, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, f := range canonical {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown group field %q (use year, country, region, sex, age_group)", s)
}

// ParseFields parses a list of column names, e.g. from a --group-by flag.
func ParseFields(names []string) ([]Field, error) {
	out := make([]Field, 0, len(names))
	for _, n := range names {
		f, err := ParseField(n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Measure extracts the value averaged by GroupMean.
type Measure func(dataset.Record) float64

// MeanBMI is the mean_body_mass_index column.
func MeanBMI(r dataset.Record) float64 { return r.MeanBMI }

// Key identifies a group. Only the fields that were grouped on are set.
type Key struct {
	Year     int    `json:"year,omitempty"`
	Country  string `json:"country,omitempty"`
	Region   string `json:"region,omitempty"`
	Sex      string `json:"sex,omitempty"`
	AgeGroup string `json:"age_group,omitempty"`
}

// String renders the key as "year=2016, sex=female".
func (k Key) String() string {
	var parts []string
	if k.Year != 0 {
		parts = append(parts, fmt.Sprintf("year=%d", k.Year))
	}
	for _, kv := range [][2]string{{"country", k.Country}, {"region", k.Region}, {"sex", k.Sex}, {"age_group", k.AgeGroup}} {
		if kv[1] != "" {
			parts = append(parts, kv[0]+"="+kv[1])
		}
	}
	if len(parts) == 0 {
		return "(all)"
	}
	return strings.Join(parts, ", ")
}

func less(a, b Key) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if a.Country != b.Country {
		return a.Country < b.Country
	}
	if a.Region != b.Region {
		return a.Region < b.Region
	}
	if a.Sex != b.Sex {
		return a.Sex < b.Sex
	}
	return a.AgeGroup < b.AgeGroup
}

// Row is one group with the mean of the measure over its records.
type Row struct {
	Key
	Count int     `json:"count"`
	Mean  float64 `json:"mean_bmi"`
}

// keySet records which fields participate in a grouping.
type keySet struct {
	year, country, region, sex, age bool
}

func newKeySet(keys []Field) (keySet, error) {
	var ks keySet
	for _, f := range keys {
		switch f {
		case FieldYear:
			ks.year = true
		case FieldCountry:
			ks.country = true
		case FieldRegion:
			ks.region = true
		case FieldSex:
			ks.sex = true
		case FieldAgeGroup:
			ks.age = true
		default:
			return ks, fmt.Errorf("unknown group field %q", f)
		}
	}
	return ks, nil
}

func (ks keySet) key(r dataset.Record) Key {
	var k Key
	if ks.year {
		k.Year = r.Year
	}
	if ks.country {
		k.Country = r.Country
	}
	if ks.region {
		k.Region = r.Region
	}
	if ks.sex {
		k.Sex = r.Sex
	}
	if ks.age {
		k.AgeGroup = r.AgeGroup
	}
	return k
}

// GroupMean partitions records by the distinct values of keys and averages
// measure within each partition. keys is a set: order and repeats do not
// matter. A nil measure means MeanBMI. Rows come back sorted by key in
// year, country, region, sex, age_group order, and the result does not
// depend on the order of records.
func GroupMean(records []dataset.Record, keys []Field, measure Measure) ([]Row, error) {
	ks, err := newKeySet(keys)
	if err != nil {
		return nil, err
	}
	if measure == nil {
		measure = MeanBMI
	}
	groups := map[Key][]float64{}
	for _, r := range records {
		k := ks.key(r)
		groups[k] = append(groups[k], measure(r))
	}
	out := make([]Row, 0, len(groups))
	for k, vals := range groups {
		out = append(out, Row{Key: k, Count: len(vals), Mean: mean(vals)})
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i].Key, out[j].Key) })
	return out, nil
}

// mean sorts vals before summing so the result is identical for any input order.
func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sort.Float64s(vals)
	// Neumaier compensated sum
	var sum, c float64
	for _, v := range vals {
		t := sum + v
		if abs(sum) >= abs(v) {
			c += (sum - t) + v
		} else {
			c += (v - t) + sum
		}
		sum = t
	}
	return (sum + c) / float64(len(vals))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
