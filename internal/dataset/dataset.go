// Package dataset loads the national BMI table into typed, immutable records.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Column names required in the header row.
const (
	ColCountry  = "country"
	ColYear     = "year"
	ColSex      = "sex"
	ColAgeGroup = "age_group"
	ColRegion   = "region"
	ColMeanBMI  = "mean_body_mass_index"
)

// RequiredColumns lists the schema in its canonical order.
var RequiredColumns = []string{ColCountry, ColYear, ColSex, ColAgeGroup, ColRegion, ColMeanBMI}

// Record is one row of the dataset.
type Record struct {
	Country  string  `json:"country"`
	Year     int     `json:"year"`
	Sex      string  `json:"sex"`
	AgeGroup string  `json:"age_group"`
	Region   string  `json:"region"`
	MeanBMI  float64 `json:"mean_body_mass_index"`
}

// Dataset is the loaded table. It is never modified after Load or Parse
// returns, so it may be shared freely between goroutines.
type Dataset struct {
	name    string
	header  []string
	records []Record
	raw     []byte

	countries []string
	sexes     []string
	regions   []string
	ageGroups []string
	years     []int
}

// Load reads and parses the CSV file at path.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DataSourceError{Source: path, Err: fmt.Errorf("read csv: %w", err)}
	}
	return Parse(filepath.Base(path), data)
}

// Parse builds a Dataset from CSV bytes. name is used in errors and reports.
func Parse(name string, data []byte) (*Dataset, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DataSourceError{Source: name, Err: ErrEmpty}
		}
		return nil, &DataSourceError{Source: name, Line: 1, Err: fmt.Errorf("read header: %w", err)}
	}
	header = append([]string(nil), header...)
	idx := map[string]int{}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &DataSourceError{Source: name, Line: 1, Column: strings.Join(missing, ","), Err: ErrMissingColumns}
	}

	ds := &Dataset{name: name, header: header, raw: append([]byte(nil), data...)}
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &DataSourceError{Source: name, Line: pe.Line, Err: fmt.Errorf("%w: %v", ErrMalformedRow, pe.Err)}
			}
			return nil, &DataSourceError{Source: name, Err: fmt.Errorf("read row: %w", err)}
		}
		line, _ := r.FieldPos(0)
		if len(rec) != len(header) {
			return nil, &DataSourceError{Source: name, Line: line, Err: fmt.Errorf("%w: %d fields, header has %d", ErrMalformedRow, len(rec), len(header))}
		}
		row, col, err := parseRecord(rec, idx)
		if err != nil {
			return nil, &DataSourceError{Source: name, Line: line, Column: col, Err: fmt.Errorf("%w: %v", ErrMalformedRow, err)}
		}
		ds.records = append(ds.records, row)
	}
	ds.index()
	return ds, nil
}

func parseRecord(rec []string, idx map[string]int) (Record, string, error) {
	field := func(col string) string { return strings.TrimSpace(rec[idx[col]]) }

	year, err := strconv.Atoi(field(ColYear))
	if err != nil {
		return Record{}, ColYear, fmt.Errorf("year %q is not an integer", field(ColYear))
	}
	v, err := strconv.ParseFloat(field(ColMeanBMI), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Record{}, ColMeanBMI, fmt.Errorf("value %q is not a finite number", field(ColMeanBMI))
	}
	out := Record{
		Country:  field(ColCountry),
		Year:     year,
		Sex:      field(ColSex),
		AgeGroup: field(ColAgeGroup),
		Region:   field(ColRegion),
		MeanBMI:  v,
	}
	for _, c := range []struct{ name, val string }{
		{ColCountry, out.Country}, {ColSex, out.Sex}, {ColAgeGroup, out.AgeGroup}, {ColRegion, out.Region},
	} {
		if c.val == "" {
			return Record{}, c.name, errors.New("value is empty")
		}
	}
	return out, "", nil
}

// index precomputes the distinct dimension values.
func (d *Dataset) index() {
	countries, sexes, regions, ages := map[string]struct{}{}, map[string]struct{}{}, map[string]struct{}{}, map[string]struct{}{}
	years := map[int]struct{}{}
	for _, r := range d.records {
		countries[r.Country] = struct{}{}
		sexes[r.Sex] = struct{}{}
		regions[r.Region] = struct{}{}
		ages[r.AgeGroup] = struct{}{}
		years[r.Year] = struct{}{}
	}
	d.countries = sortedKeys(countries)
	d.sexes = sortedKeys(sexes)
	d.regions = sortedKeys(regions)
	d.ageGroups = sortedKeys(ages)
	d.years = make([]int, 0, len(years))
	for y := range years {
		d.years = append(d.years, y)
	}
	sort.Ints(d.years)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Name returns the source name (file base name for Load).
func (d *Dataset) Name() string { return d.name }

// Len returns the number of data rows.
func (d *Dataset) Len() int { return len(d.records) }

// Header returns the header row as read.
func (d *Dataset) Header() []string { return append([]string(nil), d.header...) }

// Records returns the rows in file order. The slice is shared and must not be modified.
func (d *Dataset) Records() []Record { return d.records }

// Head returns up to n leading rows.
func (d *Dataset) Head(n int) []Record {
	if n < 0 {
		n = 0
	}
	if n > len(d.records) {
		n = len(d.records)
	}
	return append([]Record(nil), d.records[:n]...)
}

// Filter returns the rows matching keep, in file order.
func (d *Dataset) Filter(keep func(Record) bool) []Record {
	var out []Record
	for _, r := range d.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Countries returns the distinct countries, sorted.
func (d *Dataset) Countries() []string { return append([]string(nil), d.countries...) }

// Sexes returns the distinct sex values, sorted.
func (d *Dataset) Sexes() []string { return append([]string(nil), d.sexes...) }

// Regions returns the distinct regions, sorted.
func (d *Dataset) Regions() []string { return append([]string(nil), d.regions...) }

// AgeGroups returns the distinct age-group labels, sorted.
func (d *Dataset) AgeGroups() []string { return append([]string(nil), d.ageGroups...) }

// Years returns the distinct years in ascending order.
func (d *Dataset) Years() []int { return append([]int(nil), d.years...) }

// ResolveCountry finds the dataset spelling of a country name, ignoring case.
func (d *Dataset) ResolveCountry(name string) (string, bool) {
	return resolve(d.countries, name)
}

// ResolveSex finds the dataset spelling of a sex label, ignoring case.
func (d *Dataset) ResolveSex(name string) (string, bool) {
	return resolve(d.sexes, name)
}

func resolve(values []string, name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, v := range values {
		if strings.EqualFold(v, name) {
			return v, true
		}
	}
	return "", false
}

// WriteCSV writes the table exactly as it was loaded.
func (d *Dataset) WriteCSV(w io.Writer) (int, error) {
	return w.Write(d.raw)
}
