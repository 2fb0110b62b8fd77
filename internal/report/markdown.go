package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/KaramelBytes/bmireport/internal/analysis"
	"github.com/KaramelBytes/bmireport/internal/bmi"
	"github.com/KaramelBytes/bmireport/internal/dashboard"
	"github.com/KaramelBytes/bmireport/internal/dataset"
)

// MarkdownWriter outputs the dashboard as a Markdown document with tables in
// place of the line charts and mermaid pie charts for the distributions.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write outputs the full report.
func (w *MarkdownWriter) Write(d *dashboard.Dashboard) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Global BMI Report")
	md.PlainText("")
	rows := [][]string{
		{"Report ID", "`" + d.ID + "`"},
		{"Generated", d.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		{"Source", d.Source},
		{"Rows", strconv.Itoa(d.Rows)},
	}
	if d.Summary != nil {
		rows = append(rows, []string{"Years", fmt.Sprintf("%d - %d", d.Summary.FirstYear, d.Summary.LastYear)})
	}
	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: rows})
	md.PlainText("")

	md.H2("Dataset sample")
	md.PlainText("")
	writeRecords(md, d.Sample)

	if d.Personal != nil {
		writeComparison(md, d.Personal)
	}
	if d.Trends != nil {
		writeTrends(md, d.Trends)
	}
	for _, dist := range d.Distributions {
		writeDistribution(md, dist)
	}
	writeReferenceLines(md, d.ReferenceLines)
	if d.Summary != nil {
		writeSummary(md, d.Summary)
	}
	return md.Build()
}

// WriteComparison outputs only the personal comparison.
func (w *MarkdownWriter) WriteComparison(c *dashboard.Comparison) error {
	md := markdown.NewMarkdown(w.output)
	writeComparison(md, c)
	return md.Build()
}

// WriteTrends outputs only the trend tables.
func (w *MarkdownWriter) WriteTrends(t *dashboard.Trends) error {
	md := markdown.NewMarkdown(w.output)
	writeTrends(md, t)
	return md.Build()
}

// WriteDistributions outputs one section per distribution.
func (w *MarkdownWriter) WriteDistributions(ds []analysis.Distribution) error {
	md := markdown.NewMarkdown(w.output)
	for _, d := range ds {
		writeDistribution(md, d)
	}
	return md.Build()
}

// WriteGroups outputs a grouped-mean view as a flat table.
func (w *MarkdownWriter) WriteGroups(title string, rows []analysis.Row) error {
	md := markdown.NewMarkdown(w.output)
	md.H2(title)
	md.PlainText("")
	if len(rows) == 0 {
		md.PlainText("No rows.")
		return md.Build()
	}
	table := make([][]string, len(rows))
	for i, r := range rows {
		table[i] = []string{r.Key.String(), strconv.Itoa(r.Count), formatBMI(r.Mean)}
	}
	md.Table(markdown.TableSet{Header: []string{"Group", "Rows", "Average BMI"}, Rows: table})
	md.PlainText("")
	return md.Build()
}

// WriteRecords outputs dataset rows as a table.
func (w *MarkdownWriter) WriteRecords(recs []dataset.Record) error {
	md := markdown.NewMarkdown(w.output)
	writeRecords(md, recs)
	return md.Build()
}

func writeRecords(md *markdown.Markdown, recs []dataset.Record) {
	if len(recs) == 0 {
		md.PlainText("No rows.")
		md.PlainText("")
		return
	}
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{r.Country, strconv.Itoa(r.Year), r.Sex, r.AgeGroup, r.Region, strconv.FormatFloat(r.MeanBMI, 'f', -1, 64)}
	}
	md.Table(markdown.TableSet{Header: dataset.RequiredColumns, Rows: rows})
	md.PlainText("")
}

func writeComparison(md *markdown.Markdown, c *dashboard.Comparison) {
	md.H2("BMI calculator")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Country", c.Input.Country},
			{"Sex", c.Input.Sex},
			{"Year of birth", strconv.Itoa(c.Input.BirthYear)},
			{"Age group", string(c.AgeGroup)},
			{"Height (cm)", strconv.FormatFloat(c.Input.HeightCM, 'f', -1, 64)},
			{"Weight (kg)", strconv.FormatFloat(c.Input.WeightKG, 'f', -1, 64)},
			{"Your BMI", formatBMI(c.BMI)},
			{"Category", string(c.Category)},
		},
	})
	md.PlainText("")
	switch c.Category {
	case bmi.Healthy:
		md.Tip("Your BMI is in the healthy range.")
	case bmi.Underweight:
		md.Note("Your BMI is below the healthy range.")
	default:
		md.Warningf("Your BMI is in the %s range.", c.Category)
	}
	md.PlainText("")

	years := map[int][2]string{}
	for _, p := range c.World {
		v := years[p.Year]
		v[0] = formatBMI(p.Value)
		years[p.Year] = v
	}
	for _, p := range c.Country {
		v := years[p.Year]
		v[1] = formatBMI(p.Value)
		years[p.Year] = v
	}
	if len(years) == 0 {
		md.PlainText("No dataset rows match this sex and age group.")
		md.PlainText("")
		return
	}
	keys := make([]int, 0, len(years))
	for y := range years {
		keys = append(keys, y)
	}
	sort.Ints(keys)
	rows := make([][]string, len(keys))
	for i, y := range keys {
		v := years[y]
		rows[i] = []string{strconv.Itoa(y), dash(v[0]), dash(v[1])}
	}
	md.H3(fmt.Sprintf("Average BMI per Year for %s vs. World Average", c.Input.Country))
	md.PlainText("")
	md.Table(markdown.TableSet{Header: []string{"Year", c.WorldLabel, c.CountryLabel}, Rows: rows})
	md.PlainText("")
}

func writeTrends(md *markdown.Markdown, t *dashboard.Trends) {
	md.H2("Key trends")
	md.PlainText("")

	md.H3("Average BMI per Year")
	md.PlainText("")
	global := make([][]string, len(t.Global))
	for i, r := range t.Global {
		global[i] = []string{strconv.Itoa(r.Year), formatBMI(r.Mean)}
	}
	md.Table(markdown.TableSet{Header: []string{"Year", "Average BMI"}, Rows: global})
	md.PlainText("")

	for _, v := range []struct {
		title string
		rows  []analysis.Row
		label func(analysis.Key) string
	}{
		{"Average BMI per Region", t.ByRegion, func(k analysis.Key) string { return k.Region }},
		{"Average BMI per Age Group", t.ByAgeGroup, func(k analysis.Key) string { return k.AgeGroup }},
		{"Average BMI by Sex", t.BySex, func(k analysis.Key) string { return k.Sex }},
	} {
		md.H3(v.title)
		md.PlainText("")
		header, rows := pivot(v.rows, v.label)
		md.Table(markdown.TableSet{Header: header, Rows: rows})
		md.PlainText("")
	}
}

// pivot lays out year-keyed rows with one column per label.
func pivot(rows []analysis.Row, label func(analysis.Key) string) ([]string, [][]string) {
	labelSet := map[string]struct{}{}
	cells := map[int]map[string]float64{}
	var years []int
	for _, r := range rows {
		l := label(r.Key)
		labelSet[l] = struct{}{}
		if cells[r.Year] == nil {
			cells[r.Year] = map[string]float64{}
			years = append(years, r.Year)
		}
		cells[r.Year][l] = r.Mean
	}
	labels := make([]string, 0, len(labelSet))
	for l := range labelSet {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	sort.Ints(years)

	header := append([]string{"Year"}, labels...)
	out := make([][]string, len(years))
	for i, y := range years {
		row := []string{strconv.Itoa(y)}
		for _, l := range labels {
			if v, ok := cells[y][l]; ok {
				row = append(row, formatBMI(v))
			} else {
				row = append(row, "-")
			}
		}
		out[i] = row
	}
	return header, out
}

func writeDistribution(md *markdown.Markdown, d analysis.Distribution) {
	md.H2(fmt.Sprintf("BMI distribution in %d", d.Year))
	md.PlainText("")
	if d.Countries == 0 {
		md.Note(fmt.Sprintf("No countries have data for %d.", d.Year))
		md.PlainText("")
	}
	rows := make([][]string, len(d.Buckets))
	for i, b := range d.Buckets {
		rows[i] = []string{string(b.Category), strconv.Itoa(b.Count), fmt.Sprintf("%.1f%%", b.Percentage)}
	}
	md.Table(markdown.TableSet{Header: []string{"BMI Category", "Countries", "Percentage"}, Rows: rows})
	md.PlainText("")

	if d.Countries > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle(fmt.Sprintf("BMI distribution in %d", d.Year)),
			piechart.WithShowData(true),
		)
		for _, b := range d.Buckets {
			if b.Count > 0 {
				chart.LabelAndIntValue(string(b.Category), uint64(b.Count))
			}
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}
}

func writeReferenceLines(md *markdown.Markdown, lines []bmi.ReferenceLine) {
	if len(lines) == 0 {
		return
	}
	md.H2("Reference lines")
	md.PlainText("")
	rows := make([][]string, len(lines))
	for i, l := range lines {
		rows[i] = []string{formatBMI(l.Value), l.Label, l.Color}
	}
	md.Table(markdown.TableSet{Header: []string{"BMI", "Label", "Color"}, Rows: rows})
	md.PlainText("")
}

func writeSummary(md *markdown.Markdown, s *analysis.Summary) {
	md.H2("Summary")
	md.PlainText("")
	items := []string{
		fmt.Sprintf("The average BMI globally has changed by %.1f%% from %s in %d to %s in %d, which classes the globe as %q.",
			s.ChangePct, formatBMI(s.FirstMean), s.FirstYear, formatBMI(s.LastMean), s.LastYear, s.LastCategory),
		fmt.Sprintf("In %d, %s had the highest average BMI with %s (%s).",
			s.LastYear, s.TopCountry.Name, formatBMI(s.TopCountry.Mean), s.TopCountry.Category),
		fmt.Sprintf("The %s region had the highest average BMI in %d with %s.",
			s.TopRegion.Name, s.LastYear, formatBMI(s.TopRegion.Mean)),
	}
	for _, c := range bmi.Categories() {
		first, last := s.First.Bucket(c), s.Last.Bucket(c)
		items = append(items, fmt.Sprintf("%s countries: %.1f%% in %d, %.1f%% in %d.",
			c, first.Percentage, s.FirstYear, last.Percentage, s.LastYear))
	}
	md.BulletList(items...)
	md.PlainText("")
}

func formatBMI(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
