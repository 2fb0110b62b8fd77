package bmi

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeGroupFor(t *testing.T) {
	cases := []struct {
		birth, ref int
		want       AgeGroup
	}{
		{2001, 2024, Age18to24},
		{1949, 2024, Age75Plus},
		{1900, 2024, Age75Plus},
		{1950, 2024, Age65to74},
		{1959, 2024, Age65to74},
		{1960, 2024, Age55to64},
		{1969, 2024, Age55to64},
		{1970, 2024, Age45to54},
		{1979, 2024, Age45to54},
		{1980, 2024, Age35to44},
		{1989, 2024, Age35to44},
		{1990, 2024, Age25to34},
		{1999, 2024, Age25to34},
		{2000, 2024, Age18to24},
		// ages 1-17 land in the youngest bucket
		{2023, 2024, Age18to24},
		{2010, 2024, Age18to24},
		{2024, 2024, AgeUnknown},
		{2030, 2024, AgeUnknown},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, AgeGroupFor(c.birth, c.ref), "birth=%d ref=%d", c.birth, c.ref)
	}
}

func TestAgeGroupForIsContiguous(t *testing.T) {
	valid := map[AgeGroup]bool{AgeUnknown: true}
	for _, g := range AgeGroups() {
		valid[g] = true
	}
	prev := AgeUnknown
	order := map[AgeGroup]int{AgeUnknown: -1}
	for i, g := range AgeGroups() {
		order[g] = i
	}
	for birth := 2024; birth >= 1900; birth-- {
		g := AgeGroupFor(birth, 2024)
		require.True(t, valid[g], "unexpected label %q", g)
		require.GreaterOrEqual(t, order[g], order[prev], "bucket went backwards at birth year %d", birth)
		prev = g
	}
}

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		v    float64
		want Category
	}{
		{10, Underweight},
		{18.49, Underweight},
		{18.5, Healthy},
		{24.9, Healthy},
		{24.95, Healthy},
		{25.0, Overweight},
		{29.9, Overweight},
		{29.99, Overweight},
		{30.0, Obese},
		{45, Obese},
	}
	for _, c := range cases {
		got, err := Classify(c.v)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "bmi=%v", c.v)
	}
}

func TestClassifyRejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Classify(v)
		var ive *InvalidValueError
		require.True(t, errors.As(err, &ive), "value %v: got %v", v, err)
	}
}

func TestCategoriesOrder(t *testing.T) {
	assert.Equal(t, []Category{Underweight, Healthy, Overweight, Obese}, Categories())
}

func TestCalculate(t *testing.T) {
	got, err := Calculate(170, 100)
	require.NoError(t, err)
	assert.InDelta(t, 100/(1.7*1.7), got, 1e-9)
	assert.InDelta(t, 34.6, got, 0.05)

	for _, in := range [][2]float64{{0, 70}, {-170, 70}, {170, 0}, {170, -1}, {math.NaN(), 70}, {170, math.Inf(1)}} {
		_, err := Calculate(in[0], in[1])
		var iie *InvalidInputError
		require.True(t, errors.As(err, &iie), "input %v: got %v", in, err)
	}
}

func TestLimitsValidate(t *testing.T) {
	l := DefaultLimits(2024)
	ok := Input{Country: "Japan", Sex: "female", BirthYear: 1990, HeightCM: 170, WeightKG: 100}
	require.NoError(t, l.Validate(ok))

	bad := []struct {
		field string
		mut   func(*Input)
	}{
		{"birth_year", func(in *Input) { in.BirthYear = 1899 }},
		{"birth_year", func(in *Input) { in.BirthYear = 2025 }},
		{"height_cm", func(in *Input) { in.HeightCM = 49 }},
		{"height_cm", func(in *Input) { in.HeightCM = 301 }},
		{"weight_kg", func(in *Input) { in.WeightKG = 19.5 }},
		{"weight_kg", func(in *Input) { in.WeightKG = 1001 }},
	}
	for _, b := range bad {
		in := ok
		b.mut(&in)
		err := l.Validate(in)
		var iie *InvalidInputError
		require.True(t, errors.As(err, &iie), "%s: got %v", b.field, err)
		assert.Equal(t, b.field, iie.Field)
		assert.Contains(t, iie.Error(), "must be between")
	}
}
