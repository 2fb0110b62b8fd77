// Package bmi holds the body-mass-index rules: the weight categories, the
// age-group buckets and the personal calculator.
package bmi

import "math"

// Category is a weight category label.
type Category string

const (
	Underweight Category = "underweight"
	Healthy     Category = "healthy"
	Overweight  Category = "overweight"
	Obese       Category = "obese"
)

// Category breakpoints. Each is the inclusive lower bound of its category;
// the category below it ends just before it.
const (
	HealthyMin    = 18.5
	OverweightMin = 25.0
	ObeseMin      = 30.0
)

// Categories returns all categories in ascending order.
func Categories() []Category {
	return []Category{Underweight, Healthy, Overweight, Obese}
}

// Classify maps a BMI value to its category.
func Classify(v float64) (Category, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", &InvalidValueError{Value: v}
	}
	switch {
	case v < HealthyMin:
		return Underweight, nil
	case v < OverweightMin:
		return Healthy, nil
	case v < ObeseMin:
		return Overweight, nil
	default:
		return Obese, nil
	}
}

// ReferenceLine is a horizontal marker drawn on BMI charts.
type ReferenceLine struct {
	Value float64
	Label string
	Color string
}

// ReferenceLines returns the chart markers for the category breakpoints.
func ReferenceLines() []ReferenceLine {
	return []ReferenceLine{
		{Value: HealthyMin, Label: "Healthy Weight", Color: "green"},
		{Value: OverweightMin, Label: "Overweight", Color: "orange"},
		{Value: ObeseMin, Label: "Obese", Color: "red"},
	}
}
