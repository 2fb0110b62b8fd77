package bmi

import (
	"math"
	"strconv"
)

// Input is one person's answers to the calculator form.
type Input struct {
	Country   string  `json:"country"`
	Sex       string  `json:"sex"`
	BirthYear int     `json:"birth_year"`
	HeightCM  float64 `json:"height_cm"`
	WeightKG  float64 `json:"weight_kg"`
}

// Calculate returns weight / height² with height converted from centimetres to metres.
func Calculate(heightCM, weightKG float64) (float64, error) {
	if !positive(heightCM) {
		return 0, &InvalidInputError{Field: "height_cm", Value: heightCM, Reason: "must be a positive number"}
	}
	if !positive(weightKG) {
		return 0, &InvalidInputError{Field: "weight_kg", Value: weightKG, Reason: "must be a positive number"}
	}
	m := heightCM / 100
	return weightKG / (m * m), nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Limits are the bounds the calculator form accepts. They are wider than
// anything physiological and exist only to reject typos.
type Limits struct {
	MinHeightCM  float64 `json:"min_height_cm"`
	MaxHeightCM  float64 `json:"max_height_cm"`
	MinWeightKG  float64 `json:"min_weight_kg"`
	MaxWeightKG  float64 `json:"max_weight_kg"`
	MinBirthYear int     `json:"min_birth_year"`
	MaxBirthYear int     `json:"max_birth_year"`
}

// DefaultLimits returns the form bounds with the birth year capped at referenceYear.
func DefaultLimits(referenceYear int) Limits {
	return Limits{
		MinHeightCM:  50,
		MaxHeightCM:  300,
		MinWeightKG:  20,
		MaxWeightKG:  1000,
		MinBirthYear: 1900,
		MaxBirthYear: referenceYear,
	}
}

// Validate checks in against the limits. Country and sex are checked by the caller,
// which knows the dataset.
func (l Limits) Validate(in Input) error {
	if in.BirthYear < l.MinBirthYear || in.BirthYear > l.MaxBirthYear {
		return &InvalidInputError{Field: "birth_year", Value: in.BirthYear, Reason: rangeReason(float64(l.MinBirthYear), float64(l.MaxBirthYear))}
	}
	if math.IsNaN(in.HeightCM) || in.HeightCM < l.MinHeightCM || in.HeightCM > l.MaxHeightCM {
		return &InvalidInputError{Field: "height_cm", Value: in.HeightCM, Reason: rangeReason(l.MinHeightCM, l.MaxHeightCM)}
	}
	if math.IsNaN(in.WeightKG) || in.WeightKG < l.MinWeightKG || in.WeightKG > l.MaxWeightKG {
		return &InvalidInputError{Field: "weight_kg", Value: in.WeightKG, Reason: rangeReason(l.MinWeightKG, l.MaxWeightKG)}
	}
	return nil
}

func rangeReason(lo, hi float64) string {
	return "must be between " + strconv.FormatFloat(lo, 'f', -1, 64) + " and " + strconv.FormatFloat(hi, 'f', -1, 64)
}
