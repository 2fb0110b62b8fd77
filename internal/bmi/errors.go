package bmi

import "fmt"

// InvalidInputError reports a user-supplied value outside its accepted domain.
// It is recoverable: callers should report it and ask again.
type InvalidInputError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e == nil {
		return "invalid input"
	}
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// InvalidValueError indicates a BMI value that cannot be categorized (NaN or infinite).
// On loaded data this means upstream corruption.
type InvalidValueError struct {
	Value float64
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("cannot categorize bmi value %v", e.Value)
}
