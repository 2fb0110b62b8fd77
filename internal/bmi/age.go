package bmi

// AgeGroup is an age bucket label as it appears in the dataset.
type AgeGroup string

const (
	Age18to24  AgeGroup = "18-24"
	Age25to34  AgeGroup = "25-34"
	Age35to44  AgeGroup = "35-44"
	Age45to54  AgeGroup = "45-54"
	Age55to64  AgeGroup = "55-64"
	Age65to74  AgeGroup = "65-74"
	Age75Plus  AgeGroup = "75+"
	AgeUnknown AgeGroup = "Unknown"
)

// AgeGroups returns the dataset buckets in ascending order. Unknown is not included.
func AgeGroups() []AgeGroup {
	return []AgeGroup{Age18to24, Age25to34, Age35to44, Age45to54, Age55to64, Age65to74, Age75Plus}
}

// AgeGroupFor buckets the age reached in referenceYear by someone born in birthYear.
//
// The youngest bucket is labelled "18-24" but takes every age from 1 to 24;
// the dataset has no younger bucket to match against. Ages of zero or less
// are Unknown.
func AgeGroupFor(birthYear, referenceYear int) AgeGroup {
	age := referenceYear - birthYear
	switch {
	case age >= 75:
		return Age75Plus
	case age >= 65:
		return Age65to74
	case age >= 55:
		return Age55to64
	case age >= 45:
		return Age45to54
	case age >= 35:
		return Age35to44
	case age >= 25:
		return Age25to34
	case age >= 1:
		return Age18to24
	default:
		return AgeUnknown
	}
}
