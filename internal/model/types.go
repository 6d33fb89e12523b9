// Package model defines shared data structures.
package model

import "strconv"

// Success is the tri-state outcome of an incident.
type Success int8

const (
	// SuccessUnknown marks a missing or malformed success value.
	SuccessUnknown Success = iota
	// SuccessFailed marks an attack recorded as unsuccessful.
	SuccessFailed
	// SuccessSucceeded marks an attack recorded as successful.
	SuccessSucceeded
)

// Known reports whether the success value was present in the dataset.
func (s Success) Known() bool {
	return s == SuccessFailed || s == SuccessSucceeded
}

func (s Success) String() string {
	switch s {
	case SuccessFailed:
		return "0"
	case SuccessSucceeded:
		return "1"
	default:
		return "unknown"
	}
}

// UnknownPerpetrators is the dataset sentinel for an unknown perpetrator count.
const UnknownPerpetrators = -99

// Incident is one row of the dataset. Year and Month are 0 when missing or malformed.
type Incident struct {
	EventID       string
	Country       string
	Region        string
	Year          int
	Month         int
	GroupName     string
	WeaponType    string
	WeaponSubtype string
	TargetType    string
	Success       Success
	Perpetrators  int
	Kills         int
	Wounded       int
}

// ValidYear reports whether the year parsed to a plausible value.
func (i Incident) ValidYear() bool {
	return i.Year > 0
}

// ValidMonth reports whether the month is within 1..12.
func (i Incident) ValidMonth() bool {
	return i.Month >= 1 && i.Month <= 12
}

// PerpetratorsKnown reports whether the perpetrator count is defined.
func (i Incident) PerpetratorsKnown() bool {
	return i.Perpetrators >= 0
}

// MinYear and MaxYear bound the years a yearly series can span.
const (
	MinYear = 1970
	MaxYear = 2100
)

// YearRange holds the optional year bounds of a selection.
// A single bound selects exactly that year; two bounds select an inclusive range in either order.
type YearRange struct {
	Start *int
	End   *int
}

// Years builds a YearRange from optional bounds.
func Years(start, end *int) YearRange {
	return YearRange{Start: copyInt(start), End: copyInt(end)}
}

// Year returns a pointer to y, for building ranges inline.
func Year(y int) *int {
	return &y
}

// IsSet reports whether any bound is present.
func (r YearRange) IsSet() bool {
	return r.Start != nil || r.End != nil
}

// Bounds returns the inclusive [lo, hi] span selected by the range.
// ok is false when no bound is set.
func (r YearRange) Bounds() (lo, hi int, ok bool) {
	switch {
	case r.Start != nil && r.End != nil:
		lo, hi = *r.Start, *r.End
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, hi, true
	case r.Start != nil:
		return *r.Start, *r.Start, true
	case r.End != nil:
		return *r.End, *r.End, true
	default:
		return 0, 0, false
	}
}

// MultiYear reports whether both bounds are present and differ.
func (r YearRange) MultiYear() bool {
	return r.Start != nil && r.End != nil && *r.Start != *r.End
}

// Contains reports whether year satisfies the range rule. An unset range matches everything.
func (r YearRange) Contains(year int) bool {
	lo, hi, ok := r.Bounds()
	if !ok {
		return true
	}
	return year >= lo && year <= hi
}

func (r YearRange) String() string {
	lo, hi, ok := r.Bounds()
	switch {
	case !ok:
		return "all years"
	case lo == hi:
		return strconv.Itoa(lo)
	default:
		return strconv.Itoa(lo) + "-" + strconv.Itoa(hi)
	}
}

// WeaponField selects which weapon column the weapon view groups by.
type WeaponField string

const (
	// WeaponSubtype groups by weapsubtype1_txt.
	WeaponSubtype WeaponField = "subtype"
	// WeaponType groups by weaptype1_txt.
	WeaponType WeaponField = "type"
)

// Valid reports whether the field is one of the supported columns.
func (f WeaponField) Valid() bool {
	return f == WeaponSubtype || f == WeaponType
}

// Of returns the incident's value for the field.
func (f WeaponField) Of(i Incident) string {
	if f == WeaponType {
		return i.WeaponType
	}
	return i.WeaponSubtype
}

// DashboardConfig defines the initial selection and view options.
type DashboardConfig struct {
	CSVPath         string
	Countries       []string
	StartYear       *int
	EndYear         *int
	WeaponField     WeaponField
	GroupPercentage int
	AllCountries    bool
}

// CountryTotal summarizes one country for the map overview.
type CountryTotal struct {
	Country string
	Attacks int
	Kills   int
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
