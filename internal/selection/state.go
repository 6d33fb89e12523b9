package selection

import (
	"slices"
	"strings"

	"github.com/verte-zerg/gtdash/internal/model"
)

// Policy decides what an empty country set means to a view.
type Policy int

const (
	// RequireCountries treats an empty set as "prompt the user to select".
	RequireCountries Policy = iota
	// AllowAllCountries treats an empty set as "no country restriction".
	AllowAllCountries
)

func (p Policy) String() string {
	if p == AllowAllCountries {
		return "all-countries"
	}
	return "require-countries"
}

// State is the selected countries, in insertion order, and the active year bounds.
// The zero value selects nothing and applies no year rule.
type State struct {
	countries []string
	years     model.YearRange
}

// NewState builds a State from loosely typed countries and optional year bounds.
func NewState(countries any, startYear, endYear *int) State {
	return State{
		countries: NormalizeCountries(countries),
		years:     model.Years(startYear, endYear),
	}
}

// Countries returns a copy of the selected countries in insertion order.
func (s State) Countries() []string {
	return slices.Clone(s.countries)
}

// Years returns the active year bounds.
func (s State) Years() model.YearRange {
	return model.Years(s.years.Start, s.years.End)
}

// HasCountries reports whether at least one country is selected.
func (s State) HasCountries() bool {
	return len(s.countries) > 0
}

// Contains reports whether a country is selected.
func (s State) Contains(country string) bool {
	return slices.Contains(s.countries, strings.TrimSpace(country))
}

// NeedsSelection reports whether a view governed by p must prompt for a country.
func (s State) NeedsSelection(p Policy) bool {
	return p == RequireCountries && len(s.countries) == 0
}

// Apply filters records by this selection.
func (s State) Apply(records []model.Incident) []model.Incident {
	return Filter(records, s.countries, s.years)
}

// Set replaces the whole selection.
func (s *State) Set(countries any, startYear, endYear *int) {
	*s = NewState(countries, startYear, endYear)
}

// SetYears replaces the year bounds and keeps the countries.
func (s *State) SetYears(startYear, endYear *int) {
	s.years = model.Years(startYear, endYear)
}

// Toggle adds a country when absent (appended) or removes it when present.
// Blank names are ignored. It reports whether the country is selected afterwards.
func (s *State) Toggle(country string) bool {
	country = strings.TrimSpace(country)
	if country == "" {
		return false
	}
	if idx := slices.Index(s.countries, country); idx >= 0 {
		s.countries = slices.Delete(slices.Clone(s.countries), idx, idx+1)
		return false
	}
	s.countries = append(slices.Clone(s.countries), country)
	return true
}

// ClearCountries empties the country set and keeps the year bounds.
func (s *State) ClearCountries() {
	s.countries = []string{}
}
