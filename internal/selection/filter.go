package selection

import "github.com/verte-zerg/gtdash/internal/model"

// Filter keeps the records matching the country set and the year rule, in input order.
// An empty country set does not restrict countries. With a single year bound only that
// exact year matches; with both bounds the inclusive span matches regardless of order.
func Filter(records []model.Incident, countries []string, years model.YearRange) []model.Incident {
	countries = NormalizeCountries(countries)
	var allowed map[string]struct{}
	if len(countries) > 0 {
		allowed = make(map[string]struct{}, len(countries))
		for _, c := range countries {
			allowed[c] = struct{}{}
		}
	}
	lo, hi, yearSet := years.Bounds()

	out := make([]model.Incident, 0, len(records))
	for _, rec := range records {
		if allowed != nil {
			if _, ok := allowed[rec.Country]; !ok {
				continue
			}
		}
		if yearSet {
			if !rec.ValidYear() || rec.Year < lo || rec.Year > hi {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

// FilterByCountriesAndYears normalizes loosely typed inputs before filtering.
func FilterByCountriesAndYears(records []model.Incident, countries any, startYear, endYear *int) []model.Incident {
	return Filter(records, NormalizeCountries(countries), model.Years(startYear, endYear))
}
