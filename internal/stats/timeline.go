package stats

import (
	"github.com/verte-zerg/gtdash/internal/model"
	"github.com/verte-zerg/gtdash/internal/selection"
	"github.com/verte-zerg/gtdash/internal/viewmodel"
)

const timelineHint = "Select one or more countries on the map to view attack statistics over time"

// Timeline picks the timeline shape for the selection:
// a yearly line series when both year bounds are set and differ,
// otherwise monthly buckets as a grouped bar (several countries) or a heat strip (one country).
func Timeline(records []model.Incident, sel selection.State, opts Options) Result {
	opts = opts.normalized()
	if sel.NeedsSelection(opts.Policy) {
		return Result{View: viewmodel.NeedsSelection{View: viewmodel.ViewTimeline, Hint: timelineHint}}
	}

	quality := Quality{InvalidYear: invalidYears(records, sel)}
	filtered := sel.Apply(records)
	if len(filtered) == 0 {
		return Result{View: noData(viewmodel.ViewTimeline), Quality: quality}
	}

	years := sel.Years()
	countries := sel.Countries()
	if len(countries) == 0 {
		countries = TopCountries(filtered, MaxTimelineCountries)
	}
	countries = capList(countries, MaxTimelineCountries)
	if len(countries) == 0 {
		return Result{View: noData(viewmodel.ViewTimeline), Quality: quality}
	}

	if years.MultiYear() {
		lo, hi, _ := years.Bounds()
		return Result{View: yearlySeries(filtered, countries, lo, hi), Quality: quality}
	}

	counts, invalid := monthlyCounts(filtered, countries)
	quality.InvalidMonth = invalid
	if len(countries) > 1 {
		groups := make([]viewmodel.CountryMonths, 0, len(countries))
		for _, c := range countries {
			groups = append(groups, viewmodel.CountryMonths{Country: c, Counts: counts[c]})
		}
		return Result{
			View:    viewmodel.GroupedBarByMonth{Years: years.String(), Groups: groups},
			Quality: quality,
		}
	}
	return Result{View: monthlyHeat(countries[0], years.String(), counts[countries[0]]), Quality: quality}
}

// yearlySeries zero-fills one point per year, with the span clamped to MinYear..MaxYear.
func yearlySeries(records []model.Incident, countries []string, lo, hi int) viewmodel.TimelineSeries {
	lo = min(max(lo, model.MinYear), model.MaxYear)
	hi = min(max(hi, lo), model.MaxYear)
	index := make(map[string]int, len(countries))
	series := make([]viewmodel.CountrySeries, len(countries))
	for i, c := range countries {
		index[c] = i
		points := make([]viewmodel.YearCount, 0, hi-lo+1)
		for y := lo; y <= hi; y++ {
			points = append(points, viewmodel.YearCount{Year: y})
		}
		series[i] = viewmodel.CountrySeries{Country: c, Points: points}
	}
	for _, rec := range records {
		i, ok := index[rec.Country]
		if !ok || rec.Year < lo || rec.Year > hi {
			continue
		}
		series[i].Points[rec.Year-lo].Count++
	}
	return viewmodel.TimelineSeries{StartYear: lo, EndYear: hi, Series: series}
}

// monthlyCounts buckets records per country and month. Records without a valid month are counted as invalid.
func monthlyCounts(records []model.Incident, countries []string) (map[string][viewmodel.Months]int, int) {
	counts := make(map[string][viewmodel.Months]int, len(countries))
	for _, c := range countries {
		counts[c] = [viewmodel.Months]int{}
	}
	invalid := 0
	for _, rec := range records {
		buckets, ok := counts[rec.Country]
		if !ok {
			continue
		}
		if !rec.ValidMonth() {
			invalid++
			continue
		}
		buckets[rec.Month-1]++
		counts[rec.Country] = buckets
	}
	return counts, invalid
}

func monthlyHeat(country, years string, counts [viewmodel.Months]int) viewmodel.MonthlyHeat {
	lo, hi := counts[0], counts[0]
	for _, v := range counts[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return viewmodel.MonthlyHeat{
		Country: country,
		Years:   years,
		Counts:  counts,
		Min:     lo,
		Max:     hi,
		Domain:  HeatDomain(lo, hi),
	}
}

// HeatDomain returns a color-scale domain that never has zero width.
func HeatDomain(lo, hi int) [2]int {
	switch {
	case hi <= 0:
		return [2]int{0, 1}
	case lo == hi:
		return [2]int{0, hi}
	default:
		return [2]int{lo, hi}
	}
}
