package stats

import (
	"sort"
	"strings"

	"github.com/verte-zerg/gtdash/internal/model"
	"github.com/verte-zerg/gtdash/internal/selection"
	"github.com/verte-zerg/gtdash/internal/viewmodel"
)

const weaponsHint = "Select one or more countries on the map to view weapon statistics"

// Weapons builds a pie for a single country and a stacked bar for several.
// Incidents with unknown success still count but are left out of success rates.
func Weapons(records []model.Incident, sel selection.State, opts Options) Result {
	opts = opts.normalized()
	if sel.NeedsSelection(opts.Policy) {
		return Result{View: viewmodel.NeedsSelection{View: viewmodel.ViewWeapons, Hint: weaponsHint}}
	}

	quality := Quality{InvalidYear: invalidYears(records, sel)}
	filtered := sel.Apply(records)
	if len(filtered) == 0 {
		return Result{View: noData(viewmodel.ViewWeapons), Quality: quality}
	}
	for _, rec := range filtered {
		if !rec.Success.Known() {
			quality.MissingSuccess++
		}
	}

	countries := sel.Countries()
	switch {
	case len(countries) == 1:
		return Result{View: weaponPie(filtered, countries[0], opts.WeaponField), Quality: quality}
	case len(countries) == 0 && distinctCountries(filtered) == 1:
		return Result{View: weaponPie(filtered, filtered[0].Country, opts.WeaponField), Quality: quality}
	default:
		return Result{View: weaponStack(filtered, countries, opts.WeaponField), Quality: quality}
	}
}

// WeaponLabel returns the weapon label for the field, or UnknownLabel when blank.
func WeaponLabel(rec model.Incident, field model.WeaponField) string {
	label := strings.TrimSpace(field.Of(rec))
	if label == "" {
		return UnknownLabel
	}
	return label
}

type weaponAcc struct {
	order []string
	stats map[string]*viewmodel.WeaponStat
}

func newWeaponAcc() *weaponAcc {
	return &weaponAcc{stats: make(map[string]*viewmodel.WeaponStat)}
}

func (a *weaponAcc) add(label string, rec model.Incident) {
	st, ok := a.stats[label]
	if !ok {
		st = &viewmodel.WeaponStat{Label: label}
		a.stats[label] = st
		a.order = append(a.order, label)
	}
	addIncident(st, rec)
}

func (a *weaponAcc) list() []viewmodel.WeaponStat {
	out := make([]viewmodel.WeaponStat, 0, len(a.order))
	for _, label := range a.order {
		st := *a.stats[label]
		st.SuccessRate = roundRate(st.SuccessCount, st.Rated)
		out = append(out, st)
	}
	return out
}

func addIncident(st *viewmodel.WeaponStat, rec model.Incident) {
	st.Count++
	if rec.Kills > 0 {
		st.Kills += rec.Kills
	}
	if rec.Success.Known() {
		st.Rated++
		if rec.Success == model.SuccessSucceeded {
			st.SuccessCount++
		}
	}
}

func merge(dst *viewmodel.WeaponStat, src viewmodel.WeaponStat) {
	dst.Count += src.Count
	dst.Kills += src.Kills
	dst.SuccessCount += src.SuccessCount
	dst.Rated += src.Rated
	dst.SuccessRate = roundRate(dst.SuccessCount, dst.Rated)
}

func sortStats(stats []viewmodel.WeaponStat) {
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Label < stats[j].Label
		}
		return stats[i].Count > stats[j].Count
	})
}

// FoldOther keeps the top limit stats and folds the rest into one OtherLabel entry
// whose success rate is recomputed from the folded counts.
func FoldOther(stats []viewmodel.WeaponStat, limit int) []viewmodel.WeaponStat {
	sortStats(stats)
	if limit <= 0 || len(stats) <= limit {
		return stats
	}
	kept := append([]viewmodel.WeaponStat(nil), stats[:limit]...)
	other := viewmodel.WeaponStat{Label: OtherLabel}
	for _, st := range stats[limit:] {
		merge(&other, st)
	}
	for i := range kept {
		if kept[i].Label == OtherLabel {
			merge(&kept[i], other)
			return kept
		}
	}
	return append(kept, other)
}

func weaponPie(records []model.Incident, country string, field model.WeaponField) viewmodel.PieModel {
	acc := newWeaponAcc()
	for _, rec := range records {
		if rec.Country != country {
			continue
		}
		acc.add(WeaponLabel(rec, field), rec)
	}
	return viewmodel.PieModel{
		Country: country,
		Field:   field,
		Slices:  FoldOther(acc.list(), MaxPieSlices),
	}
}

func weaponStack(records []model.Incident, countries []string, field model.WeaponField) viewmodel.StackedBarModel {
	global := make(map[string]int)
	totals := make(map[string]int)
	for _, rec := range records {
		global[WeaponLabel(rec, field)]++
		totals[rec.Country]++
	}
	top := topLabels(global, StackedWeapons)
	inTop := make(map[string]struct{}, len(top))
	for _, label := range top {
		inTop[label] = struct{}{}
	}

	if len(countries) == 0 {
		countries = topLabels(totals, StackedCountries)
	}
	perCountry := make(map[string]*weaponAcc, len(countries))
	for _, c := range countries {
		if totals[c] > 0 {
			perCountry[c] = newWeaponAcc()
		}
	}
	for _, rec := range records {
		acc, ok := perCountry[rec.Country]
		if !ok {
			continue
		}
		label := WeaponLabel(rec, field)
		if _, ok := inTop[label]; !ok {
			label = OtherLabel
		}
		acc.add(label, rec)
	}

	categories := append([]string(nil), top...)
	hasOther := false
	for _, label := range top {
		if label == OtherLabel {
			hasOther = true
		}
	}
	bars := make([]viewmodel.CountryStack, 0, len(perCountry))
	for _, c := range countries {
		acc, ok := perCountry[c]
		if !ok {
			continue
		}
		segments := make([]viewmodel.WeaponStat, 0, len(top)+1)
		for _, label := range top {
			st := viewmodel.WeaponStat{Label: label}
			if got, ok := acc.stats[label]; ok {
				st = *got
				st.SuccessRate = roundRate(st.SuccessCount, st.Rated)
			}
			segments = append(segments, st)
		}
		if !hasOther {
			if got, ok := acc.stats[OtherLabel]; ok && got.Count > 0 {
				st := *got
				st.SuccessRate = roundRate(st.SuccessCount, st.Rated)
				segments = append(segments, st)
				if len(categories) == len(top) {
					categories = append(categories, OtherLabel)
				}
			}
		}
		bars = append(bars, viewmodel.CountryStack{Country: c, Total: totals[c], Segments: segments})
	}
	return viewmodel.StackedBarModel{Field: field, Categories: categories, Bars: bars}
}
