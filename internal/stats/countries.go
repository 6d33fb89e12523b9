package stats

import (
	"sort"
	"strings"

	"github.com/verte-zerg/gtdash/internal/model"
)

// Metric selects the country ranking measure.
type Metric string

const (
	MetricAttacks Metric = "attacks"
	MetricKills   Metric = "kills"
)

// ParseMetric maps a name to a Metric. Unknown names return MetricAttacks and false.
func ParseMetric(name string) (Metric, bool) {
	switch Metric(strings.ToLower(strings.TrimSpace(name))) {
	case MetricAttacks:
		return MetricAttacks, true
	case MetricKills:
		return MetricKills, true
	default:
		return MetricAttacks, false
	}
}

// CountryTotals sums attacks and kills per country, sorted by metric descending then name.
func CountryTotals(records []model.Incident, metric Metric) []model.CountryTotal {
	byCountry := make(map[string]*model.CountryTotal)
	for _, rec := range records {
		if rec.Country == "" {
			continue
		}
		ct, ok := byCountry[rec.Country]
		if !ok {
			ct = &model.CountryTotal{Country: rec.Country}
			byCountry[rec.Country] = ct
		}
		ct.Attacks++
		if rec.Kills > 0 {
			ct.Kills += rec.Kills
		}
	}
	out := make([]model.CountryTotal, 0, len(byCountry))
	for _, ct := range byCountry {
		out = append(out, *ct)
	}
	value := func(ct model.CountryTotal) int {
		if metric == MetricKills {
			return ct.Kills
		}
		return ct.Attacks
	}
	sort.Slice(out, func(i, j int) bool {
		vi, vj := value(out[i]), value(out[j])
		if vi == vj {
			return out[i].Country < out[j].Country
		}
		return vi > vj
	})
	return out
}
