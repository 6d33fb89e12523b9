package stats

import (
	"math"

	"github.com/verte-zerg/gtdash/internal/model"
	"github.com/verte-zerg/gtdash/internal/selection"
	"github.com/verte-zerg/gtdash/internal/viewmodel"
)

const (
	// DefaultGroupPercentage is the share of groups kept in the hierarchy view.
	DefaultGroupPercentage = 10
	// MaxTimelineCountries caps the number of series in timeline charts.
	MaxTimelineCountries = 3
	// MaxPieSlices is the number of weapon slices kept before folding into OtherLabel.
	MaxPieSlices = 8
	// StackedWeapons is the number of global weapon categories in the stacked bar.
	StackedWeapons = 4
	// StackedCountries is the number of ranked countries when none are selected.
	StackedCountries = 5
	// MinGroupsForPercentage is the group count from which percentage folding applies.
	MinGroupsForPercentage = 5

	// OtherLabel names folded weapon buckets.
	OtherLabel = "Other"
	// OthersLabel names folded group buckets.
	OthersLabel = "Others"
	// UnknownLabel replaces blank category values.
	UnknownLabel = "Unknown"
	// UndefinedLabel marks an unknown perpetrator count.
	UndefinedLabel = "Undefined"
	// RootLabel names the hierarchy root.
	RootLabel = "All"
	// SuccessLeaf names the leaf that counts successful attacks.
	SuccessLeaf = "1"
)

const noDataReason = "No data available for the selected filters"

// Options carries the settings shared by the aggregators.
type Options struct {
	Policy          selection.Policy
	WeaponField     model.WeaponField
	GroupPercentage int
}

// DefaultOptions returns the dashboard defaults.
func DefaultOptions() Options {
	return Options{
		Policy:          selection.RequireCountries,
		WeaponField:     model.WeaponSubtype,
		GroupPercentage: DefaultGroupPercentage,
	}
}

func (o Options) normalized() Options {
	if !o.WeaponField.Valid() {
		o.WeaponField = model.WeaponSubtype
	}
	o.GroupPercentage = ClampPercentage(o.GroupPercentage)
	return o
}

// ClampPercentage bounds p to 1..100.
func ClampPercentage(p int) int {
	if p < 1 {
		return 1
	}
	if p > 100 {
		return 100
	}
	return p
}

// Quality counts records excluded or flagged during one aggregation.
type Quality struct {
	MissingSuccess int
	InvalidYear    int
	InvalidMonth   int
}

// Empty reports whether nothing was flagged.
func (q Quality) Empty() bool {
	return q.MissingSuccess == 0 && q.InvalidYear == 0 && q.InvalidMonth == 0
}

// Result is an aggregator outcome.
type Result struct {
	View    viewmodel.View
	Quality Quality
}

// invalidYears counts country-matched records dropped by an active year rule for lacking a year.
func invalidYears(records []model.Incident, sel selection.State) int {
	if !sel.Years().IsSet() {
		return 0
	}
	n := 0
	for _, rec := range records {
		if rec.ValidYear() {
			continue
		}
		if sel.HasCountries() && !sel.Contains(rec.Country) {
			continue
		}
		n++
	}
	return n
}

func noData(view string) viewmodel.NoData {
	return viewmodel.NoData{View: view, Reason: noDataReason}
}

func roundRate(success, rated int) float64 {
	if rated == 0 {
		return 0
	}
	return math.Round(float64(success)/float64(rated)*1000) / 10
}
