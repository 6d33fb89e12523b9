// Package viewmodel defines the renderer-agnostic results produced for each dashboard view.
package viewmodel

import "github.com/verte-zerg/gtdash/internal/model"

// Kind tags the concrete shape of a View.
type Kind string

const (
	KindNeedsSelection    Kind = "needs_selection"
	KindNoData            Kind = "no_data"
	KindTimelineSeries    Kind = "timeline_series"
	KindMonthlyHeat       Kind = "monthly_heat"
	KindGroupedBarByMonth Kind = "grouped_bar_by_month"
	KindPie               Kind = "pie"
	KindStackedBar        Kind = "stacked_bar"
	KindHierarchy         Kind = "hierarchy"
)

// View names used in placeholders, logs and metrics.
const (
	ViewTimeline = "timeline"
	ViewWeapons  = "weapons"
	ViewGroups   = "groups"
)

// Months is the number of month buckets in monthly shapes.
const Months = 12

// View is one of the concrete view-model types in this package.
type View interface {
	Kind() Kind
	view()
}

// Views bundles the result of one selection change.
type Views struct {
	Timeline View `json:"timeline" yaml:"timeline"`
	Weapons  View `json:"weapons" yaml:"weapons"`
	Groups   View `json:"groups" yaml:"groups"`
}

// NeedsSelection asks the user to pick at least one country.
type NeedsSelection struct {
	View string `json:"view" yaml:"view"`
	Hint string `json:"hint" yaml:"hint"`
}

// NoData reports that the selection matched nothing usable.
type NoData struct {
	View   string `json:"view" yaml:"view"`
	Reason string `json:"reason" yaml:"reason"`
}

// YearCount is one point of a yearly series.
type YearCount struct {
	Year  int `json:"year" yaml:"year"`
	Count int `json:"count" yaml:"count"`
}

// CountrySeries is the zero-filled yearly series of one country.
type CountrySeries struct {
	Country string      `json:"country" yaml:"country"`
	Points  []YearCount `json:"points" yaml:"points"`
}

// TimelineSeries is a per-country line chart over a multi-year span.
type TimelineSeries struct {
	StartYear int             `json:"start_year" yaml:"start_year"`
	EndYear   int             `json:"end_year" yaml:"end_year"`
	Series    []CountrySeries `json:"series" yaml:"series"`
}

// MonthlyHeat is a 12-bucket heat strip for one country.
// Domain is the color-scale span; it never collapses to a single value.
type MonthlyHeat struct {
	Country string      `json:"country" yaml:"country"`
	Years   string      `json:"years" yaml:"years"`
	Counts  [Months]int `json:"counts" yaml:"counts"`
	Min     int         `json:"min" yaml:"min"`
	Max     int         `json:"max" yaml:"max"`
	Domain  [2]int      `json:"domain" yaml:"domain"`
}

// CountryMonths is one country's 12 month buckets.
type CountryMonths struct {
	Country string      `json:"country" yaml:"country"`
	Counts  [Months]int `json:"counts" yaml:"counts"`
}

// GroupedBarByMonth compares up to three countries month by month.
type GroupedBarByMonth struct {
	Years  string          `json:"years" yaml:"years"`
	Groups []CountryMonths `json:"groups" yaml:"groups"`
}

// WeaponStat aggregates incidents sharing a weapon label.
// Rated counts the incidents whose success value is known; SuccessRate is
// SuccessCount/Rated*100 rounded to one decimal, or 0 when nothing is rated.
type WeaponStat struct {
	Label        string  `json:"label" yaml:"label"`
	Count        int     `json:"count" yaml:"count"`
	Kills        int     `json:"kills" yaml:"kills"`
	SuccessCount int     `json:"success_count" yaml:"success_count"`
	Rated        int     `json:"rated" yaml:"rated"`
	SuccessRate  float64 `json:"success_rate" yaml:"success_rate"`
}

// PieModel is the weapon breakdown of a single country.
type PieModel struct {
	Country string            `json:"country" yaml:"country"`
	Field   model.WeaponField `json:"field" yaml:"field"`
	Slices  []WeaponStat      `json:"slices" yaml:"slices"`
}

// CountryStack is one bar of a stacked chart.
type CountryStack struct {
	Country  string       `json:"country" yaml:"country"`
	Total    int          `json:"total" yaml:"total"`
	Segments []WeaponStat `json:"segments" yaml:"segments"`
}

// StackedBarModel compares the globally dominant weapons across countries.
type StackedBarModel struct {
	Field      model.WeaponField `json:"field" yaml:"field"`
	Categories []string          `json:"categories" yaml:"categories"`
	Bars       []CountryStack    `json:"bars" yaml:"bars"`
}

// TreeShape names the hierarchy layout.
type TreeShape string

const (
	// TreeSimplified is root > country > group.
	TreeSimplified TreeShape = "simplified"
	// TreeFull is root > group > perpetrator category > target type.
	TreeFull TreeShape = "full"
)

// HierarchyTree is the group-activity sunburst.
// Groups is the number of distinct attributable groups before percentage folding.
type HierarchyTree struct {
	Shape  TreeShape `json:"shape" yaml:"shape"`
	Groups int       `json:"groups" yaml:"groups"`
	Root   *Node     `json:"root" yaml:"root"`
}

func (NeedsSelection) Kind() Kind    { return KindNeedsSelection }
func (NoData) Kind() Kind            { return KindNoData }
func (TimelineSeries) Kind() Kind    { return KindTimelineSeries }
func (MonthlyHeat) Kind() Kind       { return KindMonthlyHeat }
func (GroupedBarByMonth) Kind() Kind { return KindGroupedBarByMonth }
func (PieModel) Kind() Kind          { return KindPie }
func (StackedBarModel) Kind() Kind   { return KindStackedBar }
func (HierarchyTree) Kind() Kind     { return KindHierarchy }

func (NeedsSelection) view()    {}
func (NoData) view()            {}
func (TimelineSeries) view()    {}
func (MonthlyHeat) view()       {}
func (GroupedBarByMonth) view() {}
func (PieModel) view()          {}
func (StackedBarModel) view()   {}
func (HierarchyTree) view()     {}

// Envelope pairs a view with its kind for serialization.
type Envelope struct {
	Kind  Kind `json:"kind" yaml:"kind"`
	Model View `json:"model" yaml:"model"`
}

// Wrap builds an Envelope for v.
func Wrap(v View) Envelope {
	if v == nil {
		return Envelope{}
	}
	return Envelope{Kind: v.Kind(), Model: v}
}
