package stats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/gtdash/internal/model"
	"github.com/verte-zerg/gtdash/internal/selection"
	"github.com/verte-zerg/gtdash/internal/viewmodel"
)

func timelineFixture() []model.Incident {
	var records []model.Incident
	records = append(records, repeat(3, mk("A", 2010, 1))...)
	records = append(records, repeat(2, mk("A", 2010, 6))...)
	records = append(records, repeat(4, mk("A", 2013, 2))...)
	records = append(records, repeat(5, mk("B", 2010, 6))...)
	records = append(records, repeat(1, mk("C", 2011, 3))...)
	records = append(records, repeat(2, mk("D", 2012, 4))...)
	return records
}

func TestTimelineNeedsSelection(t *testing.T) {
	res := Timeline(timelineFixture(), selection.State{}, DefaultOptions())
	needs, ok := res.View.(viewmodel.NeedsSelection)
	require.True(t, ok)
	require.Equal(t, viewmodel.ViewTimeline, needs.View)
	require.NotEmpty(t, needs.Hint)
}

func TestTimelineNoData(t *testing.T) {
	sel := selection.NewState("A", model.Year(1999), nil)
	res := Timeline(timelineFixture(), sel, DefaultOptions())
	require.Equal(t, viewmodel.KindNoData, res.View.Kind())
}

func TestTimelineShapeSelection(t *testing.T) {
	records := timelineFixture()

	single := Timeline(records, selection.NewState("A", model.Year(2010), model.Year(2010)), DefaultOptions())
	heat, ok := single.View.(viewmodel.MonthlyHeat)
	require.True(t, ok, "got %T", single.View)
	require.Equal(t, "A", heat.Country)
	require.Equal(t, 3, heat.Counts[0])
	require.Equal(t, 2, heat.Counts[5])
	require.Equal(t, 0, heat.Min)
	require.Equal(t, 3, heat.Max)
	require.Equal(t, [2]int{0, 3}, heat.Domain)

	multi := Timeline(records, selection.NewState([]string{"A", "B"}, model.Year(2010), model.Year(2010)), DefaultOptions())
	grouped, ok := multi.View.(viewmodel.GroupedBarByMonth)
	require.True(t, ok, "got %T", multi.View)
	require.Len(t, grouped.Groups, 2)
	require.Equal(t, "A", grouped.Groups[0].Country)
	require.Equal(t, 5, grouped.Groups[1].Counts[5])

	span := Timeline(records, selection.NewState("A", model.Year(2010), model.Year(2015)), DefaultOptions())
	series, ok := span.View.(viewmodel.TimelineSeries)
	require.True(t, ok, "got %T", span.View)
	require.Equal(t, 2010, series.StartYear)
	require.Equal(t, 2015, series.EndYear)
	require.Len(t, series.Series, 1)
	require.Equal(t, []viewmodel.YearCount{
		{Year: 2010, Count: 5},
		{Year: 2011, Count: 0},
		{Year: 2012, Count: 0},
		{Year: 2013, Count: 4},
		{Year: 2014, Count: 0},
		{Year: 2015, Count: 0},
	}, series.Series[0].Points)
}

func TestTimelineSwappedRangeMatchesForward(t *testing.T) {
	records := timelineFixture()
	forward := Timeline(records, selection.NewState("A", model.Year(2010), model.Year(2013)), DefaultOptions())
	backward := Timeline(records, selection.NewState("A", model.Year(2013), model.Year(2010)), DefaultOptions())
	require.Equal(t, forward.View, backward.View)
}

func TestTimelineStartOnlyIsSingleYear(t *testing.T) {
	res := Timeline(timelineFixture(), selection.NewState("A", model.Year(2013), nil), DefaultOptions())
	heat, ok := res.View.(viewmodel.MonthlyHeat)
	require.True(t, ok, "got %T", res.View)
	require.Equal(t, "2013", heat.Years)
	require.Equal(t, 4, heat.Counts[1])
	require.Equal(t, 4, heat.Max)
}

func TestTimelineCapsSeriesAtThree(t *testing.T) {
	sel := selection.NewState([]string{"D", "C", "B", "A"}, model.Year(2010), model.Year(2013))
	res := Timeline(timelineFixture(), sel, DefaultOptions())
	series, ok := res.View.(viewmodel.TimelineSeries)
	require.True(t, ok)
	require.Len(t, series.Series, 3)
	require.Equal(t, "D", series.Series[0].Country)
	require.Equal(t, "C", series.Series[1].Country)
	require.Equal(t, "B", series.Series[2].Country)
}

func TestTimelineAllCountriesDerivesTopThree(t *testing.T) {
	opts := DefaultOptions()
	opts.Policy = selection.AllowAllCountries
	res := Timeline(timelineFixture(), selection.NewState(nil, model.Year(2010), model.Year(2013)), opts)
	series, ok := res.View.(viewmodel.TimelineSeries)
	require.True(t, ok)
	names := []string{}
	for _, s := range series.Series {
		names = append(names, s.Country)
	}
	require.Equal(t, []string{"A", "B", "D"}, names)
}

func TestTimelineInvalidMonthsExcluded(t *testing.T) {
	records := []model.Incident{mk("A", 2010, 0), mk("A", 2010, 13)}
	res := Timeline(records, selection.NewState("A", model.Year(2010), nil), DefaultOptions())
	heat, ok := res.View.(viewmodel.MonthlyHeat)
	require.True(t, ok)
	require.Equal(t, [2]int{0, 1}, heat.Domain)
	require.Equal(t, 0, heat.Max)
	require.Equal(t, 2, res.Quality.InvalidMonth)
}

func TestTimelineCountsInvalidYears(t *testing.T) {
	records := []model.Incident{mk("A", 0, 1), mk("A", 2010, 1), mk("B", 0, 1)}
	res := Timeline(records, selection.NewState("A", model.Year(2010), nil), DefaultOptions())
	require.Equal(t, 1, res.Quality.InvalidYear)
}

func TestHeatDomain(t *testing.T) {
	require.Equal(t, [2]int{0, 1}, HeatDomain(0, 0))
	require.Equal(t, [2]int{0, 4}, HeatDomain(4, 4))
	require.Equal(t, [2]int{2, 9}, HeatDomain(2, 9))
}

func TestTimelineClampsYearSpan(t *testing.T) {
	sel := selection.NewState("A", model.Year(1), model.Year(2_000_000_000))
	res := Timeline(timelineFixture(), sel, DefaultOptions())
	series, ok := res.View.(viewmodel.TimelineSeries)
	require.True(t, ok)
	require.Equal(t, model.MinYear, series.StartYear)
	require.Equal(t, model.MaxYear, series.EndYear)
	require.Len(t, series.Series[0].Points, model.MaxYear-model.MinYear+1)
	require.Equal(t, 3+2, series.Series[0].Points[2010-model.MinYear].Count)
	require.Equal(t, 4, series.Series[0].Points[2013-model.MinYear].Count)
}
