package stats

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/gtdash/internal/model"
	"github.com/verte-zerg/gtdash/internal/selection"
	"github.com/verte-zerg/gtdash/internal/viewmodel"
)

func TestWeaponsNeedsSelection(t *testing.T) {
	res := Weapons([]model.Incident{mk("A", 2010, 1)}, selection.State{}, DefaultOptions())
	require.Equal(t, viewmodel.KindNeedsSelection, res.View.Kind())
}

func TestWeaponsNoData(t *testing.T) {
	res := Weapons([]model.Incident{mk("A", 2010, 1)}, selection.NewState("B", nil, nil), DefaultOptions())
	require.Equal(t, viewmodel.KindNoData, res.View.Kind())
}

func TestWeaponsPieFoldsOther(t *testing.T) {
	counts := []int{50, 40, 30, 25, 20, 15, 12, 10, 6, 4}
	var records []model.Incident
	for i, n := range counts {
		label := fmt.Sprintf("w%02d", i)
		for j := 0; j < n; j++ {
			rec := withWeapon(mk("A", 2010, 1), label)
			rec.Success = model.SuccessFailed
			switch {
			case i == 8 && j < 3:
				rec.Success = model.SuccessSucceeded
			case i == 9:
				rec.Success = model.SuccessSucceeded
			}
			records = append(records, rec)
		}
	}

	res := Weapons(records, selection.NewState("A", nil, nil), DefaultOptions())
	pie, ok := res.View.(viewmodel.PieModel)
	require.True(t, ok, "got %T", res.View)
	require.Len(t, pie.Slices, MaxPieSlices+1)
	for i := 0; i < MaxPieSlices; i++ {
		require.Equal(t, counts[i], pie.Slices[i].Count)
	}
	other := pie.Slices[MaxPieSlices]
	require.Equal(t, OtherLabel, other.Label)
	require.Equal(t, 10, other.Count)
	require.Equal(t, 7, other.SuccessCount)
	require.Equal(t, 70.0, other.SuccessRate)
}

func TestWeaponsMissingSuccessExcludedFromRate(t *testing.T) {
	base := withWeapon(mk("A", 2010, 1), "Firearm")
	records := []model.Incident{
		withSuccess(base, model.SuccessSucceeded),
		withSuccess(base, model.SuccessFailed),
		withSuccess(base, model.SuccessUnknown),
		withSuccess(base, model.SuccessUnknown),
	}
	res := Weapons(records, selection.NewState("A", nil, nil), DefaultOptions())
	pie := res.View.(viewmodel.PieModel)
	require.Len(t, pie.Slices, 1)
	require.Equal(t, 4, pie.Slices[0].Count)
	require.Equal(t, 2, pie.Slices[0].Rated)
	require.Equal(t, 50.0, pie.Slices[0].SuccessRate)
	require.Equal(t, 2, res.Quality.MissingSuccess)
}

func TestWeaponsRateRoundsToOneDecimal(t *testing.T) {
	base := withWeapon(mk("A", 2010, 1), "Knife")
	records := []model.Incident{
		base,
		withSuccess(base, model.SuccessFailed),
		withSuccess(base, model.SuccessFailed),
	}
	pie := Weapons(records, selection.NewState("A", nil, nil), DefaultOptions()).View.(viewmodel.PieModel)
	require.Equal(t, 33.3, pie.Slices[0].SuccessRate)
}

func TestWeaponsFieldAndUnknownLabel(t *testing.T) {
	a := mk("A", 2010, 1)
	a.WeaponType = "Explosives"
	a.WeaponSubtype = "Vehicle"
	a.Kills = 3
	b := mk("A", 2010, 1)
	b.WeaponType = "Explosives"
	b.Kills = 2

	opts := DefaultOptions()
	pie := Weapons([]model.Incident{a, b}, selection.NewState("A", nil, nil), opts).View.(viewmodel.PieModel)
	require.Equal(t, model.WeaponSubtype, pie.Field)
	require.ElementsMatch(t, []string{"Vehicle", UnknownLabel}, []string{pie.Slices[0].Label, pie.Slices[1].Label})

	opts.WeaponField = model.WeaponType
	pie = Weapons([]model.Incident{a, b}, selection.NewState("A", nil, nil), opts).View.(viewmodel.PieModel)
	require.Len(t, pie.Slices, 1)
	require.Equal(t, "Explosives", pie.Slices[0].Label)
	require.Equal(t, 5, pie.Slices[0].Kills)
}

func stackFixture() []model.Incident {
	var records []model.Incident
	add := func(country, weapon string, n int) {
		records = append(records, repeat(n, withWeapon(mk(country, 2010, 1), weapon))...)
	}
	add("A", "w1", 10)
	add("A", "w2", 5)
	add("A", "w6", 2)
	add("B", "w1", 1)
	add("B", "w3", 8)
	add("B", "w4", 6)
	add("C", "w5", 3)
	add("D", "w2", 2)
	add("E", "w1", 1)
	add("F", "w1", 1)
	return records
}

func TestWeaponsStackedBar(t *testing.T) {
	sel := selection.NewState([]string{"B", "A", "Z"}, nil, nil)
	res := Weapons(stackFixture(), sel, DefaultOptions())
	stack, ok := res.View.(viewmodel.StackedBarModel)
	require.True(t, ok, "got %T", res.View)

	// global counts among A and B: w1=11, w3=8, w2=5, w4=6, w6=2
	require.Equal(t, []string{"w1", "w3", "w4", "w2", OtherLabel}, stack.Categories)
	require.Len(t, stack.Bars, 2)
	require.Equal(t, "B", stack.Bars[0].Country)
	require.Equal(t, "A", stack.Bars[1].Country)

	b := stack.Bars[0]
	require.Equal(t, 15, b.Total)
	require.Len(t, b.Segments, 4)

	a := stack.Bars[1]
	require.Equal(t, 17, a.Total)
	require.Len(t, a.Segments, 5)
	require.Equal(t, OtherLabel, a.Segments[4].Label)
	require.Equal(t, 2, a.Segments[4].Count)
}

func TestWeaponsStackedRanksCountriesWithoutSelection(t *testing.T) {
	opts := DefaultOptions()
	opts.Policy = selection.AllowAllCountries
	res := Weapons(stackFixture(), selection.State{}, opts)
	stack, ok := res.View.(viewmodel.StackedBarModel)
	require.True(t, ok)
	names := []string{}
	for _, bar := range stack.Bars {
		names = append(names, bar.Country)
	}
	require.Equal(t, []string{"A", "B", "C", "D", "E"}, names)
}

func TestWeaponsAllCountriesSingleCountryIsPie(t *testing.T) {
	opts := DefaultOptions()
	opts.Policy = selection.AllowAllCountries
	records := []model.Incident{withWeapon(mk("A", 2010, 1), "w1")}
	res := Weapons(records, selection.State{}, opts)
	pie, ok := res.View.(viewmodel.PieModel)
	require.True(t, ok)
	require.Equal(t, "A", pie.Country)
}

func TestFoldOtherMergesRealOtherLabel(t *testing.T) {
	stats := []viewmodel.WeaponStat{
		{Label: OtherLabel, Count: 9, Rated: 9, SuccessCount: 9},
		{Label: "a", Count: 5, Rated: 5},
		{Label: "b", Count: 1, Rated: 1, SuccessCount: 1},
	}
	folded := FoldOther(stats, 2)
	require.Len(t, folded, 2)
	require.Equal(t, OtherLabel, folded[0].Label)
	require.Equal(t, 10, folded[0].Count)
	require.Equal(t, 100.0, folded[0].SuccessRate)
}
