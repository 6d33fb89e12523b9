package dashboard

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/gtdash/internal/logging"
	"github.com/verte-zerg/gtdash/internal/metrics"
	"github.com/verte-zerg/gtdash/internal/model"
	"github.com/verte-zerg/gtdash/internal/selection"
	"github.com/verte-zerg/gtdash/internal/viewmodel"
)

func incidents() []model.Incident {
	var out []model.Incident
	for i := 0; i < 6; i++ {
		for j := 0; j <= i; j++ {
			out = append(out, model.Incident{
				EventID:       fmt.Sprintf("fr-%d-%d", i, j),
				Country:       "France",
				Year:          2010 + j%3,
				Month:         1 + j,
				GroupName:     fmt.Sprintf("G%d", i),
				WeaponSubtype: "Rifle",
				WeaponType:    "Firearms",
				TargetType:    "Police",
				Success:       model.SuccessSucceeded,
				Perpetrators:  2,
			})
		}
	}
	out = append(out,
		model.Incident{EventID: "es-1", Country: "Spain", Year: 2010, Month: 5, GroupName: "ETA", Success: model.SuccessSucceeded},
		model.Incident{EventID: "es-2", Country: "Spain", Year: 2011, Month: 0, GroupName: "ETA", Success: model.SuccessUnknown},
	)
	return out
}

func TestControllerStartsWithPrompt(t *testing.T) {
	c := New(incidents())
	views := c.Views()
	require.Equal(t, viewmodel.KindNeedsSelection, views.Timeline.Kind())
	require.Equal(t, viewmodel.KindNeedsSelection, views.Weapons.Kind())
	require.Equal(t, viewmodel.KindNeedsSelection, views.Groups.Kind())
	require.False(t, c.GroupControlVisible())
	require.False(t, c.Zoom().CanGoBack())
}

func TestControllerOnSelectionChanged(t *testing.T) {
	c := New(incidents())
	views := c.OnSelectionChanged([]string{"France", ""}, model.Year(2010), model.Year(2010))
	require.Equal(t, viewmodel.KindMonthlyHeat, views.Timeline.Kind())
	require.Equal(t, viewmodel.KindPie, views.Weapons.Kind())
	require.Equal(t, viewmodel.KindHierarchy, views.Groups.Kind())
	require.Equal(t, []string{"France"}, c.State().Countries())

	views = c.OnSelectionChanged("Atlantis", nil, nil)
	require.Equal(t, viewmodel.KindNoData, views.Timeline.Kind())
	require.Equal(t, viewmodel.KindNoData, views.Groups.Kind())
}

func TestControllerToggleCountry(t *testing.T) {
	c := New(incidents())
	c.ToggleCountry("Spain")
	views := c.ToggleCountry("France")
	require.Equal(t, []string{"Spain", "France"}, c.State().Countries())
	require.Equal(t, viewmodel.KindGroupedBarByMonth, views.Timeline.Kind())
	require.Equal(t, viewmodel.KindStackedBar, views.Weapons.Kind())
	tree := views.Groups.(viewmodel.HierarchyTree)
	require.Equal(t, viewmodel.TreeSimplified, tree.Shape)

	views = c.ToggleCountry("Spain")
	require.Equal(t, viewmodel.KindMonthlyHeat, views.Timeline.Kind())

	views = c.ClearSelection()
	require.Equal(t, viewmodel.KindNeedsSelection, views.Timeline.Kind())
}

func TestControllerYearRange(t *testing.T) {
	c := New(incidents(), WithSelection(selection.NewState("France", nil, nil)))
	views := c.SetYears(model.Year(2012), model.Year(2010))
	series, ok := views.Timeline.(viewmodel.TimelineSeries)
	require.True(t, ok)
	require.Equal(t, 2010, series.StartYear)
	require.Len(t, series.Series[0].Points, 3)
}

func TestControllerGroupControlAndPercentage(t *testing.T) {
	c := New(incidents(), WithSelection(selection.NewState("France", nil, nil)))
	require.True(t, c.GroupControlVisible())

	tree := c.Views().Groups.(viewmodel.HierarchyTree)
	require.Len(t, tree.Root.Children, 1)

	views := c.SetGroupPercentage(500)
	require.Equal(t, 100, c.Options().GroupPercentage)
	tree = views.Groups.(viewmodel.HierarchyTree)
	require.Len(t, tree.Root.Children, 6)

	c.SetGroupPercentage(-4)
	require.Equal(t, 1, c.Options().GroupPercentage)

	c.ToggleCountry("Spain")
	require.False(t, c.GroupControlVisible())
}

func TestControllerWeaponField(t *testing.T) {
	c := New(incidents(), WithSelection(selection.NewState("France", nil, nil)))
	pie := c.Views().Weapons.(viewmodel.PieModel)
	require.Equal(t, "Rifle", pie.Slices[0].Label)

	pie = c.ToggleWeaponField().Weapons.(viewmodel.PieModel)
	require.Equal(t, "Firearms", pie.Slices[0].Label)

	c.SetWeaponField("caliber")
	require.Equal(t, model.WeaponType, c.Options().WeaponField)
}

func TestControllerZoomResetsOnChange(t *testing.T) {
	c := New(incidents(), WithSelection(selection.NewState("France", nil, nil)), WithGroupPercentage(100))
	tree := c.Views().Groups.(viewmodel.HierarchyTree)
	c.ZoomIn(tree.Root.Children[0])
	require.True(t, c.Zoom().CanGoBack())

	c.SetYears(model.Year(2010), nil)
	require.False(t, c.Zoom().CanGoBack())

	c.ZoomIn(c.Zoom().Focus().Children[0])
	require.False(t, c.ZoomOut().CanGoBack())
}

func TestControllerResetZoom(t *testing.T) {
	c := New(incidents(), WithSelection(selection.NewState("France", nil, nil)), WithGroupPercentage(100))
	tree := c.Views().Groups.(viewmodel.HierarchyTree)
	c.ZoomIn(tree.Root.Children[0])
	c.ZoomIn(c.Zoom().Focus().Children[0])
	require.Equal(t, 2, c.Zoom().Depth())

	state := c.ResetZoom()
	require.True(t, state.AtRoot())
	require.Same(t, tree.Root, state.Focus())
}

func TestControllerAllCountriesPolicy(t *testing.T) {
	c := New(incidents(), WithPolicy(selection.AllowAllCountries))
	views := c.Views()
	require.Equal(t, viewmodel.KindGroupedBarByMonth, views.Timeline.Kind())
	require.Equal(t, viewmodel.KindStackedBar, views.Weapons.Kind())
	tree := views.Groups.(viewmodel.HierarchyTree)
	require.Equal(t, viewmodel.TreeFull, tree.Shape)
}

func TestControllerLogsAndCountsAnomalies(t *testing.T) {
	var buf bytes.Buffer
	reg := prometheus.NewRegistry()
	rec := metrics.New()
	require.NoError(t, rec.Register(reg))

	c := New(incidents(), WithLogger(logging.New(&buf, "debug", false)), WithMetrics(rec))
	c.OnSelectionChanged("Spain", nil, nil)

	out := buf.String()
	require.Contains(t, out, "data quality")
	require.Contains(t, out, "missing_success=1")
	require.Contains(t, out, "eventid=es-2")
	require.Contains(t, out, "invalid_month=1")

	// timeline/invalid_month, weapons/missing_success, groups/missing_success
	n, err := testutil.GatherAndCount(reg, "gtdash_data_anomalies_total")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = testutil.GatherAndCount(reg, "gtdash_views_total")
	require.NoError(t, err)
	require.Equal(t, 6, n)
}
