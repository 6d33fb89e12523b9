// Package htmlreport renders dashboard views as a standalone ECharts page.
package htmlreport

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/verte-zerg/gtdash/internal/viewmodel"
)

const (
	chartWidth  = "100%"
	chartHeight = "520px"
	otherStack  = "weapons"
)

var monthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Options controls the page title and color theme.
type Options struct {
	Title string
	// Theme is "dark" or "light"; anything else renders dark.
	Theme string
}

type palette struct {
	echartsTheme string
	background   string
	text         string
	muted        string
	heat         []string
}

var (
	darkPalette = palette{
		echartsTheme: "dark",
		background:   "#161b22",
		text:         "#e6edf3",
		muted:        "#8b949e",
		heat:         []string{"#0d1117", "#0e4429", "#006d32", "#26a641", "#39d353"},
	}
	lightPalette = palette{
		echartsTheme: "white",
		background:   "#ffffff",
		text:         "#1f2328",
		muted:        "#59636e",
		heat:         []string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"},
	}
)

func paletteFor(theme string) palette {
	if theme == "light" {
		return lightPalette
	}
	return darkPalette
}

// Render writes a full HTML page with one chart per view.
func Render(w io.Writer, views viewmodel.Views, o Options) error {
	p := paletteFor(o.Theme)
	page := components.NewPage()
	page.PageTitle = o.Title
	if page.PageTitle == "" {
		page.PageTitle = "gtdash"
	}
	page.SetLayout(components.PageFlexLayout)

	for _, v := range []viewmodel.View{views.Timeline, views.Weapons, views.Groups} {
		chart, err := chartFor(v, p)
		if err != nil {
			return err
		}
		page.AddCharts(chart)
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

func chartFor(v viewmodel.View, p palette) (components.Charter, error) {
	switch m := v.(type) {
	case viewmodel.NeedsSelection:
		return placeholder(m.View, m.Hint, p), nil
	case viewmodel.NoData:
		return placeholder(m.View, m.Reason, p), nil
	case viewmodel.TimelineSeries:
		return timelineLine(m, p), nil
	case viewmodel.MonthlyHeat:
		return monthlyHeatMap(m, p), nil
	case viewmodel.GroupedBarByMonth:
		return groupedBar(m, p), nil
	case viewmodel.PieModel:
		return weaponPie(m, p), nil
	case viewmodel.StackedBarModel:
		return stackedBar(m, p), nil
	case viewmodel.HierarchyTree:
		return sunburst(m, p), nil
	case nil:
		return nil, fmt.Errorf("nil view")
	default:
		return nil, fmt.Errorf("unsupported view kind %q", v.Kind())
	}
}

func (p palette) init() opts.Initialization {
	return opts.Initialization{
		Width:           chartWidth,
		Height:          chartHeight,
		BackgroundColor: p.background,
		Theme:           p.echartsTheme,
	}
}

func (p palette) title(title, subtitle string) opts.Title {
	return opts.Title{
		Title:         title,
		Subtitle:      subtitle,
		Left:          "center",
		TitleStyle:    &opts.TextStyle{Color: p.text},
		SubtitleStyle: &opts.TextStyle{Color: p.muted},
	}
}

func (p palette) legend() opts.Legend {
	return opts.Legend{
		Show:      opts.Bool(true),
		Type:      "scroll",
		Top:       "bottom",
		TextStyle: &opts.TextStyle{Color: p.muted},
	}
}

func placeholder(view, message string, p palette) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(p.init()),
		charts.WithTitleOpts(p.title(view, message)),
	)
	return bar
}

func timelineLine(m viewmodel.TimelineSeries, p palette) *charts.Line {
	years := make([]string, 0, m.EndYear-m.StartYear+1)
	for y := m.StartYear; y <= m.EndYear; y++ {
		years = append(years, strconv.Itoa(y))
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(p.init()),
		charts.WithTitleOpts(p.title("Attacks per year", strconv.Itoa(m.StartYear)+"-"+strconv.Itoa(m.EndYear))),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(p.legend()),
		charts.WithYAxisOpts(opts.YAxis{Name: "Attacks"}),
	)
	line.SetXAxis(years)
	for _, s := range m.Series {
		data := make([]opts.LineData, len(s.Points))
		for i, pt := range s.Points {
			data[i] = opts.LineData{Value: pt.Count}
		}
		line.AddSeries(s.Country, data)
	}
	return line
}

func monthlyHeatMap(m viewmodel.MonthlyHeat, p palette) *charts.HeatMap {
	data := make([]opts.HeatMapData, 0, viewmodel.Months)
	for i, v := range m.Counts {
		data = append(data, opts.HeatMapData{Name: monthLabels[i], Value: []any{i, 0, v}})
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(p.init()),
		charts.WithTitleOpts(p.title("Attacks per month in "+m.Country, m.Years)),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category", Data: monthLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Color: p.muted},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "category", Data: []string{m.Country},
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Color: p.muted},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(m.Domain[0]),
			Max:        float32(m.Domain[1]),
			InRange:    &opts.VisualMapInRange{Color: p.heat},
			Orient:     "horizontal",
			Left:       "center",
			Bottom:     "2%",
			TextStyle:  &opts.TextStyle{Color: p.muted},
		}),
	)
	hm.AddSeries(m.Country, data, charts.WithLabelOpts(opts.Label{
		Show: opts.Bool(true), Position: "inside",
	}))
	return hm
}

func groupedBar(m viewmodel.GroupedBarByMonth, p palette) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(p.init()),
		charts.WithTitleOpts(p.title("Attacks per month", m.Years)),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(p.legend()),
	)
	bar.SetXAxis(monthLabels)
	for _, g := range m.Groups {
		data := make([]opts.BarData, len(g.Counts))
		for i, v := range g.Counts {
			data[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(g.Country, data)
	}
	return bar
}

func weaponPie(m viewmodel.PieModel, p palette) *charts.Pie {
	data := make([]opts.PieData, len(m.Slices))
	for i, s := range m.Slices {
		data[i] = opts.PieData{Name: s.Label, Value: s.Count}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(p.init()),
		charts.WithTitleOpts(p.title("Weapons used in "+m.Country, "by "+string(m.Field))),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(p.legend()),
	)
	pie.AddSeries(m.Country, data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c} ({d}%)"}),
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"35%", "65%"}}),
	)
	return pie
}

func stackedBar(m viewmodel.StackedBarModel, p palette) *charts.Bar {
	countries := make([]string, len(m.Bars))
	for i, b := range m.Bars {
		countries[i] = b.Country
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(p.init()),
		charts.WithTitleOpts(p.title("Dominant weapons", "by "+string(m.Field))),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(p.legend()),
	)
	bar.SetXAxis(countries)
	for _, label := range stackLabels(m) {
		data := make([]opts.BarData, len(m.Bars))
		for i, b := range m.Bars {
			data[i] = opts.BarData{Value: segmentCount(b, label)}
		}
		bar.AddSeries(label, data, charts.WithBarChartOpts(opts.BarChart{Stack: otherStack}))
	}
	return bar
}

// stackLabels lists the global categories followed by any per-country extras such as "Other".
func stackLabels(m viewmodel.StackedBarModel) []string {
	seen := make(map[string]bool, len(m.Categories)+1)
	labels := make([]string, 0, len(m.Categories)+1)
	for _, c := range m.Categories {
		if !seen[c] {
			seen[c] = true
			labels = append(labels, c)
		}
	}
	for _, b := range m.Bars {
		for _, s := range b.Segments {
			if !seen[s.Label] {
				seen[s.Label] = true
				labels = append(labels, s.Label)
			}
		}
	}
	return labels
}

func segmentCount(b viewmodel.CountryStack, label string) int {
	for _, s := range b.Segments {
		if s.Label == label {
			return s.Count
		}
	}
	return 0
}

func sunburst(m viewmodel.HierarchyTree, p palette) *charts.Sunburst {
	var data []opts.SunBurstData
	if m.Root != nil {
		data = make([]opts.SunBurstData, 0, len(m.Root.Children))
		for _, c := range m.Root.Children {
			data = append(data, *sunburstNode(c))
		}
	}

	sb := charts.NewSunburst()
	sb.SetGlobalOptions(
		charts.WithInitializationOpts(p.init()),
		charts.WithTitleOpts(p.title("Group activity", strconv.Itoa(m.Groups)+" groups, "+string(m.Shape)+" tree")),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
	)
	sb.AddSeries("groups", data, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}"}))
	return sb
}

func sunburstNode(n *viewmodel.Node) *opts.SunBurstData {
	out := &opts.SunBurstData{Name: n.Name, Value: float64(n.Total())}
	for _, c := range n.Children {
		out.Children = append(out.Children, sunburstNode(c))
	}
	return out
}
