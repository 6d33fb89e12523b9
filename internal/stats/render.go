package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/gtdash/internal/viewmodel"
)

const sparkChars = " .:-=+*#%@"

var monthNames = [viewmodel.Months]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// RenderOptions controls the text rendering of views.
type RenderOptions struct {
	Width  int
	Height int
	Color  bool
	// TreeDepth limits how many hierarchy levels are printed; 0 prints all.
	TreeDepth int
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		b.WriteByte(sparkChars[sparkIndex(v, minVal, maxVal)])
	}
	return b.String()
}

func sparkIndex(v, lo, hi float64) int {
	if hi <= lo {
		return 0
	}
	idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sparkChars) {
		idx = len(sparkChars) - 1
	}
	return idx
}

// RenderView writes a text rendering of any view-model.
func RenderView(w io.Writer, v viewmodel.View, opts RenderOptions) error {
	switch m := v.(type) {
	case viewmodel.NeedsSelection:
		_, err := fmt.Fprintln(w, m.Hint)
		return err
	case viewmodel.NoData:
		_, err := fmt.Fprintln(w, m.Reason)
		return err
	case viewmodel.TimelineSeries:
		return renderTimelineSeries(w, m, opts)
	case viewmodel.MonthlyHeat:
		return renderMonthlyHeat(w, m)
	case viewmodel.GroupedBarByMonth:
		return renderGroupedMonths(w, m)
	case viewmodel.PieModel:
		return renderPie(w, m)
	case viewmodel.StackedBarModel:
		return renderStack(w, m)
	case viewmodel.HierarchyTree:
		if _, err := fmt.Fprintf(w, "Group activity (%s, %d groups)\n", m.Shape, m.Groups); err != nil {
			return err
		}
		return RenderTree(w, m.Root, opts.TreeDepth)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported view %T", v)
	}
}

func renderTimelineSeries(w io.Writer, m viewmodel.TimelineSeries, opts RenderOptions) error {
	lines := make([]PlotLine, 0, len(m.Series))
	for _, s := range m.Series {
		counts := make([]int, len(s.Points))
		for i, p := range s.Points {
			counts[i] = p.Count
		}
		lines = append(lines, PlotLine{Label: s.Country, Counts: counts})
	}
	return PlotTimeline(w, PlotOptions{
		Title:     fmt.Sprintf("Attacks per year, %d-%d", m.StartYear, m.EndYear),
		Width:     opts.Width,
		Height:    opts.Height,
		Color:     opts.Color,
		FromLabel: strconv.Itoa(m.StartYear),
		ToLabel:   strconv.Itoa(m.EndYear),
	}, lines)
}

func renderMonthlyHeat(w io.Writer, m viewmodel.MonthlyHeat) error {
	if _, err := fmt.Fprintf(w, "Monthly attacks, %s (%s)\n", m.Country, m.Years); err != nil {
		return err
	}
	heat := make([]string, 0, viewmodel.Months)
	counts := make([]string, 0, viewmodel.Months)
	lo, hi := float64(m.Domain[0]), float64(m.Domain[1])
	for _, c := range m.Counts {
		heat = append(heat, strings.Repeat(string(sparkChars[sparkIndex(float64(c), lo, hi)]), 3))
		counts = append(counts, humanize.Comma(int64(c)))
	}
	tw := columns(monthNames[:], numericCols(0, viewmodel.Months-1)...)
	appendCells(tw, heat)
	appendCells(tw, counts)
	if err := writeTable(w, tw); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "min=%d max=%d\n", m.Min, m.Max)
	return err
}

func renderGroupedMonths(w io.Writer, m viewmodel.GroupedBarByMonth) error {
	if _, err := fmt.Fprintf(w, "Monthly attacks by country (%s)\n", m.Years); err != nil {
		return err
	}
	headers := []string{"Country"}
	headers = append(headers, monthNames[:]...)
	headers = append(headers, "Trend", "Total")
	tw := columns(headers, append(numericCols(1, viewmodel.Months), viewmodel.Months+2)...)
	for _, g := range m.Groups {
		row := []string{g.Country}
		values := make([]float64, 0, viewmodel.Months)
		total := 0
		for _, c := range g.Counts {
			row = append(row, humanize.Comma(int64(c)))
			values = append(values, float64(c))
			total += c
		}
		row = append(row, Sparkline(values), humanize.Comma(int64(total)))
		appendCells(tw, row)
	}
	return writeTable(w, tw)
}

func renderPie(w io.Writer, m viewmodel.PieModel) error {
	if _, err := fmt.Fprintf(w, "Weapons used in %s (by %s)\n", m.Country, m.Field); err != nil {
		return err
	}
	total := 0
	for _, s := range m.Slices {
		total += s.Count
	}
	tw := columns([]string{"Weapon", "Attacks", "Share", "Kills", "Success"}, numericCols(1, 4)...)
	for _, s := range m.Slices {
		share := 0.0
		if total > 0 {
			share = float64(s.Count) / float64(total) * 100
		}
		appendCells(tw, []string{
			s.Label,
			humanize.Comma(int64(s.Count)),
			fmt.Sprintf("%.1f%%", share),
			humanize.Comma(int64(s.Kills)),
			FormatRate(s),
		})
	}
	return writeTable(w, tw)
}

func renderStack(w io.Writer, m viewmodel.StackedBarModel) error {
	if _, err := fmt.Fprintf(w, "Weapons by country (by %s)\n", m.Field); err != nil {
		return err
	}
	headers := append([]string{"Country"}, m.Categories...)
	headers = append(headers, "Total")
	tw := columns(headers, numericCols(1, len(headers)-1)...)
	for _, bar := range m.Bars {
		row := []string{bar.Country}
		for _, category := range m.Categories {
			cell := "0"
			for _, seg := range bar.Segments {
				if seg.Label == category {
					cell = humanize.Comma(int64(seg.Count))
					break
				}
			}
			row = append(row, cell)
		}
		row = append(row, humanize.Comma(int64(bar.Total)))
		appendCells(tw, row)
	}
	return writeTable(w, tw)
}

// FormatRate renders a success rate, or "n/a" when no incident was rated.
func FormatRate(s viewmodel.WeaponStat) string {
	if s.Rated == 0 {
		return "n/a"
	}
	return strconv.FormatFloat(s.SuccessRate, 'f', 1, 64) + "%"
}

// RenderTree prints the hierarchy indented by depth with subtree totals.
func RenderTree(w io.Writer, root *viewmodel.Node, maxDepth int) error {
	var err error
	root.Walk(func(n *viewmodel.Node, depth int) bool {
		if err != nil {
			return false
		}
		if depth > 0 {
			_, err = fmt.Fprintf(w, "%s%s (%s)\n", strings.Repeat("  ", depth-1), n.Name, humanize.Comma(int64(n.Total())))
		}
		return maxDepth <= 0 || depth < maxDepth
	})
	return err
}
