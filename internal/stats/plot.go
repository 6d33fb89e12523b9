package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// PlotLine is one country's yearly attack counts.
type PlotLine struct {
	Label  string
	Counts []int
}

// PlotOptions controls the braille timeline layout.
type PlotOptions struct {
	Title string
	// Width is the number of plot columns; 0 fits the terminal.
	Width  int
	Height int
	Color  bool
	// FromLabel and ToLabel annotate the first and last column.
	FromLabel string
	ToLabel   string
}

const (
	defaultPlotHeight = 10
	minPlotWidth      = 10
	fallbackTermWidth = 80
	axisGutter        = " │ "
)

// linePattern draws column x when bit x%8 of mask is set.
type linePattern struct {
	name string
	mask uint8
}

func (p linePattern) draws(x int) bool {
	return p.mask>>(uint(x)%8)&1 == 1
}

var linePatterns = []linePattern{
	{name: "solid", mask: 0xff},
	{name: "dashed", mask: 0x0f},
	{name: "dotted", mask: 0x11},
	{name: "dash-dot", mask: 0x47},
}

var lineColors = []lipgloss.Color{"6", "5", "3", "2", "4"}

// brailleBits maps a dot inside a 2x4 braille cell to its code point bit.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// brailleCanvas is a grid of braille cells addressed in dot coordinates.
type brailleCanvas struct {
	cols, rows int
	cells      []uint8
}

func newBrailleCanvas(cols, rows int) *brailleCanvas {
	return &brailleCanvas{cols: cols, rows: rows, cells: make([]uint8, cols*rows)}
}

func (c *brailleCanvas) dot(x, y int) {
	if x < 0 || y < 0 || x >= 2*c.cols || y >= 4*c.rows {
		return
	}
	c.cells[(y/4)*c.cols+x/2] |= brailleBits[x%2][y%4]
}

func (c *brailleCanvas) at(col, row int) uint8 {
	return c.cells[row*c.cols+col]
}

// line draws a Bresenham segment, skipping columns the pattern leaves blank.
func (c *brailleCanvas) line(x0, y0, x1, y1 int, p linePattern) {
	dx, sx := abs(x1-x0), 1
	if x1 < x0 {
		sx = -1
	}
	dy, sy := -abs(y1-y0), 1
	if y1 < y0 {
		sy = -1
	}
	e := dx + dy
	for {
		if p.draws(x0) {
			c.dot(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// PlotTimeline draws the lines on one count axis starting at zero.
// Lines without counts are skipped; nothing is written when none remain.
func PlotTimeline(w io.Writer, opts PlotOptions, lines []PlotLine) error {
	drawn := make([]PlotLine, 0, len(lines))
	for _, l := range lines {
		if len(l.Counts) > 0 {
			drawn = append(drawn, l)
		}
	}
	if len(drawn) == 0 {
		return nil
	}

	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	peak := peakCount(drawn)
	ticks := axisTicks(height, peak)
	tickWidth := maxWidth(ticks)
	width := opts.Width
	if width <= 0 {
		width = fitPlotWidth(terminalWidth(), peak)
	}
	width = max(width, minPlotWidth)

	canvases := make([]*brailleCanvas, len(drawn))
	for i, l := range drawn {
		canvas := newBrailleCanvas(width, height)
		pattern := linePatterns[i%len(linePatterns)]
		prevX, prevY := -1, -1
		for x, v := range stretch(l.Counts, width) {
			px, py := 2*x, dotRow(v, peak, 4*height)
			if prevX < 0 {
				prevX, prevY = px, py
			}
			canvas.line(prevX, prevY, px, py, pattern)
			prevX, prevY = px, py
		}
		canvases[i] = canvas
	}

	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(opts.Title + "\n")
	}
	for row := 0; row < height; row++ {
		b.WriteString(runewidth.FillLeft(ticks[row], tickWidth))
		b.WriteString(axisGutter)
		for col := 0; col < width; col++ {
			b.WriteString(cellGlyph(canvases, col, row, opts.Color))
		}
		b.WriteByte('\n')
	}
	if opts.FromLabel != "" || opts.ToLabel != "" {
		gap := max(width-runewidth.StringWidth(opts.FromLabel)-runewidth.StringWidth(opts.ToLabel), 1)
		b.WriteString(strings.Repeat(" ", tickWidth+runewidth.StringWidth(axisGutter)))
		b.WriteString(opts.FromLabel + strings.Repeat(" ", gap) + opts.ToLabel + "\n")
	}
	b.WriteString(legend(drawn, opts.Color) + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// cellGlyph merges every line's dots in a cell; the first line present picks the color.
func cellGlyph(canvases []*brailleCanvas, col, row int, color bool) string {
	var mask uint8
	owner := -1
	for i, c := range canvases {
		bits := c.at(col, row)
		if bits != 0 && owner < 0 {
			owner = i
		}
		mask |= bits
	}
	glyph := string(rune(0x2800 + int(mask)))
	if !color || owner < 0 {
		return glyph
	}
	return lineStyle(owner).Render(glyph)
}

func lineStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lineColors[i%len(lineColors)])
}

func legend(lines []PlotLine, color bool) string {
	parts := make([]string, 0, len(lines))
	for i, l := range lines {
		total := 0
		for _, c := range l.Counts {
			total += c
		}
		part := fmt.Sprintf("%s [%s] %s attacks", l.Label, linePatterns[i%len(linePatterns)].name, humanize.Comma(int64(total)))
		if color {
			part = lineStyle(i).Render(part)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "  ")
}

// stretch resamples counts to n columns: buckets are averaged when
// shrinking and linearly interpolated when widening.
func stretch(counts []int, n int) []float64 {
	out := make([]float64, n)
	k := len(counts)
	switch {
	case k == 0 || n == 0:
	case k >= n:
		for i := range out {
			lo := i * k / n
			hi := max((i+1)*k/n, lo+1)
			sum := 0
			for _, c := range counts[lo:hi] {
				sum += c
			}
			out[i] = float64(sum) / float64(hi-lo)
		}
	case k == 1 || n == 1:
		for i := range out {
			out[i] = float64(counts[0])
		}
	default:
		step := float64(k-1) / float64(n-1)
		for i := range out {
			pos := float64(i) * step
			j := int(pos)
			if j >= k-1 {
				out[i] = float64(counts[k-1])
				continue
			}
			f := pos - float64(j)
			out[i] = float64(counts[j])*(1-f) + float64(counts[j+1])*f
		}
	}
	return out
}

// dotRow maps v onto dots rows, with zero on the bottom row.
func dotRow(v, peak float64, dots int) int {
	if dots <= 1 {
		return 0
	}
	row := int(math.Round((1 - v/peak) * float64(dots-1)))
	return min(max(row, 0), dots-1)
}

// peakCount is the largest count across lines, never below 1.
func peakCount(lines []PlotLine) float64 {
	peak := 1
	for _, l := range lines {
		for _, c := range l.Counts {
			peak = max(peak, c)
		}
	}
	return float64(peak)
}

// axisTicks labels the top, middle and bottom rows.
func axisTicks(height int, peak float64) []string {
	ticks := make([]string, height)
	if height == 0 {
		return ticks
	}
	ticks[0] = tickLabel(peak)
	if height > 2 {
		ticks[height/2] = tickLabel(peak / 2)
	}
	if height > 1 {
		ticks[height-1] = "0"
	}
	return ticks
}

func tickLabel(v float64) string {
	if v == math.Trunc(v) {
		return humanize.Comma(int64(v))
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func maxWidth(labels []string) int {
	width := 1
	for _, l := range labels {
		width = max(width, runewidth.StringWidth(l))
	}
	return width
}

// fitPlotWidth leaves room for the axis next to a plot of total columns.
func fitPlotWidth(total int, peak float64) int {
	if total <= 0 {
		return minPlotWidth
	}
	axis := maxWidth(axisTicks(3, peak)) + runewidth.StringWidth(axisGutter)
	return max(total-axis, minPlotWidth)
}

func terminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return fallbackTermWidth
}
