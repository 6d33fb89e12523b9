package dashui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type cell struct {
	s       string
	width   int
	isSpace bool
}

func cellsOf(s string) []cell {
	out := make([]cell, 0, len(s))
	for _, r := range s {
		out = append(out, cell{s: string(r), width: runewidth.RuneWidth(r), isSpace: r == ' '})
	}
	return out
}

// wrapText breaks plain text at spaces so no line is wider than width cells.
// Words wider than a line are split.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	paragraphs := strings.Split(s, "\n")
	for i, p := range paragraphs {
		paragraphs[i] = wrapCells(cellsOf(p), width)
	}
	return strings.Join(paragraphs, "\n")
}

func wrapCells(cells []cell, width int) string {
	var out strings.Builder
	line := make([]cell, 0, len(cells))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(cells); {
		item := cells[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if item.isSpace {
				out.WriteString(joinCells(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
				i++
				continue
			}
			if lastSpaceIdx >= 0 {
				out.WriteString(joinCells(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]cell{}, line[lastSpaceIdx+1:]...)
				lineWidth = widthOf(line)
				lastSpaceIdx = lastSpace(line)
			} else {
				out.WriteString(joinCells(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(joinCells(line))
	return out.String()
}

func joinCells(cells []cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.s)
	}
	return b.String()
}

func widthOf(cells []cell) int {
	total := 0
	for _, c := range cells {
		total += c.width
	}
	return total
}

func lastSpace(cells []cell) int {
	for i := len(cells) - 1; i >= 0; i-- {
		if cells[i].isSpace {
			return i
		}
	}
	return -1
}

// truncateLine cuts s to width display cells, marking the cut with "...".
func truncateLine(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
