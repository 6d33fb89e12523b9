package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColumnsRightAlignsNumbers(t *testing.T) {
	tw := columns([]string{"Weapon", "Attacks"}, 1)
	appendCells(tw, []string{"Firearms", "1,024"})
	appendCells(tw, []string{"Knife", "3"})

	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, tw))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "Weapon")
	require.NotContains(t, buf.String(), "WEAPON")
	require.NotContains(t, buf.String(), "│")

	end := strings.Index(lines[1], "1,024") + len("1,024")
	require.Equal(t, end, strings.Index(lines[2], "3")+1)
}

func TestNumericCols(t *testing.T) {
	require.Equal(t, []int{1, 2, 3}, numericCols(1, 3))
	require.Empty(t, numericCols(2, 1))
}
