package stats

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/gtdash/internal/model"
	"github.com/verte-zerg/gtdash/internal/selection"
	"github.com/verte-zerg/gtdash/internal/viewmodel"
)

func childNames(n *viewmodel.Node) []string {
	out := []string{}
	for _, c := range n.Children {
		out = append(out, c.Name)
	}
	return out
}

func TestHierarchyNeedsSelection(t *testing.T) {
	res := Hierarchy(nil, selection.State{}, DefaultOptions())
	require.Equal(t, viewmodel.KindNeedsSelection, res.View.Kind())
}

func TestHierarchySuccessOnlyLeaves(t *testing.T) {
	base := withGroup(mk("A", 2010, 1), "Group X")
	base.TargetType = "Military"
	var records []model.Incident
	for i := 0; i < 3; i++ {
		records = append(records,
			withSuccess(base, model.SuccessFailed),
			withSuccess(base, model.SuccessSucceeded),
			withSuccess(base, model.SuccessUnknown),
		)
	}

	for _, countries := range [][]string{{"A"}, {"A", "B"}} {
		res := Hierarchy(records, selection.NewState(countries, nil, nil), DefaultOptions())
		tree, ok := res.View.(viewmodel.HierarchyTree)
		require.True(t, ok, "got %T", res.View)
		require.Equal(t, 3, tree.Root.Total())
		require.Equal(t, 3, res.Quality.MissingSuccess)
		tree.Root.Walk(func(n *viewmodel.Node, _ int) bool {
			if n.IsLeaf() {
				require.Equal(t, SuccessLeaf, n.Name)
			}
			return true
		})
	}
}

func TestHierarchySimplifiedDropsUnattributable(t *testing.T) {
	records := []model.Incident{
		withGroup(mk("A", 2010, 1), "G1"),
		withGroup(mk("A", 2010, 1), "Unknown"),
		withGroup(mk("B", 2010, 1), "Undefined"),
		withGroup(mk("B", 2010, 1), ""),
		withGroup(mk("B", 2010, 1), "G2"),
		withGroup(mk("B", 2010, 1), "G2"),
	}
	res := Hierarchy(records, selection.NewState([]string{"A", "B"}, nil, nil), DefaultOptions())
	tree := res.View.(viewmodel.HierarchyTree)
	require.Equal(t, viewmodel.TreeSimplified, tree.Shape)
	require.Equal(t, 2, tree.Groups)
	require.Equal(t, []string{"B", "A"}, childNames(tree.Root))
	require.Equal(t, []string{"G2"}, childNames(tree.Root.Child("B")))
	require.Equal(t, 2, tree.Root.Child("B").Child("G2").Child(SuccessLeaf).Value)
	require.Equal(t, 3, tree.Root.Total())
}

func TestHierarchySimplifiedFoldsOthersPerCountry(t *testing.T) {
	var records []model.Incident
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("G%d", i)
		records = append(records, repeat(20-i, withGroup(mk("A", 2010, 1), name))...)
		records = append(records, withGroup(mk("B", 2010, 1), name))
	}
	opts := DefaultOptions()
	opts.GroupPercentage = 20
	res := Hierarchy(records, selection.NewState([]string{"A", "B"}, nil, nil), opts)
	tree := res.View.(viewmodel.HierarchyTree)
	require.Equal(t, 10, tree.Groups)

	a := tree.Root.Child("A")
	require.Equal(t, []string{"G0", "G1", OthersLabel}, childNames(a))
	require.Equal(t, 20, a.Child("G0").Total())
	require.Equal(t, 116, a.Child(OthersLabel).Total())
	require.False(t, a.Child(OthersLabel).IsLeaf())
	require.Equal(t, SuccessLeaf, a.Child(OthersLabel).Children[0].Name)

	b := tree.Root.Child("B")
	require.Equal(t, OthersLabel, b.Children[len(b.Children)-1].Name)
	require.Equal(t, 8, b.Child(OthersLabel).Total())
	require.Equal(t, len(records), tree.Root.Total())
}

func TestHierarchyFullTree(t *testing.T) {
	perps := []int{1, 5, 9, 10, 11, 99, 100, 250}
	var records []model.Incident
	for _, p := range perps {
		rec := withGroup(mk("A", 2010, 1), "G1")
		rec.Perpetrators = p
		rec.TargetType = "Police"
		records = append(records, rec)
	}
	unknown := withGroup(mk("A", 2010, 1), "G1")
	records = append(records, unknown)
	small := withGroup(mk("A", 2010, 1), "G2")
	small.Perpetrators = 3
	records = append(records, small)

	res := Hierarchy(records, selection.NewState("A", nil, nil), DefaultOptions())
	tree, ok := res.View.(viewmodel.HierarchyTree)
	require.True(t, ok, "got %T", res.View)
	require.Equal(t, viewmodel.TreeFull, tree.Shape)
	require.Equal(t, []string{"G1", "G2"}, childNames(tree.Root))

	g1 := tree.Root.Child("G1")
	require.ElementsMatch(t, []string{"1-10", "10-100", "100-250", UndefinedLabel}, childNames(g1))
	require.Equal(t, 4, g1.Child("1-10").Total())
	require.Equal(t, 3, g1.Child("10-100").Total())
	require.Equal(t, 1, g1.Child("100-250").Total())
	require.Equal(t, 4, g1.Child("1-10").Child("Police").Child(SuccessLeaf).Value)
	require.Equal(t, []string{UnknownLabel}, childNames(g1.Child(UndefinedLabel)))

	g2 := tree.Root.Child("G2")
	require.Equal(t, []string{"3"}, childNames(g2))
}

func TestHierarchyFullTreeKeepsTopPercentage(t *testing.T) {
	var records []model.Incident
	for i := 0; i < 6; i++ {
		records = append(records, repeat(10-i, withGroup(mk("A", 2010, 1), fmt.Sprintf("G%d", i)))...)
	}
	opts := DefaultOptions()
	opts.GroupPercentage = 30
	tree := Hierarchy(records, selection.NewState("A", nil, nil), opts).View.(viewmodel.HierarchyTree)
	require.Equal(t, 6, tree.Groups)
	require.Equal(t, []string{"G0", "G1"}, childNames(tree.Root))
}

func TestHierarchyNoAttributableGroups(t *testing.T) {
	records := []model.Incident{
		withGroup(mk("A", 2010, 1), "Unknown"),
		withSuccess(withGroup(mk("A", 2010, 1), "G1"), model.SuccessFailed),
	}
	res := Hierarchy(records, selection.NewState("A", nil, nil), DefaultOptions())
	nd, ok := res.View.(viewmodel.NoData)
	require.True(t, ok, "got %T", res.View)
	require.Equal(t, viewmodel.ViewGroups, nd.View)
	require.NotEmpty(t, nd.Reason)
}

func TestKeptGroupCount(t *testing.T) {
	cases := []struct {
		n, pct, want int
	}{
		{4, 10, 4},
		{5, 10, 1},
		{20, 10, 2},
		{21, 10, 3},
		{10, 100, 10},
		{10, 0, 1},
		{0, 50, 0},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, KeptGroupCount(tc.n, tc.pct), "n=%d pct=%d", tc.n, tc.pct)
	}
}
