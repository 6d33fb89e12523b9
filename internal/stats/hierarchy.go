package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/gtdash/internal/model"
	"github.com/verte-zerg/gtdash/internal/selection"
	"github.com/verte-zerg/gtdash/internal/viewmodel"
)

const (
	groupsHint     = "Select one or more countries on the map to view group activity"
	noGroupsReason = "No successful attacks by an identified group for the selected filters"
)

// Hierarchy builds the group-activity tree. Several countries give the simplified
// tree (country > group); one country gives the full tree
// (group > perpetrator category > target type). Only successful attacks become leaves.
func Hierarchy(records []model.Incident, sel selection.State, opts Options) Result {
	opts = opts.normalized()
	if sel.NeedsSelection(opts.Policy) {
		return Result{View: viewmodel.NeedsSelection{View: viewmodel.ViewGroups, Hint: groupsHint}}
	}

	quality := Quality{InvalidYear: invalidYears(records, sel)}
	filtered := sel.Apply(records)
	if len(filtered) == 0 {
		return Result{View: noData(viewmodel.ViewGroups), Quality: quality}
	}

	freq := make(map[string]int)
	for _, rec := range filtered {
		if name, ok := AttributableGroup(rec); ok {
			freq[name]++
		}
	}
	kept := keptGroups(freq, opts.GroupPercentage)

	var tree viewmodel.HierarchyTree
	if len(sel.Countries()) > 1 {
		tree, quality.MissingSuccess = simplifiedTree(filtered, kept)
	} else {
		tree, quality.MissingSuccess = fullTree(filtered, kept)
	}
	tree.Groups = len(freq)
	if tree.Root.Total() == 0 {
		return Result{View: viewmodel.NoData{View: viewmodel.ViewGroups, Reason: noGroupsReason}, Quality: quality}
	}
	sortTree(tree.Root)
	return Result{View: tree, Quality: quality}
}

// AttributableGroup returns the group name unless it is blank or a sentinel.
func AttributableGroup(rec model.Incident) (string, bool) {
	name := strings.TrimSpace(rec.GroupName)
	switch name {
	case "", UnknownLabel, UndefinedLabel:
		return "", false
	}
	return name, true
}

// KeptGroupCount is the number of groups retained for n groups at pct percent.
// Fewer than MinGroupsForPercentage groups are all kept.
func KeptGroupCount(n, pct int) int {
	if n < MinGroupsForPercentage {
		return n
	}
	k := int(math.Ceil(float64(n) * float64(ClampPercentage(pct)) / 100))
	if k < 1 {
		k = 1
	}
	return k
}

func keptGroups(freq map[string]int, pct int) map[string]struct{} {
	top := topLabels(freq, KeptGroupCount(len(freq), pct))
	kept := make(map[string]struct{}, len(top))
	for _, name := range top {
		kept[name] = struct{}{}
	}
	return kept
}

func simplifiedTree(records []model.Incident, kept map[string]struct{}) (viewmodel.HierarchyTree, int) {
	root := viewmodel.NewNode(RootLabel)
	missing := 0
	for _, rec := range records {
		name, ok := AttributableGroup(rec)
		if !ok {
			continue
		}
		if !rec.Success.Known() {
			missing++
			continue
		}
		if rec.Success != model.SuccessSucceeded {
			continue
		}
		if _, ok := kept[name]; !ok {
			name = OthersLabel
		}
		root.Ensure(rec.Country).Ensure(name).Ensure(SuccessLeaf).Value++
	}
	return viewmodel.HierarchyTree{Shape: viewmodel.TreeSimplified, Root: root}, missing
}

func fullTree(records []model.Incident, kept map[string]struct{}) (viewmodel.HierarchyTree, int) {
	inKept := func(rec model.Incident) (string, bool) {
		name, ok := AttributableGroup(rec)
		if !ok {
			return "", false
		}
		_, ok = kept[name]
		return name, ok
	}
	perps := newPerpCategorizer(records, inKept)

	root := viewmodel.NewNode(RootLabel)
	missing := 0
	for _, rec := range records {
		name, ok := inKept(rec)
		if !ok {
			continue
		}
		if !rec.Success.Known() {
			missing++
			continue
		}
		if rec.Success != model.SuccessSucceeded {
			continue
		}
		target := strings.TrimSpace(rec.TargetType)
		if target == "" {
			target = UnknownLabel
		}
		root.Ensure(name).Ensure(perps.label(name, rec)).Ensure(target).Ensure(SuccessLeaf).Value++
	}
	return viewmodel.HierarchyTree{Shape: viewmodel.TreeFull, Root: root}, missing
}

// sortTree orders children by total descending then name, with OthersLabel last.
func sortTree(n *viewmodel.Node) {
	if n.IsLeaf() {
		return
	}
	totals := make(map[*viewmodel.Node]int, len(n.Children))
	for _, c := range n.Children {
		sortTree(c)
		totals[c] = c.Total()
	}
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if (a.Name == OthersLabel) != (b.Name == OthersLabel) {
			return b.Name == OthersLabel
		}
		if totals[a] == totals[b] {
			return a.Name < b.Name
		}
		return totals[a] > totals[b]
	})
}
