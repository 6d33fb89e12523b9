// Package zoom implements sunburst drill-down as pure state transitions.
package zoom

import "github.com/verte-zerg/gtdash/internal/viewmodel"

// State is the focused node plus the ancestors to return to.
// An empty history means the root is in focus.
type State struct {
	focus   *viewmodel.Node
	history []*viewmodel.Node
}

// Root returns the initial state focused on the tree root.
func Root(root *viewmodel.Node) State {
	return State{focus: root}
}

// ZoomIn focuses node and pushes the current focus. Leaves and nil nodes leave s unchanged.
func ZoomIn(s State, node *viewmodel.Node) State {
	if node == nil || node.IsLeaf() || node == s.focus {
		return s
	}
	history := make([]*viewmodel.Node, len(s.history), len(s.history)+1)
	copy(history, s.history)
	return State{focus: node, history: append(history, s.focus)}
}

// ZoomOut pops back to the previous focus. At the root it leaves s unchanged.
func ZoomOut(s State) State {
	if len(s.history) == 0 {
		return s
	}
	n := len(s.history) - 1
	history := make([]*viewmodel.Node, n)
	copy(history, s.history[:n])
	return State{focus: s.history[n], history: history}
}

// Reset returns to the root of the history.
func Reset(s State) State {
	if len(s.history) == 0 {
		return s
	}
	return State{focus: s.history[0]}
}

// Focus returns the node currently in focus.
func (s State) Focus() *viewmodel.Node {
	return s.focus
}

// AtRoot reports whether no zoom is applied.
func (s State) AtRoot() bool {
	return len(s.history) == 0
}

// CanGoBack reports whether the back control should be shown.
func (s State) CanGoBack() bool {
	return len(s.history) > 0
}

// Depth is the number of zoom steps from the root.
func (s State) Depth() int {
	return len(s.history)
}

// Path returns node names from the root to the focus.
func (s State) Path() []string {
	path := make([]string, 0, len(s.history)+1)
	for _, n := range s.history {
		path = append(path, n.Name)
	}
	if s.focus != nil {
		path = append(path, s.focus.Name)
	}
	return path
}
