package replay

import (
	"github.com/alexanderramin/schedtrace/internal/domain"
)

// Tree is the solver's search tree at one cursor time. Nodes live in a flat
// arena; parent and child links are arena indices. Index 0 is the root.
type Tree struct {
	Nodes            []domain.SearchNode
	RootID           string
	MaxDecisionLevel int

	index   map[string]int
	path    []int
	visible []bool
}

// NewTree returns a tree holding only the synthetic root.
func NewTree() *Tree {
	t := &Tree{
		RootID: domain.RootNodeID,
		index:  map[string]int{domain.RootNodeID: 0},
	}
	t.Nodes = append(t.Nodes, domain.SearchNode{
		ID:       domain.RootNodeID,
		Parent:   -1,
		TaskID:   domain.RootNodeID,
		TaskName: "Root",
		Status:   domain.NodeCreated,
	})
	t.visible = append(t.visible, true)
	t.path = []int{0}
	return t
}

// TreeAtTime replays every event with timestamp <= t and lays out the
// resulting tree with the default parameters.
func TreeAtTime(events []domain.Event, t int) *Tree {
	tree := NewTree()
	for i := range events {
		if events[i].Timestamp <= t {
			tree.Apply(events[i])
		}
	}
	ComputeLayout(tree, DefaultLayoutParams())
	return tree
}

// Apply folds one event into the tree. Only assign events with a node id and
// remove events with a backtrack level change it.
func (t *Tree) Apply(e domain.Event) {
	switch {
	case e.Type == domain.EventAssign && e.NodeID != "":
		t.addDecision(e)
	case e.Type == domain.EventRemove && e.BacktrackToLevel != nil:
		t.backtrack(*e.BacktrackToLevel)
	}
}

func (t *Tree) addDecision(e domain.Event) {
	if e.NodeID == domain.RootNodeID {
		return
	}
	parent := t.resolveParent(e.ParentNodeID, e.NodeID)

	idx, exists := t.index[e.NodeID]
	if !exists {
		idx = len(t.Nodes)
		t.index[e.NodeID] = idx
		t.Nodes = append(t.Nodes, domain.SearchNode{ID: e.NodeID, Parent: -1})
		t.visible = append(t.visible, false)
	}
	if exists && t.isAncestor(idx, parent) {
		parent = 0
	}

	node := &t.Nodes[idx]
	node.DecisionLevel = e.Level()
	node.TaskID = e.TaskID
	node.TaskName = domain.CoalesceStr(e.TaskName, e.TaskID)
	node.Value = domain.IntFromPtrWithDefault(0, e.StartTime)
	node.Timestamp = e.Timestamp
	node.Status = domain.NodeCreated
	if e.NodeStatus != "" {
		node.Status = e.NodeStatus
	}

	if node.Parent != parent {
		if node.Parent >= 0 {
			t.detach(idx)
		}
		node.Parent = parent
		node.ParentID = t.Nodes[parent].ID
		t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
	}

	t.path = append(t.path, idx)
	t.visible[idx] = true
	if node.DecisionLevel > t.MaxDecisionLevel {
		t.MaxDecisionLevel = node.DecisionLevel
	}
}

// resolveParent maps a parent id to an arena index; unknown, empty and
// self references attach to the root.
func (t *Tree) resolveParent(parentID, nodeID string) int {
	if parentID == "" || parentID == nodeID {
		return 0
	}
	if idx, ok := t.index[parentID]; ok {
		return idx
	}
	return 0
}

// isAncestor reports whether node is on the root path of candidate,
// including candidate itself.
func (t *Tree) isAncestor(node, candidate int) bool {
	for i := candidate; i >= 0; i = t.Nodes[i].Parent {
		if i == node {
			return true
		}
	}
	return false
}

func (t *Tree) detach(idx int) {
	parent := &t.Nodes[t.Nodes[idx].Parent]
	for i, c := range parent.Children {
		if c == idx {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			return
		}
	}
}

// backtrack retracts the active path to exactly level+1 entries. The root
// always stays.
func (t *Tree) backtrack(level int) {
	keep := max(level+1, 1)
	for len(t.path) > keep {
		popped := t.path[len(t.path)-1]
		t.path = t.path[:len(t.path)-1]
		if !t.onPath(popped) {
			t.visible[popped] = false
		}
	}
}

func (t *Tree) onPath(idx int) bool {
	for _, p := range t.path {
		if p == idx {
			return true
		}
	}
	return false
}

// Node returns the node with the given id.
func (t *Tree) Node(id string) (*domain.SearchNode, bool) {
	idx, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return &t.Nodes[idx], true
}

// Root returns the synthetic root.
func (t *Tree) Root() *domain.SearchNode {
	return &t.Nodes[0]
}

// Len returns the number of nodes including the root.
func (t *Tree) Len() int {
	return len(t.Nodes)
}

// CurrentPath returns the ids on the active path, root first.
func (t *Tree) CurrentPath() []string {
	ids := make([]string, len(t.path))
	for i, idx := range t.path {
		ids[i] = t.Nodes[idx].ID
	}
	return ids
}

// IsVisible reports whether the node is still on the active path.
func (t *Tree) IsVisible(id string) bool {
	idx, ok := t.index[id]
	return ok && t.visible[idx]
}

// VisibleIDs returns the visible node ids in creation order.
func (t *Tree) VisibleIDs() []string {
	var ids []string
	for i, v := range t.visible {
		if v {
			ids = append(ids, t.Nodes[i].ID)
		}
	}
	return ids
}

// IsEdgeActive reports whether the edge from the node to its parent has
// both endpoints on the active path.
func (t *Tree) IsEdgeActive(id string) bool {
	idx, ok := t.index[id]
	if !ok || t.Nodes[idx].Parent < 0 {
		return false
	}
	return t.onPath(idx) && t.onPath(t.Nodes[idx].Parent)
}

// ChildIDs returns the ids of the node's children in insertion order.
func (t *Tree) ChildIDs(id string) []string {
	idx, ok := t.index[id]
	if !ok {
		return nil
	}
	children := t.Nodes[idx].Children
	ids := make([]string, len(children))
	for i, c := range children {
		ids[i] = t.Nodes[c].ID
	}
	return ids
}
