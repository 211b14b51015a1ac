package domain

// RootNodeID is the id of the synthetic search tree root.
const RootNodeID = "root"

// SearchNode is one decision of the solver's search. Parent and Children
// are indices into the owning tree's node arena; Parent is -1 for the root.
type SearchNode struct {
	ID            string     `json:"id"`
	ParentID      string     `json:"parentId,omitempty"`
	Parent        int        `json:"-"`
	Children      []int      `json:"-"`
	DecisionLevel int        `json:"decisionLevel"`
	TaskID        string     `json:"taskId"`
	TaskName      string     `json:"taskName"`
	Value         int        `json:"value"`
	Timestamp     int        `json:"timestamp"`
	Status        NodeStatus `json:"status"`
	X             float64    `json:"x"`
	Y             float64    `json:"y"`
}

// IsRoot reports whether the node is the synthetic root.
func (n *SearchNode) IsRoot() bool {
	return n.Parent < 0
}
