package replay

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeAtTime_Empty(t *testing.T) {
	tree := TreeAtTime(nil, 0)
	assert.Equal(t, 1, tree.Len())
	assert.Equal(t, []string{domain.RootNodeID}, tree.CurrentPath())
	assert.Equal(t, 0, tree.MaxDecisionLevel)
	assert.True(t, tree.IsVisible(domain.RootNodeID))
	assert.Equal(t, 400.0, tree.Root().X)
	assert.Equal(t, 60.0, tree.Root().Y)
}

func TestTreeAtTime_SoftwareProjectBacktrack(t *testing.T) {
	events := testutil.SoftwareProjectEvents()

	before := TreeAtTime(events, 3)
	assert.Equal(t, []string{"root", "n1", "n2", "n3"}, before.CurrentPath())
	assert.Equal(t, 3, before.MaxDecisionLevel)

	after := TreeAtTime(events, 4)
	assert.Equal(t, []string{"root", "n1", "n2"}, after.CurrentPath())
	assert.False(t, after.IsVisible("n3"))
	n3, ok := after.Node("n3")
	require.True(t, ok, "popped nodes stay in the tree")
	assert.Equal(t, "n2", n3.ParentID)

	final := TreeAtTime(events, 9)
	assert.Equal(t, []string{"root", "n1", "n2", "n4", "n5", "n6"}, final.CurrentPath())
	assert.Equal(t, 7, final.Len())
	assert.Equal(t, 5, final.MaxDecisionLevel)
	assert.Equal(t, []string{"n3", "n4"}, final.ChildIDs("n2"))
	assert.Equal(t, []string{"root", "n1", "n2", "n4", "n5", "n6"}, final.VisibleIDs())

	assert.True(t, final.IsEdgeActive("n4"))
	assert.False(t, final.IsEdgeActive("n3"))
	assert.False(t, final.IsEdgeActive(domain.RootNodeID))
	assert.False(t, final.IsEdgeActive("missing"))

	n4, _ := final.Node("n4")
	assert.Equal(t, 7, n4.Value)
	assert.Equal(t, "Implementation", n4.TaskName)
	assert.Equal(t, domain.NodeCreated, n4.Status)
}

func TestTree_IgnoresUnrelatedEvents(t *testing.T) {
	tree := NewTree()
	tree.Apply(testutil.Assign("1", "A", 0, 0, 1))
	tree.Apply(testutil.NewEvent(domain.EventRemove, "1", 0))
	tree.Apply(testutil.NewEvent(domain.EventStart, "1", 0, testutil.WithNode("x", "")))
	assert.Equal(t, 1, tree.Len())
	assert.Equal(t, []string{"root"}, tree.CurrentPath())
}

func TestTree_DegenerateParents(t *testing.T) {
	tree := NewTree()
	tree.Apply(testutil.Decision("1", "A", 0, 0, 1, 1, "a", "ghost"))
	tree.Apply(testutil.Decision("2", "B", 1, 1, 2, 2, "b", "b"))
	tree.Apply(testutil.Decision("3", "C", 2, 2, 3, 3, "c", "a"))

	a, _ := tree.Node("a")
	b, _ := tree.Node("b")
	assert.Equal(t, domain.RootNodeID, a.ParentID, "unknown parent attaches to root")
	assert.Equal(t, domain.RootNodeID, b.ParentID, "self parent attaches to root")
	assert.Equal(t, []string{"a", "b"}, tree.ChildIDs(domain.RootNodeID))

	// Re-using "a" under its own descendant would form a cycle.
	tree.Apply(testutil.Decision("1", "A", 3, 5, 6, 4, "a", "c"))
	a, _ = tree.Node("a")
	assert.Equal(t, domain.RootNodeID, a.ParentID)
	assert.Equal(t, 5, a.Value)
	assert.Equal(t, 4, tree.Len(), "re-used ids update in place")

	// A legal move detaches from the old parent.
	tree.Apply(testutil.Decision("3", "C", 4, 2, 3, 3, "c", "b"))
	assert.Equal(t, []string{"c"}, tree.ChildIDs("b"))
	assert.Empty(t, tree.ChildIDs("a"))

	ComputeLayout(tree, DefaultLayoutParams())
}

func TestTree_NegativeBacktrackKeepsRoot(t *testing.T) {
	tree := NewTree()
	tree.Apply(testutil.Decision("1", "A", 0, 0, 1, 1, "a", ""))
	tree.Apply(testutil.Backtrack("1", 1, -3))
	assert.Equal(t, []string{"root"}, tree.CurrentPath())
	assert.True(t, tree.IsVisible("root"))
	assert.False(t, tree.IsVisible("a"))
}

// A log whose timestamps go backwards is filtered event by event, the same
// way the snapshot is: a later, older event still counts.
func TestTreeAtTime_NonMonotonicTimestamps(t *testing.T) {
	events := []domain.Event{
		testutil.Decision("1", "A", 1, 0, 3, 1, "a", "root"),
		testutil.Decision("2", "B", 5, 3, 6, 2, "b", "a"),
		testutil.Decision("3", "C", 2, 0, 2, 1, "c", "root"),
	}

	tree := TreeAtTime(events, 3)
	assert.True(t, tree.IsVisible("a"))
	assert.True(t, tree.IsVisible("c"))
	_, ok := tree.Node("b")
	assert.False(t, ok, "events after t are skipped")
	assert.Equal(t, []string{"root", "a", "c"}, tree.CurrentPath())

	ids := make([]string, 0)
	for _, task := range TasksAtTime(events, 3) {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"1", "3"}, ids)
}

func TestTree_NodeStatusFromEvent(t *testing.T) {
	tree := NewTree()
	tree.Apply(testutil.Assign("1", "A", 0, 0, 1,
		testutil.WithNode("a", ""), testutil.WithNodeStatus(domain.NodeSolution)))
	a, _ := tree.Node("a")
	assert.Equal(t, domain.NodeSolution, a.Status)
}

// TestTree_BacktrackShrinksPathToLevelPlusOne property-tests that a
// backtrack to L leaves exactly L+1 path entries however many decisions
// came before it.
func TestTree_BacktrackShrinksPathToLevelPlusOne(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		tree := NewTree()
		node := 0
		for step := 0; step < 20; step++ {
			pushes := rng.Intn(6)
			for i := 0; i < pushes; i++ {
				node++
				path := tree.CurrentPath()
				parent := path[len(path)-1]
				tree.Apply(testutil.Decision("1", "A", step, 0, 1, len(path), fmt.Sprintf("n%d", node), parent))
			}
			depth := len(tree.CurrentPath())
			level := rng.Intn(depth)
			tree.Apply(testutil.Backtrack("1", step, level))
			require.Len(t, tree.CurrentPath(), level+1, "trial %d step %d", trial, step)
			for _, id := range tree.CurrentPath() {
				assert.True(t, tree.IsVisible(id))
			}
		}
	}
}
