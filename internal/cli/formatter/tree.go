package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/alexanderramin/schedtrace/internal/replay"
	"github.com/charmbracelet/lipgloss"
)

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// TreeOptions controls which annotations RenderSearchTree adds.
type TreeOptions struct {
	// ShowPositions appends the computed layout coordinates to each node.
	ShowPositions bool
}

type treeLine struct {
	content string
	badge   string
}

// RenderSearchTree draws the search tree with box-drawing connectors. Nodes
// on the active path are highlighted, backtracked nodes are dimmed, and the
// decision level is shown as a right-aligned badge.
func RenderSearchTree(t *replay.Tree, opts TreeOptions) string {
	if t == nil || t.Len() == 0 {
		return ""
	}

	onPath := make(map[string]bool)
	for _, id := range t.CurrentPath() {
		onPath[id] = true
	}

	var lines []treeLine
	var walk func(id, prefix string, last, top bool)
	walk = func(id, prefix string, last, top bool) {
		node, _ := t.Node(id)
		connector, childPrefix := "", ""
		if !top {
			connector = treeBranch
			childPrefix = prefix + treePipe
			if last {
				connector = treeCorner
				childPrefix = prefix + treeBlank
			}
		}
		line := treeLine{content: prefix + connector + nodeLabel(node, onPath[id], t.IsVisible(id))}
		if !node.IsRoot() {
			line.badge = StyleBlue.Render(fmt.Sprintf("[ L%d ]", node.DecisionLevel))
		}
		if opts.ShowPositions {
			line.badge += Dim(fmt.Sprintf(" (%.0f, %.0f)", node.X, node.Y))
		}
		lines = append(lines, line)

		children := t.ChildIDs(id)
		for i, c := range children {
			walk(c, childPrefix, i == len(children)-1, false)
		}
	}
	walk(t.RootID, "", true, true)

	width := 0
	for _, l := range lines {
		width = max(width, lipgloss.Width(l.content))
	}

	var b strings.Builder
	for _, l := range lines {
		if l.badge == "" {
			b.WriteString(l.content + "\n")
			continue
		}
		pad := width - lipgloss.Width(l.content)
		b.WriteString(l.content + strings.Repeat(" ", pad) + "  " + l.badge + "\n")
	}
	return b.String()
}

func nodeLabel(n *domain.SearchNode, active, visible bool) string {
	if n.IsRoot() {
		return StyleBold.Render(n.TaskName)
	}
	title := fmt.Sprintf("%s @ %d", n.TaskName, n.Value)
	id := Dim(n.ID + " ")

	switch {
	case !visible:
		return id + StyleDim.Render("✖ "+title)
	case n.Status == domain.NodeSolution:
		return id + StyleGreen.Render("✔ "+title)
	case n.Status == domain.NodePruned:
		return id + StyleRed.Render("⊘ "+title)
	case active:
		return id + StyleYellowBold.Render("▶ "+title)
	default:
		return id + NodeStatusStyle(n.Status).Render(title)
	}
}

// FormatPath renders the active path as "root → n1 → n2".
func FormatPath(t *replay.Tree) string {
	path := t.CurrentPath()
	parts := make([]string, len(path))
	for i, id := range path {
		parts[i] = id
		if i == len(path)-1 {
			parts[i] = StyleYellowBold.Render(id)
		}
	}
	return strings.Join(parts, Dim(" → "))
}
