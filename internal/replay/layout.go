package replay

// LayoutParams are the fixed units of the tidy tree layout.
type LayoutParams struct {
	NodeWidth         float64
	HorizontalSpacing float64
	VerticalSpacing   float64
	RootX             float64
	RootY             float64
}

func DefaultLayoutParams() LayoutParams {
	return LayoutParams{
		NodeWidth:         120,
		HorizontalSpacing: 40,
		VerticalSpacing:   80,
		RootX:             400,
		RootY:             60,
	}
}

// ComputeLayout assigns X and Y to every node reachable from the root. A
// leaf is NodeWidth wide; an inner node spans its children plus the spacing
// between them. Children are laid out left to right under their parent,
// each centred in its own subtree width.
func ComputeLayout(t *Tree, p LayoutParams) {
	widths := make([]float64, len(t.Nodes))
	subtreeWidth(t, 0, p, widths)
	place(t, 0, p.RootX, p.RootY, p, widths)
}

func subtreeWidth(t *Tree, idx int, p LayoutParams, widths []float64) float64 {
	children := t.Nodes[idx].Children
	if len(children) == 0 {
		widths[idx] = p.NodeWidth
		return p.NodeWidth
	}
	total := 0.0
	for i, c := range children {
		total += subtreeWidth(t, c, p, widths)
		if i < len(children)-1 {
			total += p.HorizontalSpacing
		}
	}
	widths[idx] = max(p.NodeWidth, total)
	return widths[idx]
}

func place(t *Tree, idx int, x, y float64, p LayoutParams, widths []float64) {
	node := &t.Nodes[idx]
	node.X = x
	node.Y = y

	cursor := x - widths[idx]/2
	for _, c := range node.Children {
		place(t, c, cursor+widths[c]/2, y+p.VerticalSpacing, p, widths)
		cursor += widths[c] + p.HorizontalSpacing
	}
}
