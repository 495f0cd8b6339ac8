// internal/report/breakdown.go
package report

// Node is one level of a sector-traffic breakdown tree. A node without
// addends of its own sums the addends of its children.
type Node struct {
	Label    string   `yaml:"label"`
	Addends  []string `yaml:"addends"`
	Children []Node   `yaml:"children"`
}

const lookupHitSuffix = "_lookup_hit"

// NewNode builds a node, filling empty addends from the children.
func NewNode(label string, addends []string, children ...Node) Node {
	n := Node{Label: label, Addends: addends, Children: children}
	n.resolve()
	return n
}

// resolve applies the addend fallback bottom-up. Trees decoded from a
// catalog file are resolved once after loading.
func (n *Node) resolve() {
	for i := range n.Children {
		n.Children[i].resolve()
	}
	if len(n.Addends) > 0 {
		return
	}
	var addends []string
	for _, child := range n.Children {
		addends = append(addends, child.Addends...)
	}
	n.Addends = addends
}

func resolveNodes(nodes []Node) {
	for i := range nodes {
		nodes[i].resolve()
	}
}

// RequiredRatios lists every addend of the tree and its "_lookup_hit"
// companion, depth first.
func RequiredRatios(nodes []Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.Addends...)
		for _, a := range n.Addends {
			out = append(out, a+lookupHitSuffix)
		}
		out = append(out, RequiredRatios(n.Children)...)
	}
	return out
}

// sectorStats sums the addends' sector and hit percentages.
func sectorStats(m *Metrics, addends []string) (sectorPct, hitRate float64) {
	var hitPct float64
	for _, a := range addends {
		sectorPct += m.RatioPct(Ref(a)).Float()
		hitPct += m.RatioPct(Ref(a + lookupHitSuffix)).Float()
	}
	return sectorPct, SafeDiv(hitPct, sectorPct) * 100
}

// L1RowSpan is the number of table rows a node occupies when every level is
// always expanded.
func L1RowSpan(n Node) int {
	span := 0
	for _, child := range n.Children {
		span += L1RowSpan(child)
	}
	if span < 1 {
		return 1
	}
	return span
}

// Depth is the number of levels in the subtree rooted at n.
func Depth(n Node) int {
	deepest := 0
	for _, child := range n.Children {
		if d := Depth(child); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

type breakdownWriter struct {
	env  *Env
	rows []*Row
	// collapse folds subtrees with no traffic into one row.
	collapse bool
}

func (w *breakdownWriter) newRow() *Row {
	r := &Row{}
	w.rows = append(w.rows, r)
	return r
}

// rowSpan returns the rows a node occupies and whether its children are
// written.
func (w *breakdownWriter) rowSpan(n Node) (int, bool) {
	if !w.collapse {
		return L1RowSpan(n), true
	}
	sectorPct, _ := sectorStats(w.env.Metrics, n.Addends)
	if !(sectorPct > 0) {
		return 1, false
	}
	span := 0
	for _, child := range n.Children {
		s, _ := w.rowSpan(child)
		span += s
	}
	if span < 1 {
		span = 1
	}
	return span, true
}

// write emits nodes starting in row cur; every sibling after the first starts
// a new row.
func (w *breakdownWriter) write(cur *Row, nodes []Node) {
	for i, n := range nodes {
		if i > 0 {
			cur = w.newRow()
		}
		sectorPct, hitRate := sectorStats(w.env.Metrics, n.Addends)
		span, expand := w.rowSpan(n)
		pct := Num(sectorPct)
		*cur = append(*cur,
			rawCell("la subhdr", n.Label).spans(span, 0),
			cell("ra", w.env.Format.Pct(Num(hitRate), defaultDigit)).spans(span, 0),
			cell("ra", w.env.Format.Pct(pct, defaultDigit)).spans(span, 0),
			textCell("la comp", ToBarChart(pct, BarChar)).spans(span, 0),
		)
		if expand {
			w.write(cur, n.Children)
			continue
		}
		for d := 1; d < Depth(n); d++ {
			*cur = append(*cur, textCell("la subhdr", ""), textCell("ra", ""), textCell("ra", ""), textCell("la comp", ""))
		}
	}
}

// BreakdownRows renders a breakdown tree into table rows. With collapse set,
// a node whose sector percentage is not positive occupies a single row and
// its missing levels are padded with empty cells.
func BreakdownRows(env *Env, nodes []Node, collapse bool) []Row {
	w := &breakdownWriter{env: env, collapse: collapse}
	w.write(w.newRow(), nodes)
	out := make([]Row, len(w.rows))
	for i, r := range w.rows {
		out[i] = *r
	}
	return out
}
