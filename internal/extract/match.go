package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// CapturedNode is the span of one syntax node bound by a capture, copied out
// of the tree so it outlives the query cursor. Rows are 0-indexed.
type CapturedNode struct {
	StartByte uint
	EndByte   uint
	StartRow  uint
	EndRow    uint
}

func capturedNode(n *tree_sitter.Node) CapturedNode {
	return CapturedNode{
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
		StartRow:  n.StartPosition().Row,
		EndRow:    n.EndPosition().Row,
	}
}

// Match is one logical match of a pattern: every node bound under every
// capture label, grouped by label. Labels keep the order in which they were
// first bound.
type Match struct {
	PatternIndex uint
	Captures     map[string][]CapturedNode
	labels       []string
}

// Add binds node under label.
func (m *Match) Add(label string, node CapturedNode) {
	if m.Captures == nil {
		m.Captures = map[string][]CapturedNode{}
	}
	if _, ok := m.Captures[label]; !ok {
		m.labels = append(m.labels, label)
	}
	m.Captures[label] = append(m.Captures[label], node)
}

// Labels returns the bound labels in binding order.
func (m *Match) Labels() []string {
	return m.labels
}

// Nodes returns every bound node across all labels.
func (m *Match) Nodes() []CapturedNode {
	var out []CapturedNode
	for _, label := range m.labels {
		out = append(out, m.Captures[label]...)
	}
	return out
}

// First returns the first node bound under label.
func (m *Match) First(label string) (CapturedNode, bool) {
	nodes := m.Captures[label]
	if len(nodes) == 0 {
		return CapturedNode{}, false
	}
	return nodes[0], true
}

// Empty reports whether the match bound no nodes.
func (m *Match) Empty() bool {
	for _, nodes := range m.Captures {
		if len(nodes) > 0 {
			return false
		}
	}
	return true
}

// Matches runs q over the tree rooted at root and returns one Match per
// logical match, in the order the cursor yields them (source order).
// Captures are copied immediately: the cursor reuses its match buffer.
func Matches(q *tree_sitter.Query, root *tree_sitter.Node, source []byte) []Match {
	names := q.CaptureNames()
	qc := tree_sitter.NewQueryCursor()
	defer qc.Close()

	var out []Match
	it := qc.Matches(q, root, source)
	for qm := it.Next(); qm != nil; qm = it.Next() {
		m := Match{PatternIndex: qm.PatternIndex}
		for _, c := range qm.Captures {
			label := ""
			if int(c.Index) < len(names) {
				label = names[c.Index]
			}
			m.Add(label, capturedNode(&c.Node))
		}
		out = append(out, m)
	}
	return out
}
