package parser

import (
	"fmt"
	"io"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// NodeText returns the text content of a node.
func NodeText(node *tree_sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// Dump writes an indented outline of the tree under node: kind, field name,
// 1-indexed line span and a clipped excerpt of the node text.
func Dump(w io.Writer, node *tree_sitter.Node, source []byte, maxText int) {
	dump(w, node, "", source, maxText, 0)
}

func dump(w io.Writer, node *tree_sitter.Node, field string, source []byte, maxText, depth int) {
	if node == nil {
		return
	}
	text := strings.ReplaceAll(NodeText(node, source), "\n", "\\n")
	if maxText > 0 && len(text) > maxText {
		text = text[:maxText] + "..."
	}
	label := node.Kind()
	if field != "" {
		label = field + ": " + label
	}
	if !node.IsNamed() {
		label = fmt.Sprintf("%q", node.Kind())
	}
	fmt.Fprintf(w, "%s%s [%d-%d] %q\n",
		strings.Repeat("  ", depth), label,
		node.StartPosition().Row+1, node.EndPosition().Row+1, text)
	for i := uint(0); i < node.ChildCount(); i++ {
		dump(w, node.Child(i), node.FieldNameForChild(uint32(i)), source, maxText, depth+1)
	}
}
