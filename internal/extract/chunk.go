package extract

import (
	"strings"

	"github.com/a-menaf-altintas/codescan/internal/lang"
)

// UnnamedEntity is the name used when a match binds nothing under the name
// capture.
const UnnamedEntity = "Unnamed"

// Entity is one extracted code chunk. Lines are 1-indexed; bytes are the
// 0-indexed half-open span the code was sliced from.
type Entity struct {
	FilePath  string          `json:"file_path"`
	Kind      lang.EntityKind `json:"entity_type"`
	Name      string          `json:"entity_name"`
	StartLine int             `json:"start_line"`
	EndLine   int             `json:"end_line"`
	Code      string          `json:"code_content"`
	StartByte int             `json:"-"`
	EndByte   int             `json:"-"`
}

// Build turns a match into an Entity. The span is the union of every
// captured node: the minimum start byte to the maximum end byte, with lines
// taken from the nodes at either end. It returns false when the match bound
// no nodes.
func Build(path string, kind lang.EntityKind, m *Match, nameCapture string, source []byte) (Entity, bool) {
	nodes := m.Nodes()
	if len(nodes) == 0 {
		return Entity{}, false
	}

	first, last := nodes[0], nodes[0]
	for _, n := range nodes[1:] {
		if n.StartByte < first.StartByte {
			first = n
		}
		if n.EndByte > last.EndByte {
			last = n
		}
	}

	name := UnnamedEntity
	if n, ok := m.First(nameCapture); ok {
		name = text(source, n.StartByte, n.EndByte)
	}

	return Entity{
		FilePath:  path,
		Kind:      kind,
		Name:      name,
		StartLine: int(first.StartRow) + 1,
		EndLine:   int(last.EndRow) + 1,
		Code:      text(source, first.StartByte, last.EndByte),
		StartByte: int(first.StartByte),
		EndByte:   int(last.EndByte),
	}, true
}

// text slices source and replaces invalid UTF-8 with U+FFFD.
func text(source []byte, start, end uint) string {
	if end > uint(len(source)) {
		end = uint(len(source))
	}
	if start > end {
		return ""
	}
	return strings.ToValidUTF8(string(source[start:end]), "\uFFFD")
}
