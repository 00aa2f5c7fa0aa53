package diag

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCountsAndOrder(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	r.Report(Diagnostic{Kind: GrammarUnavailable, Language: "kotlin", Err: errors.New("abi mismatch")})
	r.Report(Diagnostic{Kind: EmptyMatch, Language: "java", Path: "A.java"})
	r.Report(Diagnostic{Kind: ParseFailure, Language: "java", Path: "B.java"})

	got := r.Diagnostics()
	require.Len(t, got, 3)
	assert.Equal(t, GrammarUnavailable, got[0].Kind)
	assert.Equal(t, "abi mismatch", got[0].Message)
	assert.Equal(t, ParseFailure, got[2].Kind)

	assert.Equal(t, 1, r.Count(EmptyMatch))
	assert.Equal(t, 0, r.Count(ReadFailure))
	assert.Equal(t, map[Kind]int{GrammarUnavailable: 1, EmptyMatch: 1, ParseFailure: 1}, r.Summary())
	assert.Equal(t, []Kind{EmptyMatch, GrammarUnavailable, ParseFailure}, r.Kinds())

	out := buf.String()
	assert.Contains(t, out, "grammar_unavailable")
	assert.Contains(t, out, "B.java")
	assert.False(t, strings.Contains(out, "A.java"), "empty match should log at debug")
}

func TestDiagnosticsIsACopy(t *testing.T) {
	r := NewRecorder(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	r.Report(Diagnostic{Kind: ReadFailure, Path: "x"})
	d := r.Diagnostics()
	d[0].Path = "changed"
	assert.Equal(t, "x", r.Diagnostics()[0].Path)
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Kind: PatternCompileError, Language: "go", Err: fmt.Errorf("bad node %q", "foo")}
	assert.Equal(t, `pattern_compile_error lang=go: bad node "foo"`, d.String())
}
