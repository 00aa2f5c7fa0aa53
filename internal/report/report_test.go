package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-menaf-altintas/codescan/internal/diag"
	"github.com/a-menaf-altintas/codescan/internal/extract"
	"github.com/a-menaf-altintas/codescan/internal/lang"
	"github.com/a-menaf-altintas/codescan/internal/pipeline"
)

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		Root:         "/src/shop",
		ProjectName:  "shop",
		Summary:      "# Shop",
		Instructions: "Be precise.",
		Config: pipeline.ScanConfig{
			IncludeExts: []string{".go", ".java"},
			ScanArea:    "backend",
		},
		Directories: []string{".", "backend/order"},
		Files: []pipeline.FileRecord{
			{Path: "backend/order/Order.java", Type: "java", Language: lang.Java, Outcome: extract.Extracted, Chunks: 1, Tokens: 10},
		},
		Chunks: []extract.Entity{
			{FilePath: "backend/order/Order.java", Kind: lang.Class, Name: "Order", StartLine: 1, EndLine: 3, Code: "class Order { List<String> a = x && y; }"},
		},
		Stats: pipeline.Stats{
			TotalFiles:    2,
			IncludedFiles: 1,
			CodeTokens:    10,
			TotalTokens:   12,
			ModuleTokens:  map[string]int{"order": 10},
			Chunks:        1,
			ChunksByKind:  map[lang.EntityKind]int{lang.Class: 1},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, `"code_content": "class Order { List<String> a = x && y; }"`, "code must not be HTML-escaped")
	assert.Contains(t, out, "\n  \"project_name\": \"shop\"")
	assert.NotContains(t, out, "files_by_directory")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	for _, key := range []string{"project_name", "project_summary", "llm_instructions", "scan_config", "directories", "files", "code_chunks"} {
		assert.Contains(t, doc, key)
	}

	cfg := doc["scan_config"].(map[string]any)
	assert.Nil(t, cfg["include_only_module"])
	assert.Equal(t, "backend", cfg["scan_area"])

	chunk := doc["code_chunks"].([]any)[0].(map[string]any)
	assert.Equal(t, "CLASS", chunk["entity_type"])
	assert.Equal(t, "Order", chunk["entity_name"])
	assert.Equal(t, float64(1), chunk["start_line"])
	assert.NotContains(t, chunk, "StartByte")
}

func TestWriteJSONEmptyListsAreArrays(t *testing.T) {
	res := &pipeline.Result{ProjectName: "empty"}
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, res))
	assert.Contains(t, buf.String(), `"code_chunks": []`)
	assert.Contains(t, buf.String(), `"files": []`)
	assert.Contains(t, buf.String(), `"directories": []`)
}

func TestWriteJSONNamesOnly(t *testing.T) {
	res := sampleResult()
	res.Config.NamesOnly = true
	res.Chunks = nil
	res.FilesByDirectory = map[string][]string{".": {pipeline.NoFilesMarker}, "backend/order": {"Order.java"}}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, res))
	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []string{"Order.java"}, doc.FilesByDirectory["backend/order"])
	assert.True(t, doc.ScanConfig.NamesOnly)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleResult()))
	out := buf.String()

	wantInOrder := []string{
		"Project Name: shop\n",
		"Project Summary:\n# Shop\n",
		"\nScan Configuration:\n- Include extensions: .go, .java\n",
		"- Scan area: backend\n",
		"[DIR] .\n[DIR] backend/order\n",
		"=== backend/order/Order.java :: CLASS Order (lines 1-3) ===\nclass Order",
		"\nLLM Instructions:\nBe precise.\n",
	}
	pos := 0
	for _, want := range wantInOrder {
		i := strings.Index(out[pos:], want)
		if i < 0 {
			t.Fatalf("missing %q after offset %d in:\n%s", want, pos, out)
		}
		pos += i + len(want)
	}
	assert.NotContains(t, out, "Include only module")
}

func TestWriteTextNamesOnly(t *testing.T) {
	res := sampleResult()
	res.Config.NamesOnly = true
	res.Chunks = nil
	res.FilesByDirectory = map[string][]string{".": {pipeline.NoFilesMarker}, "backend/order": {"Order.java", "Menu.java"}}

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, res))
	assert.Contains(t, buf.String(), "[DIR] backend/order\nFiles: /Order.java /Menu.java\n")
	assert.Contains(t, buf.String(), "- Including only file names in path\n")
}

func TestWriteStats(t *testing.T) {
	res := sampleResult()
	res.Diagnostics = []diag.Diagnostic{{Kind: diag.ParseFailure, Path: "x.go", Message: "boom"}}

	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, res))
	out := buf.String()
	assert.Contains(t, out, "Total token count: 12")
	assert.Contains(t, out, "1. Module 'order': 10 tokens (83.3%)")
	assert.Contains(t, out, "- CLASS: 1")
	assert.Contains(t, out, "Diagnostics: 1")

	res.Config.NamesOnly = true
	buf.Reset()
	require.NoError(t, WriteStats(&buf, res))
	assert.Contains(t, buf.String(), "Token statistics not available")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteTextPropagatesError(t *testing.T) {
	err := WriteText(failingWriter{}, sampleResult())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want Paths
	}{
		{"default", "", Paths{JSON: "/work/shop_ast_scan.json", Text: "/work/shop_ast_scan.txt"}},
		{"json", "out/scan.JSON", Paths{JSON: "out/scan.JSON", Text: "out/scan.txt"}},
		{"text", "scan.md", Paths{Text: "scan.md"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPaths("shop", tt.out, "/work"))
		})
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	p := OutputPaths("shop", filepath.Join(dir, "nested", "scan.json"), dir)
	require.NoError(t, WriteFiles(p, sampleResult()))

	data, err := os.ReadFile(p.JSON)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	text, err := os.ReadFile(p.Text)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(text), "Project Name: shop\n"))
}
