// Package report serializes scan results: the JSON document, the delimited
// plain-text rendition and the terminal statistics block.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-menaf-altintas/codescan/internal/extract"
	"github.com/a-menaf-altintas/codescan/internal/pipeline"
)

// Document is the JSON shape of a scan.
type Document struct {
	ProjectName      string              `json:"project_name"`
	ProjectSummary   string              `json:"project_summary"`
	LLMInstructions  string              `json:"llm_instructions"`
	ScanConfig       ScanConfig          `json:"scan_config"`
	Directories      []string            `json:"directories"`
	Files            []File              `json:"files"`
	CodeChunks       []extract.Entity    `json:"code_chunks"`
	FilesByDirectory map[string][]string `json:"files_by_directory,omitempty"`
}

// ScanConfig echoes the filters; unset optional filters encode as null.
type ScanConfig struct {
	IncludeExts       []string `json:"include_exts"`
	IncludeOnlyModule *string  `json:"include_only_module"`
	NamesOnly         bool     `json:"include_only_file_names_in_path"`
	ScanArea          *string  `json:"scan_area"`
	IncludeTests      bool     `json:"include_tests"`
}

// File is one entry of the files list.
type File struct {
	Path     string `json:"path"`
	Type     string `json:"type"`
	Language string `json:"language,omitempty"`
	Outcome  string `json:"outcome"`
	Chunks   int    `json:"chunks"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// NewDocument builds the output document of res. Lists are never null.
func NewDocument(res *pipeline.Result) *Document {
	doc := &Document{
		ProjectName:     res.ProjectName,
		ProjectSummary:  res.Summary,
		LLMInstructions: res.Instructions,
		ScanConfig: ScanConfig{
			IncludeExts:       append([]string{}, res.Config.IncludeExts...),
			IncludeOnlyModule: optional(res.Config.Module),
			NamesOnly:         res.Config.NamesOnly,
			ScanArea:          optional(res.Config.ScanArea),
			IncludeTests:      res.Config.IncludeTests,
		},
		Directories:      append([]string{}, res.Directories...),
		Files:            make([]File, 0, len(res.Files)),
		CodeChunks:       append([]extract.Entity{}, res.Chunks...),
		FilesByDirectory: res.FilesByDirectory,
	}
	for _, f := range res.Files {
		doc.Files = append(doc.Files, File{
			Path:     f.Path,
			Type:     f.Type,
			Language: string(f.Language),
			Outcome:  string(f.Outcome),
			Chunks:   f.Chunks,
		})
	}
	return doc
}

// WriteJSON writes the indented JSON document. HTML escaping is off so code
// content stays verbatim.
func WriteJSON(w io.Writer, res *pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(res)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteText writes the delimited plain-text rendition.
func WriteText(w io.Writer, res *pipeline.Result) error {
	bw := &errWriter{w: w}
	bw.printf("Project Name: %s\n", res.ProjectName)
	bw.printf("Project Summary:\n%s\n", res.Summary)

	bw.printf("\nScan Configuration:\n")
	bw.printf("- Include extensions: %s\n", strings.Join(res.Config.IncludeExts, ", "))
	if res.Config.Module != "" {
		bw.printf("- Include only module: %s\n", res.Config.Module)
	}
	if res.Config.NamesOnly {
		bw.printf("- Including only file names in path\n")
	}
	if res.Config.ScanArea != "" {
		bw.printf("- Scan area: %s\n", res.Config.ScanArea)
	}
	if res.Config.IncludeTests {
		bw.printf("- Including test files\n")
	}

	for _, dir := range res.Directories {
		bw.printf("[DIR] %s\n", dir)
		if files, ok := res.FilesByDirectory[dir]; ok {
			names := make([]string, len(files))
			for i, f := range files {
				names[i] = "/" + f
			}
			bw.printf("Files: %s\n", strings.Join(names, " "))
		}
	}

	for _, c := range res.Chunks {
		bw.printf("=== %s :: %s %s (lines %d-%d) ===\n%s\n", c.FilePath, c.Kind, c.Name, c.StartLine, c.EndLine, c.Code)
	}

	bw.printf("\nLLM Instructions:\n%s\n", res.Instructions)
	return bw.err
}

// WriteStats writes the terminal statistics block.
func WriteStats(w io.Writer, res *pipeline.Result) error {
	st := &res.Stats
	bw := &errWriter{w: w}
	bw.printf("\n===== SCAN STATISTICS =====\n")
	bw.printf("Project: %s (%s)\n", res.ProjectName, res.Root)
	bw.printf("Total files: %d (included: %d)\n", st.TotalFiles, st.IncludedFiles)

	if res.Config.NamesOnly {
		bw.printf("\nToken statistics not available when only including file names in path.\n")
		return bw.err
	}

	bw.printf("Total token count: %d\n", st.TotalTokens)
	bw.printf("- Summary tokens: %d\n", st.SummaryTokens)
	bw.printf("- Code tokens: %d\n", st.CodeTokens)
	bw.printf("- LLM instructions tokens: %d\n", st.InstructionTokens)
	bw.printf("- Chunk tokens: %d\n", st.ChunkTokens)
	bw.printf("\nTotal character count: %d\n", st.ContentChars)

	bw.printf("\nTop 3 modules by token count:\n")
	for i, m := range st.TopModules(3) {
		share := 0.0
		if st.TotalTokens > 0 {
			share = float64(m.Tokens) / float64(st.TotalTokens) * 100
		}
		bw.printf("%d. Module '%s': %d tokens (%.1f%%)\n", i+1, m.Module, m.Tokens, share)
	}
	bw.printf("\nTotal modules: %d\n", len(st.ModuleTokens))

	bw.printf("\nCode chunks: %d\n", st.Chunks)
	for _, k := range st.Kinds() {
		bw.printf("- %s: %d\n", k, st.ChunksByKind[k])
	}

	if len(res.Diagnostics) > 0 {
		bw.printf("\nDiagnostics: %d\n", len(res.Diagnostics))
		for _, d := range res.Diagnostics {
			bw.printf("- %s\n", d)
		}
	}
	bw.printf("\nElapsed: %s\n", st.Duration.Round(time.Millisecond))
	return bw.err
}

// Paths are the files a scan is written to. An empty path is not written.
type Paths struct {
	JSON string
	Text string
}

// OutputPaths resolves where a scan of project goes. Without out the JSON
// document lands in dir as <project>_ast_scan.json; a .json output also gets
// a sibling .txt, and any other extension is written as text only.
func OutputPaths(project, out, dir string) Paths {
	if out == "" {
		out = filepath.Join(dir, project+"_ast_scan.json")
	}
	if strings.EqualFold(filepath.Ext(out), ".json") {
		return Paths{JSON: out, Text: strings.TrimSuffix(out, filepath.Ext(out)) + ".txt"}
	}
	return Paths{Text: out}
}

// WriteFiles writes res to every non-empty path of p.
func WriteFiles(p Paths, res *pipeline.Result) error {
	if p.JSON != "" {
		if err := writeFile(p.JSON, res, WriteJSON); err != nil {
			return err
		}
	}
	if p.Text != "" {
		if err := writeFile(p.Text, res, WriteText); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, res *pipeline.Result, write func(io.Writer, *pipeline.Result) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f, res); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
