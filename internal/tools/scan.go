package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/a-menaf-altintas/codescan/internal/diag"
	"github.com/a-menaf-altintas/codescan/internal/extract"
	"github.com/a-menaf-altintas/codescan/internal/lang"
	"github.com/a-menaf-altintas/codescan/internal/parser"
	"github.com/a-menaf-altintas/codescan/internal/report"
)

const defaultMaxChunks = 200

func (s *Server) handleScanProject(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	root := getStringArg(args, "root")
	if root == "" {
		return errResult("root is required"), nil
	}
	absPath, err := filepath.Abs(root)
	if err != nil {
		return errResult(fmt.Sprintf("invalid path: %v", err)), nil
	}
	if info, statErr := os.Stat(absPath); statErr != nil || !info.IsDir() {
		return errResult(fmt.Sprintf("not a directory: %s", absPath)), nil
	}

	opts := s.cfg.PipelineOptions()
	if exts := getStringArg(args, "include_exts"); exts != "" {
		opts.Discover.IncludeExts = strings.Split(exts, ",")
	}
	if m := getStringArg(args, "module"); m != "" {
		opts.Discover.Module = m
	}
	if area := getStringArg(args, "scan_area"); area != "" {
		opts.Discover.ScanArea = area
	}
	opts.Discover.IncludeTests = getBoolArg(args, "include_tests", opts.Discover.IncludeTests)
	opts.NamesOnly = getBoolArg(args, "names_only", opts.NamesOnly)

	res, ps, err := s.Index(ctx, absPath, opts)
	if err != nil {
		return errResult(fmt.Sprintf("scan failed: %v", err)), nil
	}

	doc := report.NewDocument(res)
	if !getBoolArg(args, "include_code", true) {
		for i := range doc.CodeChunks {
			doc.CodeChunks[i].Code = ""
		}
	}
	total := len(doc.CodeChunks)
	if limit := getIntArg(args, "max_chunks", defaultMaxChunks); limit > 0 && total > limit {
		doc.CodeChunks = doc.CodeChunks[:limit]
	}

	out := map[string]any{
		"document":     doc,
		"total_chunks": total,
		"truncated":    len(doc.CodeChunks) < total,
		"stats": map[string]any{
			"included_files": res.Stats.IncludedFiles,
			"total_tokens":   res.Stats.TotalTokens,
			"chunks_by_kind": res.Stats.ChunksByKind,
			"outcomes":       res.Stats.Outcomes,
			"diagnostics":    res.Stats.Diagnostics,
		},
	}
	if ps != nil {
		out["persisted"] = ps
	}
	return jsonResult(out), nil
}

func (s *Server) handleExtractFile(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	path := getStringArg(args, "path")
	if path == "" {
		return errResult("path is required"), nil
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return errResult(fmt.Sprintf("read file: %v", err)), nil
	}

	rec := diag.NewRecorder(nil)
	reg := parser.NewRegistry(parser.WithReporter(rec))
	defer reg.Close()

	l, _ := reg.Resolve(filepath.Ext(path))
	fr := extract.New(reg, extract.WithReporter(rec)).ExtractFile(filepath.ToSlash(path), l, source)

	diags := make([]string, 0, len(rec.Diagnostics()))
	for _, d := range rec.Diagnostics() {
		diags = append(diags, d.String())
	}
	entities := fr.Entities
	if entities == nil {
		entities = []extract.Entity{}
	}
	return jsonResult(map[string]any{
		"path":        path,
		"language":    fr.Language,
		"outcome":     fr.Outcome,
		"entities":    entities,
		"diagnostics": diags,
	}), nil
}

func (s *Server) handleListLanguages(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type languageInfo struct {
		Language   lang.Language     `json:"language"`
		Extensions []string          `json:"extensions"`
		Kinds      []lang.EntityKind `json:"entity_kinds"`
	}

	result := make([]languageInfo, 0, len(lang.AllLanguages()))
	for _, l := range lang.AllLanguages() {
		spec := lang.ForLanguage(l)
		if spec == nil {
			continue
		}
		result = append(result, languageInfo{Language: l, Extensions: spec.FileExtensions, Kinds: spec.Kinds()})
	}
	return jsonResult(result), nil
}
