package tools

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/a-menaf-altintas/codescan/internal/store"
)

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 200
)

func (s *Server) handleSearchEntities(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := s.requireStore(); res != nil {
		return res, nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	project, err := s.resolveProject(getStringArg(args, "project"))
	if err != nil {
		return errResult(err.Error()), nil
	}

	limit := getIntArg(args, "limit", defaultSearchLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)
	filter := store.Filter{
		Name:   getStringArg(args, "name"),
		Kind:   getStringArg(args, "kind"),
		File:   getStringArg(args, "file"),
		Limit:  limit,
		Offset: max(getIntArg(args, "offset", 0), 0),
	}

	ents, err := s.store.FindEntities(project, filter)
	if err != nil {
		return errResult(fmt.Sprintf("search: %v", err)), nil
	}
	if ents == nil {
		ents = []*store.Entity{}
	}
	return jsonResult(map[string]any{
		"project":  project,
		"count":    len(ents),
		"has_more": len(ents) == limit,
		"entities": ents,
	}), nil
}

func (s *Server) handleGetEntityCode(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := s.requireStore(); res != nil {
		return res, nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	id := getIntArg(args, "id", 0)
	if id <= 0 {
		return errResult("id is required"), nil
	}

	e, err := s.store.FindEntityByID(int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return errResult(fmt.Sprintf("entity not found: %d", id)), nil
	}
	if err != nil {
		return errResult(fmt.Sprintf("get entity: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"id":             e.ID,
		"project":        e.Project,
		"file_path":      e.FilePath,
		"entity_type":    e.Kind,
		"entity_name":    e.Name,
		"qualified_name": e.QualifiedName,
		"start_line":     e.StartLine,
		"end_line":       e.EndLine,
		"code_content":   e.Code,
		"source":         numberLines(e.Code, e.StartLine),
	}), nil
}

// numberLines prefixes every line of code with its line number, counting
// from first.
func numberLines(code string, first int) string {
	var sb strings.Builder
	for i, line := range strings.Split(code, "\n") {
		fmt.Fprintf(&sb, "%4d | %s\n", first+i, line)
	}
	return sb.String()
}
