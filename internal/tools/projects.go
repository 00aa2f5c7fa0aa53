package tools

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleListProjects(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := s.requireStore(); res != nil {
		return res, nil
	}
	projects, err := s.store.ListProjects()
	if err != nil {
		return errResult(fmt.Sprintf("list projects: %v", err)), nil
	}

	type projectInfo struct {
		Name      string         `json:"name"`
		RootPath  string         `json:"root_path"`
		IndexedAt string         `json:"indexed_at"`
		Entities  int            `json:"entities"`
		ByKind    map[string]int `json:"entities_by_kind"`
	}

	result := make([]projectInfo, 0, len(projects))
	for _, p := range projects {
		n, _ := s.store.CountEntities(p.Name)
		byKind, _ := s.store.CountEntitiesByKind(p.Name)
		result = append(result, projectInfo{
			Name:      p.Name,
			RootPath:  p.RootPath,
			IndexedAt: p.IndexedAt,
			Entities:  n,
			ByKind:    byKind,
		})
	}

	return jsonResult(result), nil
}

func (s *Server) handleDeleteProject(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := s.requireStore(); res != nil {
		return res, nil
	}
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}

	name := getStringArg(args, "project_name")
	if name == "" {
		return errResult("project_name is required"), nil
	}

	if _, err := s.store.GetProject(name); errors.Is(err, sql.ErrNoRows) {
		return errResult(fmt.Sprintf("project not found: %s", name)), nil
	} else if err != nil {
		return errResult(fmt.Sprintf("get project: %v", err)), nil
	}

	// entities and file_hashes cascade from projects
	if err := s.store.DeleteProject(name); err != nil {
		return errResult(fmt.Sprintf("delete failed: %v", err)), nil
	}

	return jsonResult(map[string]any{
		"deleted": name,
		"status":  "ok",
	}), nil
}
