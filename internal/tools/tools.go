package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/a-menaf-altintas/codescan/internal/config"
	"github.com/a-menaf-altintas/codescan/internal/pipeline"
	"github.com/a-menaf-altintas/codescan/internal/store"
)

// Version is reported to MCP clients during initialization.
var Version = "dev"

// Server wraps the MCP server with tool handlers.
type Server struct {
	mcp   *mcp.Server
	cfg   *config.Config
	store *store.Store // nil disables the store-backed tools

	// indexMu serializes scans that write to the store, so a watcher and a
	// scan_project call never persist the same project concurrently.
	indexMu sync.Mutex
}

// NewServer creates a new MCP server with all tools registered. s may be nil.
func NewServer(cfg *config.Config, s *store.Store) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	srv := &Server{
		cfg:   cfg,
		store: s,
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "codescan",
				Version: Version,
			},
			nil,
		),
	}
	srv.registerTools()
	return srv
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Run serves MCP over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Index scans root and, when a store is attached, persists the result.
// Concurrent calls are serialized.
func (s *Server) Index(ctx context.Context, root string, opts pipeline.Options) (*pipeline.Result, *pipeline.PersistStats, error) {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	res, err := pipeline.New(root, opts).Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	if s.store == nil || opts.NamesOnly {
		return res, nil, nil
	}
	ps, err := pipeline.Persist(s.store, res)
	if err != nil {
		return res, nil, fmt.Errorf("persist: %w", err)
	}
	return res, &ps, nil
}

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "scan_project",
		Description: "Scan a project tree and extract its program entities (classes, interfaces, functions, methods, constructors, enums, ...) as byte-exact code chunks with file path, kind, name and line span. Returns the project summary, scan configuration, file list, statistics and the chunks. When a store is configured the result is also persisted for search_entities.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"root": {
					"type": "string",
					"description": "Path to the project root to scan"
				},
				"include_exts": {
					"type": "string",
					"description": "Comma-separated extension allow-list (e.g. 'java,ts'). Empty uses every supported extension."
				},
				"module": {
					"type": "string",
					"description": "Only scan files under <scan_area or backend>/<module>/"
				},
				"scan_area": {
					"type": "string",
					"description": "Restrict the scan to one top-level area",
					"enum": ["frontend", "backend"]
				},
				"include_tests": {
					"type": "boolean",
					"description": "Include test files (excluded by default)"
				},
				"names_only": {
					"type": "boolean",
					"description": "List file names per directory without extracting entities"
				},
				"include_code": {
					"type": "boolean",
					"description": "Include code_content of every chunk (default true)"
				},
				"max_chunks": {
					"type": "integer",
					"description": "Maximum chunks returned (default 200, 0 for all)"
				}
			},
			"required": ["root"]
		}`),
	}, s.handleScanProject)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "extract_file",
		Description: "Extract the program entities of a single source file. Returns the detected language, the outcome (extracted, unsupported, grammar_unavailable, parse_failed, read_failed), the entities and any diagnostics.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"path": {
					"type": "string",
					"description": "Path to the source file"
				}
			},
			"required": ["path"]
		}`),
	}, s.handleExtractFile)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "list_languages",
		Description: "List the supported languages with their file extensions and the entity kinds extracted for each.",
		InputSchema: json.RawMessage(`{"type": "object"}`),
	}, s.handleListLanguages)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "search_entities",
		Description: "Search stored entities of a scanned project by name, kind and file. Name is a substring unless it contains * or ? (glob). Returns entity ids, kinds, names and line spans without code; use get_entity_code for the source.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"project": {
					"type": "string",
					"description": "Project name. Defaults to the only stored project."
				},
				"name": {
					"type": "string",
					"description": "Name substring or glob (e.g. 'Order', '*Service')"
				},
				"kind": {
					"type": "string",
					"description": "Entity kind filter: CLASS, INTERFACE, METHOD, FUNCTION, CONSTRUCTOR, ENUM, STRUCT, ..."
				},
				"file": {
					"type": "string",
					"description": "Glob over the relative file path (e.g. 'backend/**')"
				},
				"limit": {
					"type": "integer",
					"description": "Max results (default 50, max 200)"
				},
				"offset": {
					"type": "integer",
					"description": "Skip this many results"
				}
			}
		}`),
	}, s.handleSearchEntities)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "get_entity_code",
		Description: "Return the stored source code of one entity by id, with line numbers.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {
					"type": "integer",
					"description": "Entity id from search_entities"
				}
			},
			"required": ["id"]
		}`),
	}, s.handleGetEntityCode)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "list_projects",
		Description: "List all stored projects with their indexed_at timestamp, root path and entity counts.",
		InputSchema: json.RawMessage(`{"type": "object"}`),
	}, s.handleListProjects)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "delete_project",
		Description: "Delete a stored project with all its entities and file hashes. This action is irreversible.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"project_name": {
					"type": "string",
					"description": "Name of the project to delete"
				}
			},
			"required": ["project_name"]
		}`),
	}, s.handleDeleteProject)
}

// requireStore reports a tool error when no store is attached.
func (s *Server) requireStore() *mcp.CallToolResult {
	if s.store == nil {
		return errResult("no store configured: start the server with --db")
	}
	return nil
}

// resolveProject returns name, or the only stored project when name is empty.
func (s *Server) resolveProject(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	projects, err := s.store.ListProjects()
	if err != nil {
		return "", fmt.Errorf("list projects: %w", err)
	}
	switch len(projects) {
	case 0:
		return "", fmt.Errorf("no projects stored: run scan_project first")
	case 1:
		return projects[0].Name, nil
	default:
		return "", fmt.Errorf("project is required: %d projects stored", len(projects))
	}
}

// jsonResult marshals data to JSON and returns as tool result.
func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("json marshal err=" + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

// errResult returns a tool result indicating an error.
func errResult(msg string) *mcp.CallToolResult {
	slog.Debug("tool.err", "msg", msg)
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

// parseArgs unmarshals the raw JSON arguments into a map.
func parseArgs(req *mcp.CallToolRequest) (map[string]any, error) {
	if req.Params == nil || len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

// getStringArg extracts a string argument from parsed args.
func getStringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// getIntArg extracts an integer argument with a default value.
func getIntArg(args map[string]any, key string, defaultVal int) int {
	f, ok := args[key].(float64) // JSON numbers decode as float64
	if !ok {
		return defaultVal
	}
	return int(f)
}

// getBoolArg extracts a boolean argument with a default value.
func getBoolArg(args map[string]any, key string, defaultVal bool) bool {
	b, ok := args[key].(bool)
	if !ok {
		return defaultVal
	}
	return b
}
