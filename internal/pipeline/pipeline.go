// Package pipeline runs one scan of a project tree: discovery, per-file
// entity extraction and aggregation into a Result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/a-menaf-altintas/codescan/internal/diag"
	"github.com/a-menaf-altintas/codescan/internal/discover"
	"github.com/a-menaf-altintas/codescan/internal/extract"
	"github.com/a-menaf-altintas/codescan/internal/lang"
	"github.com/a-menaf-altintas/codescan/internal/parser"
)

// DefaultInstructions is attached to every scan unless Options.Instructions
// replaces it.
const DefaultInstructions = `You are given a structural scan of a software project. ` +
	`"directories" and "files" describe the layout; every entry of "code_chunks" is one ` +
	`program entity (class, interface, function, method, ...) with its file, kind, name, ` +
	`1-indexed line span and exact source text. Treat the chunks as the source of truth ` +
	`for the current state of the code, cite them by file and line when answering, and ` +
	`ask for files that are not included before assuming their contents.`

// NoFilesMarker stands in for the file list of a directory without eligible
// files in names-only mode.
const NoFilesMarker = "nofileexist"

// Options configures a scan.
type Options struct {
	Discover       discover.Options
	ProjectName    string // default: base name of the root
	DefaultSummary string // used when the root has no README
	Instructions   string // default: DefaultInstructions
	// NamesOnly lists files grouped by directory without reading them.
	NamesOnly bool
}

// ScanConfig echoes the effective filters of a scan.
type ScanConfig struct {
	IncludeExts  []string
	Module       string
	ScanArea     string
	NamesOnly    bool
	IncludeTests bool
}

// FileRecord describes one eligible file.
type FileRecord struct {
	Path     string
	Type     string
	Language lang.Language
	Outcome  extract.Outcome
	Chunks   int
	Size     int // bytes read
	Tokens   int
	Hash     string // xxh3 of the content; empty when the file was not read
}

// Result is the aggregate of one scan.
type Result struct {
	Root         string
	ProjectName  string
	Summary      string
	Instructions string
	Config       ScanConfig
	Directories  []string
	Files        []FileRecord
	// Chunks holds every extracted entity in traversal order.
	Chunks []extract.Entity
	// FilesByDirectory is only set in names-only mode.
	FilesByDirectory map[string][]string
	Stats            Stats
	Diagnostics      []diag.Diagnostic
}

// Scanner runs scans of one root.
type Scanner struct {
	root         string
	opts         Options
	registryOpts []parser.Option
	catalog      extract.CatalogFunc
	logger       *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithRegistryOptions passes options to the grammar registry of every run.
func WithRegistryOptions(opts ...parser.Option) Option {
	return func(s *Scanner) { s.registryOpts = append(s.registryOpts, opts...) }
}

// WithCatalog replaces the entity catalog.
func WithCatalog(fn extract.CatalogFunc) Option {
	return func(s *Scanner) { s.catalog = fn }
}

// WithLogger routes diagnostics to logger instead of slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) { s.logger = logger }
}

// New creates a Scanner for root.
func New(root string, opts Options, options ...Option) *Scanner {
	s := &Scanner{root: root, opts: opts, catalog: extract.DefaultCatalog}
	for _, o := range options {
		o(s)
	}
	return s
}

// ProjectNameFromPath derives a unique project name from an absolute path
// by replacing path separators with dashes and trimming the leading dash.
func ProjectNameFromPath(absPath string) string {
	cleaned := filepath.ToSlash(filepath.Clean(absPath))
	name := strings.ReplaceAll(cleaned, "/", "-")
	name = strings.TrimLeft(name, "-")
	if name == "" {
		return "root"
	}
	return name
}

// Run scans the root. Files are processed one at a time in walk order, so
// identical trees always produce identical results. Per-file failures become
// diagnostics; only discovery errors (including cancellation) abort the run.
func (s *Scanner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	root, err := filepath.Abs(s.root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	name := s.opts.ProjectName
	if name == "" {
		name = filepath.Base(root)
	}
	slog.Info("scan.start", "project", name, "path", root, "names_only", s.opts.NamesOnly)

	listing, err := discover.Discover(ctx, root, &s.opts.Discover)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	slog.Info("scan.discovered", "files", len(listing.Files), "dirs", len(listing.Dirs), "seen", listing.Seen)

	instructions := s.opts.Instructions
	if instructions == "" {
		instructions = DefaultInstructions
	}
	res := &Result{
		Root:         root,
		ProjectName:  name,
		Summary:      ProjectSummary(root, s.opts.DefaultSummary),
		Instructions: instructions,
		Config: ScanConfig{
			IncludeExts:  listing.IncludeExts,
			Module:       s.opts.Discover.Module,
			ScanArea:     listing.ScanArea,
			NamesOnly:    s.opts.NamesOnly,
			IncludeTests: s.opts.Discover.IncludeTests,
		},
		Directories: listing.Dirs,
		Files:       make([]FileRecord, 0, len(listing.Files)),
	}

	rec := diag.NewRecorder(s.logger)
	if s.opts.NamesOnly {
		for _, f := range listing.Files {
			res.Files = append(res.Files, FileRecord{Path: f.RelPath, Type: f.Type(), Language: f.Language, Outcome: extract.Listed})
		}
		res.FilesByDirectory = groupByDirectory(listing)
	} else {
		s.extractAll(listing, res, rec)
	}

	res.Diagnostics = rec.Diagnostics()
	res.Stats = computeStats(res, listing.Seen, rec.Summary())
	res.Stats.Duration = time.Since(start)

	slog.Info("scan.done",
		"files", len(res.Files),
		"chunks", len(res.Chunks),
		"diagnostics", len(res.Diagnostics),
		"elapsed", res.Stats.Duration.Round(time.Millisecond),
	)
	return res, nil
}

// extractAll reads and extracts every listed file with a registry that lives
// for this run only.
func (s *Scanner) extractAll(listing *discover.Listing, res *Result, rec *diag.Recorder) {
	reg := parser.NewRegistry(append([]parser.Option{parser.WithReporter(rec)}, s.registryOpts...)...)
	defer reg.Close()
	ex := extract.New(reg, extract.WithReporter(rec), extract.WithCatalog(s.catalog))

	for _, f := range listing.Files {
		record := FileRecord{Path: f.RelPath, Type: f.Type(), Language: f.Language}

		source, err := os.ReadFile(f.Path)
		if err != nil {
			rec.Report(diag.Diagnostic{Kind: diag.ReadFailure, Language: string(f.Language), Path: f.RelPath, Err: err})
			record.Outcome = extract.ReadFailed
			res.Files = append(res.Files, record)
			continue
		}
		record.Size = len(source)
		record.Tokens = EstimateTokens(string(source))
		record.Hash = contentHash(source)

		fr := ex.ExtractFile(f.RelPath, f.Language, source)
		record.Outcome = fr.Outcome
		record.Chunks = len(fr.Entities)
		if fr.Outcome == extract.Extracted {
			slog.Debug("scan.file", "path", f.RelPath, "lang", f.Language, "chunks", record.Chunks)
		} else if f.Language != "" {
			slog.Debug("scan.file.skip", "path", f.RelPath, "lang", f.Language, "outcome", fr.Outcome)
		}
		res.Chunks = append(res.Chunks, fr.Entities...)
		res.Files = append(res.Files, record)
	}
}

func contentHash(source []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(source))
}

// groupByDirectory maps every visited directory to the names of its eligible
// files, in walk order.
func groupByDirectory(listing *discover.Listing) map[string][]string {
	out := make(map[string][]string, len(listing.Dirs))
	for _, f := range listing.Files {
		dir := path.Dir(f.RelPath)
		out[dir] = append(out[dir], path.Base(f.RelPath))
	}
	for _, d := range listing.Dirs {
		if len(out[d]) == 0 {
			out[d] = []string{NoFilesMarker}
		}
	}
	return out
}
