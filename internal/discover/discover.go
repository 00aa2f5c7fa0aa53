package discover

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/a-menaf-altintas/codescan/internal/lang"
)

// IGNORE_PATTERNS are directory names to skip during discovery.
var IGNORE_PATTERNS = map[string]bool{
	".cache": true, ".claude": true, ".eclipse": true, ".eggs": true,
	".env": true, ".git": true, ".gradle": true, ".hg": true,
	".idea": true, ".m2": true, ".maven": true, ".mypy_cache": true, ".nox": true,
	".npm": true, ".nyc_output": true, ".pnpm-store": true,
	".pytest_cache": true, ".ruff_cache": true, ".svn": true, ".tmp": true, ".tox": true,
	".venv": true, ".vs": true, ".vscode": true, ".yarn": true,
	"__pycache__": true, "bin": true, "bower_components": true,
	"build": true, "coverage": true, "dist": true, "env": true, "ENV": true,
	"htmlcov": true, "logs": true, "node_modules": true, "obj": true, "out": true,
	"Pods": true, "release": true, "site-packages": true, "target": true, "temp": true,
	"tmp": true, "vendor": true, "venv": true,
}

// visibleDotDirs are hidden directories that are still scanned.
var visibleDotDirs = map[string]bool{".github": true, ".gitlab-ci": true}

// IGNORE_SUFFIXES are file suffixes to skip.
var IGNORE_SUFFIXES = []string{
	".tmp", "~", ".pyc", ".pyo", ".o", ".a", ".so", ".dll", ".class", ".jar", ".exe",
}

// DefaultIncludeExts are the non-source extensions listed alongside every
// extension the language catalog resolves.
var DefaultIncludeExts = []string{
	".properties", ".gradle", ".html", ".css", ".scss", ".yml", ".yaml", ".xml", ".sql",
}

// IncludeFileNames are always listed regardless of extension.
var IncludeFileNames = map[string]bool{
	"Dockerfile": true, "docker-compose.yml": true, "docker-compose.yaml": true,
	"build.gradle": true, "settings.gradle": true, "pom.xml": true,
	"application.properties": true, ".gitignore": true, "go.mod": true,
}

// frontendDirKeywords mark directories whose HTML files are always listed.
var frontendDirKeywords = map[string]bool{
	"frontend": true, "front-end": true, "web": true, "webapp": true, "public": true,
	"client": true, "ui": true, "app": true, "static": true, "templates": true,
}

// DefaultIgnoreFile is read from the scan root when Options.IgnoreFile is empty.
const DefaultIgnoreFile = ".scanignore"

// Scan areas accepted by Options.ScanArea.
const (
	AreaFrontend = "frontend"
	AreaBackend  = "backend"
)

// FileInfo represents a discovered file.
type FileInfo struct {
	Path     string        // absolute path
	RelPath  string        // slash-separated, relative to the scan root
	Language lang.Language // empty when the extension does not resolve
	Ext      string        // lower-cased extension including the dot
	Size     int64
}

// Type returns the extension without the dot, or "unknown".
func (f FileInfo) Type() string {
	if f.Ext == "" {
		return "unknown"
	}
	return strings.TrimPrefix(f.Ext, ".")
}

// Options configures file discovery.
type Options struct {
	IgnoreFile    string   // glob list, one per line (default <root>/.scanignore)
	IncludeExts   []string // allow-list; empty means catalog extensions plus DefaultIncludeExts
	IncludeTests  bool
	Module        string // only files under <area or backend>/<module>/
	ScanArea      string // "frontend" or "backend"; anything else is ignored
	ExtraSkipDirs []string
}

// Listing is the result of one walk.
type Listing struct {
	Root string
	// Dirs lists every visited directory, "." first.
	Dirs []string
	// Files lists eligible files in walk order.
	Files []FileInfo
	// Seen counts non-test files in visited directories, eligible or not.
	Seen int
	// IncludeExts is the effective extension allow-list, sorted.
	IncludeExts []string
	// ScanArea is the effective scan area after validation.
	ScanArea string
}

type walker struct {
	opts        Options
	includeExts map[string]bool
	ignore      []string
	skipDirs    map[string]bool
	prefix      string
}

// shouldSkipDir returns true if the directory should be skipped during discovery.
func (w *walker) shouldSkipDir(name, rel string) bool {
	if IGNORE_PATTERNS[name] || w.skipDirs[name] {
		return true
	}
	if strings.HasPrefix(name, ".") && !visibleDotDirs[name] {
		return true
	}
	return w.ignored(name, rel)
}

func (w *walker) ignored(name, rel string) bool {
	for _, pattern := range w.ignore {
		if matched, _ := doublestar.Match(pattern, name); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// inScope reports whether files of dir belong to the area/module filter.
func (w *walker) inScope(dir string) bool {
	return w.prefix == "" || dir == "." || dir == w.prefix || strings.HasPrefix(dir, w.prefix+"/")
}

// descend reports whether dir may contain in-scope directories.
func (w *walker) descend(dir string) bool {
	return w.inScope(dir) || strings.HasPrefix(w.prefix, dir+"/")
}

func (w *walker) wants(rel, name, ext string) bool {
	if w.prefix != "" && !strings.HasPrefix(rel, w.prefix+"/") {
		return false
	}
	return IncludeFileNames[name] || w.includeExts[ext] || isFrontendHTML(rel, ext)
}

func isFrontendHTML(rel, ext string) bool {
	if ext != ".html" {
		return false
	}
	for _, part := range strings.Split(strings.ToLower(rel), "/") {
		if frontendDirKeywords[part] {
			return true
		}
	}
	return false
}

func newWalker(root string, opts *Options) *walker {
	w := &walker{skipDirs: map[string]bool{}, includeExts: map[string]bool{}}
	if opts != nil {
		w.opts = *opts
	}

	switch strings.ToLower(w.opts.ScanArea) {
	case "":
	case AreaFrontend, AreaBackend:
		w.opts.ScanArea = strings.ToLower(w.opts.ScanArea)
	default:
		slog.Warn("discover.scan_area.invalid", "area", w.opts.ScanArea)
		w.opts.ScanArea = ""
	}
	switch {
	case w.opts.Module != "":
		area := w.opts.ScanArea
		if area == "" {
			area = AreaBackend
		}
		w.prefix = area + "/" + strings.Trim(w.opts.Module, "/")
	case w.opts.ScanArea != "":
		w.prefix = w.opts.ScanArea
	}

	for _, d := range w.opts.ExtraSkipDirs {
		w.skipDirs[d] = true
	}
	for _, ext := range NormalizeExts(w.opts.IncludeExts) {
		w.includeExts[ext] = true
	}
	if len(w.includeExts) == 0 {
		for _, ext := range lang.Extensions() {
			w.includeExts[ext] = true
		}
		for _, ext := range DefaultIncludeExts {
			w.includeExts[ext] = true
		}
	}

	ignPath := w.opts.IgnoreFile
	if ignPath == "" {
		ignPath = filepath.Join(root, DefaultIgnoreFile)
	}
	w.ignore, _ = loadIgnoreFile(ignPath)
	return w
}

// NormalizeExts trims, lower-cases and dot-prefixes a list of extensions,
// accepting comma-separated entries.
func NormalizeExts(exts []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, e := range exts {
		for _, part := range strings.Split(e, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			if !strings.HasPrefix(part, ".") {
				part = "." + part
			}
			if !seen[part] {
				seen[part] = true
				out = append(out, part)
			}
		}
	}
	return out
}

// Discover walks a repository and returns its eligible files. Unreadable
// subdirectories are skipped; only a missing or unreadable root is an error.
func Discover(ctx context.Context, repoPath string, opts *Options) (*Listing, error) {
	repoPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}

	// Check cancellation before starting walk
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st, err := os.Stat(repoPath)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("scan root %s: not a directory", repoPath)
	}

	w := newWalker(repoPath, opts)
	listing := &Listing{Root: repoPath, ScanArea: w.opts.ScanArea}
	for ext := range w.includeExts {
		listing.IncludeExts = append(listing.IncludeExts, ext)
	}
	sort.Strings(listing.IncludeExts)

	err = filepath.WalkDir(repoPath, func(path string, d fs.DirEntry, walkErr error) error {
		// Check context cancellation periodically during walk
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			slog.Warn("discover.walk.err", "path", path, "err", walkErr)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, _ := filepath.Rel(repoPath, path)
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && (w.shouldSkipDir(d.Name(), rel) || !w.descend(rel)) {
				return filepath.SkipDir
			}
			if w.inScope(rel) {
				listing.Dirs = append(listing.Dirs, rel)
			}
			return nil
		}

		if !d.Type().IsRegular() || !w.inScope(filepath.ToSlash(filepath.Dir(rel))) {
			return nil
		}

		name := d.Name()
		ext := strings.ToLower(filepath.Ext(name))
		l, _ := lang.LanguageForExtension(ext)

		if !w.opts.IncludeTests && IsTestFile(rel, l) {
			return nil
		}
		for _, suffix := range IGNORE_SUFFIXES {
			if strings.HasSuffix(name, suffix) {
				return nil
			}
		}
		if w.ignored(name, rel) {
			return nil
		}
		listing.Seen++

		if !w.wants(rel, name, ext) {
			return nil
		}
		var size int64
		if info, err := d.Info(); err == nil {
			size = info.Size()
		}
		listing.Files = append(listing.Files, FileInfo{
			Path:     path,
			RelPath:  rel,
			Language: l,
			Ext:      ext,
			Size:     size,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// ModuleName returns the module a file belongs to: the directory right under
// backend/ or frontend/, or "root".
func ModuleName(relPath string) string {
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	if len(parts) > 2 && (parts[0] == AreaBackend || parts[0] == AreaFrontend) {
		return parts[1]
	}
	return "root"
}

func loadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, strings.TrimSuffix(line, "/"))
		}
	}
	return patterns, scanner.Err()
}
