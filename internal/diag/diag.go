// Package diag carries the non-fatal problems a scan runs into: grammars that
// fail to load, patterns that fail to compile, files that fail to parse or
// read, and matches that bind no nodes. None of them aborts a scan.
package diag

import (
	"log/slog"
	"sort"
)

// Kind classifies a diagnostic.
type Kind string

const (
	GrammarUnavailable  Kind = "grammar_unavailable"
	PatternCompileError Kind = "pattern_compile_error"
	ParseFailure        Kind = "parse_failure"
	EmptyMatch          Kind = "empty_match"
	ReadFailure         Kind = "read_failure"
)

// Diagnostic is one reported problem. Fields that do not apply stay empty.
type Diagnostic struct {
	Kind     Kind   `json:"kind"`
	Language string `json:"language,omitempty"`
	Path     string `json:"path,omitempty"`
	Pattern  string `json:"pattern,omitempty"`
	Err      error  `json:"-"`
	Message  string `json:"message,omitempty"`
}

func (d Diagnostic) String() string {
	s := string(d.Kind)
	if d.Language != "" {
		s += " lang=" + d.Language
	}
	if d.Path != "" {
		s += " path=" + d.Path
	}
	if d.Err != nil {
		s += ": " + d.Err.Error()
	}
	return s
}

// Reporter receives diagnostics.
type Reporter interface {
	Report(d Diagnostic)
}

// Discard drops every diagnostic.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(Diagnostic) {}

// Recorder logs diagnostics through slog and keeps them in report order.
// It is not safe for concurrent use; a scan reports from one goroutine.
type Recorder struct {
	logger *slog.Logger
	items  []Diagnostic
	counts map[Kind]int
}

// NewRecorder returns a Recorder logging to logger (slog.Default() if nil).
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{logger: logger, counts: map[Kind]int{}}
}

// Report records d and logs it. Empty matches are routine and log at debug.
func (r *Recorder) Report(d Diagnostic) {
	if d.Err != nil && d.Message == "" {
		d.Message = d.Err.Error()
	}
	r.items = append(r.items, d)
	r.counts[d.Kind]++

	attrs := []any{"kind", string(d.Kind)}
	if d.Language != "" {
		attrs = append(attrs, "lang", d.Language)
	}
	if d.Path != "" {
		attrs = append(attrs, "path", d.Path)
	}
	if d.Pattern != "" {
		attrs = append(attrs, "pattern", d.Pattern)
	}
	if d.Err != nil {
		attrs = append(attrs, "err", d.Err)
	}
	if d.Kind == EmptyMatch {
		r.logger.Debug("diag", attrs...)
		return
	}
	r.logger.Warn("diag", attrs...)
}

// Diagnostics returns every recorded diagnostic in report order.
func (r *Recorder) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.items))
	copy(out, r.items)
	return out
}

// Count returns how many diagnostics of kind were recorded.
func (r *Recorder) Count(kind Kind) int {
	return r.counts[kind]
}

// Summary returns per-kind counts.
func (r *Recorder) Summary() map[Kind]int {
	out := make(map[Kind]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// Kinds returns the recorded kinds, sorted.
func (r *Recorder) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.counts))
	for k := range r.counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
