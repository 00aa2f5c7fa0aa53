// Package extract finds program entities in source files by running each
// language's catalog patterns over its syntax tree and turning every match
// into a byte-exact code chunk.
package extract

import (
	"log/slog"

	"github.com/a-menaf-altintas/codescan/internal/diag"
	"github.com/a-menaf-altintas/codescan/internal/lang"
	"github.com/a-menaf-altintas/codescan/internal/parser"
)

// Outcome tags what happened to one file.
type Outcome string

const (
	Extracted          Outcome = "extracted"
	Unsupported        Outcome = "unsupported"
	GrammarUnavailable Outcome = "grammar_unavailable"
	ParseFailed        Outcome = "parse_failed"
	ReadFailed         Outcome = "read_failed"
	Listed             Outcome = "listed"
)

// FileResult is the extraction result of one file.
type FileResult struct {
	Path     string
	Language lang.Language
	Outcome  Outcome
	Entities []Entity
	// SkippedDefs counts entity definitions whose pattern failed to compile.
	SkippedDefs int
	// EmptyMatches counts matches that bound no nodes.
	EmptyMatches int
}

// GrammarLoader hands out grammars by language. *parser.Registry satisfies it.
type GrammarLoader interface {
	Load(l lang.Language) (parser.Grammar, error)
}

// CatalogFunc returns the ordered entity definitions for a language, or nil
// when the language is not supported.
type CatalogFunc func(l lang.Language) []lang.EntityDef

// DefaultCatalog reads the registered language specs.
func DefaultCatalog(l lang.Language) []lang.EntityDef {
	spec := lang.ForLanguage(l)
	if spec == nil {
		return nil
	}
	return spec.Entities
}

// Extractor runs the catalog against files. It holds no per-file state.
type Extractor struct {
	grammars GrammarLoader
	reporter diag.Reporter
	catalog  CatalogFunc
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCatalog replaces the language catalog.
func WithCatalog(fn CatalogFunc) Option {
	return func(e *Extractor) { e.catalog = fn }
}

// WithReporter routes per-file diagnostics (parse failures, empty matches).
func WithReporter(r diag.Reporter) Option {
	return func(e *Extractor) { e.reporter = r }
}

// New returns an Extractor loading grammars from grammars.
func New(grammars GrammarLoader, opts ...Option) *Extractor {
	e := &Extractor{
		grammars: grammars,
		reporter: diag.Discard,
		catalog:  DefaultCatalog,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFile extracts every catalog entity of l from source. Entities come
// out grouped by definition in catalog order, and in source order within a
// definition. An empty language means the file did not resolve.
func (e *Extractor) ExtractFile(path string, l lang.Language, source []byte) FileResult {
	res := FileResult{Path: path, Language: l}

	defs := e.catalog(l)
	if l == "" || defs == nil {
		res.Outcome = Unsupported
		return res
	}

	g, err := e.grammars.Load(l)
	if err != nil {
		res.Outcome = GrammarUnavailable
		return res
	}

	tree, err := g.Parse(source)
	if err != nil {
		e.reporter.Report(diag.Diagnostic{Kind: diag.ParseFailure, Language: string(l), Path: path, Err: err})
		res.Outcome = ParseFailed
		return res
	}
	defer tree.Close()
	root := tree.RootNode()

	for _, def := range defs {
		q, err := g.CompilePattern(def.Pattern)
		if err != nil {
			res.SkippedDefs++
			continue
		}
		matches := Matches(q, root, source)
		seen := seenSet{}
		for i := range matches {
			ent, ok := Build(path, def.Kind, &matches[i], def.NameCapture, source)
			if !ok {
				res.EmptyMatches++
				e.reporter.Report(diag.Diagnostic{Kind: diag.EmptyMatch, Language: string(l), Path: path, Pattern: def.Pattern})
				continue
			}
			res.Entities = seen.add(res.Entities, &matches[i], def.NameCapture, ent)
		}
	}

	res.Outcome = Extracted
	slog.Debug("extract.file", "path", path, "lang", l, "entities", len(res.Entities))
	return res
}

type nodeSpan struct{ start, end uint }

// seenSet collapses matches of one definition that bind the same name node,
// as when a decorated definition also matches in its bare form. The widest
// chunk wins and keeps the position of the first.
type seenSet map[nodeSpan]int

func (s seenSet) add(ents []Entity, m *Match, nameCapture string, ent Entity) []Entity {
	n, ok := m.First(nameCapture)
	if !ok {
		return append(ents, ent)
	}
	key := nodeSpan{n.StartByte, n.EndByte}
	idx, dup := s[key]
	if !dup {
		s[key] = len(ents)
		return append(ents, ent)
	}
	if prev := ents[idx]; ent.EndByte-ent.StartByte > prev.EndByte-prev.StartByte {
		ents[idx] = ent
	}
	return ents
}
