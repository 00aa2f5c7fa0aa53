package parser

import (
	"errors"
	"fmt"
	"log/slog"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/a-menaf-altintas/codescan/internal/diag"
	"github.com/a-menaf-altintas/codescan/internal/lang"
)

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrGrammarUnavailable  = errors.New("grammar unavailable")
	ErrParseFailed         = errors.New("parse failed")
	ErrPatternCompile      = errors.New("pattern compile error")
)

// Grammar parses source for one language and compiles structural patterns
// against it.
type Grammar interface {
	Language() lang.Language
	// Parse returns a syntax tree the caller must Close.
	Parse(source []byte) (*tree_sitter.Tree, error)
	// CompilePattern returns a compiled query owned by the grammar; callers
	// must not Close it.
	CompilePattern(pattern string) (*tree_sitter.Query, error)
}

// Registry resolves languages to loaded grammars. A Registry lives for one
// scan: load results (including failures) and compiled patterns are cached
// until Close. It is not safe for concurrent use.
type Registry struct {
	loaders  map[lang.Language]LoaderFunc
	grammars map[lang.Language]*tsGrammar
	failed   map[lang.Language]error
	reporter diag.Reporter
}

// Option configures a Registry.
type Option func(*Registry)

// WithLoader adds or replaces the loader for a language.
func WithLoader(l lang.Language, fn LoaderFunc) Option {
	return func(r *Registry) { r.loaders[l] = fn }
}

// WithReporter routes grammar and pattern diagnostics to rep.
func WithReporter(rep diag.Reporter) Option {
	return func(r *Registry) { r.reporter = rep }
}

// NewRegistry returns a Registry over the compiled-in grammars.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		loaders:  defaultLoaders(),
		grammars: map[lang.Language]*tsGrammar{},
		failed:   map[lang.Language]error{},
		reporter: diag.Discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps a file extension to its language.
func (r *Registry) Resolve(ext string) (lang.Language, bool) {
	return lang.LanguageForExtension(ext)
}

// Load returns the grammar for l, loading it on first use. A load failure is
// reported once and returned again on every later call.
func (r *Registry) Load(l lang.Language) (Grammar, error) {
	if g, ok := r.grammars[l]; ok {
		return g, nil
	}
	if err, ok := r.failed[l]; ok {
		return nil, err
	}

	g, err := r.load(l)
	if err != nil {
		r.failed[l] = err
		r.reporter.Report(diag.Diagnostic{Kind: diag.GrammarUnavailable, Language: string(l), Err: err})
		return nil, err
	}
	r.grammars[l] = g
	slog.Debug("grammar.load", "lang", l)
	return g, nil
}

func (r *Registry) load(l lang.Language) (g *tsGrammar, err error) {
	loader, ok := r.loaders[l]
	if !ok {
		return nil, fmt.Errorf("%w: %s: no grammar binding", ErrGrammarUnavailable, l)
	}
	defer func() {
		if p := recover(); p != nil {
			g = nil
			err = fmt.Errorf("%w: %s: %v", ErrGrammarUnavailable, l, p)
		}
	}()

	tsLang, err := loader()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrGrammarUnavailable, l, err)
	}
	p := tree_sitter.NewParser()
	if err := p.SetLanguage(tsLang); err != nil {
		p.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrGrammarUnavailable, l, err)
	}
	return &tsGrammar{
		lang:     l,
		tsLang:   tsLang,
		parser:   p,
		patterns: map[string]compiled{},
		reporter: r.reporter,
	}, nil
}

// Preload loads every listed language and returns the ones that failed.
func (r *Registry) Preload(langs ...lang.Language) []lang.Language {
	var failed []lang.Language
	for _, l := range langs {
		if _, err := r.Load(l); err != nil {
			failed = append(failed, l)
		}
	}
	return failed
}

// Loaded reports whether l has been loaded successfully.
func (r *Registry) Loaded(l lang.Language) bool {
	_, ok := r.grammars[l]
	return ok
}

// Close releases parsers and compiled patterns. The registry must not be
// used afterwards.
func (r *Registry) Close() {
	for _, g := range r.grammars {
		g.close()
	}
	r.grammars = map[lang.Language]*tsGrammar{}
}

type compiled struct {
	query *tree_sitter.Query
	err   error
}

type tsGrammar struct {
	lang     lang.Language
	tsLang   *tree_sitter.Language
	parser   *tree_sitter.Parser
	patterns map[string]compiled
	reporter diag.Reporter
}

func (g *tsGrammar) Language() lang.Language { return g.lang }

func (g *tsGrammar) Parse(source []byte) (*tree_sitter.Tree, error) {
	tree := g.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: %s", ErrParseFailed, g.lang)
	}
	return tree, nil
}

func (g *tsGrammar) CompilePattern(pattern string) (*tree_sitter.Query, error) {
	if c, ok := g.patterns[pattern]; ok {
		return c.query, c.err
	}
	q, qerr := tree_sitter.NewQuery(g.tsLang, pattern)
	// NewQuery returns *QueryError; compare the pointer, not an error interface.
	if qerr != nil {
		err := fmt.Errorf("%w: %s: %s", ErrPatternCompile, g.lang, qerr.Error())
		g.patterns[pattern] = compiled{err: err}
		g.reporter.Report(diag.Diagnostic{
			Kind:     diag.PatternCompileError,
			Language: string(g.lang),
			Pattern:  pattern,
			Err:      err,
		})
		return nil, err
	}
	g.patterns[pattern] = compiled{query: q}
	return q, nil
}

func (g *tsGrammar) close() {
	for _, c := range g.patterns {
		if c.query != nil {
			c.query.Close()
		}
	}
	g.patterns = nil
	g.parser.Close()
}
