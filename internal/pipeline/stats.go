package pipeline

import (
	"sort"
	"time"

	"github.com/a-menaf-altintas/codescan/internal/diag"
	"github.com/a-menaf-altintas/codescan/internal/discover"
	"github.com/a-menaf-altintas/codescan/internal/extract"
	"github.com/a-menaf-altintas/codescan/internal/lang"
)

// Stats summarizes a scan for the terminal. It is not part of the output
// document.
type Stats struct {
	TotalFiles    int // non-test files in visited directories
	IncludedFiles int
	ContentChars  int // bytes of file content read

	SummaryTokens     int
	InstructionTokens int
	CodeTokens        int
	ChunkTokens       int
	TotalTokens       int
	ModuleTokens      map[string]int

	Chunks       int
	ChunksByKind map[lang.EntityKind]int
	Outcomes     map[extract.Outcome]int
	Diagnostics  map[diag.Kind]int

	Duration time.Duration
}

// ModuleShare is one module's token count.
type ModuleShare struct {
	Module string
	Tokens int
}

// TopModules returns the n modules with the most tokens, ties broken by name.
func (s *Stats) TopModules(n int) []ModuleShare {
	out := make([]ModuleShare, 0, len(s.ModuleTokens))
	for m, t := range s.ModuleTokens {
		out = append(out, ModuleShare{Module: m, Tokens: t})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tokens != out[j].Tokens {
			return out[i].Tokens > out[j].Tokens
		}
		return out[i].Module < out[j].Module
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Kinds returns the extracted kinds, sorted.
func (s *Stats) Kinds() []lang.EntityKind {
	kinds := make([]lang.EntityKind, 0, len(s.ChunksByKind))
	for k := range s.ChunksByKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func computeStats(res *Result, seen int, diags map[diag.Kind]int) Stats {
	st := Stats{
		TotalFiles:        seen,
		IncludedFiles:     len(res.Files),
		SummaryTokens:     EstimateTokens(res.Summary),
		InstructionTokens: EstimateTokens(res.Instructions),
		ModuleTokens:      map[string]int{},
		Chunks:            len(res.Chunks),
		ChunksByKind:      map[lang.EntityKind]int{},
		Outcomes:          map[extract.Outcome]int{},
		Diagnostics:       diags,
	}
	for _, f := range res.Files {
		st.Outcomes[f.Outcome]++
		st.CodeTokens += f.Tokens
		st.ContentChars += f.Size
		if f.Tokens > 0 {
			st.ModuleTokens[discover.ModuleName(f.Path)] += f.Tokens
		}
	}
	for _, c := range res.Chunks {
		st.ChunksByKind[c.Kind]++
		st.ChunkTokens += EstimateTokens(c.Code)
	}
	st.TotalTokens = st.SummaryTokens + st.InstructionTokens + st.CodeTokens
	return st
}
