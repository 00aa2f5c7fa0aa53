package extract

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/a-menaf-altintas/codescan/internal/diag"
	"github.com/a-menaf-altintas/codescan/internal/lang"
	"github.com/a-menaf-altintas/codescan/internal/parser"
)

func newRecorder() *diag.Recorder {
	return diag.NewRecorder(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newExtractor(t *testing.T, opts ...Option) (*Extractor, *parser.Registry) {
	t.Helper()
	reg := parser.NewRegistry()
	t.Cleanup(reg.Close)
	return New(reg, opts...), reg
}

func kindsAndNames(ents []Entity) []string {
	out := make([]string, len(ents))
	for i, e := range ents {
		out[i] = string(e.Kind) + " " + e.Name
	}
	return out
}

func TestBuildEmptyMatch(t *testing.T) {
	var m Match
	_, ok := Build("a.java", lang.Class, &m, "name", []byte("class A {}"))
	assert.False(t, ok)

	m.Captures = map[string][]CapturedNode{"name": nil}
	_, ok = Build("a.java", lang.Class, &m, "name", []byte("class A {}"))
	assert.False(t, ok)
}

func TestBuildName(t *testing.T) {
	src := []byte("def compute(x):\n    return x\n")

	var named Match
	named.Add("definition", CapturedNode{StartByte: 0, EndByte: uint(len(src) - 1), StartRow: 0, EndRow: 1})
	named.Add("name", CapturedNode{StartByte: 4, EndByte: 11, StartRow: 0, EndRow: 0})
	ent, ok := Build("m.py", lang.Function, &named, "name", src)
	require.True(t, ok)
	assert.Equal(t, "compute", ent.Name)

	var unnamed Match
	unnamed.Add("definition", CapturedNode{StartByte: 0, EndByte: uint(len(src) - 1), StartRow: 0, EndRow: 1})
	ent, ok = Build("m.py", lang.Function, &unnamed, "name", src)
	require.True(t, ok)
	assert.Equal(t, UnnamedEntity, ent.Name)
}

func TestBuildUnionSpan(t *testing.T) {
	src := []byte("class Foo:\n    x = 1\n    y = 2\n")
	// name and body captured, primary node not captured
	var m Match
	m.Add("name", CapturedNode{StartByte: 6, EndByte: 9, StartRow: 0, EndRow: 0})
	m.Add("body", CapturedNode{StartByte: 15, EndByte: 30, StartRow: 1, EndRow: 2})

	ent, ok := Build("foo.py", lang.Class, &m, "name", src)
	require.True(t, ok)
	assert.Equal(t, 6, ent.StartByte)
	assert.Equal(t, 30, ent.EndByte)
	assert.Equal(t, 1, ent.StartLine)
	assert.Equal(t, 3, ent.EndLine)
	assert.Equal(t, string(src[6:30]), ent.Code)
	assert.Equal(t, "Foo", ent.Name)
	assert.Equal(t, lang.Class, ent.Kind)
	assert.Equal(t, "foo.py", ent.FilePath)
}

func TestBuildInvalidUTF8(t *testing.T) {
	src := []byte("ab\xffcd")
	var m Match
	m.Add("name", CapturedNode{StartByte: 0, EndByte: 5})
	ent, ok := Build("x", lang.Function, &m, "name", src)
	require.True(t, ok)
	assert.True(t, utf8.ValidString(ent.Code))
	assert.Equal(t, "ab�cd", ent.Code)
	assert.Equal(t, "ab�cd", ent.Name)
}

func TestMatchLabelsOrder(t *testing.T) {
	var m Match
	m.Add("b", CapturedNode{StartByte: 1})
	m.Add("a", CapturedNode{StartByte: 2})
	m.Add("b", CapturedNode{StartByte: 3})
	assert.Equal(t, []string{"b", "a"}, m.Labels())
	nodes := m.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, uint(1), nodes[0].StartByte)
	assert.Equal(t, uint(3), nodes[1].StartByte)
	assert.Equal(t, uint(2), nodes[2].StartByte)
	assert.False(t, m.Empty())
}

func TestJavaClassAndMethod(t *testing.T) {
	src := []byte("class Foo { void bar() {} }")
	catalog := func(l lang.Language) []lang.EntityDef {
		return []lang.EntityDef{
			{Kind: lang.Class, Pattern: `(class_declaration name: (identifier) @name) @definition`, NameCapture: "name"},
			{Kind: lang.Method, Pattern: `(method_declaration name: (identifier) @name) @definition`, NameCapture: "name"},
		}
	}
	ex, _ := newExtractor(t, WithCatalog(catalog))

	res := ex.ExtractFile("Foo.java", lang.Java, src)
	require.Equal(t, Extracted, res.Outcome)
	require.Len(t, res.Entities, 2)

	class := res.Entities[0]
	assert.Equal(t, lang.Class, class.Kind)
	assert.Equal(t, "Foo", class.Name)
	assert.Equal(t, string(src), class.Code)
	assert.Equal(t, 1, class.StartLine)
	assert.Equal(t, 1, class.EndLine)

	method := res.Entities[1]
	assert.Equal(t, lang.Method, method.Kind)
	assert.Equal(t, "bar", method.Name)
	assert.Equal(t, "void bar() {}", method.Code)
}

func TestJavaDefaultCatalog(t *testing.T) {
	src := []byte(`package demo;

public class OrderService {
    private final Repo repo;

    public OrderService(Repo repo) {
        this.repo = repo;
    }

    public Order find(long id) {
        return repo.get(id);
    }
}

interface Repo {
    Order get(long id);
}

enum Status { OPEN, CLOSED }
`)
	ex, _ := newExtractor(t)
	res := ex.ExtractFile("demo/OrderService.java", lang.Java, src)
	require.Equal(t, Extracted, res.Outcome)
	assert.Equal(t, []string{
		"CLASS OrderService",
		"INTERFACE Repo",
		"METHOD find",
		"METHOD get",
		"CONSTRUCTOR OrderService",
		"ENUM Status",
	}, kindsAndNames(res.Entities))

	for _, e := range res.Entities {
		assert.LessOrEqual(t, e.StartLine, e.EndLine)
		assert.Equal(t, string(src[e.StartByte:e.EndByte]), e.Code, "round trip %s %s", e.Kind, e.Name)
	}
	ctor := res.Entities[4]
	assert.Equal(t, 6, ctor.StartLine)
	assert.Equal(t, 8, ctor.EndLine)
}

func TestPythonFunctionsAndClasses(t *testing.T) {
	src := []byte(`class Greeter:
    def greet(self, name):
        return "hi " + name


def main():
    Greeter().greet("x")
`)
	ex, _ := newExtractor(t)
	res := ex.ExtractFile("app/greeter.py", lang.Python, src)
	require.Equal(t, Extracted, res.Outcome)
	assert.Equal(t, []string{"CLASS Greeter", "FUNCTION greet", "FUNCTION main"}, kindsAndNames(res.Entities))
	assert.Equal(t, 1, res.Entities[0].StartLine)
	assert.Equal(t, 3, res.Entities[0].EndLine)
	assert.Equal(t, 6, res.Entities[2].StartLine)
}

func TestTypeScriptArrowVariable(t *testing.T) {
	src := []byte("export interface Shape { area(): number }\nconst add = (a: number, b: number) => a + b;\n")
	ex, _ := newExtractor(t)
	res := ex.ExtractFile("src/math.ts", lang.TypeScript, src)
	require.Equal(t, Extracted, res.Outcome)
	assert.Equal(t, []string{"INTERFACE Shape", "ARROW_FUNCTION_VARIABLE add"}, kindsAndNames(res.Entities))
	assert.Equal(t, "const add = (a: number, b: number) => a + b;", res.Entities[1].Code)
	assert.Equal(t, 2, res.Entities[1].StartLine)
}

func TestGoStructAndMethods(t *testing.T) {
	src := []byte(`package shop

type Cart struct {
	Items []string
}

func (c *Cart) Add(item string) {
	c.Items = append(c.Items, item)
}

func New() *Cart { return &Cart{} }
`)
	ex, _ := newExtractor(t)
	res := ex.ExtractFile("shop/cart.go", lang.Go, src)
	require.Equal(t, Extracted, res.Outcome)
	assert.Equal(t, []string{"FUNCTION New", "METHOD Add", "STRUCT Cart"}, kindsAndNames(res.Entities))
	assert.True(t, strings.HasPrefix(res.Entities[2].Code, "Cart struct {"))
	assert.Equal(t, 3, res.Entities[2].StartLine)
}

func TestGoGroupedTypeDeclaration(t *testing.T) {
	src := []byte("package p\n\ntype (\n\tA struct{ X int }\n\tB interface{ M() }\n\tC struct{ Y int }\n)\n")
	ex, _ := newExtractor(t)
	res := ex.ExtractFile("p.go", lang.Go, src)
	require.Equal(t, Extracted, res.Outcome)
	require.Equal(t, []string{"STRUCT A", "STRUCT C", "INTERFACE B"}, kindsAndNames(res.Entities))

	want := map[string]struct {
		line int
		code string
	}{
		"A": {4, "A struct{ X int }"},
		"B": {5, "B interface{ M() }"},
		"C": {6, "C struct{ Y int }"},
	}
	for _, e := range res.Entities {
		assert.Equal(t, want[e.Name].line, e.StartLine, e.Name)
		assert.Equal(t, want[e.Name].line, e.EndLine, e.Name)
		assert.Equal(t, want[e.Name].code, e.Code, e.Name)
	}
}

func TestPointerReturningFunctions(t *testing.T) {
	ex, _ := newExtractor(t)

	c := ex.ExtractFile("str.c", lang.C, []byte("char *dup(const char *s) {\n  return 0;\n}\nint **grid(void) { return 0; }\nint add(int a) { return a; }\n"))
	require.Equal(t, Extracted, c.Outcome)
	assert.Equal(t, []string{"FUNCTION dup", "FUNCTION grid", "FUNCTION add"}, kindsAndNames(c.Entities))
	assert.Equal(t, "char *dup(const char *s) {\n  return 0;\n}", c.Entities[0].Code)
	assert.Equal(t, 3, c.Entities[0].EndLine)

	cpp := ex.ExtractFile("ref.cpp", lang.CPP, []byte("int &get(int *p) { return *p; }\nchar *dup() { return 0; }\nint add() { return 1; }\n"))
	require.Equal(t, Extracted, cpp.Outcome)
	assert.ElementsMatch(t, []string{"FUNCTION get", "FUNCTION dup", "FUNCTION add"}, kindsAndNames(cpp.Entities))
}

func TestPythonDecoratedDefinitions(t *testing.T) {
	src := []byte(`@dataclass
class Point:
    x: int

    @property
    def norm(self):
        return self.x


def plain():
    pass
`)
	ex, _ := newExtractor(t)
	res := ex.ExtractFile("geo.py", lang.Python, src)
	require.Equal(t, Extracted, res.Outcome)
	require.Equal(t, []string{"CLASS Point", "FUNCTION norm", "FUNCTION plain"}, kindsAndNames(res.Entities))

	assert.True(t, strings.HasPrefix(res.Entities[0].Code, "@dataclass\nclass Point:"), res.Entities[0].Code)
	assert.Equal(t, 1, res.Entities[0].StartLine)
	assert.Equal(t, "@property\n    def norm(self):\n        return self.x", res.Entities[1].Code)
	assert.Equal(t, 5, res.Entities[1].StartLine)
	assert.Equal(t, "def plain():\n    pass", res.Entities[2].Code)
}

func TestObjectiveCClassesAndMethods(t *testing.T) {
	src := []byte(`@interface Greeter : NSObject
- (void)greet:(NSString *)name;
@end

@implementation Greeter
- (void)greet:(NSString *)name {
    NSLog(@"Hello %@", name);
}

- (void)run {
    [self greet:@"World"];
}
@end
`)
	ex, _ := newExtractor(t)
	res := ex.ExtractFile("Greeter.m", lang.ObjectiveC, src)
	require.Equal(t, Extracted, res.Outcome)
	got := kindsAndNames(res.Entities)
	assert.Contains(t, got, "CLASS Greeter")
	assert.Contains(t, got, "METHOD greet")
	assert.Contains(t, got, "METHOD run")

	methods := 0
	for _, e := range res.Entities {
		if e.Kind == lang.Method {
			methods++
		}
	}
	assert.Equal(t, 2, methods)
}

func TestOCamlDefinitions(t *testing.T) {
	src := []byte(`type color = Red | Green

module M = struct
  let x = 42
end

let rec even n = n = 0 || odd (n - 1)
and odd n = n <> 0 && even (n - 1)
`)
	ex, _ := newExtractor(t)
	res := ex.ExtractFile("main.ml", lang.OCaml, src)
	require.Equal(t, Extracted, res.Outcome)
	assert.Equal(t, []string{"MODULE M", "TYPE color", "FUNCTION even", "FUNCTION odd"}, kindsAndNames(res.Entities))
	assert.Equal(t, "odd n = n <> 0 && even (n - 1)", res.Entities[3].Code)
}

func TestDeterministic(t *testing.T) {
	src := []byte("class A { void x() {} void y() {} }\nclass B { B() {} }\n")
	ex, _ := newExtractor(t)
	first := ex.ExtractFile("A.java", lang.Java, src)
	second := ex.ExtractFile("A.java", lang.Java, src)
	assert.Equal(t, first.Entities, second.Entities)

	ex2, _ := newExtractor(t)
	third := ex2.ExtractFile("A.java", lang.Java, src)
	assert.Equal(t, first.Entities, third.Entities)
}

func TestUnresolvedLanguage(t *testing.T) {
	ex, _ := newExtractor(t)
	res := ex.ExtractFile("notes.md", "", []byte("# hello"))
	assert.Equal(t, Unsupported, res.Outcome)
	assert.Empty(t, res.Entities)

	res = ex.ExtractFile("x.cob", lang.Language("cobol"), []byte("IDENTIFICATION DIVISION."))
	assert.Equal(t, Unsupported, res.Outcome)
}

func TestGrammarUnavailableReportedOnce(t *testing.T) {
	rec := newRecorder()
	reg := parser.NewRegistry(
		parser.WithReporter(rec),
		parser.WithLoader(lang.Java, func() (*tree_sitter.Language, error) {
			return nil, errors.New("incompatible language version")
		}),
	)
	defer reg.Close()
	ex := New(reg, WithReporter(rec))

	for _, p := range []string{"A.java", "B.java", "C.java"} {
		res := ex.ExtractFile(p, lang.Java, []byte("class A {}"))
		assert.Equal(t, GrammarUnavailable, res.Outcome)
		assert.Empty(t, res.Entities)
	}
	assert.Equal(t, 1, rec.Count(diag.GrammarUnavailable))

	// other languages keep working
	res := ex.ExtractFile("a.py", lang.Python, []byte("def f():\n    pass\n"))
	assert.Equal(t, Extracted, res.Outcome)
	assert.Len(t, res.Entities, 1)
}

func TestPatternCompileErrorSkipsOneDefinition(t *testing.T) {
	rec := newRecorder()
	reg := parser.NewRegistry(parser.WithReporter(rec))
	defer reg.Close()

	bad := `(class_decl name: (identifier) @name) @definition`
	catalog := func(l lang.Language) []lang.EntityDef {
		return []lang.EntityDef{
			{Kind: lang.Class, Pattern: bad, NameCapture: "name"},
			{Kind: lang.Method, Pattern: `(method_declaration name: (identifier) @name) @definition`, NameCapture: "name"},
		}
	}
	ex := New(reg, WithReporter(rec), WithCatalog(catalog))

	for i := 0; i < 2; i++ {
		res := ex.ExtractFile("A.java", lang.Java, []byte("class A { void m() {} }"))
		require.Equal(t, Extracted, res.Outcome)
		assert.Equal(t, 1, res.SkippedDefs)
		assert.Equal(t, []string{"METHOD m"}, kindsAndNames(res.Entities))
	}
	require.Equal(t, 1, rec.Count(diag.PatternCompileError))
	assert.Equal(t, bad, rec.Diagnostics()[0].Pattern)
}

func TestCapturelessPatternIsEmptyMatch(t *testing.T) {
	rec := newRecorder()
	catalog := func(l lang.Language) []lang.EntityDef {
		return []lang.EntityDef{{Kind: lang.Class, Pattern: `(class_declaration)`, NameCapture: "name"}}
	}
	ex, _ := newExtractor(t, WithCatalog(catalog), WithReporter(rec))
	res := ex.ExtractFile("A.java", lang.Java, []byte("class A {}\nclass B {}\n"))
	assert.Equal(t, Extracted, res.Outcome)
	assert.Empty(t, res.Entities)
	assert.Equal(t, 2, res.EmptyMatches)
	assert.Equal(t, 2, rec.Count(diag.EmptyMatch))
}

func TestInvalidUTF8Source(t *testing.T) {
	src := []byte("def f():\n    x = \"\xff\"\n    return x\n")
	ex, _ := newExtractor(t)
	res := ex.ExtractFile("bad.py", lang.Python, src)
	require.Equal(t, Extracted, res.Outcome)
	require.Len(t, res.Entities, 1)
	assert.True(t, utf8.ValidString(res.Entities[0].Code))
	assert.Contains(t, res.Entities[0].Code, "�")
}

type failingGrammar struct{ parser.Grammar }

func (failingGrammar) Parse([]byte) (*tree_sitter.Tree, error) { return nil, parser.ErrParseFailed }

type failingLoader struct{}

func (failingLoader) Load(l lang.Language) (parser.Grammar, error) { return failingGrammar{}, nil }

func TestParseFailure(t *testing.T) {
	rec := newRecorder()
	ex := New(failingLoader{}, WithReporter(rec))
	res := ex.ExtractFile("A.java", lang.Java, []byte("class A {}"))
	assert.Equal(t, ParseFailed, res.Outcome)
	assert.Empty(t, res.Entities)
	assert.Equal(t, 1, rec.Count(diag.ParseFailure))
}

func TestEveryLanguageExtracts(t *testing.T) {
	samples := map[lang.Language]struct {
		src  string
		want string
	}{
		lang.JavaScript: {"function hello() { return 1 }\n", "FUNCTION hello"},
		lang.TSX:        {"function App() { return <div/> }\n", "FUNCTION App"},
		lang.CSharp:     {"class Greeter { public Greeter() {} }\n", "CLASS Greeter"},
		lang.Ruby:       {"class Greeter\n  def greet\n  end\nend\n", "CLASS Greeter"},
		lang.Rust:       {"struct Point { x: i32 }\n", "STRUCT Point"},
		lang.PHP:        {"<?php\nfunction hello() {}\n", "FUNCTION hello"},
		lang.CPP:        {"class Widget { int x; };\n", "CLASS Widget"},
		lang.C:          {"int add(int a, int b) { return a + b; }\n", "FUNCTION add"},
		lang.Scala:      {"object Main { def run(): Unit = {} }\n", "OBJECT Main"},
		lang.Lua:        {"function greet(name)\n  return name\nend\n", "FUNCTION greet"},
		lang.Bash:       {"deploy() {\n  echo hi\n}\n", "FUNCTION deploy"},
		lang.HCL:        {"resource \"aws_s3_bucket\" \"b\" {\n  bucket = \"x\"\n}\n", "BLOCK resource"},
		lang.ObjectiveC: {"@implementation Dog\n- (void)bark {\n}\n@end\n", "CLASS Dog"},
		lang.OCaml:      {"let add x y = x + y\n", "FUNCTION add"},
	}
	ex, _ := newExtractor(t)
	for l, s := range samples {
		res := ex.ExtractFile("sample", l, []byte(s.src))
		if !assert.Equal(t, Extracted, res.Outcome, "%s outcome", l) {
			continue
		}
		got := kindsAndNames(res.Entities)
		assert.Contains(t, got, s.want, "%s entities", l)
	}
}
