package parser

import (
	"errors"
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	tree_sitter_bash "github.com/tree-sitter/tree-sitter-bash/bindings/go"
	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_ocaml "github.com/tree-sitter/tree-sitter-ocaml/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_scala "github.com/tree-sitter/tree-sitter-scala/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	tree_sitter_hcl "github.com/tree-sitter-grammars/tree-sitter-hcl/bindings/go"
	tree_sitter_kotlin "github.com/tree-sitter-grammars/tree-sitter-kotlin/bindings/go"
	tree_sitter_lua "github.com/tree-sitter-grammars/tree-sitter-lua/bindings/go"
	tree_sitter_objc "github.com/tree-sitter-grammars/tree-sitter-objc/bindings/go"
	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"

	"github.com/a-menaf-altintas/codescan/internal/lang"
)

// LoaderFunc produces the tree-sitter language for one grammar.
type LoaderFunc func() (*tree_sitter.Language, error)

var errNilLanguage = errors.New("binding returned nil language")

func fromBinding(fn func() unsafe.Pointer) LoaderFunc {
	return func() (*tree_sitter.Language, error) {
		ptr := fn()
		if ptr == nil {
			return nil, errNilLanguage
		}
		return tree_sitter.NewLanguage(ptr), nil
	}
}

// defaultLoaders returns the compiled-in grammar bindings. PHP uses the
// full grammar so files starting with `<?php` parse.
func defaultLoaders() map[lang.Language]LoaderFunc {
	return map[lang.Language]LoaderFunc{
		lang.Java:       fromBinding(tree_sitter_java.Language),
		lang.Python:     fromBinding(tree_sitter_python.Language),
		lang.JavaScript: fromBinding(tree_sitter_javascript.Language),
		lang.TypeScript: fromBinding(tree_sitter_typescript.LanguageTypescript),
		lang.TSX:        fromBinding(tree_sitter_typescript.LanguageTSX),
		lang.Go:         fromBinding(tree_sitter_go.Language),
		lang.CSharp:     fromBinding(tree_sitter_c_sharp.Language),
		lang.Ruby:       fromBinding(tree_sitter_ruby.Language),
		lang.Rust:       fromBinding(tree_sitter_rust.Language),
		lang.PHP:        fromBinding(tree_sitter_php.LanguagePHP),
		lang.CPP:        fromBinding(tree_sitter_cpp.Language),
		lang.C:          fromBinding(tree_sitter_c.Language),
		lang.Scala:      fromBinding(tree_sitter_scala.Language),
		lang.Bash:       fromBinding(tree_sitter_bash.Language),
		lang.Kotlin:     fromBinding(tree_sitter_kotlin.Language),
		lang.Lua:        fromBinding(tree_sitter_lua.Language),
		lang.Zig:        fromBinding(tree_sitter_zig.Language),
		lang.HCL:        fromBinding(tree_sitter_hcl.Language),
		lang.ObjectiveC: fromBinding(tree_sitter_objc.Language),
		lang.OCaml:      fromBinding(tree_sitter_ocaml.LanguageOCaml),
	}
}
