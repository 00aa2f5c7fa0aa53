package lang

import (
	"fmt"
	"sort"
	"strings"
)

// Language represents a supported programming language.
type Language string

const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	Go         Language = "go"
	Rust       Language = "rust"
	Java       Language = "java"
	CPP        Language = "cpp"
	C          Language = "c"
	CSharp     Language = "c-sharp"
	PHP        Language = "php"
	Ruby       Language = "ruby"
	Lua        Language = "lua"
	Scala      Language = "scala"
	Kotlin     Language = "kotlin"
	Bash       Language = "bash"
	Zig        Language = "zig"
	HCL        Language = "hcl"
	ObjectiveC Language = "objc"
	OCaml      Language = "ocaml"
)

// AllLanguages returns all supported languages.
func AllLanguages() []Language {
	return []Language{
		Java, Python, JavaScript, TypeScript, TSX, Go, CSharp, Ruby, Rust,
		PHP, CPP, C, Scala, Kotlin, Lua, Bash, Zig, HCL, ObjectiveC, OCaml,
	}
}

// EntityKind is the tag attached to every extracted code chunk.
type EntityKind string

const (
	Class                 EntityKind = "CLASS"
	Interface             EntityKind = "INTERFACE"
	Method                EntityKind = "METHOD"
	Constructor           EntityKind = "CONSTRUCTOR"
	Enum                  EntityKind = "ENUM"
	Function              EntityKind = "FUNCTION"
	Struct                EntityKind = "STRUCT"
	Trait                 EntityKind = "TRAIT"
	Record                EntityKind = "RECORD"
	Annotation            EntityKind = "ANNOTATION"
	Module                EntityKind = "MODULE"
	Namespace             EntityKind = "NAMESPACE"
	Object                EntityKind = "OBJECT"
	TypeAlias             EntityKind = "TYPE"
	Impl                  EntityKind = "IMPL"
	ArrowFunctionVariable EntityKind = "ARROW_FUNCTION_VARIABLE"
	Block                 EntityKind = "BLOCK"
)

// DefinitionCapture is the label every catalog pattern binds to the whole
// declaration node, so the chunk span covers the full entity.
const DefinitionCapture = "definition"

// EntityDef pairs an entity kind with the structural pattern that finds it.
// NameCapture must be a label bound somewhere in Pattern.
type EntityDef struct {
	Kind        EntityKind
	Pattern     string
	NameCapture string
}

// Validate checks that the name capture label appears in the pattern.
func (d EntityDef) Validate() error {
	if d.Kind == "" {
		return fmt.Errorf("entity def: empty kind")
	}
	if d.NameCapture == "" {
		return fmt.Errorf("entity def %s: empty name capture", d.Kind)
	}
	if !bindsCapture(d.Pattern, d.NameCapture) {
		return fmt.Errorf("entity def %s: pattern does not bind @%s", d.Kind, d.NameCapture)
	}
	return nil
}

// bindsCapture reports whether @label appears as a whole token in pattern.
func bindsCapture(pattern, label string) bool {
	token := "@" + label
	for i := 0; ; {
		j := strings.Index(pattern[i:], token)
		if j < 0 {
			return false
		}
		end := i + j + len(token)
		if end == len(pattern) || !isCaptureChar(pattern[end]) {
			return true
		}
		i = end
	}
}

func isCaptureChar(c byte) bool {
	return c == '_' || c == '.' || c == '-' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// LanguageSpec describes a language: the file extensions that resolve to it
// and the ordered list of entities extracted from its syntax trees.
type LanguageSpec struct {
	Language       Language
	FileExtensions []string
	Entities       []EntityDef
}

// Validate checks every entity definition of the language.
func (s *LanguageSpec) Validate() error {
	if len(s.FileExtensions) == 0 {
		return fmt.Errorf("%s: no file extensions", s.Language)
	}
	for _, d := range s.Entities {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.Language, err)
		}
	}
	return nil
}

// Kinds returns the distinct entity kinds of the language in catalog order.
func (s *LanguageSpec) Kinds() []EntityKind {
	seen := map[EntityKind]bool{}
	var kinds []EntityKind
	for _, d := range s.Entities {
		if !seen[d.Kind] {
			seen[d.Kind] = true
			kinds = append(kinds, d.Kind)
		}
	}
	return kinds
}

// registry maps lower-cased file extensions to language specs.
var registry = map[string]*LanguageSpec{}

// byLanguage maps languages to their specs.
var byLanguage = map[Language]*LanguageSpec{}

// Register adds a LanguageSpec to the global registry.
func Register(spec *LanguageSpec) {
	for _, ext := range spec.FileExtensions {
		registry[strings.ToLower(ext)] = spec
	}
	byLanguage[spec.Language] = spec
}

// ForExtension returns the LanguageSpec for a file extension (e.g. ".go").
// Lookup is case-insensitive.
func ForExtension(ext string) *LanguageSpec {
	return registry[strings.ToLower(ext)]
}

// ForLanguage returns the LanguageSpec for a language.
func ForLanguage(l Language) *LanguageSpec {
	return byLanguage[l]
}

// LanguageForExtension returns the Language for a file extension.
func LanguageForExtension(ext string) (Language, bool) {
	spec := ForExtension(ext)
	if spec == nil {
		return "", false
	}
	return spec.Language, true
}

// Extensions returns every registered extension, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
