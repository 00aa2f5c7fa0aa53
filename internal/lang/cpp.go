package lang

// cppFunctionPattern also accepts declarators wrapped for pointer and
// reference return types: `char *dup(...)`, `Widget &get(...)`.
const cppFunctionPattern = `(function_definition declarator: [
  (function_declarator declarator: (_) @name)
  (pointer_declarator declarator: (function_declarator declarator: (_) @name))
  (reference_declarator (function_declarator declarator: (_) @name))
  (pointer_declarator declarator: (pointer_declarator declarator: (function_declarator declarator: (_) @name)))
]) @definition`

func init() {
	Register(&LanguageSpec{
		Language:       CPP,
		FileExtensions: []string{".cpp", ".h", ".hpp", ".cc", ".cxx", ".hxx", ".hh"},
		Entities: []EntityDef{
			{Class, `(class_specifier name: (type_identifier) @name body: (field_declaration_list)) @definition`, "name"},
			{Struct, `(struct_specifier name: (type_identifier) @name body: (field_declaration_list)) @definition`, "name"},
			{Enum, `(enum_specifier name: (type_identifier) @name body: (enumerator_list)) @definition`, "name"},
			{Function, cppFunctionPattern, "name"},
			{Namespace, `(namespace_definition name: (namespace_identifier) @name) @definition`, "name"},
		},
	})
}
