package lang

// cFunctionPattern matches function definitions whose declarator may be
// wrapped by pointer declarators, as in `char *dup(...)` or `int **grid(...)`.
const cFunctionPattern = `(function_definition declarator: [
  (function_declarator declarator: (identifier) @name)
  (pointer_declarator declarator: (function_declarator declarator: (identifier) @name))
  (pointer_declarator declarator: (pointer_declarator declarator: (function_declarator declarator: (identifier) @name)))
]) @definition`

func init() {
	Register(&LanguageSpec{
		Language:       C,
		FileExtensions: []string{".c"},
		Entities: []EntityDef{
			{Function, cFunctionPattern, "name"},
			{Struct, `(struct_specifier name: (type_identifier) @name body: (field_declaration_list)) @definition`, "name"},
			{Enum, `(enum_specifier name: (type_identifier) @name body: (enumerator_list)) @definition`, "name"},
		},
	})
}
