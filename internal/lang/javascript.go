package lang

// arrowVariable matches `const f = (...) => ...` at declaration level.
const arrowVariable = `(lexical_declaration
  (variable_declarator
    name: (identifier) @name
    value: (arrow_function))) @definition`

func init() {
	Register(&LanguageSpec{
		Language:       JavaScript,
		FileExtensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		Entities: []EntityDef{
			{Class, `(class_declaration name: (identifier) @name) @definition`, "name"},
			{Function, `(function_declaration name: (identifier) @name) @definition`, "name"},
			{Function, `(generator_function_declaration name: (identifier) @name) @definition`, "name"},
			{Method, `(method_definition name: (property_identifier) @name) @definition`, "name"},
			{ArrowFunctionVariable, arrowVariable, "name"},
		},
	})
}
