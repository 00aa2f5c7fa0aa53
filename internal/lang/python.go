package lang

// Decorated definitions also match in their bare form; the extractor keeps
// the wider chunk so decorators stay with the entity.
func init() {
	Register(&LanguageSpec{
		Language:       Python,
		FileExtensions: []string{".py", ".pyi"},
		Entities: []EntityDef{
			{Class, `(class_definition name: (identifier) @name) @definition
(decorated_definition definition: (class_definition name: (identifier) @name)) @definition`, "name"},
			{Function, `(function_definition name: (identifier) @name) @definition
(decorated_definition definition: (function_definition name: (identifier) @name)) @definition`, "name"},
		},
	})
}
