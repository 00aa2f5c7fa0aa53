package lang

// Objective-C class, protocol and method nodes carry no name field: the name
// is the first identifier child, or the one right after the return type.
func init() {
	Register(&LanguageSpec{
		Language:       ObjectiveC,
		FileExtensions: []string{".m"},
		Entities: []EntityDef{
			{Class, `(class_interface . (identifier) @name) @definition`, "name"},
			{Class, `(class_implementation . (identifier) @name) @definition`, "name"},
			{Interface, `(protocol_declaration . (identifier) @name) @definition`, "name"},
			{Method, `(method_definition . (identifier) @name) @definition
(method_definition . (_) . (identifier) @name) @definition`, "name"},
			{Function, `(function_definition declarator: (function_declarator declarator: (identifier) @name)) @definition`, "name"},
		},
	})
}
