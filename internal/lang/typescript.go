package lang

// typeScriptEntities is shared by the TypeScript and TSX grammars; both
// expose the same declaration node kinds.
var typeScriptEntities = []EntityDef{
	{Class, `(class_declaration name: (type_identifier) @name) @definition`, "name"},
	{Class, `(abstract_class_declaration name: (type_identifier) @name) @definition`, "name"},
	{Interface, `(interface_declaration name: (type_identifier) @name) @definition`, "name"},
	{Function, `(function_declaration name: (identifier) @name) @definition`, "name"},
	{Method, `(method_definition name: (property_identifier) @name) @definition`, "name"},
	{Enum, `(enum_declaration name: (identifier) @name) @definition`, "name"},
	{TypeAlias, `(type_alias_declaration name: (type_identifier) @name) @definition`, "name"},
	{ArrowFunctionVariable, arrowVariable, "name"},
}

func init() {
	Register(&LanguageSpec{
		Language:       TypeScript,
		FileExtensions: []string{".ts", ".mts", ".cts"},
		Entities:       typeScriptEntities,
	})
}
