package lang

func init() {
	Register(&LanguageSpec{
		Language:       Zig,
		FileExtensions: []string{".zig"},
		Entities: []EntityDef{
			{Function, `(function_declaration . (identifier) @name) @definition`, "name"},
			{Struct, `(variable_declaration . (identifier) @name (struct_declaration)) @definition`, "name"},
			{Enum, `(variable_declaration . (identifier) @name (enum_declaration)) @definition`, "name"},
		},
	})
}
