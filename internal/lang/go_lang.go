package lang

func init() {
	Register(&LanguageSpec{
		Language:       Go,
		FileExtensions: []string{".go"},
		Entities: []EntityDef{
			{Function, `(function_declaration name: (identifier) @name) @definition`, "name"},
			{Method, `(method_declaration name: (field_identifier) @name) @definition`, "name"},
			{Struct, `(type_spec name: (type_identifier) @name type: (struct_type)) @definition`, "name"},
			{Interface, `(type_spec name: (type_identifier) @name type: (interface_type)) @definition`, "name"},
		},
	})
}
