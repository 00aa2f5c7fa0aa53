package lang

func init() {
	Register(&LanguageSpec{
		Language:       PHP,
		FileExtensions: []string{".php", ".phtml"},
		Entities: []EntityDef{
			{Class, `(class_declaration name: (name) @name) @definition`, "name"},
			{Interface, `(interface_declaration name: (name) @name) @definition`, "name"},
			{Trait, `(trait_declaration name: (name) @name) @definition`, "name"},
			{Enum, `(enum_declaration name: (name) @name) @definition`, "name"},
			{Function, `(function_definition name: (name) @name) @definition`, "name"},
			{Method, `(method_declaration name: (name) @name) @definition`, "name"},
		},
	})
}
