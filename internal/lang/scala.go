package lang

func init() {
	Register(&LanguageSpec{
		Language:       Scala,
		FileExtensions: []string{".scala", ".sc"},
		Entities: []EntityDef{
			{Class, `(class_definition name: (identifier) @name) @definition`, "name"},
			{Object, `(object_definition name: (identifier) @name) @definition`, "name"},
			{Trait, `(trait_definition name: (identifier) @name) @definition`, "name"},
			{Function, `(function_definition name: (identifier) @name) @definition`, "name"},
		},
	})
}
