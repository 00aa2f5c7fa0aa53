package lang

func init() {
	Register(&LanguageSpec{
		Language:       Java,
		FileExtensions: []string{".java"},
		Entities: []EntityDef{
			{Class, `(class_declaration name: (identifier) @name) @definition`, "name"},
			{Interface, `(interface_declaration name: (identifier) @name) @definition`, "name"},
			{Method, `(method_declaration name: (identifier) @name) @definition`, "name"},
			{Constructor, `(constructor_declaration name: (identifier) @name) @definition`, "name"},
			{Enum, `(enum_declaration name: (identifier) @name) @definition`, "name"},
			{Record, `(record_declaration name: (identifier) @name) @definition`, "name"},
			{Annotation, `(annotation_type_declaration name: (identifier) @name) @definition`, "name"},
		},
	})
}
