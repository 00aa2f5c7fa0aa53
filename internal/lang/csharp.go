package lang

func init() {
	Register(&LanguageSpec{
		Language:       CSharp,
		FileExtensions: []string{".cs"},
		Entities: []EntityDef{
			{Class, `(class_declaration name: (identifier) @name) @definition`, "name"},
			{Interface, `(interface_declaration name: (identifier) @name) @definition`, "name"},
			{Method, `(method_declaration name: (identifier) @name) @definition`, "name"},
			{Constructor, `(constructor_declaration name: (identifier) @name) @definition`, "name"},
			{Enum, `(enum_declaration name: (identifier) @name) @definition`, "name"},
			{Struct, `(struct_declaration name: (identifier) @name) @definition`, "name"},
			{Record, `(record_declaration name: (identifier) @name) @definition`, "name"},
			{Namespace, `(namespace_declaration name: [(qualified_name) (identifier)] @name) @definition`, "name"},
		},
	})
}
