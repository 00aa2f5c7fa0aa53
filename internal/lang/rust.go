package lang

func init() {
	Register(&LanguageSpec{
		Language:       Rust,
		FileExtensions: []string{".rs"},
		Entities: []EntityDef{
			{Struct, `(struct_item name: (type_identifier) @name) @definition`, "name"},
			{Enum, `(enum_item name: (type_identifier) @name) @definition`, "name"},
			{Trait, `(trait_item name: (type_identifier) @name) @definition`, "name"},
			{Impl, `(impl_item type: (_) @name) @definition`, "name"},
			{Function, `(function_item name: (identifier) @name) @definition`, "name"},
			{Module, `(mod_item name: (identifier) @name body: (declaration_list)) @definition`, "name"},
		},
	})
}
