package lang

func init() {
	Register(&LanguageSpec{
		Language:       Lua,
		FileExtensions: []string{".lua"},
		Entities: []EntityDef{
			{Function, `(function_declaration name: (_) @name) @definition`, "name"},
		},
	})
}
