package lang

func init() {
	Register(&LanguageSpec{
		Language:       Ruby,
		FileExtensions: []string{".rb", ".rake", ".gemspec"},
		Entities: []EntityDef{
			{Class, `(class name: (_) @name) @definition`, "name"},
			{Module, `(module name: (_) @name) @definition`, "name"},
			{Method, `(method name: (_) @name) @definition`, "name"},
			{Method, `(singleton_method name: (_) @name) @definition`, "name"},
		},
	})
}
