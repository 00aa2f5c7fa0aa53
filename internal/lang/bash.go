package lang

func init() {
	Register(&LanguageSpec{
		Language:       Bash,
		FileExtensions: []string{".sh", ".bash"},
		Entities: []EntityDef{
			{Function, `(function_definition name: (word) @name) @definition`, "name"},
		},
	})
}
