package lang

// HCL blocks (resource, variable, module, ...) are named by their leading
// identifier; labels stay in the chunk text.
func init() {
	Register(&LanguageSpec{
		Language:       HCL,
		FileExtensions: []string{".tf", ".hcl"},
		Entities: []EntityDef{
			{Block, `(block . (identifier) @name) @definition`, "name"},
		},
	})
}
