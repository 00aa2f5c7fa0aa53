package lang

// Kotlin declarations carry their name as an unlabeled child, so the
// patterns match on child kind instead of a field.
func init() {
	Register(&LanguageSpec{
		Language:       Kotlin,
		FileExtensions: []string{".kt", ".kts"},
		Entities: []EntityDef{
			{Class, `(class_declaration (type_identifier) @name) @definition`, "name"},
			{Object, `(object_declaration (type_identifier) @name) @definition`, "name"},
			{Function, `(function_declaration (simple_identifier) @name) @definition`, "name"},
		},
	})
}
