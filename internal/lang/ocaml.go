package lang

// The definition capture sits on the binding so each `and`-joined binding
// is its own chunk. Only let bindings taking parameters count as functions.
func init() {
	Register(&LanguageSpec{
		Language:       OCaml,
		FileExtensions: []string{".ml", ".mli"},
		Entities: []EntityDef{
			{Module, `(module_binding (module_name) @name) @definition`, "name"},
			{Class, `(class_binding (class_name) @name) @definition`, "name"},
			{TypeAlias, `(type_binding (type_constructor) @name) @definition`, "name"},
			{Function, `(let_binding pattern: (value_name) @name . (parameter)) @definition`, "name"},
		},
	})
}
