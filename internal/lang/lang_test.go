package lang

import "testing"

func TestForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		lang Language
	}{
		{".py", Python},
		{".go", Go},
		{".js", JavaScript},
		{".jsx", JavaScript},
		{".ts", TypeScript},
		{".tsx", TSX},
		{".rs", Rust},
		{".java", Java},
		{".JAVA", Java},
		{".cpp", CPP},
		{".h", CPP},
		{".c", C},
		{".cs", CSharp},
		{".rb", Ruby},
		{".php", PHP},
		{".lua", Lua},
		{".scala", Scala},
		{".kt", Kotlin},
		{".kts", Kotlin},
		{".sh", Bash},
		{".zig", Zig},
		{".tf", HCL},
	}
	for _, tt := range tests {
		spec := ForExtension(tt.ext)
		if spec == nil {
			t.Errorf("ForExtension(%q) = nil, want %s", tt.ext, tt.lang)
			continue
		}
		if spec.Language != tt.lang {
			t.Errorf("ForExtension(%q).Language = %s, want %s", tt.ext, spec.Language, tt.lang)
		}
	}
}

func TestForLanguage(t *testing.T) {
	for _, l := range AllLanguages() {
		spec := ForLanguage(l)
		if spec == nil {
			t.Errorf("ForLanguage(%s) = nil", l)
			continue
		}
		if len(spec.Entities) == 0 {
			t.Errorf("ForLanguage(%s) has no entity definitions", l)
		}
	}
}

func TestUnknownExtension(t *testing.T) {
	if spec := ForExtension(".xyz"); spec != nil {
		t.Errorf("ForExtension(.xyz) should be nil, got %v", spec)
	}
	if _, ok := LanguageForExtension(".properties"); ok {
		t.Error("LanguageForExtension(.properties) should not resolve")
	}
}

func TestCatalogValid(t *testing.T) {
	for _, l := range AllLanguages() {
		if err := ForLanguage(l).Validate(); err != nil {
			t.Errorf("Validate(%s): %v", l, err)
		}
	}
}

func TestCatalogCapturesDefinition(t *testing.T) {
	for _, l := range AllLanguages() {
		for _, d := range ForLanguage(l).Entities {
			if !bindsCapture(d.Pattern, DefinitionCapture) {
				t.Errorf("%s %s: pattern does not bind @%s", l, d.Kind, DefinitionCapture)
			}
		}
	}
}

func TestJavaCatalogOrder(t *testing.T) {
	spec := ForLanguage(Java)
	want := []EntityKind{Class, Interface, Method, Constructor, Enum}
	kinds := spec.Kinds()
	if len(kinds) < len(want) {
		t.Fatalf("Java kinds = %v, want prefix %v", kinds, want)
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("Java kinds[%d] = %s, want %s", i, kinds[i], k)
		}
	}
}

func TestEntityDefValidate(t *testing.T) {
	tests := []struct {
		name    string
		def     EntityDef
		wantErr bool
	}{
		{"ok", EntityDef{Class, `(class_declaration name: (identifier) @name) @definition`, "name"}, false},
		{"missing label", EntityDef{Class, `(class_declaration) @definition`, "name"}, true},
		{"prefix only", EntityDef{Class, `(class_declaration name: (identifier) @names)`, "name"}, true},
		{"dotted label", EntityDef{Class, `(class_declaration name: (identifier) @class.name)`, "class.name"}, false},
		{"empty kind", EntityDef{"", `(x) @name`, "name"}, true},
		{"empty capture", EntityDef{Class, `(x) @name`, ""}, true},
	}
	for _, tt := range tests {
		err := tt.def.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() err = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestExtensionsSorted(t *testing.T) {
	exts := Extensions()
	for i := 1; i < len(exts); i++ {
		if exts[i-1] > exts[i] {
			t.Fatalf("Extensions not sorted at %d: %q > %q", i, exts[i-1], exts[i])
		}
	}
}
