package discover

import (
	"path/filepath"
	"strings"

	"github.com/a-menaf-altintas/codescan/internal/lang"
)

// testSuffixes mark test files in any language.
var testSuffixes = []string{
	"Test.java", "Tests.java", "IT.java", "Spec.java",
	"Test.kt", "Tests.kt",
	".test.js", ".spec.js", ".test.jsx",
	".test.ts", ".spec.ts", ".test.tsx",
	"_test.py", "_spec.rb", "_test.go",
	"Tests.cs",
}

// testFilePattern defines how to detect test files for a language.
type testFilePattern struct {
	// suffixes on the base filename (e.g., "_test.go")
	suffixes []string
	// prefixes on the base filename (e.g., "test_")
	prefixes []string
	// stripExtSuffixes: suffixes checked on the base name after stripping ext (e.g., ".test", ".spec")
	stripExtSuffixes []string
	// testDirs: directory patterns that indicate test files
	testDirs []string
}

// testFilePatterns maps languages to their test file detection patterns.
var testFilePatterns = map[lang.Language]testFilePattern{
	lang.Go: {suffixes: []string{"_test.go"}},
	lang.Python: {
		prefixes: []string{"test_"},
		suffixes: []string{"_test.py"},
		testDirs: []string{"__tests__", "tests"},
	},
	lang.JavaScript: {
		stripExtSuffixes: []string{".test", ".spec"},
		testDirs:         []string{"__tests__"},
	},
	lang.TypeScript: {
		stripExtSuffixes: []string{".test", ".spec"},
		testDirs:         []string{"__tests__"},
	},
	lang.TSX: {
		stripExtSuffixes: []string{".test", ".spec"},
		testDirs:         []string{"__tests__"},
	},
	lang.Java: {
		suffixes: []string{"Test.java", "Tests.java", "IT.java"},
		testDirs: []string{"src/test"},
	},
	lang.Rust: {
		suffixes: []string{"_test.rs"},
		testDirs: []string{"tests"},
	},
	lang.CPP: {
		stripExtSuffixes: []string{"_test"},
		testDirs:         []string{"test", "tests"},
	},
	lang.C: {
		stripExtSuffixes: []string{"_test"},
		prefixes:         []string{"test_"},
	},
	lang.PHP: {
		suffixes: []string{"Test.php"},
		testDirs: []string{"tests"},
	},
	lang.Ruby: {
		suffixes: []string{"_spec.rb", "_test.rb"},
		testDirs: []string{"spec"},
	},
	lang.Scala: {
		stripExtSuffixes: []string{"Spec", "Test"},
		testDirs:         []string{"src/test"},
	},
	lang.CSharp: {
		stripExtSuffixes: []string{"Test", "Tests"},
		testDirs:         []string{"Tests", "tests"},
	},
	lang.Kotlin: {
		stripExtSuffixes: []string{"Test", "Tests", "Spec"},
		testDirs:         []string{"src/test"},
	},
	lang.Lua: {
		suffixes: []string{"_test.lua", "_spec.lua"},
		prefixes: []string{"test_"},
		testDirs: []string{"spec"},
	},
	lang.Zig:  {suffixes: []string{"_test.zig"}},
	lang.Bash: {suffixes: []string{"_test.sh"}},
}

// IsTestFile reports whether relPath is a test file: a known test suffix,
// a "test" or "tests" path segment, or the language's own naming convention.
// language may be empty.
func IsTestFile(relPath string, language lang.Language) bool {
	relPath = filepath.ToSlash(relPath)
	base := filepath.Base(relPath)
	for _, s := range testSuffixes {
		if strings.HasSuffix(base, s) {
			return true
		}
	}
	for _, part := range strings.Split(strings.ToLower(relPath), "/") {
		if part == "test" || part == "tests" {
			return true
		}
	}
	return isLanguageTestFile(relPath, language)
}

func isLanguageTestFile(relPath string, language lang.Language) bool {
	pattern, ok := testFilePatterns[language]
	if !ok {
		return false
	}

	base := filepath.Base(relPath)

	for _, s := range pattern.suffixes {
		if strings.HasSuffix(base, s) {
			return true
		}
	}
	for _, p := range pattern.prefixes {
		if strings.HasPrefix(base, p) {
			return true
		}
	}
	if len(pattern.stripExtSuffixes) > 0 {
		noExt := strings.TrimSuffix(base, filepath.Ext(base))
		for _, s := range pattern.stripExtSuffixes {
			if strings.HasSuffix(noExt, s) {
				return true
			}
		}
	}
	if len(pattern.testDirs) > 0 {
		return containsTestDir(filepath.Dir(relPath), pattern.testDirs...)
	}
	return false
}

// containsTestDir returns true if any segment of dir matches one of the patterns.
func containsTestDir(dir string, patterns ...string) bool {
	normalised := filepath.ToSlash(dir)
	for _, p := range patterns {
		if strings.Contains(normalised, p+"/") || strings.HasSuffix(normalised, p) {
			return true
		}
	}
	return false
}
