package fqn

import (
	"path/filepath"
	"strings"
)

// sourceRoots are build-tool source directories that carry no package meaning.
var sourceRoots = []string{
	"src/main/java/",
	"src/main/kotlin/",
	"src/main/scala/",
}

// Compute returns the qualified name of an entity.
// Format: <project>.<rel_path_parts_dotted>.<name>
// Examples:
//   - shop.backend.order.com.shop.order.OrderService.OrderService
//   - shop.web.api.placeOrder
func Compute(project, relPath, name string) string {
	relPath = filepath.ToSlash(relPath)
	for _, root := range sourceRoots {
		if i := strings.Index(relPath, root); i >= 0 {
			relPath = relPath[:i] + relPath[i+len(root):]
			break
		}
	}
	relPath = strings.TrimSuffix(relPath, filepath.Ext(relPath))
	parts := strings.Split(relPath, "/")

	// Python packages and JS/TS index files name their directory
	if n := len(parts); n > 0 && (parts[n-1] == "__init__" || parts[n-1] == "index") {
		parts = parts[:n-1]
	}

	all := append([]string{project}, parts...)
	if name != "" {
		all = append(all, name)
	}
	return strings.Join(all, ".")
}

// ModuleQN returns the qualified name for a module (file without entity name).
func ModuleQN(project, relPath string) string {
	return Compute(project, relPath, "")
}
