package pipeline

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSummary is used when the root has no README and no default was
// configured.
const DefaultSummary = "No README found at the project root. The structure and code chunks below describe the project."

// summaryLines is how many non-empty README lines the summary keeps.
const summaryLines = 20

var readmeNames = []string{"README.md", "readme.md", "README.txt", "README.rst", "readme.rst"}

// ProjectSummary returns the head of the first README found in root: lines
// up to and including the 20th non-empty one, blank lines kept. Without a
// readable README it returns fallback, or DefaultSummary when fallback is
// empty.
func ProjectSummary(root, fallback string) string {
	for _, name := range readmeNames {
		if summary, ok := readSummary(filepath.Join(root, name)); ok {
			return summary
		}
	}
	if fallback == "" {
		return DefaultSummary
	}
	return fallback
}

func readSummary(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	var lines []string
	nonEmpty := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.ToValidUTF8(sc.Text(), "")
		lines = append(lines, line)
		if strings.TrimSpace(line) != "" {
			nonEmpty++
		}
		if nonEmpty >= summaryLines {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

// EstimateTokens approximates the token count of text at four characters
// per token.
func EstimateTokens(text string) int {
	return len(text) / 4
}
