//go:build sqlite_cgo

package store

// CGO driver. Build with: CGO_ENABLED=1 go build -tags sqlite_cgo ./...
import _ "github.com/mattn/go-sqlite3"

const (
	// DriverName is the database/sql driver the store opens.
	DriverName = "sqlite3"
	// BuildMode describes the driver build.
	BuildMode = "cgo"
)

func dsn(path string) string {
	if path == memoryPath {
		return ":memory:?_foreign_keys=on"
	}
	return "file:" + path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
}
