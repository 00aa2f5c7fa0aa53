//go:build !sqlite_cgo

package store

// Pure Go driver, no C toolchain required.
import _ "modernc.org/sqlite"

const (
	// DriverName is the database/sql driver the store opens.
	DriverName = "sqlite"
	// BuildMode describes the driver build.
	BuildMode = "purego"
)

func dsn(path string) string {
	if path == memoryPath {
		return ":memory:?_pragma=foreign_keys(1)"
	}
	return "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}
