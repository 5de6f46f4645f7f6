package cli

import (
	"os"

	"github.com/martdesk/martdesk/internal/store"
)

// dataDir holds the --data-dir persistent flag value (set on root command).
var dataDir string

// resolveDataDir returns the data directory from the --data-dir flag,
// MARTDESK_DATA_DIR env var, or ~/.martdesk as fallback.
func resolveDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	if envDir := os.Getenv("MARTDESK_DATA_DIR"); envDir != "" {
		return envDir
	}
	home, _ := os.UserHomeDir()
	return home + "/.martdesk"
}

// openStore opens the SQLite slot store in the resolved data directory.
func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(resolveDataDir())
}
