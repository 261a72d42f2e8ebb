package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default fanout data directory name (relative to home).
	DefaultDataDir = ".fanout"
	// DBFile is the run history SQLite database filename.
	DBFile = "fanout.db"

	// DownloadsDir is the default directory where flags are saved (relative to the working dir).
	DownloadsDir = "downloaded"
	// FlagFileExtension is the extension of the saved flag images.
	FlagFileExtension = ".gif"
)

// DBPath returns the run history database path inside a data directory.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, DBFile)
}

// DefaultDataDirPath returns the default data directory for a home directory.
func DefaultDataDirPath(homeDir string) string {
	return filepath.Join(homeDir, DefaultDataDir)
}
