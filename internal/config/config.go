// Package config resolves the fixed data locations. There are no flags,
// environment variables or config files: everything lives next to the
// running executable, matching how the data files are shipped around.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	storeFileName = "inventory.json"
	logFileName   = "global_log.json"
	backupDirName = "Backups"
)

// Config holds the resolved data locations.
type Config struct {
	StoreFile string
	LogFile   string
	BackupDir string
}

// Resolve anchors the config at the executable's directory.
func Resolve() (Config, error) {
	exe, err := os.Executable()
	if err != nil {
		return Config{}, fmt.Errorf("locating executable: %w", err)
	}
	return In(filepath.Dir(exe)), nil
}

// In anchors the config at dir. Tests use this to point at a temp dir.
func In(dir string) Config {
	return Config{
		StoreFile: filepath.Join(dir, storeFileName),
		LogFile:   filepath.Join(dir, logFileName),
		BackupDir: filepath.Join(dir, backupDirName),
	}
}
