// Package paths lays out the per-user application directory.
package paths

import (
	"os"
	"path/filepath"
)

// BaseDirEnv overrides the application directory when set.
const BaseDirEnv = "CHATDESK_HOME"

// BaseDir returns $CHATDESK_HOME, or ~/.chatdesk.
func BaseDir() string {
	if dir := os.Getenv(BaseDirEnv); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".chatdesk")
}

// ConfigPath returns the config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// LogDir returns the log directory.
func LogDir() string {
	return filepath.Join(BaseDir(), "logs")
}

// LogPath returns the application log file path.
func LogPath() string {
	return filepath.Join(LogDir(), "chatdesk.log")
}

// EnsureDir creates the directory tree with owner-only permissions.
func EnsureDir() error {
	for _, d := range []string{BaseDir(), LogDir()} {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
