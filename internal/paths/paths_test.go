package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBaseDirDefault(t *testing.T) {
	t.Setenv(BaseDirEnv, "")
	home, _ := os.UserHomeDir()
	if got, want := BaseDir(), filepath.Join(home, ".chatdesk"); got != want {
		t.Errorf("BaseDir() = %q, want %q", got, want)
	}
}

func TestPathsFollowOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(BaseDirEnv, dir)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"base", BaseDir(), dir},
		{"config", ConfigPath(), filepath.Join(dir, "config.toml")},
		{"logs", LogDir(), filepath.Join(dir, "logs")},
		{"log file", LogPath(), filepath.Join(dir, "logs", "chatdesk.log")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "home")
	t.Setenv(BaseDirEnv, dir)

	if err := EnsureDir(); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	info, err := os.Stat(LogDir())
	if err != nil {
		t.Fatalf("log dir not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("log dir is not a directory")
	}
	if perm := info.Mode().Perm(); perm != 0700 {
		t.Errorf("log dir permission = %o, want 0700", perm)
	}
}
