package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSnoozeKey(t *testing.T) {
	tests := []struct {
		id, want string
	}{
		{"a1b2c3d4", "alarm/a1b2c3d4"},
		{"550e8400-e29b-41d4-a716-446655440000", "alarm/550e8400-e29b-41d4-a716-446655440000"},
		{"", "alarm/"},
	}
	for _, tt := range tests {
		got := SnoozeKey(tt.id)
		if got != tt.want {
			t.Errorf("SnoozeKey(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestDataDirUsesAPPDATA(t *testing.T) {
	orig := os.Getenv("APPDATA")
	t.Cleanup(func() { os.Setenv("APPDATA", orig) })

	os.Setenv("APPDATA", "/fake/appdata")
	got := DataDir()
	want := filepath.Join("/fake/appdata", AppDirName)
	if got != want {
		t.Errorf("DataDir() = %q, want %q", got, want)
	}
}

func TestDataDirFallsBackWithoutAPPDATA(t *testing.T) {
	orig := os.Getenv("APPDATA")
	t.Cleanup(func() { os.Setenv("APPDATA", orig) })

	os.Unsetenv("APPDATA")
	got := DataDir()

	// Should use ~/.config/duos or temp dir; either way must end with "duos".
	if filepath.Base(got) != AppDirName {
		t.Errorf("DataDir() = %q, expected base dir %q", got, AppDirName)
	}
}

func TestAtomicWriteCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "state.json")
	if err := AtomicWrite(path, []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("AtomicWrite: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("content = %q", data)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind")
	}
}
