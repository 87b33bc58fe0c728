package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolateConfig(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CALTRACK_CONFIG_PATH", home)
	for _, key := range []string{"CALTRACK_BACKEND", "CALTRACK_PATH", "CALTRACK_GOAL", "CALTRACK_APPWRITE_PROJECT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}

func TestLoadConfigDefaults(t *testing.T) {
	home := isolateConfig(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Backend != BackendDiskv {
		t.Fatalf("expected diskv backend, got %q", cfg.Backend)
	}
	if want := filepath.Join(home, ".caltrack.db"); cfg.Path != want {
		t.Fatalf("expected path %q, got %q", want, cfg.Path)
	}
	if cfg.Goal != 2000 || cfg.PageSize != 10 {
		t.Fatalf("unexpected goal/page size %d/%d", cfg.Goal, cfg.PageSize)
	}
	if cfg.Appwrite.TimeField != "recordedAt" || cfg.Appwrite.Timeout != 15*time.Second {
		t.Fatalf("unexpected appwrite defaults %+v", cfg.Appwrite)
	}
	if cfg.Postgres.Table != "calorie_entries" {
		t.Fatalf("unexpected postgres table %q", cfg.Postgres.Table)
	}
	if cfg.Log.Level != "error" {
		t.Fatalf("unexpected log level %q", cfg.Log.Level)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	home := isolateConfig(t)
	body := "backend: Appwrite\ngoal: 1800\nappwrite:\n  project: from-file\n  timeout: 3s\n"
	if err := os.WriteFile(filepath.Join(home, ".caltrack.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CALTRACK_APPWRITE_PROJECT", "from-env")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Backend != BackendAppwrite {
		t.Fatalf("expected normalized appwrite backend, got %q", cfg.Backend)
	}
	if cfg.Goal != 1800 {
		t.Fatalf("expected goal from file, got %d", cfg.Goal)
	}
	if cfg.Appwrite.Project != "from-env" {
		t.Fatalf("expected env override, got %q", cfg.Appwrite.Project)
	}
	if cfg.Appwrite.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %v", cfg.Appwrite.Timeout)
	}
	if cfg.ConfigFile == "" {
		t.Fatalf("expected config file to be reported")
	}
}
