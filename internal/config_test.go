package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cfg.Username = "jdoe"
	cfg.Concurrency = 2
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(home, ".untis-tabulator.yaml"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.WriteFile(filepath.Join(home, ".untis-tabulator.yaml"), []byte("school: Other\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.School != "Other" {
		t.Errorf("School = %q, want Other", cfg.School)
	}
	if cfg.Server != DefaultConfig().Server {
		t.Errorf("Server = %q, want default", cfg.Server)
	}
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{key: "server", value: "demo.webuntis.com"},
		{key: "timezone", value: "UTC"},
		{key: "timezone", value: "Mars/Olympus", wantErr: true},
		{key: "merge_policy", value: "single"},
		{key: "merge_policy", value: "all", wantErr: true},
		{key: "cache_ttl", value: "30m"},
		{key: "cache_ttl", value: "forever", wantErr: true},
		{key: "concurrency", value: "8"},
		{key: "concurrency", value: "0", wantErr: true},
		{key: "password", value: "secret", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigTTL(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.TTL() != 12*time.Hour {
		t.Errorf("TTL() = %v, want 12h", cfg.TTL())
	}
	cfg.CacheTTL = "bogus"
	if cfg.TTL() != 12*time.Hour {
		t.Errorf("TTL() with bad value = %v, want fallback 12h", cfg.TTL())
	}
}

func TestConfigLocation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timezone = "UTC"
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	if loc.String() != "UTC" {
		t.Errorf("Location() = %v, want UTC", loc)
	}
}
