package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "DATABASE_URL", "TABLE_PREFIX", "CORS_ORIGINS",
		"CATALOG_DATA_DIR", "CATALOG_REMOTE_URL", "CATALOG_REMOTE_TIMEOUT_SECONDS", "LOG_MAX_FILES",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Environment != "dev" || cfg.Port != "3001" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.TablePrefix != "dev_" {
		t.Errorf("TablePrefix = %q, want dev_", cfg.TablePrefix)
	}
	if cfg.RemoteTimeout() != 10*time.Second {
		t.Errorf("RemoteTimeout = %v", cfg.RemoteTimeout())
	}
	if cfg.RemoteURL != "" {
		t.Errorf("RemoteURL = %q, want empty", cfg.RemoteURL)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	dataDir := t.TempDir()
	path := writeConfig(t, `
environment = "prod"
port = "8080"
remote_url = "http://file.example"
remote_timeout_seconds = 3
data_dir = "`+filepath.ToSlash(dataDir)+`"
`)
	t.Setenv("CATALOG_REMOTE_URL", "http://env.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"file overrides default", cfg.Port, "8080"},
		{"env overrides file", cfg.RemoteURL, "http://env.example"},
		{"prefix follows environment", cfg.TablePrefix, "prod_"},
		{"cache under data dir", cfg.CachePath(), filepath.Join(filepath.ToSlash(dataDir), "cache.db")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
	if cfg.RemoteTimeout() != 3*time.Second {
		t.Errorf("RemoteTimeout = %v, want 3s", cfg.RemoteTimeout())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		env     map[string]string
		wantErr string
	}{
		{name: "bad environment", body: `environment = "staging"`, wantErr: "environment"},
		{name: "zero timeout", body: `remote_timeout_seconds = 0`, wantErr: "remote_timeout_seconds"},
		{name: "malformed toml", body: `port = `, wantErr: "parse config"},
		{name: "bad env log files", env: map[string]string{"LOG_MAX_FILES": "0"}, wantErr: "log_max_files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		clearEnv(t)
		if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
			t.Fatal("Load of a missing file succeeded")
		}
	})
}

func TestSetupLogFileKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"catalog-2024-01-01T00-00-00.000.log", "catalog-2024-01-02T00-00-00.000.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	f, err := SetupLogFile(dir, "catalog", 2)
	if err != nil {
		t.Fatalf("SetupLogFile: %v", err)
	}
	f.Close()

	files, _ := filepath.Glob(filepath.Join(dir, "catalog-*.log"))
	if len(files) != 2 {
		t.Fatalf("log files = %v, want 2", files)
	}
	if filepath.Base(files[0]) != "catalog-2024-01-02T00-00-00.000.log" {
		t.Errorf("oldest log not removed: %v", files)
	}
}
