package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bryan-buckman/rewind365/internal/api"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Config
		wantErr bool
	}{
		{
			name: "defaults",
			env:  nil,
			want: Config{Addr: DefaultAddr, APIBaseURL: api.DefaultBaseURL, SessionStore: "memory"},
		},
		{
			name: "base url override",
			env:  map[string]string{EnvAPIBaseURL: "https://api.rewind365.example"},
			want: Config{Addr: DefaultAddr, APIBaseURL: "https://api.rewind365.example", SessionStore: "memory"},
		},
		{
			name: "port",
			env:  map[string]string{EnvPort: "8080"},
			want: Config{Addr: ":8080", APIBaseURL: api.DefaultBaseURL, SessionStore: "memory"},
		},
		{
			name: "addr wins over port",
			env:  map[string]string{EnvPort: "8080", EnvAddr: "127.0.0.1:9000"},
			want: Config{Addr: "127.0.0.1:9000", APIBaseURL: api.DefaultBaseURL, SessionStore: "memory"},
		},
		{
			name: "store and strict",
			env: map[string]string{
				EnvSessionStore: "SQLite",
				EnvSessionDSN:   "/tmp/s.db",
				EnvStrict:       "true",
				EnvTimezone:     "UTC",
			},
			want: Config{
				Addr:         DefaultAddr,
				APIBaseURL:   api.DefaultBaseURL,
				SessionStore: "sqlite",
				SessionDSN:   "/tmp/s.db",
				Strict:       true,
				Timezone:     "UTC",
			},
		},
		{
			name:    "bad strict",
			env:     map[string]string{EnvStrict: "maybe"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromEnv(envMap(tt.env))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(EnvAPIBaseURL+"=http://from-dotenv:8000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIBaseURL, "")
	os.Unsetenv(EnvAPIBaseURL)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "http://from-dotenv:8000" {
		t.Errorf("expected base URL from .env, got %q", cfg.APIBaseURL)
	}
}

func TestLoad_EnvironmentWinsOverDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(EnvAPIBaseURL+"=http://from-dotenv:8000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIBaseURL, "http://from-env:8000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "http://from-env:8000" {
		t.Errorf("expected environment to win, got %q", cfg.APIBaseURL)
	}
}

func TestLocation(t *testing.T) {
	loc, err := Config{}.Location()
	if err != nil || loc != time.Local {
		t.Errorf("expected time.Local, got %v, %v", loc, err)
	}
	loc, err = Config{Timezone: "UTC"}.Location()
	if err != nil || loc.String() != "UTC" {
		t.Errorf("expected UTC, got %v, %v", loc, err)
	}
	if _, err := (Config{Timezone: "Not/AZone"}).Location(); err == nil {
		t.Error("expected error for unknown zone")
	}
}
