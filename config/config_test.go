package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNormalizeLanguage(t *testing.T) {
	tests := map[string]string{
		"":        "en-US",
		"en":      "en-US",
		"en_US":   "en-US",
		"pt-br":   "pt-BR",
		"fr-FR":   "fr-FR",
		"!!bad!!": "en-US",
	}
	for input, expect := range tests {
		if got := NormalizeLanguage(input); got != expect {
			t.Fatalf("NormalizeLanguage(%q) = %q, want %q", input, got, expect)
		}
	}
}

func TestLoadYAMLWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
server:
  port: "9000"
  data_dir: ` + dir + `
tmdb:
  api_key: from-file
  language: de
auth:
  session_duration: 2h
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TMDB_API_KEY", "from-env")

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if settings.Server.Port != "9000" {
		t.Fatalf("expected port 9000, got %q", settings.Server.Port)
	}
	if settings.TMDB.APIKey != "from-env" {
		t.Fatalf("expected env override, got %q", settings.TMDB.APIKey)
	}
	if settings.TMDB.Language != "de-DE" {
		t.Fatalf("expected de-DE, got %q", settings.TMDB.Language)
	}
	if settings.Auth.SessionDuration != 2*time.Hour {
		t.Fatalf("expected 2h session, got %v", settings.Auth.SessionDuration)
	}
	if settings.Database.Driver != DriverSQLite {
		t.Fatalf("expected sqlite default, got %q", settings.Database.Driver)
	}
	if settings.Database.URL != filepath.Join(dir, "nebulastream.db") {
		t.Fatalf("unexpected sqlite path %q", settings.Database.URL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateRejectsPostgresWithoutURL(t *testing.T) {
	settings := Default()
	settings.Database.Driver = DriverPostgres
	if err := settings.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
	settings.Database.Driver = "mysql"
	if err := settings.Validate(); err == nil {
		t.Fatal("expected unsupported driver error")
	}
}

func TestEnsureJWTSecretPersists(t *testing.T) {
	settings := Default()
	settings.Server.DataDir = t.TempDir()

	first, err := settings.EnsureJWTSecret()
	if err != nil {
		t.Fatalf("EnsureJWTSecret returned error: %v", err)
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 character secret, got %d", len(first))
	}

	reloaded := Default()
	reloaded.Server.DataDir = settings.Server.DataDir
	second, err := reloaded.EnsureJWTSecret()
	if err != nil {
		t.Fatalf("second EnsureJWTSecret returned error: %v", err)
	}
	if first != second {
		t.Fatal("expected persisted secret to be reused")
	}
}

func TestApplyEnvDemoFallback(t *testing.T) {
	settings := Default()
	settings.ApplyEnv(func(string) string { return "" })
	settings.normalize()
	if !settings.TMDB.Demo {
		t.Fatal("expected demo mode without an api key")
	}

	settings = Default()
	settings.ApplyEnv(func(key string) string {
		if key == "TMDB_API_KEY" {
			return "abc"
		}
		return ""
	})
	settings.normalize()
	if settings.TMDB.Demo {
		t.Fatal("expected demo mode to stay off when a key is configured")
	}
}
