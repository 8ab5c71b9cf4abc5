package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-password/password"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	defaultPort          = "8001"
	defaultDataDir       = "data"
	defaultTMDBBaseURL   = "https://api.themoviedb.org/3"
	defaultCacheTTLHours = 24
	jwtSecretFile        = "jwt_secret"
)

// Settings holds the backend configuration.
type Settings struct {
	Server   ServerSettings   `json:"server" yaml:"server"`
	Database DatabaseSettings `json:"database" yaml:"database"`
	TMDB     TMDBSettings     `json:"tmdb" yaml:"tmdb"`
	Auth     AuthSettings     `json:"auth" yaml:"auth"`
	Logging  LoggingSettings  `json:"logging" yaml:"logging"`
}

type ServerSettings struct {
	Port        string   `json:"port" yaml:"port"`
	DataDir     string   `json:"data_dir" yaml:"data_dir"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins"`
}

type DatabaseSettings struct {
	// Driver is sqlite3 or postgres.
	Driver string `json:"driver" yaml:"driver"`
	// URL is a file path for sqlite3 or a connection string for postgres.
	URL string `json:"url" yaml:"url"`
}

type TMDBSettings struct {
	APIKey        string `json:"api_key" yaml:"api_key"`
	BaseURL       string `json:"base_url" yaml:"base_url"`
	Language      string `json:"language" yaml:"language"`
	CacheTTLHours int    `json:"cache_ttl_hours" yaml:"cache_ttl_hours"`
	// Demo serves a small built-in public domain catalog instead of calling TMDB.
	Demo bool `json:"demo" yaml:"demo"`
}

type AuthSettings struct {
	JWTSecret       string        `json:"jwt_secret" yaml:"jwt_secret"`
	SessionDuration time.Duration `json:"session_duration" yaml:"session_duration"`
	// LoginRatePerMinute bounds register/login attempts per client IP.
	LoginRatePerMinute int `json:"login_rate_per_minute" yaml:"login_rate_per_minute"`
}

type LoggingSettings struct {
	File       string `json:"file" yaml:"file"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days"`
}

// Default returns settings usable for a local development instance.
func Default() Settings {
	return Settings{
		Server: ServerSettings{
			Port:        defaultPort,
			DataDir:     defaultDataDir,
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseSettings{Driver: DriverSQLite},
		TMDB: TMDBSettings{
			BaseURL:       defaultTMDBBaseURL,
			Language:      "en-US",
			CacheTTLHours: defaultCacheTTLHours,
		},
		Auth: AuthSettings{
			SessionDuration:    30 * 24 * time.Hour,
			LoginRatePerMinute: 10,
		},
		Logging: LoggingSettings{
			MaxSizeMB:  20,
			MaxBackups: 5,
			MaxAgeDays: 14,
		},
	}
}

// Load reads settings from path (YAML or JSON by extension) on top of the
// defaults, then applies environment overrides. An empty path skips the file.
func Load(path string) (Settings, error) {
	settings := Default()

	if strings.TrimSpace(path) != "" {
		if err := decodeFile(path, &settings); err != nil {
			return Settings{}, err
		}
	}

	// .env is optional; a missing file is not an error.
	envFile := filepath.Join(filepath.Dir(path), ".env")
	if strings.TrimSpace(path) == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Settings{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	settings.ApplyEnv(os.Getenv)
	settings.normalize()
	return settings, nil
}

func decodeFile(path string, cfg *Settings) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
			return fmt.Errorf("failed to decode YAML config file %s: %w", path, err)
		}
		return nil
	}
	if err := json.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode JSON config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from environment variables resolved by getenv.
func (s *Settings) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		s.Server.Port = v
	}
	if v := strings.TrimSpace(getenv("DATA_DIR")); v != "" {
		s.Server.DataDir = v
	}
	if v := strings.TrimSpace(getenv("CORS_ORIGINS")); v != "" {
		s.Server.CORSOrigins = splitList(v)
	}
	if v := strings.TrimSpace(getenv("DB_DRIVER")); v != "" {
		s.Database.Driver = v
	}
	if v := strings.TrimSpace(getenv("DATABASE_URL")); v != "" {
		s.Database.URL = v
	}
	if v := strings.TrimSpace(getenv("TMDB_API_KEY")); v != "" {
		s.TMDB.APIKey = v
	}
	if v := strings.TrimSpace(getenv("TMDB_LANGUAGE")); v != "" {
		s.TMDB.Language = v
	}
	if v := strings.TrimSpace(getenv("JWT_SECRET")); v != "" {
		s.Auth.JWTSecret = v
	}
	if v := strings.TrimSpace(getenv("SESSION_DURATION")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			s.Auth.SessionDuration = d
		}
	}
	if v := strings.TrimSpace(getenv("LOG_FILE")); v != "" {
		s.Logging.File = v
	}
	if v := strings.TrimSpace(getenv("TMDB_DEMO")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s.TMDB.Demo = b
		}
	}
	if v := strings.TrimSpace(getenv("TMDB_CACHE_TTL_HOURS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.TMDB.CacheTTLHours = n
		}
	}
}

func (s *Settings) normalize() {
	if s.Server.Port == "" {
		s.Server.Port = defaultPort
	}
	if s.Server.DataDir == "" {
		s.Server.DataDir = defaultDataDir
	}
	s.Database.Driver = strings.ToLower(strings.TrimSpace(s.Database.Driver))
	switch s.Database.Driver {
	case "postgresql", "pg":
		s.Database.Driver = DriverPostgres
	case "", "sqlite":
		s.Database.Driver = DriverSQLite
	}
	if s.Database.Driver == DriverSQLite && s.Database.URL == "" {
		s.Database.URL = filepath.Join(s.Server.DataDir, "nebulastream.db")
	}
	if s.TMDB.BaseURL == "" {
		s.TMDB.BaseURL = defaultTMDBBaseURL
	}
	s.TMDB.BaseURL = strings.TrimRight(s.TMDB.BaseURL, "/")
	s.TMDB.Language = NormalizeLanguage(s.TMDB.Language)
	if s.TMDB.CacheTTLHours <= 0 {
		s.TMDB.CacheTTLHours = defaultCacheTTLHours
	}
	if s.Auth.LoginRatePerMinute <= 0 {
		s.Auth.LoginRatePerMinute = 10
	}
	if strings.TrimSpace(s.TMDB.APIKey) == "" {
		s.TMDB.Demo = true
	}
}

// Validate reports configuration that would prevent the server from starting.
func (s Settings) Validate() error {
	switch s.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", s.Database.Driver)
	}
	if s.Database.Driver == DriverPostgres && strings.TrimSpace(s.Database.URL) == "" {
		return errors.New("database url is required for postgres")
	}
	return nil
}

// NormalizeLanguage converts loose locale strings (en, en_US, pt-br) into the
// language-REGION form TMDB expects. Unparseable values fall back to en-US.
func NormalizeLanguage(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "en-US"
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "en-US"
	}
	base, _ := tag.Base()
	region, _ := tag.Region()
	if region.String() == "ZZ" {
		return base.String()
	}
	return base.String() + "-" + region.String()
}

// EnsureJWTSecret returns the configured signing secret, or loads one from the
// data directory, generating and persisting it on first start.
func (s *Settings) EnsureJWTSecret() (string, error) {
	if secret := strings.TrimSpace(s.Auth.JWTSecret); secret != "" {
		return secret, nil
	}

	if err := os.MkdirAll(s.Server.DataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(s.Server.DataDir, jwtSecretFile)

	data, err := os.ReadFile(path)
	if err == nil {
		if secret := strings.TrimSpace(string(data)); secret != "" {
			s.Auth.JWTSecret = secret
			return secret, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read jwt secret: %w", err)
	}

	secret, err := password.Generate(64, 10, 0, false, true)
	if err != nil {
		return "", fmt.Errorf("generate jwt secret: %w", err)
	}
	if err := os.WriteFile(path, []byte(secret+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write jwt secret: %w", err)
	}
	s.Auth.JWTSecret = secret
	return secret, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
