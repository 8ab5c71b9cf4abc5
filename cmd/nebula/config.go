package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Terence890/Nebula-Stream/internal/player"
)

const (
	defaultBackendURL = "http://localhost:8001"
	envPrefix         = "NEBULA"
	configName        = "nebula"
)

// cliConfig is resolved from flags, then NEBULA_* variables, then the config
// file, then defaults.
type cliConfig struct {
	BackendURL string
	StateDir   string
	Player     string
	LogFile    string
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "nebulastream")
	}
	return ".nebulastream"
}

// newViper binds the persistent flags to their config keys.
func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("backend_url", defaultBackendURL)
	v.SetDefault("state_dir", defaultStateDir())
	v.SetDefault("player", player.DefaultBinary)
	v.SetDefault("log_file", "")

	for key, flag := range map[string]string{
		"backend_url": "backend-url",
		"state_dir":   "state-dir",
		"player":      "player",
		"log_file":    "log-file",
	} {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind --%s: %w", flag, err)
			}
		}
	}
	return v, nil
}

// loadConfig reads the optional config file and resolves the settings. An
// explicit path must exist; the default nebula.yaml under the state dir may
// be missing.
func loadConfig(v *viper.Viper, path string) (cliConfig, error) {
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString("state_dir"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return cliConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := cliConfig{
		BackendURL: strings.TrimSpace(v.GetString("backend_url")),
		StateDir:   strings.TrimSpace(v.GetString("state_dir")),
		Player:     strings.TrimSpace(v.GetString("player")),
		LogFile:    strings.TrimSpace(v.GetString("log_file")),
	}
	if cfg.BackendURL == "" {
		return cliConfig{}, errors.New("backend url is required")
	}
	if cfg.StateDir == "" {
		cfg.StateDir = defaultStateDir()
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.StateDir, "nebula.log")
	}
	return cfg, nil
}
