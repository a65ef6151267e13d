// Package config handles the configuration directory, credentials, and logging.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"muse/internal/habit"
)

const (
	// AppName is the application directory name.
	AppName = "muse"

	// EnvFile is the optional dotenv file read from the config directory and
	// the working directory.
	EnvFile = ".env"
)

// ErrMissingCredentials is returned when required API credentials are unset.
var ErrMissingCredentials = errors.New("missing credentials")

// Env holds settings read from the environment.
type Env struct {
	GoogleAPIKey        string         `env:"GOOGLE_API_KEY"`
	GoogleCX            string         `env:"GOOGLE_CX"`
	SpotifyClientID     string         `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string         `env:"SPOTIFY_CLIENT_SECRET"`
	Port                string         `env:"PORT" envDefault:"3000"`
	Rollover            habit.Rollover `env:"MUSE_ROLLOVER" envDefault:"manual"`
}

// expoEnv holds the variable names used by the mobile app build.
// They are only consulted when the plain names are unset.
type expoEnv struct {
	GoogleAPIKey        string `env:"EXPO_PUBLIC_GOOGLE_API_KEY"`
	GoogleCX            string `env:"EXPO_PUBLIC_GOOGLE_CX"`
	SpotifyClientID     string `env:"EXPO_PUBLIC_SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `env:"EXPO_PUBLIC_SPOTIFY_CLIENT_SECRET"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Env holds credentials and server settings.
	Env Env

	logger *zap.Logger
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/muse or $HOME/.config/muse.
// The environment is not read; see Load.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir}, nil
}

// Load is New followed by reading dotenv files and the process environment.
// Variables already set in the environment take precedence over dotenv files.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := loadDotenv(cfg.EnvPath(), EnvFile); err != nil {
		return nil, err
	}
	e, err := ParseEnv(nil)
	if err != nil {
		return nil, err
	}
	cfg.Env = e
	return cfg, nil
}

// ParseEnv parses Env from environment, or from the process environment when
// environment is nil.
func ParseEnv(environment map[string]string) (Env, error) {
	opts := env.Options{Environment: environment}

	var e Env
	if err := env.ParseWithOptions(&e, opts); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}

	var expo expoEnv
	if err := env.ParseWithOptions(&expo, opts); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	fallback(&e.GoogleAPIKey, expo.GoogleAPIKey)
	fallback(&e.GoogleCX, expo.GoogleCX)
	fallback(&e.SpotifyClientID, expo.SpotifyClientID)
	fallback(&e.SpotifyClientSecret, expo.SpotifyClientSecret)
	return e, nil
}

func fallback(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// loadDotenv loads each file that exists. Missing files are skipped.
func loadDotenv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// EnvPath returns the path to the dotenv file in the config directory.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
}

// Logger returns the command logger: a development logger on stderr when
// Debug is set, otherwise a no-op logger.
func (c *Config) Logger() *zap.Logger {
	if c.logger != nil {
		return c.logger
	}
	c.logger = zap.NewNop()
	if c.Debug {
		if l, err := zap.NewDevelopment(); err == nil {
			c.logger = l
		}
	}
	return c.logger
}
