// v0
// internal/config/config.go
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config captures every runtime setting the server needs. Values are
// layered: defaults, then an optional .properties file, then environment
// variables, each layer overriding the one before it.
type Config struct {
	ListenAddress   string
	LogFilePath     string
	SnapshotSource  string
	TickInterval    time.Duration
	Secret          string
	ShutdownTimeout time.Duration
	PropertiesPath  string
}

const (
	defaultListenAddress  = ":8080"
	defaultLogFile        = "logs/animeitor.log"
	defaultSnapshotSource = "sample/contest.zip"
	defaultTickInterval   = time.Second
	defaultShutdown       = 5 * time.Second
	defaultPropsPath      = "animeitor.properties"
)

// Load resolves configuration by layering defaults, an optional
// properties file, and finally environment variables. The properties
// file location can be overridden with ANIMEITOR_PROPERTIES_PATH.
func Load() (Config, error) {
	cfg := Config{
		ListenAddress:   defaultListenAddress,
		LogFilePath:     filepath.Clean(defaultLogFile),
		SnapshotSource:  defaultSnapshotSource,
		TickInterval:    defaultTickInterval,
		ShutdownTimeout: defaultShutdown,
		Secret:          "",
	}

	propsPath := strings.TrimSpace(os.Getenv("ANIMEITOR_PROPERTIES_PATH"))
	if propsPath == "" {
		propsPath = defaultPropsPath
	}
	cfg.PropertiesPath = propsPath

	if err := applyProperties(&cfg, propsPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.Secret == "" {
		secret, err := GenerateSecret()
		if err != nil {
			return Config{}, fmt.Errorf("generate secret: %w", err)
		}
		cfg.Secret = secret
	}

	return cfg, nil
}

func applyProperties(cfg *Config, path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, ";") {
			continue
		}
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid properties entry on line %d", line)
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if err := setProperty(cfg, key, value); err != nil {
			return fmt.Errorf("property %s: %w", key, err)
		}
	}
	return scanner.Err()
}

func setProperty(cfg *Config, key, value string) error {
	switch key {
	case "listen_address":
		if value == "" {
			return errors.New("listen_address cannot be empty")
		}
		cfg.ListenAddress = value
	case "log_path":
		if value == "" {
			return errors.New("log_path cannot be empty")
		}
		cfg.LogFilePath = filepath.Clean(value)
	case "snapshot_source":
		if value == "" {
			return errors.New("snapshot_source cannot be empty")
		}
		cfg.SnapshotSource = value
	case "tick_interval_ms":
		d, err := parsePositiveMillis(value)
		if err != nil {
			return err
		}
		cfg.TickInterval = d
	case "shutdown_timeout_ms":
		d, err := parsePositiveMillis(value)
		if err != nil {
			return err
		}
		cfg.ShutdownTimeout = d
	case "secret":
		cfg.Secret = value
	default:
		// Unknown keys are ignored to keep the loader forward-compatible.
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v, ok := lookupEnvTrimmed("ANIMEITOR_LISTEN_ADDRESS"); ok {
		if v == "" {
			return errors.New("ANIMEITOR_LISTEN_ADDRESS cannot be empty")
		}
		cfg.ListenAddress = v
	}
	if v, ok := lookupEnvTrimmed("ANIMEITOR_LOG_PATH"); ok {
		if v == "" {
			return errors.New("ANIMEITOR_LOG_PATH cannot be empty")
		}
		cfg.LogFilePath = filepath.Clean(v)
	}
	if v, ok := lookupEnvTrimmed("ANIMEITOR_SNAPSHOT_SOURCE"); ok {
		if v == "" {
			return errors.New("ANIMEITOR_SNAPSHOT_SOURCE cannot be empty")
		}
		cfg.SnapshotSource = v
	}
	if v, ok := lookupEnvTrimmed("ANIMEITOR_TICK_INTERVAL_MS"); ok {
		d, err := parsePositiveMillis(v)
		if err != nil {
			return fmt.Errorf("ANIMEITOR_TICK_INTERVAL_MS: %w", err)
		}
		cfg.TickInterval = d
	}
	if v, ok := lookupEnvTrimmed("ANIMEITOR_SHUTDOWN_TIMEOUT_MS"); ok {
		d, err := parsePositiveMillis(v)
		if err != nil {
			return fmt.Errorf("ANIMEITOR_SHUTDOWN_TIMEOUT_MS: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	if v, ok := lookupEnvTrimmed("ANIMEITOR_SECRET"); ok {
		cfg.Secret = v
	}
	return nil
}

func lookupEnvTrimmed(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func parsePositiveMillis(v string) (time.Duration, error) {
	if strings.TrimSpace(v) == "" {
		return 0, errors.New("value cannot be empty")
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %w", err)
	}
	if ms <= 0 {
		return 0, errors.New("value must be greater than zero")
	}
	return time.Duration(ms) * time.Millisecond, nil
}
