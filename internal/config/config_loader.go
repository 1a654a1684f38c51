package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultEnvFile is loaded before the environment is read. Variables that
// are already set in the process are never overridden by it.
const DefaultEnvFile = ".env"

var envFile = DefaultEnvFile

// LoadWithFile builds a Config from defaults, the optional config file at
// path, the .env file and the process environment, in that order of
// increasing precedence.
func LoadWithFile(path string) (*Config, error) {
	loadDotEnv(envFile)

	cfg := Default()
	fc, err := readFileConfig(path)
	if err != nil {
		return nil, err
	}
	fc.applyTo(cfg)
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv builds a Config without a config file. Used by the
// serverless entrypoint.
func LoadFromEnv() (*Config, error) {
	return LoadWithFile("")
}

func loadDotEnv(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return
		}
		log.WithError(err).WithField("path", path).Warn("failed to load env file")
		return
	}
	log.WithField("path", path).Debug("env file loaded")
}

// readFileConfig returns an empty FileConfig when path is empty or missing.
func readFileConfig(path string) (*FileConfig, error) {
	var fc FileConfig
	if strings.TrimSpace(path) == "" {
		return &fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			log.WithField("path", path).Warn("config file not found; using defaults and environment")
			return &fc, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			if err := json.Unmarshal(data, &fc); err != nil {
				return nil, fmt.Errorf("failed to parse config file (tried YAML and JSON)")
			}
		}
	}
	log.WithField("path", path).Info("configuration loaded")
	return &fc, nil
}
