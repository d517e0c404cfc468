package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"

	qhttp "hpcpredict/http"
	"hpcpredict/logging"
	"hpcpredict/ml"
)

type Config struct {
	Dataset struct {
		Path  string `yaml:"path"`
		Watch bool   `yaml:"watch"`
	} `yaml:"dataset"`
	Model struct {
		NEstimators    int     `yaml:"n_estimators"`
		TestRatio      float64 `yaml:"test_ratio"`
		Seed           int64   `yaml:"seed"`
		MaxDepth       int     `yaml:"max_depth"`
		MinSamplesLeaf int     `yaml:"min_samples_leaf"`
		MaxFeatures    int     `yaml:"max_features"`
		CacheSize      int     `yaml:"cache_size"`
	} `yaml:"model"`
	Http struct {
		Port            int           `yaml:"port"`
		MaxBodyBytes    int64         `yaml:"max_body_bytes"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"http"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
}

func defaultConfig() *Config {
	var config Config
	config.Dataset.Path = filepath.Join("data", "hpc_resource_prediction_dataset.csv")
	config.Model.NEstimators = ml.DefaultEstimators
	config.Model.TestRatio = ml.DefaultTestRatio
	config.Model.Seed = 42
	config.Model.MinSamplesLeaf = 1
	config.Model.CacheSize = 1024
	config.Http.Port = 5000
	config.Http.MaxBodyBytes = 1 << 16
	config.Http.ShutdownTimeout = 5 * time.Second
	config.Log.Level = "info"
	config.Log.MaxSizeMB = 50
	config.Log.MaxBackups = 3
	config.Log.MaxAgeDays = 28
	config.Metrics.Enabled = true
	return &config
}

// findConfig looks in the working directory, then its parent for runs from cmd/.
func findConfig() string {
	for _, candidate := range []string{"config.yaml", filepath.Join("..", "config.yaml")} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// loadConfig overlays the YAML file at path on the defaults. An empty path
// yields the defaults. Relative file paths are taken from the config's directory.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()
	if path == "" {
		return config, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	config.Dataset.Path = resolvePath(dir, config.Dataset.Path)
	config.Log.File = resolvePath(dir, config.Log.File)
	config.Database.Path = resolvePath(dir, config.Database.Path)

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func (c *Config) validate() error {
	if c.Dataset.Path == "" {
		return errors.New("dataset.path is required")
	}
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.Http.Port)
	}
	if c.Model.TestRatio <= 0 || c.Model.TestRatio >= 1 {
		return fmt.Errorf("model.test_ratio %v must be in (0,1)", c.Model.TestRatio)
	}
	if c.Model.NEstimators <= 0 {
		return fmt.Errorf("model.n_estimators %d must be positive", c.Model.NEstimators)
	}
	if c.Model.CacheSize < 0 {
		return fmt.Errorf("model.cache_size %d must not be negative", c.Model.CacheSize)
	}
	return nil
}

func (c *Config) trainingConfig() ml.TrainingConfig {
	return ml.TrainingConfig{
		DatasetPath:    c.Dataset.Path,
		TestRatio:      c.Model.TestRatio,
		Seed:           c.Model.Seed,
		NEstimators:    c.Model.NEstimators,
		MaxDepth:       c.Model.MaxDepth,
		MinSamplesLeaf: c.Model.MinSamplesLeaf,
		MaxFeatures:    c.Model.MaxFeatures,
	}
}

func (c *Config) serverConfig() qhttp.ServerConfig {
	server := qhttp.DefaultServerConfig()
	server.Port = c.Http.Port
	server.MaxBodyBytes = c.Http.MaxBodyBytes
	server.ShutdownTimeout = c.Http.ShutdownTimeout
	return server
}

func (c *Config) loggingConfig() logging.Config {
	return logging.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
	}
}
