// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxSourceBytesLimit bounds maxSourceBytes so that request body limits derived from it cannot overflow.
const MaxSourceBytesLimit = 1 << 40

type ServerConfig struct {
	Port           int   `yaml:"port"`
	GRPCPort       int   `yaml:"grpcPort"`
	MaxSourceBytes int64 `yaml:"maxSourceBytes"`
}

type DatabaseConfig struct {
	// Driver is either "postgres" or "sqlite".
	Driver string `yaml:"driver"`
	// DSN is the data source name. For postgres it falls back to the PG* environment variables when empty.
	DSN string `yaml:"dsn"`
}

type AnalyzerConfig struct {
	BatchSize     int           `yaml:"batchSize"`
	PollingRate   time.Duration `yaml:"pollingRate"`
	RetentionTime time.Duration `yaml:"retentionTime"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	// Languages is an optional path to a languages file overriding the builtin languages.
	Languages string `yaml:"languages"`
}

// Default returns the configuration used for the values missing from a config file.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:           8080,
			GRPCPort:       8081,
			MaxSourceBytes: 1 << 20,
		},
		Database: DatabaseConfig{
			Driver: "postgres",
		},
		Analyzer: AnalyzerConfig{
			BatchSize:   10,
			PollingRate: 10 * time.Second,
		},
	}
}

func LoadConfig(file string) (Config, error) {
	yfile, err := os.ReadFile(file)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read file %q: %w", file, err)
	}

	config := Default()
	err = yaml.Unmarshal(yfile, &config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %q: %w", file, err)
	}
	return config, nil
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.Driver == "sqlite" && c.Database.DSN == "" {
		return errors.New("sqlite driver requires a dsn")
	}
	if c.Server.MaxSourceBytes <= 0 {
		return fmt.Errorf("maxSourceBytes must be positive, got %d", c.Server.MaxSourceBytes)
	}
	if c.Server.MaxSourceBytes > MaxSourceBytesLimit {
		return fmt.Errorf("maxSourceBytes must not exceed %d, got %d", int64(MaxSourceBytesLimit), c.Server.MaxSourceBytes)
	}
	if c.Analyzer.PollingRate <= 0 {
		return fmt.Errorf("analyzer pollingRate must be positive, got %v", c.Analyzer.PollingRate)
	}
	if c.Analyzer.BatchSize <= 0 {
		return fmt.Errorf("analyzer batchSize must be positive, got %d", c.Analyzer.BatchSize)
	}
	return nil
}
