/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"sort"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/tablestore/errors"
)

// Environment variables read when a store leaves the matching field empty.
const (
	EnvAccessKey = "AWS_ACCESS_KEY"
	EnvSecretKey = "AWS_SECRET_KEY"
	EnvRegion    = "AWS_REGION"
	EnvEndpoint  = "AWS_DDB_ENDPOINT"
	EnvTable     = "AWS_DDB_TABLE"
)

// Default key attribute names.
const (
	DefaultPartitionKey = "PartitionKey"
	DefaultRowKey       = "RowKey"
)

// DefaultStoreName is the logical store created by FromEnv.
const DefaultStoreName = "default"

// Config maps logical store names to connection settings.
type Config struct {
	Stores map[string]StoreConfig `yaml:"stores"`
}

// StoreConfig describes one store account.
type StoreConfig struct {
	Region    string                 `yaml:"region"`
	Endpoint  string                 `yaml:"endpoint,omitempty"`
	AccessKey string                 `yaml:"accessKey,omitempty"`
	SecretKey string                 `yaml:"secretKey,omitempty"`
	Tables    map[string]TableConfig `yaml:"tables,omitempty"`
}

// TableConfig maps a logical table name to its physical name and key schema.
type TableConfig struct {
	Name         string                 `yaml:"name,omitempty"`
	PartitionKey string                 `yaml:"partitionKey,omitempty"`
	RowKey       string                 `yaml:"rowKey,omitempty"`
	Indexes      map[string]IndexConfig `yaml:"indexes,omitempty"`
}

// IndexConfig holds the key attribute names of a secondary index.
type IndexConfig struct {
	// PartitionKey is the partition key attribute of the index (e.g., "PK1")
	PartitionKey string `yaml:"partitionKey"`
	// RowKey is the sort key attribute of the index (e.g., "SK1")
	RowKey string `yaml:"rowKey,omitempty"`
}

// Index returns the key schema of a named secondary index.
func (t TableConfig) Index(name string) (IndexConfig, bool) {
	idx, ok := t.Indexes[name]
	return idx, ok && idx.PartitionKey != ""
}

// Load reads a YAML configuration file. A .env file in the working directory,
// when present, is loaded into the environment first; ${VAR} references in the
// file are expanded from the environment.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies environment defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(expandEnv(data), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv builds a single-store configuration named DefaultStoreName from the
// AWS_* environment variables, after loading .env when present.
func FromEnv() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := &Config{Stores: map[string]StoreConfig{DefaultStoreName: {}}}
	if table := os.Getenv(EnvTable); table != "" {
		cfg.Stores[DefaultStoreName] = StoreConfig{
			Tables: map[string]TableConfig{table: {}},
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if len(c.Stores) == 0 {
		return errors.NewValidationError("stores", "at least one store is required")
	}
	for _, name := range c.StoreNames() {
		store := c.Stores[name]
		if store.Region == "" {
			return errors.NewValidationError("stores."+name+".region", "required")
		}
		if (store.AccessKey == "") != (store.SecretKey == "") {
			return errors.NewValidationError("stores."+name, "accessKey and secretKey must be set together")
		}
		for tableName := range store.Tables {
			table := store.Table(tableName)
			if table.PartitionKey == table.RowKey {
				return errors.NewValidationError("stores."+name+".tables."+tableName,
					"partitionKey and rowKey must differ")
			}
		}
	}
	return nil
}

// Store returns the settings for a logical store name.
func (c *Config) Store(name string) (StoreConfig, error) {
	store, ok := c.Stores[name]
	if !ok {
		return StoreConfig{}, fmt.Errorf("%w: %q", errors.ErrUnknownStore, name)
	}
	return store, nil
}

// StoreNames returns the configured logical store names, sorted.
func (c *Config) StoreNames() []string {
	names := make([]string, 0, len(c.Stores))
	for name := range c.Stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table returns the configuration of a logical table with defaults applied.
// Tables that are not configured map to a physical table of the same name.
func (s StoreConfig) Table(name string) TableConfig {
	t := s.Tables[name]
	if t.Name == "" {
		t.Name = name
	}
	if t.PartitionKey == "" {
		t.PartitionKey = DefaultPartitionKey
	}
	if t.RowKey == "" {
		t.RowKey = DefaultRowKey
	}
	return t
}

func (c *Config) applyEnv() {
	for name, store := range c.Stores {
		if store.Region == "" {
			store.Region = os.Getenv(EnvRegion)
		}
		if store.Endpoint == "" {
			store.Endpoint = os.Getenv(EnvEndpoint)
		}
		if store.AccessKey == "" && store.SecretKey == "" {
			store.AccessKey = os.Getenv(EnvAccessKey)
			store.SecretKey = os.Getenv(EnvSecretKey)
		}
		c.Stores[name] = store
	}
}

var envReference = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} references with environment values. Any other
// dollar sign, including $VAR, is kept literally.
func expandEnv(data []byte) []byte {
	return envReference.ReplaceAllFunc(data, func(ref []byte) []byte {
		name := envReference.FindSubmatch(ref)[1]
		return []byte(os.Getenv(string(name)))
	})
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || stderrors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load .env: %w", err)
}
