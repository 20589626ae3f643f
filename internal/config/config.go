// Package config loads the configuration of the menu binaries.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jacentio/menutree/store"
)

const (
	EnvConfigPath      = "MENU_CONFIG"
	EnvRegion          = "MENU_AWS_REGION"
	EnvEndpoint        = "MENU_DYNAMODB_ENDPOINT"
	EnvItemsTable      = "MENU_ITEMS_TABLE"
	EnvWorkspacesTable = "MENU_WORKSPACES_TABLE"
	EnvMembershipTable = "MENU_MEMBERSHIP_TABLE"
	EnvNumShards       = "MENU_NUM_SHARDS"
)

// Config is the runtime configuration shared by the API and stream binaries.
type Config struct {
	// Region overrides the AWS region from the shared config.
	Region string

	// Endpoint overrides the DynamoDB endpoint, e.g. for DynamoDB Local.
	Endpoint string

	// LogLevel is a zerolog level name.
	LogLevel string

	Store store.Config
}

type fileConfig struct {
	Region   string         `toml:"region"`
	LogLevel string         `toml:"log_level"`
	DynamoDB dynamoDBConfig `toml:"dynamodb"`
}

type dynamoDBConfig struct {
	Endpoint        string `toml:"endpoint"`
	ItemsTable      string `toml:"items_table"`
	WorkspacesTable string `toml:"workspaces_table"`
	MembershipTable string `toml:"membership_table"`
	NumShards       int    `toml:"num_shards"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogLevel: "info",
		Store:    store.DefaultConfig(),
	}
}

// Load reads the TOML file at path over the defaults and then applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by MENU_CONFIG, if any.
func LoadFromEnv() (Config, error) {
	return Load(strings.TrimSpace(os.Getenv(EnvConfigPath)))
}

func loadFile(path string, cfg *Config) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load menu config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load menu config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("region") {
		cfg.Region = strings.TrimSpace(raw.Region)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("dynamodb", "endpoint") {
		cfg.Endpoint = strings.TrimSpace(raw.DynamoDB.Endpoint)
	}
	if meta.IsDefined("dynamodb", "items_table") {
		cfg.Store.ItemsTable = strings.TrimSpace(raw.DynamoDB.ItemsTable)
	}
	if meta.IsDefined("dynamodb", "workspaces_table") {
		cfg.Store.WorkspacesTable = strings.TrimSpace(raw.DynamoDB.WorkspacesTable)
	}
	if meta.IsDefined("dynamodb", "membership_table") {
		cfg.Store.MembershipTable = strings.TrimSpace(raw.DynamoDB.MembershipTable)
	}
	if meta.IsDefined("dynamodb", "num_shards") {
		if raw.DynamoDB.NumShards < 1 || raw.DynamoDB.NumShards > 256 {
			return fmt.Errorf("load menu config: num_shards must be between 1 and 256, got %d", raw.DynamoDB.NumShards)
		}
		cfg.Store.NumShards = raw.DynamoDB.NumShards
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvRegion)); v != "" {
		cfg.Region = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvEndpoint)); v != "" {
		cfg.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvItemsTable)); v != "" {
		cfg.Store.ItemsTable = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvWorkspacesTable)); v != "" {
		cfg.Store.WorkspacesTable = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMembershipTable)); v != "" {
		cfg.Store.MembershipTable = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvNumShards)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvNumShards, err)
		}
		cfg.Store.NumShards = n
	}
	return nil
}
