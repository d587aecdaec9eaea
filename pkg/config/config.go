package config

import (
	"os"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Config holds all process configuration. Values come from a YAML config
// file (CONFIG_FILE, default /config/config.yaml) with environment
// variables taking precedence. Keys in the file are the snake_case form
// of the field names; env vars are the same keys uppercased.
type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries"`
	ServerHost                string        `koanf:"server_host"`
	ServerPort                int           `koanf:"server_port"`
	WorkerProcesses           int           `koanf:"worker_processes"`

	// Remote sync settings.
	HutID               int    `koanf:"hut_id"`
	RemoteBaseURL       string `koanf:"remote_base_url"`
	RemoteEmail         string `koanf:"remote_email"`
	RemotePassword      string `koanf:"remote_password"`
	RemotePageSize      int    `koanf:"remote_page_size"`
	SyncEnabled         bool   `koanf:"sync_enabled"`
	SyncIntervalMinutes int    `koanf:"sync_interval_minutes"`
	SyncMonths          int    `koanf:"sync_months"`
	TruncateStaging     bool   `koanf:"truncate_staging"`
}

const configFileENV = "CONFIG_FILE"

func defaultConfig() *Config {
	return &Config{
		DatabaseBusyTimeout:       5 * time.Second,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseMaxRetries:        3,
		ServerHost:                "0.0.0.0",
		ServerPort:                3689,
		WorkerProcesses:           2,
		RemotePageSize:            1000,
		SyncIntervalMinutes:       60,
		SyncMonths:                3,
		TruncateStaging:           true,
	}
}

func New() (*Config, error) {
	k := koanf.New(".")

	configFilePath := os.Getenv(configFileENV)
	if configFilePath == "" {
		configFilePath = "/config/config.yaml"
	}

	// The config file is optional; env vars alone are enough. A file
	// that exists but fails to parse is still a hard error.
	if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
		if _, statErr := os.Stat(configFilePath); statErr == nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	}

	// Env vars override the file. DATABASE_FILE_PATH -> database_file_path.
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := defaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	if cfg.DatabaseFilePath == "" {
		return nil, errors.Errorf(
			"missing required config: %s (%s)",
			strings.ToUpper(toSnakeCase("DatabaseFilePath")), toSnakeCase("DatabaseFilePath"),
		)
	}

	return cfg, nil
}

// NewForTest returns a config suitable for package tests: in-memory
// database and loopback server host.
func NewForTest() *Config {
	cfg := defaultConfig()
	cfg.DatabaseFilePath = ":memory:"
	cfg.ServerHost = "127.0.0.1"
	cfg.WorkerProcesses = 1
	return cfg
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
