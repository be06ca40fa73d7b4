package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// PostgresConfig contains connection details for a Postgres dictionary.
type PostgresConfig struct {
	DSNEnv string `yaml:"dsn_env"`
	Table  string `yaml:"table"`
}

// DictionaryConfig selects and configures one dictionary. Dictionaries are
// consulted in the order they are listed.
type DictionaryConfig struct {
	Name     string          `yaml:"name" validate:"required"`
	Type     string          `yaml:"type" validate:"oneof=memory postgres"`
	Path     string          `yaml:"path,omitempty"`
	Postgres *PostgresConfig `yaml:"postgres,omitempty" validate:"required_if=Type postgres"`
}

// LexiconConfig configures writes to the lexicon.
type LexiconConfig struct {
	Writable string `yaml:"writable"`
}

// MinIOConfig contains connection details for an object-storage content store.
type MinIOConfig struct {
	Endpoint     string `yaml:"endpoint" validate:"required"`
	AccessKeyEnv string `yaml:"access_key_env"`
	SecretKeyEnv string `yaml:"secret_key_env"`
	Bucket       string `yaml:"bucket" validate:"required"`
	Prefix       string `yaml:"prefix"`
	UseSSL       bool   `yaml:"use_ssl"`
}

// ContentConfig selects and configures the content store.
type ContentConfig struct {
	Type      string       `yaml:"type" validate:"oneof=fs minio"`
	Dir       string       `yaml:"dir"`
	CacheSize int          `yaml:"cache_size" validate:"gte=0"`
	MinIO     *MinIOConfig `yaml:"minio,omitempty" validate:"required_if=Type minio"`
}

// WebhookConfig contains the endpoint error reports are posted to.
type WebhookConfig struct {
	URL      string `yaml:"url" validate:"required,url"`
	TokenEnv string `yaml:"token_env"`
}

// NotifierConfig selects and configures where store failures are reported.
type NotifierConfig struct {
	Type        string         `yaml:"type" validate:"oneof=log webhook"`
	Workers     int            `yaml:"workers" validate:"gte=0"`
	TimeoutSecs int            `yaml:"timeout_secs" validate:"gte=0"`
	Webhook     *WebhookConfig `yaml:"webhook,omitempty" validate:"required_if=Type webhook"`
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	File  string `yaml:"file"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// ReportConfig configures the vocabulary report.
type ReportConfig struct {
	TopUnknown int `yaml:"top_unknown" validate:"gte=0"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Dictionaries []DictionaryConfig `yaml:"dictionaries" validate:"required,min=1,dive"`
	Lexicon      LexiconConfig      `yaml:"lexicon"`
	Content      ContentConfig      `yaml:"content"`
	Notifier     NotifierConfig     `yaml:"notifier"`
	Logging      LoggingConfig      `yaml:"logging"`
	Metrics      MetricsConfig      `yaml:"metrics"`
	Report       ReportConfig       `yaml:"report"`
}

// Validate checks the structural rules of the configuration.
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	if c.Lexicon.Writable != "" {
		found := false
		for _, d := range c.Dictionaries {
			found = found || d.Name == c.Lexicon.Writable
		}
		if !found {
			return errors.Newf("invalid config: writable dictionary %q is not listed", c.Lexicon.Writable)
		}
	}
	return nil
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	applyConfigDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/arabic-reader/config.yaml.
// If neither exists, it writes defaults to ~/.config/arabic-reader/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DataDir is where default dictionaries, content and logs live.
func DataDir() string {
	if dir := os.Getenv("ARABIC_READER_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".arabic-reader"
	}
	return filepath.Join(home, ".local", "share", "arabic-reader")
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "arabic-reader", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	data := DataDir()
	cfg := &AppConfig{
		Dictionaries: []DictionaryConfig{
			{Name: "core", Type: "memory", Path: filepath.Join(data, "dictionaries", "core.yaml")},
			{Name: "user", Type: "memory", Path: filepath.Join(data, "dictionaries", "user.yaml")},
		},
		Lexicon:  LexiconConfig{Writable: "user"},
		Content:  ContentConfig{Type: "fs", Dir: filepath.Join(data, "content"), CacheSize: 128},
		Notifier: NotifierConfig{Type: "log", Workers: 2, TimeoutSecs: 10},
		Logging:  LoggingConfig{Level: "info", File: filepath.Join(data, "reader.log")},
		Report:   ReportConfig{TopUnknown: 10},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	for i := range cfg.Dictionaries {
		d := &cfg.Dictionaries[i]
		if d.Type == "" {
			d.Type = "memory"
		}
		if d.Type == "postgres" && d.Postgres != nil {
			if d.Postgres.DSNEnv == "" {
				d.Postgres.DSNEnv = "READER_POSTGRES_DSN"
			}
			if d.Postgres.Table == "" {
				d.Postgres.Table = "lexicon_entries"
			}
		}
	}
	if cfg.Content.Type == "" {
		cfg.Content.Type = "fs"
	}
	if cfg.Content.Type == "fs" && cfg.Content.Dir == "" {
		cfg.Content.Dir = filepath.Join(DataDir(), "content")
	}
	if cfg.Content.CacheSize == 0 {
		cfg.Content.CacheSize = 128
	}
	if cfg.Content.Type == "minio" && cfg.Content.MinIO != nil {
		if cfg.Content.MinIO.AccessKeyEnv == "" {
			cfg.Content.MinIO.AccessKeyEnv = "MINIO_ACCESS_KEY"
		}
		if cfg.Content.MinIO.SecretKeyEnv == "" {
			cfg.Content.MinIO.SecretKeyEnv = "MINIO_SECRET_KEY"
		}
	}
	if cfg.Notifier.Type == "" {
		cfg.Notifier.Type = "log"
	}
	if cfg.Notifier.Workers == 0 {
		cfg.Notifier.Workers = 2
	}
	if cfg.Notifier.TimeoutSecs == 0 {
		cfg.Notifier.TimeoutSecs = 10
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Report.TopUnknown == 0 {
		cfg.Report.TopUnknown = 10
	}
}
