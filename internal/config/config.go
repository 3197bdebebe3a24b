package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config top-level struct
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Ingest    IngestConfig    `yaml:"ingest"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type RateLimitConfig struct {
	RPS   int `yaml:"rps"`
	Burst int `yaml:"burst"`
}

// IngestConfig drives the periodic dump ingestion pipeline.
type IngestConfig struct {
	SourcePath string   `yaml:"source_path"`
	StagingDir string   `yaml:"staging_dir"`
	Interval   Duration `yaml:"interval"`
	Delimiter  string   `yaml:"delimiter"`
	DateFormat string   `yaml:"date_format"`
	// CloseDateDefault substitutes for an unparseable ACCOUNT_DATE_CLOSE,
	// formatted as 2006-01-02. Other date columns stay null on parse failure.
	CloseDateDefault string `yaml:"default_close_date"`
}

// Duration lets yaml carry values like "1h" or "90s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// DelimiterRune returns the configured field separator.
func (c IngestConfig) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return '|'
}

// SentinelCloseDate parses the configured default for ACCOUNT_DATE_CLOSE.
func (c IngestConfig) SentinelCloseDate() (time.Time, error) {
	return time.Parse("2006-01-02", c.CloseDateDefault)
}

// Load reads yaml file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	// override DSN password from env if present
	if pw := os.Getenv("POSTGRES_PASSWORD"); pw != "" {
		cfg.Postgres.DSN = cfg.Postgres.DSN + " password=" + pw
	}
	if cfg.Ingest.Interval == 0 {
		cfg.Ingest.Interval = Duration(time.Hour)
	}
	if cfg.Ingest.Delimiter == "" {
		cfg.Ingest.Delimiter = "|"
	}
	if cfg.Ingest.DateFormat == "" {
		cfg.Ingest.DateFormat = "02-Jan-06"
	}
	if cfg.Ingest.CloseDateDefault == "" {
		cfg.Ingest.CloseDateDefault = "1900-01-01"
	}
	if cfg.Ingest.StagingDir == "" {
		cfg.Ingest.StagingDir = "data"
	}
	return &cfg, nil
}
