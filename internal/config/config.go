// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Publisher PublisherConfig `mapstructure:"publisher"`
	Stream    StreamConfig    `mapstructure:"stream"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port           int `mapstructure:"port"`
	MaxUploadMB    int `mapstructure:"max_upload_mb"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// AnalysisConfig selects and configures the document analysis provider.
type AnalysisConfig struct {
	Provider       string `mapstructure:"provider"`
	Endpoint       string `mapstructure:"endpoint"`
	Key            string `mapstructure:"key"`
	Model          string `mapstructure:"model"`
	PollIntervalMs int    `mapstructure:"poll_interval_ms"`
	EmitIntervalMs int    `mapstructure:"emit_interval_ms"`
}

// StorageConfig selects where uploaded artifacts are kept between
// admission and cleanup.
type StorageConfig struct {
	Provider  string `mapstructure:"provider"`
	BaseDir   string `mapstructure:"base_dir"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	Prefix    string `mapstructure:"prefix"`
}

// JournalConfig controls persistence of extraction run records.
type JournalConfig struct {
	Provider string `mapstructure:"provider"`
	DSN      string `mapstructure:"dsn"`
}

// PublisherConfig configures completion notifications.
type PublisherConfig struct {
	Provider  string `mapstructure:"provider"`
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// StreamConfig tunes the progress stream poll loop.
type StreamConfig struct {
	PollIntervalMs int `mapstructure:"poll_interval_ms"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment. A .env file in the working
// directory is read first so local credentials behave like exported vars.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DOCINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// The Azure credential variables keep their upstream names so the same
	// .env file works for this service and the vendor tooling.
	bindAlias(v, "analysis.endpoint", "DOCINTEL_ANALYSIS_ENDPOINT", "AZURE_DOCUMENT_INTELLIGENCE_ENDPOINT")
	bindAlias(v, "analysis.key", "DOCINTEL_ANALYSIS_KEY", "AZURE_DOCUMENT_INTELLIGENCE_KEY")

	// Keys without defaults are invisible to Unmarshal unless bound, so the
	// provider credentials that have no sensible default get explicit binds.
	bindAlias(v, "journal.dsn", "DOCINTEL_JOURNAL_DSN")
	bindAlias(v, "storage.gcs_bucket", "DOCINTEL_STORAGE_GCS_BUCKET")
	bindAlias(v, "publisher.project_id", "DOCINTEL_PUBLISHER_PROJECT_ID")
	bindAlias(v, "publisher.topic_name", "DOCINTEL_PUBLISHER_TOPIC_NAME")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func bindAlias(v *viper.Viper, key string, envVars ...string) {
	args := append([]string{key}, envVars...)
	// BindEnv only fails on an empty key.
	_ = v.BindEnv(args...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_mb", 50)
	v.SetDefault("server.timeout_seconds", 300)
	v.SetDefault("analysis.provider", "azure")
	v.SetDefault("analysis.model", "prebuilt-document")
	v.SetDefault("analysis.poll_interval_ms", 100)
	v.SetDefault("analysis.emit_interval_ms", 500)
	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.base_dir", "uploads")
	v.SetDefault("storage.prefix", "documents")
	v.SetDefault("journal.provider", "memory")
	v.SetDefault("publisher.provider", "noop")
	v.SetDefault("stream.poll_interval_ms", 500)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits. Missing remote
// credentials are a startup error, not a per-request one.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be > 0")
	}
	switch c.Analysis.Provider {
	case "azure":
		if c.Analysis.Endpoint == "" || c.Analysis.Key == "" {
			return fmt.Errorf("analysis.endpoint and analysis.key must be set when analysis.provider is azure")
		}
	case "local":
	default:
		return fmt.Errorf("unknown analysis provider: %s", c.Analysis.Provider)
	}
	switch c.Storage.Provider {
	case "local", "memory":
	case "gcs":
		if c.Storage.GCSBucket == "" {
			return fmt.Errorf("storage.gcs_bucket must be set when storage.provider is gcs")
		}
	default:
		return fmt.Errorf("unknown storage provider: %s", c.Storage.Provider)
	}
	switch c.Journal.Provider {
	case "memory":
	case "postgres":
		if c.Journal.DSN == "" {
			return fmt.Errorf("journal.dsn must be set when journal.provider is postgres")
		}
	default:
		return fmt.Errorf("unknown journal provider: %s", c.Journal.Provider)
	}
	switch c.Publisher.Provider {
	case "noop", "memory":
	case "pubsub":
		if c.Publisher.ProjectID == "" || c.Publisher.TopicName == "" {
			return fmt.Errorf("publisher.project_id and publisher.topic_name must be set when publisher.provider is pubsub")
		}
	default:
		return fmt.Errorf("unknown publisher provider: %s", c.Publisher.Provider)
	}
	return nil
}

// RequestTimeout converts the server timeout into a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// MaxUploadBytes returns the multipart memory/size cap in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}
