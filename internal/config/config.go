package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	SourceLocal = "local"
	SourceGCS   = "gcs"
	SourceDrive = "drive"
)

type Config struct {
	Source     SourceConfig     `mapstructure:"source"`
	Tika       TikaConfig       `mapstructure:"tika"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Qdrant     QdrantConfig     `mapstructure:"qdrant"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Pricing    PricingConfig    `mapstructure:"pricing"`
}

type SourceConfig struct {
	Type            string `mapstructure:"type"`
	Dir             string `mapstructure:"dir"`
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
	FolderID        string `mapstructure:"folder_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

type TikaConfig struct {
	ServerURL     string        `mapstructure:"server_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

type ProcessingConfig struct {
	MaxFileSize        int64         `mapstructure:"max_file_size_mb"`
	SupportedFormats   []string      `mapstructure:"supported_formats"`
	MaxConcurrency     int           `mapstructure:"max_concurrency"`
	PerDocumentTimeout time.Duration `mapstructure:"per_document_timeout"`
	EnableTextClean    bool          `mapstructure:"enable_text_cleaning"`
}

type StorageConfig struct {
	SummariesPath string `mapstructure:"summaries_path"`
	GCSBucket     string `mapstructure:"gcs_bucket"`
	GCSObject     string `mapstructure:"gcs_object"`
}

type QdrantConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	APIKey     string `mapstructure:"api_key"`
	UseTLS     bool   `mapstructure:"use_tls"`
	Collection string `mapstructure:"collection"`
	VectorSize int    `mapstructure:"vector_size"`
}

type GeminiConfig struct {
	APIKey       string  `mapstructure:"api_key"`
	Model        string  `mapstructure:"model"`
	BaseURL      string  `mapstructure:"base_url"`
	RateLimitRPS float64 `mapstructure:"rate_limit_rps"`
}

type KafkaConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Brokers []string      `mapstructure:"brokers"`
	Topic   string        `mapstructure:"topic"`
	Retries int           `mapstructure:"retries"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type MetricsConfig struct {
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Job            string `mapstructure:"job"`
}

type PricingConfig struct {
	BasePricingFile string `mapstructure:"base_pricing_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.type", SourceLocal)
	v.SetDefault("source.dir", "./menus")
	v.SetDefault("source.bucket", "")
	v.SetDefault("source.prefix", "")
	v.SetDefault("source.folder_id", "")
	v.SetDefault("source.credentials_file", "")

	v.SetDefault("tika.server_url", "http://localhost:9998")
	v.SetDefault("tika.timeout", 10*time.Minute)
	v.SetDefault("tika.retry_attempts", 3)
	v.SetDefault("tika.retry_delay", 5*time.Second)

	v.SetDefault("processing.max_file_size_mb", 100)
	v.SetDefault("processing.supported_formats", []string{"pdf", "txt"})
	v.SetDefault("processing.max_concurrency", 1)
	v.SetDefault("processing.per_document_timeout", 2*time.Minute)
	v.SetDefault("processing.enable_text_cleaning", true)

	v.SetDefault("storage.summaries_path", "./event_summaries.json")
	v.SetDefault("storage.gcs_bucket", "")
	v.SetDefault("storage.gcs_object", "event_summaries.json")

	v.SetDefault("qdrant.enabled", true)
	v.SetDefault("qdrant.host", "localhost")
	v.SetDefault("qdrant.port", 6334)
	v.SetDefault("qdrant.api_key", "")
	v.SetDefault("qdrant.use_tls", false)
	v.SetDefault("qdrant.collection", "catering_events")
	v.SetDefault("qdrant.vector_size", 768)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "text-embedding-004")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.rate_limit_rps", 5)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "catering-events")
	v.SetDefault("kafka.retries", 3)
	v.SetDefault("kafka.timeout", 10*time.Second)

	v.SetDefault("metrics.pushgateway_url", "")
	v.SetDefault("metrics.job", "menu_ingest")

	v.SetDefault("pricing.base_pricing_file", "")
}

func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// Load reads defaults, then the optional JSON file at configPath, then
// MENU_* environment overrides.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MENU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	envBindings := [][2]string{
		{"gemini.api_key", "GEMINI_API_KEY"},
		{"qdrant.api_key", "QDRANT_API_KEY"},
		{"source.folder_id", "DRIVE_FOLDER_ID"},
		{"source.credentials_file", "GOOGLE_APPLICATION_CREDENTIALS"},
	}
	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	if configPath != "" {
		if err := loadFromFile(v, configPath); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func loadFromFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	v.SetConfigFile(path)
	v.SetConfigType("json")
	return v.ReadInConfig()
}

func (c *Config) Validate() error {
	switch c.Source.Type {
	case "":
		return fmt.Errorf("source type cannot be empty")
	case SourceLocal:
		if c.Source.Dir == "" {
			return fmt.Errorf("source directory cannot be empty for local source")
		}
	case SourceGCS:
		if c.Source.Bucket == "" {
			return fmt.Errorf("source bucket cannot be empty for gcs source")
		}
	case SourceDrive:
		if c.Source.FolderID == "" {
			return fmt.Errorf("drive folder id cannot be empty for drive source")
		}
	default:
		return fmt.Errorf("unknown source type: %s", c.Source.Type)
	}

	if c.Tika.ServerURL == "" {
		return fmt.Errorf("tika server URL cannot be empty")
	}
	if c.Processing.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive")
	}
	if c.Qdrant.VectorSize <= 0 {
		return fmt.Errorf("vector size must be positive")
	}
	if c.Processing.MaxConcurrency <= 0 {
		c.Processing.MaxConcurrency = 1
	}
	if c.Processing.PerDocumentTimeout < 0 {
		c.Processing.PerDocumentTimeout = 0
	}
	return nil
}
