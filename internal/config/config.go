package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/vertextoedge/magpi-downloader/internal/domain"
)

// DefaultPath is the config file read when no --config flag is given
const DefaultPath = "magpi.yaml"

// EnvPrefix prefixes environment overrides, e.g. MAGPI_ISSUES_COUNT
const EnvPrefix = "MAGPI"

// Config represents the entire application configuration
type Config struct {
	Issues   IssuesConfig   `mapstructure:"issues"`
	Download DownloadConfig `mapstructure:"download"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Report   ReportConfig   `mapstructure:"report"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// IssuesConfig describes the magazine series
type IssuesConfig struct {
	Count               int    `mapstructure:"count"`
	Folder              string `mapstructure:"folder"`
	MetadataURLTemplate string `mapstructure:"metadata_url_template"`
	FilenameTemplate    string `mapstructure:"filename_template"`
	FixedWidth          bool   `mapstructure:"fixed_width"`   // Pad numbers to the digit count of Count
	InclusiveEnd        bool   `mapstructure:"inclusive_end"` // Also download the --end issue
}

// DownloadConfig contains streaming settings
type DownloadConfig struct {
	ChunkSizeKB      int    `mapstructure:"chunk_size_kb"`
	ExactByteCount   bool   `mapstructure:"exact_byte_count"`
	ProgressInterval string `mapstructure:"progress_interval"`
}

// HTTPConfig contains HTTP client settings
type HTTPConfig struct {
	MetadataTimeout string `mapstructure:"metadata_timeout"`
	DownloadTimeout string `mapstructure:"download_timeout"`
	UserAgent       string `mapstructure:"user_agent"`
}

// ReportConfig controls the final summary
type ReportConfig struct {
	SkipEmptySummary bool `mapstructure:"skip_empty_summary"`
}

// JournalConfig contains run journal settings
type JournalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// MetricsConfig contains metrics export settings
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from the specified file path.
// A missing file is only an error when required is set.
func Load(configPath string, required bool) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			if required || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("issues.count", 92)
	v.SetDefault("issues.folder", "MagPi")
	v.SetDefault("issues.metadata_url_template", "https://magpi.raspberrypi.org/issues/%s/pdf")
	v.SetDefault("issues.filename_template", "MagPi%s.pdf")
	v.SetDefault("issues.fixed_width", false)
	v.SetDefault("issues.inclusive_end", false)
	v.SetDefault("download.chunk_size_kb", 1024)
	v.SetDefault("download.exact_byte_count", false)
	v.SetDefault("download.progress_interval", "5s")
	v.SetDefault("http.metadata_timeout", "30s")
	v.SetDefault("http.download_timeout", "0s")
	v.SetDefault("http.user_agent", "")
	v.SetDefault("report.skip_empty_summary", false)
	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.path", "")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// loadDotEnv exports variables from ./.env without overriding the environment
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate issues config
	if c.Issues.Count < 1 {
		return fmt.Errorf("issues.count must be positive")
	}
	if c.Issues.Folder == "" {
		return fmt.Errorf("issues.folder is required")
	}
	if err := domain.ValidateTemplate(c.Issues.MetadataURLTemplate); err != nil {
		return fmt.Errorf("issues.metadata_url_template: %w", err)
	}
	if err := domain.ValidateTemplate(c.Issues.FilenameTemplate); err != nil {
		return fmt.Errorf("issues.filename_template: %w", err)
	}
	if strings.ContainsAny(c.Issues.FilenameTemplate, `/\`) {
		return fmt.Errorf("issues.filename_template must not contain path separators")
	}

	// Validate download config
	if c.Download.ChunkSizeKB < 1 {
		return fmt.Errorf("download.chunk_size_kb must be positive")
	}
	if _, err := time.ParseDuration(c.Download.ProgressInterval); err != nil {
		return fmt.Errorf("invalid download.progress_interval: %w", err)
	}

	// Validate HTTP timeouts
	if _, err := time.ParseDuration(c.HTTP.MetadataTimeout); err != nil {
		return fmt.Errorf("invalid http.metadata_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.HTTP.DownloadTimeout); err != nil {
		return fmt.Errorf("invalid http.download_timeout: %w", err)
	}

	// Validate logging config
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}

	return nil
}

// Catalog returns the issue catalog described by the configuration
func (c *IssuesConfig) Catalog() domain.Catalog {
	return domain.Catalog{
		MetadataURLTemplate: c.MetadataURLTemplate,
		FileNameTemplate:    c.FilenameTemplate,
		Count:               c.Count,
		FixedWidth:          c.FixedWidth,
	}
}

// GetChunkSize returns the chunk size in bytes
func (c *DownloadConfig) GetChunkSize() int {
	if c.ChunkSizeKB <= 0 {
		return 1024 * 1024 // 1MB default
	}
	return c.ChunkSizeKB * 1024
}

// GetProgressInterval returns the progress interval as time.Duration
func (c *DownloadConfig) GetProgressInterval() time.Duration {
	d, _ := time.ParseDuration(c.ProgressInterval)
	return d
}

// GetMetadataTimeout returns the metadata timeout as time.Duration
func (c *HTTPConfig) GetMetadataTimeout() time.Duration {
	d, _ := time.ParseDuration(c.MetadataTimeout)
	return d
}

// GetDownloadTimeout returns the download timeout as time.Duration.
// Zero means the body may take as long as it needs.
func (c *HTTPConfig) GetDownloadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.DownloadTimeout)
	return d
}

// GetPath returns the journal database path, defaulting into the issue folder
func (c *JournalConfig) GetPath(folder string) string {
	if c.Path != "" {
		return c.Path
	}
	return filepath.Join(folder, "journal.db")
}
