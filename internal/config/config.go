package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DefaultConfigFile      = "config.json"
	DefaultUserAgent       = "flacdl/1.0"
	DefaultReferer         = "http://music.163.com/"
	DefaultMaxRetries      = 5
	DefaultFallbackTimeout = 60
)

// Filename formats
const (
	FilenameSongArtist = "song-artist"
	FilenameArtistSong = "artist-song"
)

// Warning behaviors
const (
	WarningImmediate = "immediate"
	WarningSummary   = "summary"
	WarningSilent    = "silent"
)

// Config is read from config.json; every field may be overridden by the
// matching environment variable. Defaults come from Default(), not from
// struct tags, so an explicit false or 0 in the file is kept.
type Config struct {
	DownloadLocation       string  `json:"DownloadLocation" env:"FLACDL_DOWNLOAD_LOCATION"`
	UserAgent              string  `json:"UserAgent" env:"FLACDL_USER_AGENT"`
	Referer                string  `json:"Referer" env:"FLACDL_REFERER"`
	Cookie                 string  `json:"-" env:"MUSIC_COOKIE"`
	MaxRetryAttempts       int     `json:"MaxRetryAttempts" env:"FLACDL_MAX_RETRIES"`
	RetryInitialDelayMs    int     `json:"RetryInitialDelayMs" env:"FLACDL_RETRY_INITIAL_DELAY_MS"`
	RetryMaxDelayMs        int     `json:"RetryMaxDelayMs" env:"FLACDL_RETRY_MAX_DELAY_MS"`
	FallbackTimeoutSeconds int     `json:"FallbackTimeoutSeconds" env:"FLACDL_FALLBACK_TIMEOUT"`
	RequestsPerSecond      float64 `json:"RequestsPerSecond" env:"FLACDL_REQUESTS_PER_SECOND"`
	EnableMetadata         bool    `json:"EnableMetadata" env:"FLACDL_ENABLE_METADATA"`
	EnableZipPackage       bool    `json:"EnableZipPackage" env:"FLACDL_ENABLE_ZIP"`
	VerifyFLAC             bool    `json:"VerifyFLAC" env:"FLACDL_VERIFY_FLAC"`
	WarningBehavior        string  `json:"WarningBehavior" env:"FLACDL_WARNING_BEHAVIOR"`
	FilenameFormat         string  `json:"FilenameFormat" env:"FLACDL_FILENAME_FORMAT"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		DownloadLocation:       filepath.Join(home, "Music"),
		UserAgent:              DefaultUserAgent,
		Referer:                DefaultReferer,
		MaxRetryAttempts:       DefaultMaxRetries,
		RetryInitialDelayMs:    500,
		RetryMaxDelayMs:        10000,
		FallbackTimeoutSeconds: DefaultFallbackTimeout,
		EnableMetadata:         true,
		VerifyFLAC:             true,
		WarningBehavior:        WarningSummary,
		FilenameFormat:         FilenameSongArtist,
	}
}

// RetryInitialDelay returns the first backoff step.
func (cfg *Config) RetryInitialDelay() time.Duration {
	return time.Duration(cfg.RetryInitialDelayMs) * time.Millisecond
}

// RetryMaxDelay returns the backoff cap.
func (cfg *Config) RetryMaxDelay() time.Duration {
	return time.Duration(cfg.RetryMaxDelayMs) * time.Millisecond
}

// FallbackTimeout returns the single-stream download timeout.
func (cfg *Config) FallbackTimeout() time.Duration {
	return time.Duration(cfg.FallbackTimeoutSeconds) * time.Second
}

// Validate checks the fields that would make a run impossible.
func (cfg *Config) Validate() error {
	if cfg.DownloadLocation == "" {
		return fmt.Errorf("download location is required")
	}
	if cfg.MaxRetryAttempts < 0 {
		return fmt.Errorf("MaxRetryAttempts must not be negative, got %d", cfg.MaxRetryAttempts)
	}
	if cfg.FallbackTimeoutSeconds <= 0 {
		return fmt.Errorf("FallbackTimeoutSeconds must be positive, got %d", cfg.FallbackTimeoutSeconds)
	}
	if cfg.RequestsPerSecond < 0 {
		return fmt.Errorf("RequestsPerSecond must not be negative, got %v", cfg.RequestsPerSecond)
	}
	switch cfg.WarningBehavior {
	case WarningImmediate, WarningSummary, WarningSilent:
	default:
		return fmt.Errorf("unknown WarningBehavior %q", cfg.WarningBehavior)
	}
	switch cfg.FilenameFormat {
	case FilenameSongArtist, FilenameArtistSong:
	default:
		return fmt.Errorf("unknown FilenameFormat %q", cfg.FilenameFormat)
	}
	return nil
}

// CreateDirIfNotExists creates a directory if it does not exist
func CreateDirIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// LoadConfig loads configuration from a JSON file and applies environment
// overrides. A missing file is not an error: defaults and environment apply.
func LoadConfig(filePath string, cfg *Config) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}
		return nil
	}
	if err := cleanenv.ReadConfig(filePath, cfg); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// SaveConfig saves configuration to a JSON file
func SaveConfig(filePath string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := CreateDirIfNotExists(filepath.Dir(filePath)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
