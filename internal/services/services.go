package services

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"flacdl/internal/config"
	"flacdl/internal/core/downloader"
	"flacdl/internal/interfaces"
	"flacdl/internal/shared"
)

// ServiceContainer holds all application services
type ServiceContainer struct {
	Config           interfaces.ConfigService
	Fetcher          interfaces.Fetcher
	DownloadService  interfaces.DownloadService
	FileSystem       interfaces.FileSystemService
	Logger           interfaces.LoggerService
	WarningCollector interfaces.WarningCollectorService
	Metadata         interfaces.MetadataService
}

var _ interfaces.DownloadService = (*DownloadService)(nil)

// NewServiceContainer creates a new service container with all services initialized
func NewServiceContainer(cfg *config.Config, httpClient *http.Client) *ServiceContainer {
	// Create logger first as other services may need it
	logger := NewConsoleLogger()
	logger.SetDebugMode(shared.IsDebugMode())

	warningCollector := shared.NewWarningCollector(cfg.WarningBehavior != config.WarningSilent)
	fileSystem := NewFileSystemService(cfg)
	fetcher := NewFetcher(cfg, httpClient, logger)

	taggers := []interfaces.TagWriter{
		NewFLACTagger(cfg.VerifyFLAC),
		NewID3Tagger(),
	}
	downloadService := NewDownloadService(cfg, fetcher, taggers, fileSystem, logger, warningCollector)

	return &ServiceContainer{
		Config:           NewConfigService(),
		Fetcher:          fetcher,
		DownloadService:  downloadService,
		FileSystem:       fileSystem,
		Logger:           logger,
		WarningCollector: warningCollector,
		Metadata:         NewMetadataService(cfg.VerifyFLAC),
	}
}

// NewFetcher builds the chunked downloader from configuration.
func NewFetcher(cfg *config.Config, httpClient *http.Client, logger interfaces.LoggerService) *downloader.Downloader {
	return downloader.New(downloader.Options{
		HTTPClient: httpClient,
		UserAgent:  cfg.UserAgent,
		Referer:    cfg.Referer,
		Cookie:     cfg.Cookie,
		Retry: downloader.RetryPolicy{
			MaxAttempts:  cfg.MaxRetryAttempts,
			InitialDelay: cfg.RetryInitialDelay(),
			MaxDelay:     cfg.RetryMaxDelay(),
		},
		FallbackTimeout:   cfg.FallbackTimeout(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            logger,
	})
}

// ConfigService implementation
type ConfigService struct{}

func NewConfigService() *ConfigService {
	return &ConfigService{}
}

func (cs *ConfigService) LoadConfig(configFile string) (*config.Config, error) {
	cfg := config.Default()
	if err := config.LoadConfig(configFile, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cs *ConfigService) SaveConfig(configFile string, cfg *config.Config) error {
	return config.SaveConfig(configFile, cfg)
}

func (cs *ConfigService) ValidateConfig(cfg *config.Config) error {
	return cfg.Validate()
}

func (cs *ConfigService) GetDefaultConfig() *config.Config {
	return config.Default()
}

// EnsureConfigExists writes the default configuration if configFile is missing.
func (cs *ConfigService) EnsureConfigExists(configFile string) error {
	if !shared.FileExists(configFile) {
		return cs.SaveConfig(configFile, cs.GetDefaultConfig())
	}
	return nil
}

// FileSystemService implementation
type FileSystemService struct {
	config *config.Config
}

func NewFileSystemService(cfg *config.Config) *FileSystemService {
	return &FileSystemService{config: cfg}
}

func (fss *FileSystemService) EnsureDirectoryExists(path string) error {
	return config.CreateDirIfNotExists(path)
}

// BaseName returns the sanitized file name for a track, without extension.
func (fss *FileSystemService) BaseName(track shared.Track) string {
	return fss.SanitizeFileName(FormatFilename(track.Name, track.Artist, fss.config.FilenameFormat))
}

// GetDownloadPath returns where a track will be written. Packaged tracks are
// saved as a .zip next to where the audio file would go.
func (fss *FileSystemService) GetDownloadPath(outDir string, track shared.Track) string {
	if outDir == "" {
		outDir = fss.config.DownloadLocation
	}
	ext := NormalizeExt(track.Ext)
	if fss.config.EnableZipPackage {
		ext = "zip"
	}
	return filepath.Join(outDir, fss.BaseName(track)+"."+ext)
}

func (fss *FileSystemService) FileExists(path string) bool {
	return shared.FileExists(path)
}

func (fss *FileSystemService) GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (fss *FileSystemService) ValidateDownloadLocation(path string) error {
	// Check if directory exists, create if it doesn't
	if err := fss.EnsureDirectoryExists(path); err != nil {
		return fmt.Errorf("cannot create download directory: %w", err)
	}

	// Test write permissions
	testFile := filepath.Join(path, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return fmt.Errorf("download directory is not writable: %w", err)
	}
	os.Remove(testFile)
	return nil
}

func (fss *FileSystemService) SanitizeFileName(filename string) string {
	return shared.SanitizeFileName(filename)
}

// WriteFile writes data to path, creating parent directories first.
func (fss *FileSystemService) WriteFile(path string, data []byte) error {
	if err := fss.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// FormatFilename joins song and artist in the configured order.
func FormatFilename(song, artist, format string) string {
	if strings.TrimSpace(artist) == "" {
		artist = "Unknown Artist"
	}
	if format == config.FilenameArtistSong {
		return artist + " - " + song
	}
	return song + " - " + artist
}

// NormalizeExt lower-cases the extension reported by the API, maps mp4
// audio to m4a and defaults to mp3.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	switch ext {
	case "":
		return "mp3"
	case "mp4":
		return "m4a"
	}
	return ext
}

// ConsoleLogger implementation
type ConsoleLogger struct {
	debugMode bool
}

func NewConsoleLogger() *ConsoleLogger {
	return &ConsoleLogger{debugMode: false}
}

func (cl *ConsoleLogger) Info(message string, args ...interface{}) {
	shared.ColorInfo.Printf(message+"\n", args...)
}

func (cl *ConsoleLogger) Warning(message string, args ...interface{}) {
	shared.ColorWarning.Printf("⚠️ "+message+"\n", args...)
}

func (cl *ConsoleLogger) Error(message string, args ...interface{}) {
	shared.ColorError.Printf("❌ "+message+"\n", args...)
}

func (cl *ConsoleLogger) Debug(message string, args ...interface{}) {
	if !cl.debugMode {
		return
	}
	shared.ColorDebug.Printf("🐛 DEBUG: "+message+"\n", args...)
}

func (cl *ConsoleLogger) Success(message string, args ...interface{}) {
	shared.ColorSuccess.Printf("✅ "+message+"\n", args...)
}

func (cl *ConsoleLogger) SetDebugMode(enabled bool) {
	cl.debugMode = enabled
}

func (cl *ConsoleLogger) IsDebugMode() bool {
	return cl.debugMode
}
