package interfaces

import (
	"context"

	"flacdl/internal/config"
	"flacdl/internal/core/downloader"
	"flacdl/internal/core/flacmeta"
	"flacdl/internal/shared"
)

// ConfigService defines the interface for configuration management
type ConfigService interface {
	// LoadConfig loads configuration from file and environment
	LoadConfig(configFile string) (*config.Config, error)

	// SaveConfig saves configuration to file
	SaveConfig(configFile string, cfg *config.Config) error

	// ValidateConfig validates the configuration
	ValidateConfig(cfg *config.Config) error

	// GetDefaultConfig returns a configuration with default values
	GetDefaultConfig() *config.Config
}

// Fetcher retrieves a remote resource into memory.
type Fetcher interface {
	Download(ctx context.Context, url string, onProgress downloader.ProgressFunc, onSpeed downloader.SpeedFunc) (*downloader.Result, error)
}

// TagWriter embeds metadata into an in-memory audio file.
type TagWriter interface {
	// Supports reports whether the writer understands the file extension.
	Supports(ext string) bool

	// WriteTags returns a copy of data carrying the given tags.
	WriteTags(data []byte, tags flacmeta.Tags) ([]byte, error)
}

// ProgressReporter renders the transfer of one track.
type ProgressReporter interface {
	Progress(percent int)
	Speed(speed, remaining string)
	Finish()
}

// ProgressFactory creates a reporter for the named track.
type ProgressFactory func(label string) ProgressReporter

// DownloadService defines the interface for the download-and-tag workflow
type DownloadService interface {
	// SetProgressFactory installs per-track progress reporting; nil disables it
	SetProgressFactory(factory ProgressFactory)

	// DownloadTrack downloads, tags and saves a single track, returning the saved path
	DownloadTrack(ctx context.Context, track shared.Track, outDir string) (string, error)

	// DownloadTracks downloads several tracks one after another
	DownloadTracks(ctx context.Context, tracks []shared.Track, outDir string) (*shared.DownloadStats, error)
}

// LoggerService defines the interface for logging operations
type LoggerService interface {
	// Info logs an informational message
	Info(message string, args ...interface{})

	// Warning logs a warning message
	Warning(message string, args ...interface{})

	// Error logs an error message
	Error(message string, args ...interface{})

	// Debug logs a debug message
	Debug(message string, args ...interface{})

	// Success logs a success message
	Success(message string, args ...interface{})

	// SetDebugMode enables or disables debug logging
	SetDebugMode(enabled bool)
}

// WarningCollectorService defines the interface for warning collection
type WarningCollectorService interface {
	// AddCoverFetchWarning records a cover image that could not be downloaded
	AddCoverFetchWarning(track, details string)

	// AddCoverEmbedWarning records a cover image that could not be embedded
	AddCoverEmbedWarning(track, details string)

	// AddTaggingWarning records a file saved without tags
	AddTaggingWarning(track, details string)

	// AddVerifyWarning records a FLAC that failed the cross-check
	AddVerifyWarning(track, details string)

	// AddTrackSkippedWarning records a track that already existed
	AddTrackSkippedWarning(trackPath string)

	// HasWarnings returns true if there are any warnings
	HasWarnings() bool

	// GetWarningCount returns the total number of warnings
	GetWarningCount() int

	// PrintSummary prints a formatted summary of all warnings
	PrintSummary()
}

// FileSystemService defines the interface for file system operations
type FileSystemService interface {
	// EnsureDirectoryExists creates a directory if it doesn't exist
	EnsureDirectoryExists(path string) error

	// GetDownloadPath returns where a track will be saved
	GetDownloadPath(outDir string, track shared.Track) string

	// FileExists checks if a file exists
	FileExists(path string) bool

	// ValidateDownloadLocation checks the directory exists and is writable
	ValidateDownloadLocation(path string) error

	// SanitizeFileName removes characters that are invalid in file names
	SanitizeFileName(filename string) string

	// WriteFile writes data, creating parent directories as needed
	WriteFile(path string, data []byte) error
}

// MetadataService reads and rewrites tags of audio files on disk.
type MetadataService interface {
	// ReadFile decodes the FLAC metadata of a file
	ReadFile(path string) (*flacmeta.Metadata, error)

	// TagFile rewrites the tags of a FLAC file in place
	TagFile(path string, tags flacmeta.Tags) error

	// CrossCheck reads the file with an independent tag reader
	CrossCheck(path string) (map[string]string, error)
}
