package services

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"flacdl/internal/config"
	"flacdl/internal/shared"
)

func TestNewServiceContainer(t *testing.T) {
	cfg := config.Default()
	cfg.DownloadLocation = t.TempDir()

	container := NewServiceContainer(cfg, &http.Client{})

	if container.Config == nil {
		t.Error("Config service should not be nil")
	}
	if container.Fetcher == nil {
		t.Error("Fetcher should not be nil")
	}
	if container.DownloadService == nil {
		t.Error("DownloadService should not be nil")
	}
	if container.FileSystem == nil {
		t.Error("FileSystem service should not be nil")
	}
	if container.Logger == nil {
		t.Error("Logger service should not be nil")
	}
	if container.WarningCollector == nil {
		t.Error("WarningCollector service should not be nil")
	}
	if container.Metadata == nil {
		t.Error("Metadata service should not be nil")
	}
}

func TestServiceContainerDownloadServiceWiring(t *testing.T) {
	cfg := config.Default()
	cfg.DownloadLocation = t.TempDir()
	container := NewServiceContainer(cfg, &http.Client{})

	svc, ok := container.DownloadService.(*DownloadService)
	if !ok {
		t.Fatalf("DownloadService is %T, want *DownloadService", container.DownloadService)
	}
	container.DownloadService.SetProgressFactory(nil)
	if svc.newProgress != nil {
		t.Error("nil factory should disable progress reporting")
	}
}

func TestConfigServiceRoundTrip(t *testing.T) {
	cs := NewConfigService()
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	if err := cs.EnsureConfigExists(path); err != nil {
		t.Fatalf("EnsureConfigExists failed: %v", err)
	}
	cfg, err := cs.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if err := cs.ValidateConfig(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	cfg.MaxRetryAttempts = 2
	cfg.FilenameFormat = config.FilenameArtistSong
	cfg.EnableMetadata = false
	if err := cs.SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}
	loaded, err := cs.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.MaxRetryAttempts != 2 || loaded.FilenameFormat != config.FilenameArtistSong || loaded.EnableMetadata {
		t.Errorf("loaded config = %+v", loaded)
	}
}

func TestConfigServiceRejectsUnknownFilenameFormat(t *testing.T) {
	cs := NewConfigService()
	cfg := cs.GetDefaultConfig()
	cfg.FilenameFormat = "album-song"
	if err := cs.ValidateConfig(cfg); err == nil {
		t.Error("expected validation error for unknown filename format")
	}
}

func TestFormatFilename(t *testing.T) {
	tests := []struct {
		song, artist, format string
		want                 string
	}{
		{"Song", "Artist", config.FilenameSongArtist, "Song - Artist"},
		{"Song", "Artist", config.FilenameArtistSong, "Artist - Song"},
		{"Song", "", config.FilenameSongArtist, "Song - Unknown Artist"},
		{"Song", "  ", config.FilenameArtistSong, "Unknown Artist - Song"},
		{"Song", "Artist", "", "Song - Artist"},
	}
	for _, tt := range tests {
		if got := FormatFilename(tt.song, tt.artist, tt.format); got != tt.want {
			t.Errorf("FormatFilename(%q, %q, %q) = %q, want %q", tt.song, tt.artist, tt.format, got, tt.want)
		}
	}
}

func TestNormalizeExt(t *testing.T) {
	tests := map[string]string{
		"":      "mp3",
		"flac":  "flac",
		".FLAC": "flac",
		"mp4":   "m4a",
		"m4a":   "m4a",
		" mp3 ": "mp3",
	}
	for in, want := range tests {
		if got := NormalizeExt(in); got != want {
			t.Errorf("NormalizeExt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetDownloadPath(t *testing.T) {
	cfg := config.Default()
	cfg.DownloadLocation = "/music"
	fs := NewFileSystemService(cfg)
	track := shared.Track{Name: "AC/DC: Live?", Artist: "Band", Ext: "flac"}

	if got, want := fs.GetDownloadPath("", track), filepath.Join("/music", "AC_DC_ Live_ - Band.flac"); got != want {
		t.Errorf("GetDownloadPath = %q, want %q", got, want)
	}
	if got, want := fs.GetDownloadPath("/out", track), filepath.Join("/out", "AC_DC_ Live_ - Band.flac"); got != want {
		t.Errorf("GetDownloadPath = %q, want %q", got, want)
	}

	cfg.EnableZipPackage = true
	if got, want := fs.GetDownloadPath("/out", track), filepath.Join("/out", "AC_DC_ Live_ - Band.zip"); got != want {
		t.Errorf("GetDownloadPath = %q, want %q", got, want)
	}
}

func TestFileSystemService(t *testing.T) {
	fs := NewFileSystemService(config.Default())
	dir := t.TempDir()

	if err := fs.ValidateDownloadLocation(filepath.Join(dir, "a", "b")); err != nil {
		t.Fatalf("ValidateDownloadLocation failed: %v", err)
	}
	path := filepath.Join(dir, "c", "track.flac")
	if fs.FileExists(path) {
		t.Fatal("file should not exist yet")
	}
	if err := fs.WriteFile(path, []byte("data")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if !fs.FileExists(path) {
		t.Error("file should exist after WriteFile")
	}
	size, err := fs.GetFileSize(path)
	if err != nil || size != 4 {
		t.Errorf("GetFileSize = %d, %v", size, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a", "b", ".write_test")); !os.IsNotExist(err) {
		t.Error("write probe should be removed")
	}
}

func TestConsoleLoggerDebugMode(t *testing.T) {
	logger := NewConsoleLogger()
	if logger.IsDebugMode() {
		t.Error("debug mode should be off by default")
	}
	logger.SetDebugMode(true)
	if !logger.IsDebugMode() {
		t.Error("debug mode should be on after SetDebugMode(true)")
	}
}
